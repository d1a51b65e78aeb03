package main

// records mixes the old register layout (i_ref, Account_ID, q_share, n_first,
// n_last) with the newer camelCase layout, as the live register does.
var records = []map[string]any{
	{
		"i_ref":          "1101001535259",
		"Account_ID":     "0012345",
		"q_share":        1500,
		"n_first":        "สมชาย",
		"n_last":         "ใจดี",
		"ImportFileName": "DEB-2026-A",
	},
	{
		"referenceId":    "1101001535259",
		"accountId":      "0098765",
		"shareQuantity":  "2500.50",
		"fullName":       "สมชาย ใจดี",
		"importFileName": "DEB-2027-B",
	},
	{
		"accountId":     "T-1101001535259-01",
		"shareQuantity": 320,
		"firstName":     "Somchai",
		"lastName":      "Jaidee",
	},
	{
		"i_ref":      "5700100283912",
		"Account_ID": "0055555",
		"q_share":    10000,
		"n_first":    "สุดา",
		"n_last":     "มีสุข",
	},
	{
		"referenceId":   "3609900311204",
		"accountId":     "0077777",
		"shareQuantity": 0,
	},
	{
		"i_ref":   "1234567890121",
		"q_share": "750",
	},
}
