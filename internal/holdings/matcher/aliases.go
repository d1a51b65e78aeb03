package matcher

// Field names under which each canonical value may appear upstream, in
// priority order. Newer register exports use camelCase, older ones the
// abbreviated column names.
var (
	AccountIDAliases      = []string{"accountId", "Account_ID"}
	ReferenceIDAliases    = []string{"referenceId", "i_ref"}
	ShareQuantityAliases  = []string{"shareQuantity", "q_share"}
	FullNameAliases       = []string{"fullName"}
	FirstNameAliases      = []string{"firstName", "n_first"}
	LastNameAliases       = []string{"lastName", "n_last"}
	ImportFileNameAliases = []string{"importFileName", "ImportFileName"}
)

// Raw field names checked directly against the original record, regardless
// of what canonicalization resolved.
const (
	RawReferenceField = "i_ref"
	RawAccountField   = "Account_ID"
)
