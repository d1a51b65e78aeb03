package models

import "strings"

// SearchRequest is the body of POST /holdings/search.
type SearchRequest struct {
	NationalID string `json:"national_id"`
}

// Validate trims the national ID. Blank and malformed IDs are rejected by the
// handler's national ID parser so both search routes answer with the same
// localized error.
func (r *SearchRequest) Validate() error {
	r.NationalID = strings.TrimSpace(r.NationalID)
	return nil
}
