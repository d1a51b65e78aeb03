package handler

import (
	"time"

	"golang.org/x/text/language"

	"shareholder/internal/holdings/models"
	"shareholder/pkg/platform/locale"
)

// HoldingResponse is one holding as shown to the holder.
type HoldingResponse struct {
	AccountID              string  `json:"account_id"`
	ReferenceID            string  `json:"reference_id,omitempty"`
	FullName               string  `json:"full_name"`
	FirstName              string  `json:"first_name,omitempty"`
	LastName               string  `json:"last_name,omitempty"`
	ShareQuantity          float64 `json:"share_quantity"`
	FormattedShareQuantity string  `json:"formatted_share_quantity"`
	// Series is the import file the record came from, or a not-available
	// marker.
	Series string `json:"series"`
}

type SearchResponse struct {
	Holdings   []HoldingResponse `json:"holdings"`
	TotalFound int               `json:"total_found"`
	Message    string            `json:"message"`
	Source     string            `json:"source"`
	FetchedAt  time.Time         `json:"fetched_at"`
	Stale      bool              `json:"stale,omitempty"`
}

type ListResponse struct {
	Holdings      []HoldingResponse `json:"holdings"`
	Returned      int               `json:"returned"`
	TotalInSource int               `json:"total_in_source"`
	Message       string            `json:"message"`
	Source        string            `json:"source"`
	FetchedAt     time.Time         `json:"fetched_at"`
	Stale         bool              `json:"stale,omitempty"`
}

type StatusResponse struct {
	Online    bool      `json:"online"`
	Source    string    `json:"source"`
	Breaker   string    `json:"breaker"`
	CheckedAt time.Time `json:"checked_at"`
	Message   string    `json:"message,omitempty"`
}

func toHoldingResponses(l *locale.Localizer, tag language.Tag, records []models.CanonicalRecord) []HoldingResponse {
	out := make([]HoldingResponse, 0, len(records))
	for _, rec := range records {
		series := rec.ImportFileName
		if series == "" {
			series = l.Text(tag, locale.MsgNotAvailable)
		}
		out = append(out, HoldingResponse{
			AccountID:              rec.AccountID,
			ReferenceID:            rec.ReferenceID,
			FullName:               rec.FullName,
			FirstName:              rec.FirstName,
			LastName:               rec.LastName,
			ShareQuantity:          rec.ShareQuantity,
			FormattedShareQuantity: l.FormatNumber(tag, rec.ShareQuantity),
			Series:                 series,
		})
	}
	return out
}
