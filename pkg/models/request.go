package models

// SetFieldRequest is the payload for binding a single text field
type SetFieldRequest struct {
	Value string `json:"value"`
}

// SetBulkFieldRequest carries the raw comma-separated text of a bulk list
// field (technical_skills, certifications, languages). The text is split on
// every comma without trimming, matching the display convention that joins
// the list with ", ".
type SetBulkFieldRequest struct {
	Text string `json:"text"`
}

// UpdateEntryFieldRequest replaces one subfield of one list entry
type UpdateEntryFieldRequest struct {
	Subfield string `json:"subfield" validate:"required"`
	Value    string `json:"value"`
}
