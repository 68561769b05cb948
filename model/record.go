package model

// OpinionRecord is one row of the dataset. Records are built once by the
// loader and never modified afterwards.
type OpinionRecord struct {
	Index        int    `json:"index"`
	OriginalText string `json:"original_text"`
	SourceURL    string `json:"source_url"`
	Brief        *Brief `json:"brief,omitempty"`
	BriefError   string `json:"brief_error,omitempty"`
}

// HasBrief reports whether the brief column decoded successfully.
func (r *OpinionRecord) HasBrief() bool {
	return r.Brief != nil
}

// Case is a record together with its display name.
type Case struct {
	Name string `json:"name"`
	OpinionRecord
}

// CaseSummary is the list view of a case
type CaseSummary struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	SourceURL   string `json:"source_url"`
	CivilNumber string `json:"civil_number,omitempty"`
	Court       string `json:"court,omitempty"`
	DateFiled   string `json:"date_filed,omitempty"`
}

// Summary builds the list view of c. Metadata values that are not displayable
// are left empty.
func (c *Case) Summary() CaseSummary {
	s := CaseSummary{
		Index:     c.Index,
		Name:      c.Name,
		SourceURL: c.SourceURL,
	}
	if c.Brief == nil {
		return s
	}
	meta := c.Brief.CaseMetadata
	if meta.CivilNumber.Present() {
		s.CivilNumber = meta.CivilNumber.String()
	}
	if meta.Court.Present() {
		s.Court = meta.Court.String()
	}
	if meta.DateFiled.Present() {
		s.DateFiled = meta.DateFiled.String()
	}
	return s
}
