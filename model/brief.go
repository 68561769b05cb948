package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Brief is the structured summary of one opinion.
type Brief struct {
	CaseMetadata      CaseMetadata      `json:"case_metadata"`
	Parties           Parties           `json:"parties"`
	Keywords          TextList          `json:"keywords"`
	IssuesAnalysis    []Issue           `json:"issues_analysis"`
	CourtDecision     CourtDecision     `json:"court_decision"`
	CaseTimeline      []TimelineEvent   `json:"case_timeline"`
	ProceduralHistory []ProceduralEvent `json:"procedural_history"`
	Background        Background        `json:"background"`
	Citations         Citations         `json:"citations"`

	// Skipped names the sections or list entries that had the wrong shape
	// and were left empty.
	Skipped []string `json:"-"`
}

type CaseMetadata struct {
	CivilNumber  Text `json:"civil_number"`
	Court        Text `json:"court"`
	DateFiled    Text `json:"date_filed"`
	DecisionDate Text `json:"decision_date"`
	Judge        Text `json:"judge"`
	Disposition  Text `json:"disposition"`
}

type Parties struct {
	Plaintiffs TextList `json:"plaintiffs"`
	Defendants TextList `json:"defendants"`
}

type Issue struct {
	IssueNumber Text `json:"issue_number"`
	Question    Text `json:"question"`
	Holding     Text `json:"holding"`
	Ratio       Text `json:"ratio"`
}

type CourtDecision struct {
	Holding   Text     `json:"holding"`
	Outcome   Text     `json:"outcome"`
	Reasoning TextList `json:"reasoning"`
}

type TimelineEvent struct {
	Date  Text `json:"date"`
	Event Text `json:"event"`
}

type ProceduralEvent struct {
	Date  Text `json:"date"`
	Court Text `json:"court"`
	Event Text `json:"event"`
}

type Background struct {
	Summary  Text     `json:"summary"`
	KeyFacts TextList `json:"key_facts"`
}

// CitationGroup is one citation category with its entries.
type CitationGroup struct {
	Category string
	Items    TextList
}

// Citations keeps categories in the order they appear in the brief.
type Citations []CitationGroup

func (c *Citations) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("citations: expected object, got %v", tok)
	}

	var groups Citations
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var items TextList
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("citations %q: %w", key, err)
		}
		groups = append(groups, CitationGroup{Category: key, Items: items})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = groups
	return nil
}

func (c Citations) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Category)
		if err != nil {
			return nil, err
		}
		items := g.Items
		if items == nil {
			items = TextList{}
		}
		value, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseBrief decodes the JSON cell of a dataset row. Only a cell that is not
// a JSON object is an error. Each section is decoded on its own: null or
// "none" leaves it absent, and a section of the wrong shape is left empty and
// recorded in Skipped.
func ParseBrief(raw string) (*Brief, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &sections); err != nil {
		return nil, fmt.Errorf("brief is not a JSON object: %w", err)
	}

	b := &Brief{}
	decoders := []struct {
		key    string
		decode func(json.RawMessage) error
	}{
		{"case_metadata", sectionInto(&b.CaseMetadata)},
		{"parties", sectionInto(&b.Parties)},
		{"keywords", sectionInto(&b.Keywords)},
		{"issues_analysis", listInto(&b.IssuesAnalysis, "issues_analysis", &b.Skipped)},
		{"court_decision", sectionInto(&b.CourtDecision)},
		{"case_timeline", listInto(&b.CaseTimeline, "case_timeline", &b.Skipped)},
		{"procedural_history", listInto(&b.ProceduralHistory, "procedural_history", &b.Skipped)},
		{"background", sectionInto(&b.Background)},
		{"citations", sectionInto(&b.Citations)},
	}
	for _, d := range decoders {
		data, ok := sections[d.key]
		if !ok || absentSection(data) {
			continue
		}
		if err := d.decode(data); err != nil {
			b.Skipped = append(b.Skipped, d.key)
		}
	}
	return b, nil
}

// absentSection reports whether a section is null, blank or "none".
func absentSection(data json.RawMessage) bool {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return true
	}
	if data[0] != '"' {
		return false
	}
	var t Text
	return json.Unmarshal(data, &t) == nil && !t.Present()
}

// sectionInto decodes into dst only when the whole section decodes, so a
// failed section stays at its zero value.
func sectionInto[T any](dst *T) func(json.RawMessage) error {
	return func(data json.RawMessage) error {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// listInto decodes a list section entry by entry. A single object is taken as
// a one-entry list; entries of the wrong shape are dropped and recorded.
func listInto[T any](dst *[]T, key string, skipped *[]string) func(json.RawMessage) error {
	return func(data json.RawMessage) error {
		data = bytes.TrimSpace(data)
		var entries []json.RawMessage
		if data[0] == '{' {
			entries = []json.RawMessage{data}
		} else if err := json.Unmarshal(data, &entries); err != nil {
			return err
		}

		out := make([]T, 0, len(entries))
		for i, entry := range entries {
			if absentSection(entry) {
				continue
			}
			var v T
			if err := json.Unmarshal(entry, &v); err != nil {
				*skipped = append(*skipped, fmt.Sprintf("%s[%d]", key, i))
				continue
			}
			out = append(out, v)
		}
		*dst = out
		return nil
	}
}
