package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Text is a brief scalar decoded leniently: JSON strings, numbers and booleans
// all become their display form, null becomes the empty string.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}

	// Objects and arrays are kept as compact JSON rather than rejected.
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*t = Text(buf.String())
	return nil
}

// String returns the raw value.
func (t Text) String() string {
	return string(t)
}

// Present reports whether the value should be displayed: it is non-blank and
// not the literal "none" in any casing.
func (t Text) Present() bool {
	s := strings.TrimSpace(string(t))
	return s != "" && !strings.EqualFold(s, "none")
}

// TextList is a list of brief scalars. A bare scalar is accepted as a
// one-element list.
type TextList []Text

func (l *TextList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if data[0] != '[' {
		var single Text
		if err := single.UnmarshalJSON(data); err != nil {
			return err
		}
		*l = TextList{single}
		return nil
	}

	var items []Text
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// Present returns the displayable items in order.
func (l TextList) Present() []string {
	var out []string
	for _, item := range l {
		if item.Present() {
			out = append(out, strings.TrimSpace(item.String()))
		}
	}
	return out
}
