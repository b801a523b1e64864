package utils

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// Tag is one "name=value" pair from a tag-list record (DMARC, DKIM).
type Tag struct {
	Name  string
	Value string
}

// SplitTagList splits a record of the form "k1=v1; k2=v2; ..." into tags in
// record order.
//
// Each segment is split on its first "="; both sides are trimmed. Segments
// without "=" or with an empty name are skipped, which tolerates trailing
// semicolons and stray whitespace. Values may contain "=", as base64 padding
// in DKIM keys does.
func SplitTagList(record string) []Tag {
	var tags []Tag
	for _, part := range strings.Split(record, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tags = append(tags, Tag{Name: name, Value: strings.TrimSpace(value)})
	}
	return tags
}

// Field is an optional tag value. The zero Field is absent.
//
// In JSON an absent Field is null and a present one is its string value.
type Field struct {
	Value   string
	Present bool
}

// Present returns a Field holding value.
func Present(value string) Field {
	return Field{Value: value, Present: true}
}

// MarshalJSON implements json.Marshaler.
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.Present {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Field{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = Present(s)
	return nil
}

// String returns the value, or "<absent>" for an absent field.
func (f Field) String() string {
	if !f.Present {
		return "<absent>"
	}
	return f.Value
}

// ContainsNonASCII checks if a string contains any non-ASCII characters (bytes > 127).
func ContainsNonASCII(s string) bool {
	for _, v := range s {
		if v >= utf8.RuneSelf {
			return true
		}
	}
	return false
}
