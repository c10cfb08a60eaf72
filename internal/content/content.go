// Package content implements the typed payload of a section and its string
// encoding at the storage boundary.
//
// A section payload is one of Text, List or Cards. Stored content that cannot
// be decoded for its declared type is surfaced as Raw so reads never fail.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/models"
)

var ErrInvalidContent = errors.New("invalid section content")

// Value is a decoded section payload.
type Value interface {
	Type() models.SectionType
	isValue()
}

type Text string

type List []string

// Card is one entry of a cards section (title, subtitle, link... as the
// editor defines them).
type Card map[string]any

type Cards []Card

// Raw is stored content that did not decode for its declared type.
type Raw struct {
	Declared models.SectionType
	Data     string
}

func (Text) Type() models.SectionType  { return models.SectionText }
func (List) Type() models.SectionType  { return models.SectionList }
func (Cards) Type() models.SectionType { return models.SectionCards }
func (r Raw) Type() models.SectionType { return r.Declared }

func (Text) isValue()  {}
func (List) isValue()  {}
func (Cards) isValue() {}
func (Raw) isValue()   {}

func (l List) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (c Cards) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Card(c))
}

func (r Raw) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Data)
}

// Empty returns the zero payload for a section type.
func Empty(t models.SectionType) Value {
	switch t {
	case models.SectionList:
		return List{}
	case models.SectionCards:
		return Cards{}
	default:
		return Text("")
	}
}

// Encode turns a payload into its stored string form.
func Encode(v Value) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case Text:
		return string(val), nil
	case Raw:
		return val.Data, nil
	case List, Cards:
		b, err := json.Marshal(val)
		if err != nil {
			return "", fmt.Errorf("encode %s content: %w", val.Type(), err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("%w: unsupported payload %T", ErrInvalidContent, v)
	}
}

// Decode reads a stored string back into a payload. It never fails: content
// that does not parse for list or cards comes back as Raw.
func Decode(t models.SectionType, stored string) Value {
	switch t {
	case models.SectionText:
		return Text(stored)
	case models.SectionList:
		var l List
		if err := json.Unmarshal([]byte(stored), &l); err != nil {
			return Raw{Declared: t, Data: stored}
		}
		return l
	case models.SectionCards:
		var c Cards
		if err := json.Unmarshal([]byte(stored), &c); err != nil {
			return Raw{Declared: t, Data: stored}
		}
		return c
	default:
		return Raw{Declared: t, Data: stored}
	}
}

// Parse reads the content field of an API patch. A JSON string is taken as
// already encoded and kept verbatim; structured values must match the type.
func Parse(t models.SectionType, raw json.RawMessage) (Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Empty(t), nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		return Decode(t, s), nil
	}

	switch t {
	case models.SectionList:
		var l List
		if err := json.Unmarshal(trimmed, &l); err != nil {
			return nil, fmt.Errorf("%w: list content must be an array of strings", ErrInvalidContent)
		}
		return l, nil
	case models.SectionCards:
		var c Cards
		if err := json.Unmarshal(trimmed, &c); err != nil {
			return nil, fmt.Errorf("%w: cards content must be an array of objects", ErrInvalidContent)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: text content must be a string", ErrInvalidContent)
	}
}
