// Package profile defines the portfolio profile document: two open sections,
// personal and professional, persisted together as one JSON object.
package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Sentinel errors for document decoding.
var (
	ErrMalformed      = errors.New("malformed profile document")
	ErrMissingSection = errors.New("missing profile section")

	errTrailingData = errors.New("unexpected data after JSON value")
)

// SectionName identifies one of the two top-level sections.
type SectionName string

// Known sections. A document always carries both.
const (
	Personal     SectionName = "personal"
	Professional SectionName = "professional"
)

// Well-known keys. None of them is required.
const (
	KeyName         = "name"
	KeyTitle        = "title"
	KeySocialLinks  = "socialLinks"
	KeyAvailability = "availability"
	KeySkills       = "skills"
	KeyExperience   = "experience"
	KeyProjects     = "projects"
	KeyExpertise    = "expertise"
)

// Section is an open mapping of keys to arbitrary JSON values.
// Numbers are held as json.Number so they round-trip unchanged.
type Section map[string]any

// Document is the whole persisted profile.
type Document struct {
	Personal     Section `json:"personal"`
	Professional Section `json:"professional"`
}

// Section returns the named section, or nil for an unknown name.
func (d *Document) Section(name SectionName) Section {
	switch name {
	case Personal:
		return d.Personal
	case Professional:
		return d.Professional
	}
	return nil
}

// SetSection replaces the named section.
func (d *Document) SetSection(name SectionName, s Section) {
	if s == nil {
		s = Section{}
	}
	switch name {
	case Personal:
		d.Personal = s
	case Professional:
		d.Professional = s
	}
}

// Merge shallow-merges patch into the named section in place and returns the
// merged section. Patch keys replace same-named keys; other keys are kept.
// Nested objects are replaced whole, not merged.
func (d *Document) Merge(name SectionName, patch Section) Section {
	merged := d.Section(name).Merge(patch)
	d.SetSection(name, merged)
	return merged
}

// Merge returns a new section holding the keys of s overridden by patch.
func (s Section) Merge(patch Section) Section {
	out := make(Section, len(s)+len(patch))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Lookup returns the value at key and whether the key is present.
// A present key with a JSON null value reports true.
func (s Section) Lookup(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	if s == nil {
		return nil
	}
	out := make(Section, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{
		Personal:     d.Personal.Clone(),
		Professional: d.Professional.Clone(),
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case Section:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Decode parses a document from r. Both sections must be present and be JSON
// objects; anything else under them is accepted as-is. Top-level keys other
// than the two sections are dropped.
func Decode(r io.Reader) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := decodeValue(r, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: document is not an object", ErrMalformed)
	}
	doc := &Document{}
	for _, name := range []SectionName{Personal, Professional} {
		body, ok := raw[string(name)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingSection, name)
		}
		if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
			return nil, fmt.Errorf("%w: %s is null", ErrMalformed, name)
		}
		s, err := DecodeSection(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", name, err)
		}
		doc.SetSection(name, s)
	}
	return doc, nil
}

// DecodeSection parses a single JSON object. An empty input or a JSON null
// yields an empty section; any other non-object is ErrMalformed.
func DecodeSection(r io.Reader) (Section, error) {
	var s Section
	if err := decodeValue(r, &s); err != nil {
		if errors.Is(err, io.EOF) {
			return Section{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if s == nil {
		s = Section{}
	}
	return s, nil
}

// Encode writes the document as indented JSON with a trailing newline.
// HTML characters are written literally.
func Encode(w io.Writer, d *Document, indent string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	return enc.Encode(d)
}

// decodeValue decodes exactly one JSON value from r. Anything but whitespace
// after it is an error.
func decodeValue(r io.Reader, v any) error {
	dec := newDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	var rest json.RawMessage
	if err := dec.Decode(&rest); !errors.Is(err, io.EOF) {
		if err == nil {
			return errTrailingData
		}
		return fmt.Errorf("%w: %w", errTrailingData, err)
	}
	return nil
}

func newDecoder(r io.Reader) *json.Decoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec
}
