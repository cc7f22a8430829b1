package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Manifest is an ordered mapping of category key to entries.
type Manifest struct {
	keys     []string
	sections map[string][]Entry
}

// Set stores entries for key, appending the key on first use.
func (m *Manifest) Set(key string, entries []Entry) {
	if m.sections == nil {
		m.sections = make(map[string][]Entry)
	}
	if _, ok := m.sections[key]; !ok {
		m.keys = append(m.keys, key)
	}
	if entries == nil {
		entries = []Entry{}
	}
	m.sections[key] = entries
}

// Keys returns category keys in document order.
func (m Manifest) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Entries returns the entries for key.
func (m Manifest) Entries(key string) ([]Entry, bool) {
	entries, ok := m.sections[key]
	return entries, ok
}

// Len returns the number of categories.
func (m Manifest) Len() int {
	return len(m.keys)
}

// MarshalJSON writes the categories as an object in document order.
func (m Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.sections[key])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping its key order.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("manifest: expected JSON object")
	}
	*m = Manifest{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("manifest: unexpected token %v", tok)
		}
		var entries []Entry
		if err := dec.Decode(&entries); err != nil {
			return fmt.Errorf("manifest: decode %s: %w", key, err)
		}
		m.Set(key, entries)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
