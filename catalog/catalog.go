// Package catalog owns the condition catalog: normalized disease names mapped to
// clinical records, prefix lookup, duplicate-safe inserts and write-through persistence.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/giygas/empirical-rx/catalog/entities"
)

// Catalog is an insertion-ordered mapping from normalized disease name to record.
// The zero value is not usable, use New or FromEntries.
type Catalog struct {
	keys    []string
	records map[string]entities.ClinicalRecord
}

// New returns an empty catalog
func New() *Catalog {
	return &Catalog{
		keys:    make([]string, 0),
		records: make(map[string]entities.ClinicalRecord),
	}
}

// FromEntries builds a catalog from entries in order. Names are normalized, records
// sanitized, and entries with a blank name or first-line are skipped. On duplicate
// names the first occurrence wins.
func FromEntries(entries ...entities.Entry) *Catalog {
	c := New()
	for _, e := range entries {
		c.add(Normalize(e.Name), sanitizeRecord(e.Record))
	}
	return c
}

// add appends a record under key; returns false when key is blank, the record has
// no first-line, or the key is already present
func (c *Catalog) add(key string, rec entities.ClinicalRecord) bool {
	if key == "" || rec.FirstLine == "" {
		return false
	}
	if _, exists := c.records[key]; exists {
		return false
	}
	c.keys = append(c.keys, key)
	c.records[key] = rec
	return true
}

// Len returns the number of conditions
func (c *Catalog) Len() int {
	return len(c.keys)
}

// Has reports whether the normalized form of name is present
func (c *Catalog) Has(name string) bool {
	_, ok := c.records[Normalize(name)]
	return ok
}

// Get returns a copy of the record stored under the normalized form of name
func (c *Catalog) Get(name string) (entities.ClinicalRecord, bool) {
	rec, ok := c.records[Normalize(name)]
	if !ok {
		return entities.ClinicalRecord{}, false
	}
	return rec.Clone(), true
}

// Keys returns the normalized names in insertion order
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Entries returns every (name, record) pair in insertion order
func (c *Catalog) Entries() []entities.Entry {
	return c.filter("")
}

// WithPrefix returns the entries whose key starts with the normalized query.
// A blank query matches every entry.
func (c *Catalog) WithPrefix(query string) []entities.Entry {
	return c.filter(Normalize(query))
}

func (c *Catalog) filter(prefix string) []entities.Entry {
	out := make([]entities.Entry, 0, len(c.keys))
	for _, key := range c.keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, entities.Entry{Name: key, Record: c.records[key].Clone()})
	}
	return out
}

// Clone returns a deep copy of the catalog
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{
		keys:    make([]string, len(c.keys), len(c.keys)+1),
		records: make(map[string]entities.ClinicalRecord, len(c.records)+1),
	}
	copy(out.keys, c.keys)
	for k, v := range c.records {
		out.records[k] = v.Clone()
	}
	return out
}

// MarshalJSON encodes the catalog as a JSON object keyed by disease name,
// writing keys in insertion order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", key, err)
		}
		recJSON, err := json.Marshal(c.records[key])
		if err != nil {
			return nil, fmt.Errorf("failed to encode record %q: %w", key, err)
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		buf.Write(recJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keyed by disease name, keeping the key order
// of the document. Keys are normalized and records sanitized on the way in.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("catalog must be a JSON object")
	}

	fresh := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read catalog key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected catalog key %v", tok)
		}

		var rec entities.ClinicalRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("failed to decode record %q: %w", key, err)
		}
		fresh.add(Normalize(key), sanitizeRecord(rec))
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to read end of catalog: %w", err)
	}
	if dec.More() {
		return errors.New("unexpected data after catalog object")
	}

	*c = *fresh
	return nil
}
