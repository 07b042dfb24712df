package faq

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyCatalog is returned when a source yields no usable entries.
var ErrEmptyCatalog = errors.New("faq catalog is empty")

// Catalog is the ordered, read-only FAQ list shared by every matcher.
type Catalog struct {
	entries   []Entry
	questions []string
}

// NewCatalog validates and copies entries. Blank questions or answers are
// rejected, as are questions that normalize to an earlier one: argmax ties
// resolve to the lowest index so the later entry could never match.
func NewCatalog(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		entries:   make([]Entry, len(entries)),
		questions: make([]string, len(entries)),
	}
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		q := strings.TrimSpace(e.Question)
		a := strings.TrimSpace(e.Answer)
		if q == "" || a == "" {
			return nil, fmt.Errorf("faq entry %d: question and answer are required", i)
		}
		key := normalizeQuestion(q)
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("faq entry %d duplicates entry %d", i, prev)
		}
		seen[key] = i
		c.entries[i] = Entry{Question: q, Answer: a}
		c.questions[i] = q
	}
	return c, nil
}

// LoadCatalog reads every entry from src and builds a catalog.
func LoadCatalog(ctx context.Context, src Source) (*Catalog, error) {
	entries, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load faq source %s: %w", src.Name(), err)
	}
	return NewCatalog(entries)
}

// Len reports the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entry returns the entry at index i.
func (c *Catalog) Entry(i int) Entry {
	return c.entries[i]
}

// Entries returns a copy of the list.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Questions returns the question texts in catalog order. Callers must not mutate it.
func (c *Catalog) Questions() []string {
	return c.questions
}
