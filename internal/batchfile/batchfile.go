// Package batchfile reads entry batches written by hand in YAML:
//
//	account: "999"
//	entries:
//	  - date: 2024-03-01
//	    preset: Lunch
//	    amount: 12.50
//	    desc: chicken rice
//	  - date: 2024-03-01
//	    category: Transport
//	    tags: [Parking]
//	    amount: 3
//	    desc: mall
//
// Categories and tags may be given by label or id.
package batchfile

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jask/toshlbatch/internal/entry"
	"github.com/jask/toshlbatch/internal/session"
)

type File struct {
	Account string   `yaml:"account"`
	Entries []Record `yaml:"entries"`
}

// Record is one entry as written. Amount stays raw text so 12.50 keeps its
// digits.
type Record struct {
	Date     string   `yaml:"date"`
	Preset   string   `yaml:"preset"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
	Amount   string   `yaml:"amount"`
	Desc     string   `yaml:"desc"`
}

// Decode parses a batch document. Unknown keys are rejected.
func Decode(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("parse batch: %w", err)
	}
	return f, nil
}

// Warning is a non-fatal problem with one record. Index is zero based.
type Warning struct {
	Index int
	Err   error
}

func (w Warning) String() string {
	return fmt.Sprintf("entry %d: %v", w.Index+1, w.Err)
}

// Load feeds every record through the session draft and submits it. Unknown
// labels skip their field; a record left incomplete is not added. Both cases
// produce warnings. The count of added entries is returned.
func Load(s *session.Session, f File) (int, []Warning) {
	var (
		added    int
		warnings []Warning
	)
	warn := func(i int, err error) { warnings = append(warnings, Warning{Index: i, Err: err}) }

	for i, rec := range f.Entries {
		s.ClearDraft()
		if rec.Preset != "" {
			if _, ok := s.ApplyPreset(rec.Preset); !ok {
				warn(i, fmt.Errorf("unknown preset %q", rec.Preset))
			}
		}
		if rec.Category != "" {
			id, err := s.Catalog.Categories.Lookup("category", rec.Category)
			if err != nil {
				warn(i, err)
			} else {
				s.SetField(entry.FieldCategory, id)
			}
		}
		for _, tok := range rec.Tags {
			id, err := s.Catalog.Tags.Lookup("tag", tok)
			if err != nil {
				warn(i, err)
				continue
			}
			if !s.Draft().HasTag(id) {
				s.ToggleTag(id)
			}
		}
		setRaw(s, i, entry.FieldDate, rec.Date, warn)
		setRaw(s, i, entry.FieldAmount, rec.Amount, warn)
		s.SetField(entry.FieldDescription, rec.Desc)

		missing := s.Draft().Missing()
		if _, ok := s.Submit(); !ok {
			warn(i, fmt.Errorf("skipped, missing %s", joinFields(missing)))
			continue
		}
		added++
	}
	s.ClearDraft()
	return added, warnings
}

func setRaw(s *session.Session, i int, f entry.Field, raw string, warn func(int, error)) {
	if raw == "" {
		return
	}
	if e := s.SetField(f, raw); !isSet(e, f) {
		warn(i, fmt.Errorf("invalid %s %q", f, raw))
	}
}

func isSet(e entry.Entry, f entry.Field) bool {
	switch f {
	case entry.FieldDate:
		return e.Date != nil
	case entry.FieldAmount:
		return e.Amount != nil
	}
	return true
}

func joinFields(fs []entry.Field) string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
