// Package entry holds the pending transaction record edited by the form.
//
// Entries are values: every operation returns a new Entry and leaves the
// receiver untouched. None of them fail; a partially filled entry is the normal
// state of the form and is reported through IsValid.
package entry

import (
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Field names one settable scalar field.
type Field string

const (
	FieldDate        Field = "date"
	FieldCategory    Field = "category"
	FieldTags        Field = "tags"
	FieldAmount      Field = "amount"
	FieldDescription Field = "description"
)

// Entry is one spending record. Nil/empty fields are unset.
type Entry struct {
	Date        *civil.Date
	CategoryID  string
	TagIDs      []string
	Amount      *decimal.Decimal
	Description string
}

func (e Entry) SetDate(d civil.Date) Entry {
	e.Date = &d
	return e
}

func (e Entry) SetCategory(id string) Entry {
	e.CategoryID = id
	return e
}

// SetAmount stores the spend as entered (positive for money going out).
func (e Entry) SetAmount(a decimal.Decimal) Entry {
	e.Amount = &a
	return e
}

func (e Entry) SetDescription(s string) Entry {
	e.Description = s
	return e
}

// Set applies raw form text to a field. Text that does not parse for the
// field's type leaves it unset. FieldTags is not settable here; use ToggleTag
// or ApplyPreset.
func (e Entry) Set(f Field, raw string) Entry {
	switch f {
	case FieldDate:
		d, err := civil.ParseDate(strings.TrimSpace(raw))
		if err != nil || !d.IsValid() {
			e.Date = nil
			return e
		}
		return e.SetDate(d)
	case FieldCategory:
		return e.SetCategory(strings.TrimSpace(raw))
	case FieldAmount:
		a, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			e.Amount = nil
			return e
		}
		return e.SetAmount(a)
	case FieldDescription:
		return e.SetDescription(raw)
	}
	return e
}

// Clear unsets one field.
func (e Entry) Clear(f Field) Entry {
	switch f {
	case FieldDate:
		e.Date = nil
	case FieldCategory:
		e.CategoryID = ""
	case FieldTags:
		e.TagIDs = nil
	case FieldAmount:
		e.Amount = nil
	case FieldDescription:
		e.Description = ""
	}
	return e
}

// ToggleTag removes id when present and appends it otherwise.
func (e Entry) ToggleTag(id string) Entry {
	if i := slices.Index(e.TagIDs, id); i >= 0 {
		tags := slices.Delete(slices.Clone(e.TagIDs), i, i+1)
		if len(tags) == 0 {
			tags = nil
		}
		e.TagIDs = tags
		return e
	}
	tags := make([]string, 0, len(e.TagIDs)+1)
	tags = append(tags, e.TagIDs...)
	e.TagIDs = append(tags, id)
	return e
}

// HasTag reports whether id is selected.
func (e Entry) HasTag(id string) bool {
	return slices.Contains(e.TagIDs, id)
}

// ApplyPreset sets the category and replaces the tag set.
func (e Entry) ApplyPreset(categoryID string, tagIDs []string) Entry {
	e.CategoryID = categoryID
	var tags []string
	for _, id := range tagIDs {
		if !slices.Contains(tags, id) {
			tags = append(tags, id)
		}
	}
	e.TagIDs = tags
	return e
}

// IsValid reports whether every field is present and at least one tag is set.
func (e Entry) IsValid() bool {
	return len(e.Missing()) == 0
}

// Missing lists unset fields in form order.
func (e Entry) Missing() []Field {
	var out []Field
	if e.Date == nil {
		out = append(out, FieldDate)
	}
	if e.CategoryID == "" {
		out = append(out, FieldCategory)
	}
	if len(e.TagIDs) == 0 {
		out = append(out, FieldTags)
	}
	if e.Amount == nil || e.Amount.IsZero() {
		out = append(out, FieldAmount)
	}
	if e.Description == "" {
		out = append(out, FieldDescription)
	}
	return out
}

// Equal compares field values. Tags compare as a set.
func (e Entry) Equal(o Entry) bool {
	switch {
	case (e.Date == nil) != (o.Date == nil):
		return false
	case e.Date != nil && *e.Date != *o.Date:
		return false
	case (e.Amount == nil) != (o.Amount == nil):
		return false
	case e.Amount != nil && !e.Amount.Equal(*o.Amount):
		return false
	case e.CategoryID != o.CategoryID, e.Description != o.Description:
		return false
	case len(e.TagIDs) != len(o.TagIDs):
		return false
	}
	for _, id := range e.TagIDs {
		if !o.HasTag(id) {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no memory with e.
func (e Entry) Clone() Entry {
	if e.Date != nil {
		d := *e.Date
		e.Date = &d
	}
	if e.Amount != nil {
		a := *e.Amount
		e.Amount = &a
	}
	e.TagIDs = slices.Clone(e.TagIDs)
	return e
}

// RelativeDate returns the calendar date offset days from now in now's zone.
func RelativeDate(now time.Time, offset int) civil.Date {
	return civil.DateOf(now).AddDays(offset)
}
