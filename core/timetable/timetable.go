// Package timetable models the recurring weekly class slots.
package timetable

import (
	"sort"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classhub/core"
)

const (
	FirstDay  = 1 // Monday
	LastDay   = 6 // Saturday
	FirstHour = 8
	LastHour  = 18
)

// DayKeys are the translation keys of days 1..6.
var DayKeys = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

var (
	hourRangeTag  = "hourrange"
	hourRangeText = "start hour must be before end hour"
)

// Entry is one recurring weekly slot. StartHour is always before EndHour.
// Stored slots may sit outside the FirstHour..LastHour grid the form offers.
type Entry struct {
	ID        string `json:"id" validate:"required"`
	Day       int    `json:"day" validate:"min=1,max=6"`
	StartHour int    `json:"startHour" validate:"min=0,max=23"`
	EndHour   int    `json:"endHour" validate:"min=1,max=24"`
	SubjectID string `json:"subjectId" validate:"required"`
	Color     string `json:"color"`
	Room      string `json:"room,omitempty"`
}

// NewEntry contains information needed to add an Entry.
type NewEntry struct {
	Day       int    `json:"day" validate:"min=1,max=6"`
	StartHour int    `json:"startHour" validate:"min=8,max=18"`
	EndHour   int    `json:"endHour" validate:"min=8,max=18"`
	SubjectID string `json:"subjectId" validate:"required"`
	Color     string `json:"color"`
	Room      string `json:"room"`
}

// InitValidators registers the timetable validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(hourRangeValidation, Entry{}, NewEntry{})
	core.RegisterCustomTranslation(validate, translator, hourRangeTag, hourRangeText)
}

// hourRangeValidation checks that the slot starts before it ends
func hourRangeValidation(sl validator.StructLevel) {
	var start, end int
	switch e := sl.Current().Interface().(type) {
	case Entry:
		start, end = e.StartHour, e.EndHour
	case NewEntry:
		start, end = e.StartHour, e.EndHour
	default:
		return
	}
	if start >= end {
		sl.ReportError(start, "startHour", "StartHour", hourRangeTag, "")
	}
}

func (ne *NewEntry) Validate(validate *validator.Validate) error {
	ne.SubjectID = core.CleanString(ne.SubjectID)
	ne.Room = core.CleanString(ne.Room)
	if ne.Color == "" {
		ne.Color = "bg-indigo-600"
	}
	return validate.Struct(ne)
}

func (ne NewEntry) Build(id string) Entry {
	return Entry{
		ID:        id,
		Day:       ne.Day,
		StartHour: ne.StartHour,
		EndHour:   ne.EndHour,
		SubjectID: ne.SubjectID,
		Color:     ne.Color,
		Room:      ne.Room,
	}
}

// Clone copies entries.
func Clone(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	c := make([]Entry, len(entries))
	copy(c, entries)
	return c
}

// ByDay returns the entries of day ordered by start hour.
func ByDay(entries []Entry, day int) []Entry {
	r := make([]Entry, 0)
	for _, e := range entries {
		if e.Day == day {
			r = append(r, e)
		}
	}
	sort.SliceStable(r, func(i, j int) bool { return r[i].StartHour < r[j].StartHour })
	return r
}

// Without returns a copy of entries minus the entry with id.
func Without(entries []Entry, id string) []Entry {
	r := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			r = append(r, e)
		}
	}
	return r
}
