package academic

import (
	"sort"
	"time"

	"github.com/trezcool/classhub/core"
)

// Dates are ISO formatted, so string comparison orders them chronologically.

func filter(items []Item, keep func(Item) bool) []Item {
	r := make([]Item, 0)
	for _, it := range items {
		if keep(it) {
			r = append(r, it.Clone())
		}
	}
	return r
}

func BySubject(items []Item, subjectID string) []Item {
	return filter(items, func(it Item) bool { return it.SubjectID == subjectID })
}

func ByKind(items []Item, kind ItemKind) []Item {
	return filter(items, func(it Item) bool { return it.Kind == kind })
}

// Between returns the items dated within [from, to], both bounds inclusive.
func Between(items []Item, from, to string) []Item {
	return filter(items, func(it Item) bool { return it.Date >= from && it.Date <= to })
}

func OnDate(items []Item, date string) []Item {
	return filter(items, func(it Item) bool { return it.Date == date })
}

func CountByKind(items []Item, kind ItemKind) int {
	var n int
	for _, it := range items {
		if it.Kind == kind {
			n++
		}
	}
	return n
}

// Upcoming returns the items dated today or later, soonest first.
func Upcoming(items []Item, now time.Time) []Item {
	today := now.Format(core.DateLayout)
	r := filter(items, func(it Item) bool { return it.Date >= today })
	SortByDate(r)
	return r
}

// SortByDate sorts items by date then time, in place.
func SortByDate(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		return items[i].Time < items[j].Time
	})
}

// WeekStart returns the Monday 00:00 of the week containing t.
func WeekStart(t time.Time) time.Time {
	day := int(t.Weekday())
	diff := day - 1
	if day == 0 { // Sunday
		diff = 6
	}
	y, m, d := t.AddDate(0, 0, -diff).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
