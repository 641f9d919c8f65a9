package view

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/academic"
	"github.com/trezcool/classhub/core/i18n"
	"github.com/trezcool/classhub/core/identity"
	"github.com/trezcool/classhub/core/subject"
	"github.com/trezcool/classhub/core/timetable"
)

const upcomingCards = 4

type SubjectRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func subjectRef(subjects []subject.Subject, id string, lang i18n.Language) SubjectRef {
	s, ok := subject.Find(subjects, id)
	if !ok {
		return SubjectRef{ID: id, Name: id}
	}
	return SubjectRef{ID: s.ID, Name: s.NameIn(lang), Color: s.Color}
}

type ItemCard struct {
	academic.Item
	KindLabel string     `json:"typeLabel"`
	Subject   SubjectRef `json:"subject"`
}

func cards(ctx Context, subjects []subject.Subject, items []academic.Item) []ItemCard {
	r := make([]ItemCard, 0, len(items))
	for _, it := range items {
		r = append(r, ItemCard{
			Item:      it,
			KindLabel: ctx.T.T(string(it.Kind)),
			Subject:   subjectRef(subjects, it.SubjectID, ctx.T.Language()),
		})
	}
	return r
}

// overview

type OverviewModel struct {
	Title     string     `json:"title"`
	Viewer    string     `json:"viewer"`
	Exams     int        `json:"exams"`
	Homework  int        `json:"homework"`
	Subjects  int        `json:"subjects"`
	Upcoming  []ItemCard `json:"upcoming"`
	EmptyText string     `json:"emptyText,omitempty"`
}

type overviewView struct{}

func (overviewView) Name() string { return Overview }

func (overviewView) Render(ctx Context) interface{} {
	subjects := ctx.Store.Subjects()
	upcoming := ctx.Store.Upcoming(ctx.Now)
	if len(upcoming) > upcomingCards {
		upcoming = upcoming[:upcomingCards]
	}
	m := OverviewModel{
		Title:    ctx.T.T("welcome"),
		Viewer:   ctx.Viewer.Name,
		Exams:    ctx.Store.CountByKind(academic.KindExam),
		Homework: ctx.Store.CountByKind(academic.KindHomework),
		Subjects: len(subjects),
		Upcoming: cards(ctx, subjects, upcoming),
	}
	if len(upcoming) == 0 {
		m.EmptyText = ctx.T.T("no_items")
	}
	return m
}

// calendar

type CalendarDay struct {
	Date  string     `json:"date"`
	Label string     `json:"label"`
	Today bool       `json:"today"`
	Items []ItemCard `json:"items"`
}

type CalendarModel struct {
	Week     int           `json:"week"`
	From     string        `json:"from"`
	To       string        `json:"to"`
	Days     []CalendarDay `json:"days"`
	Selected *ItemCard     `json:"selected,omitempty"`
}

type calendarView struct{}

func (calendarView) Name() string { return Calendar }

// Render shows the seven days starting on the Monday of the current week,
// shifted by the "week" param. The "item" param selects an item.
func (calendarView) Render(ctx Context) interface{} {
	week, err := strconv.Atoi(ctx.param("week"))
	if err != nil {
		week = 0
	}
	start := academic.WeekStart(ctx.Now).AddDate(0, 0, 7*week)
	today := ctx.Now.Format(core.DateLayout)

	subjects := ctx.Store.Subjects()

	m := CalendarModel{Week: week, Days: make([]CalendarDay, 0, 7)}
	m.From = start.Format(core.DateLayout)
	m.To = start.AddDate(0, 0, 6).Format(core.DateLayout)
	inWeek := ctx.Store.ItemsBetween(m.From, m.To)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		date := day.Format(core.DateLayout)
		items := academic.OnDate(inWeek, date)
		academic.SortByDate(items)
		m.Days = append(m.Days, CalendarDay{
			Date:  date,
			Label: ctx.T.Weekday(day.Weekday()),
			Today: date == today,
			Items: cards(ctx, subjects, items),
		})
	}

	if id := ctx.param("item"); id != "" {
		for _, it := range ctx.Store.Items() {
			if it.ID == id {
				c := cards(ctx, subjects, []academic.Item{it})[0]
				m.Selected = &c
				break
			}
		}
	}
	return m
}

// timetable

type TimetableSlot struct {
	timetable.Entry
	Subject SubjectRef `json:"subject"`
}

type TimetableDay struct {
	Day   int             `json:"day"`
	Label string          `json:"label"`
	Slots []TimetableSlot `json:"slots"`
}

type TimetableModel struct {
	Title    string         `json:"title"`
	Hours    []int          `json:"hours"`
	Days     []TimetableDay `json:"days"`
	Editable bool           `json:"editable"`
}

type timetableView struct{}

func (timetableView) Name() string { return Timetable }

func (timetableView) Render(ctx Context) interface{} {
	m := TimetableModel{
		Title:    ctx.T.T("timetable"),
		Editable: ctx.Caps.Elevated,
	}
	for h := timetable.FirstHour; h <= timetable.LastHour; h++ {
		m.Hours = append(m.Hours, h)
	}
	subjects := ctx.Store.Subjects()
	for d := timetable.FirstDay; d <= timetable.LastDay; d++ {
		entries := ctx.Store.EntriesByDay(d)
		day := TimetableDay{
			Day:   d,
			Label: ctx.T.T(timetable.DayKeys[d-1]),
			Slots: make([]TimetableSlot, 0, len(entries)),
		}
		for _, e := range entries {
			day.Slots = append(day.Slots, TimetableSlot{
				Entry:   e,
				Subject: subjectRef(subjects, e.SubjectID, ctx.T.Language()),
			})
		}
		m.Days = append(m.Days, day)
	}
	return m
}

// subjects

type SubjectSummary struct {
	SubjectRef
	Description string `json:"description"`
	Items       int    `json:"items"`
}

type SubjectDetail struct {
	SubjectSummary
	Exams    []ItemCard `json:"exams"`
	Homework []ItemCard `json:"homework"`
	Events   []ItemCard `json:"events"`
}

type SubjectsModel struct {
	Subjects []SubjectSummary `json:"subjects"`
	Selected *SubjectDetail   `json:"selected,omitempty"`
}

type subjectsView struct{}

func (subjectsView) Name() string { return Subjects }

// Render lists the subjects; the "subject" param opens one of them.
func (subjectsView) Render(ctx Context) interface{} {
	lang := ctx.T.Language()
	subjects := ctx.Store.Subjects()
	summary := func(s subject.Subject) SubjectSummary {
		desc := s.Description[lang]
		if desc == "" {
			desc = s.Description[i18n.English]
		}
		return SubjectSummary{
			SubjectRef:  SubjectRef{ID: s.ID, Name: s.NameIn(lang), Color: s.Color},
			Description: desc,
			Items:       len(ctx.Store.ItemsBySubject(s.ID)),
		}
	}

	m := SubjectsModel{Subjects: make([]SubjectSummary, 0, len(subjects))}
	for _, s := range subjects {
		m.Subjects = append(m.Subjects, summary(s))
	}

	if s, ok := subject.Find(subjects, ctx.param("subject")); ok {
		items := ctx.Store.ItemsBySubject(s.ID)
		academic.SortByDate(items)
		m.Selected = &SubjectDetail{
			SubjectSummary: summary(s),
			Exams:          cards(ctx, subjects, academic.ByKind(items, academic.KindExam)),
			Homework:       cards(ctx, subjects, academic.ByKind(items, academic.KindHomework)),
			Events:         cards(ctx, subjects, academic.ByKind(items, academic.KindEvent)),
		}
	}
	return m
}

// class list

type ClassListModel struct {
	Search        string                `json:"search"`
	Members       []identity.Identity   `json:"members"`
	Total         int                   `json:"total"`
	CanChangeRole bool                  `json:"canChangeRole"`
	CanRemove     bool                  `json:"canRemove"`
	RoleOptions   []identity.RoleOption `json:"roleOptions,omitempty"`
}

type classListView struct{}

func (classListView) Name() string { return ClassList }

func (classListView) Render(ctx Context) interface{} {
	search := ctx.param("search")
	members := ctx.Store.SearchIdentities(search)
	sort.SliceStable(members, func(i, j int) bool { return members[i].Name < members[j].Name })

	m := ClassListModel{
		Search:        search,
		Members:       members,
		Total:         len(ctx.Store.Identities()),
		CanChangeRole: ctx.Caps.Elevated,
		CanRemove:     ctx.Caps.Super,
	}
	if m.CanChangeRole {
		m.RoleOptions = identity.RoleOptions
	}
	return m
}

// management

type ItemDefaults struct {
	Date      string            `json:"date"`
	SubjectID string            `json:"subjectId"`
	Kind      academic.ItemKind `json:"type"`
}

type AdminModel struct {
	Items         []ItemCard              `json:"items"`
	Subjects      []SubjectRef            `json:"subjects"`
	Defaults      ItemDefaults            `json:"defaults"`
	ItemKinds     []academic.ItemKind     `json:"itemKinds"`
	ResourceKinds []academic.ResourceKind `json:"resourceKinds"`
}

type adminView struct{}

func (adminView) Name() string { return Admin }

func (adminView) Render(ctx Context) interface{} {
	subjects := ctx.Store.Subjects()
	items := ctx.Store.Items()
	academic.SortByDate(items)

	m := AdminModel{
		Items:    cards(ctx, subjects, items),
		Subjects: make([]SubjectRef, 0, len(subjects)),
		Defaults: ItemDefaults{
			Date: ctx.Now.Format(core.DateLayout),
			Kind: academic.KindHomework,
		},
		ItemKinds:     academic.ItemKinds,
		ResourceKinds: academic.ResourceKinds,
	}
	for _, s := range subjects {
		m.Subjects = append(m.Subjects, SubjectRef{ID: s.ID, Name: s.NameIn(ctx.T.Language()), Color: s.Color})
	}
	if len(subjects) > 0 {
		m.Defaults.SubjectID = subjects[0].ID
	}
	return m
}

// dev tools

type DevModel struct {
	Snapshot    interface{}           `json:"snapshot"`
	Bytes       int                   `json:"bytes"`
	Counts      map[string]int        `json:"counts"`
	RoleOptions []identity.RoleOption `json:"roleOptions"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

type devView struct{}

func (devView) Name() string { return Dev }

func (devView) Render(ctx Context) interface{} {
	st := ctx.Store.Snapshot()
	return DevModel{
		Snapshot: st,
		Bytes:    jsonSize(st),
		Counts: map[string]int{
			"users":     len(st.Identities),
			"subjects":  len(st.Subjects),
			"items":     len(st.Items),
			"timetable": len(st.Timetable),
		},
		RoleOptions: identity.RoleOptions,
		GeneratedAt: ctx.Now.UTC(),
	}
}

func jsonSize(v interface{}) int {
	data, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return len(data)
}
