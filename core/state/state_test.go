package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/academic"
	"github.com/trezcool/classhub/core/i18n"
	"github.com/trezcool/classhub/core/identity"
	"github.com/trezcool/classhub/core/timetable"
)

func testState() State {
	st := Initial(i18n.French)
	st.Identities = []identity.Identity{
		{ID: "u1", Email: "amina@class.ma", Name: "Amina Idrissi", Role: identity.RoleStudent, StudentNumber: "STU-007",
			CreatedAt: time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)},
		{ID: "u2", Email: "omar@class.ma", Name: "Omar Benali", Role: identity.RoleDev, StudentNumber: "STU-120",
			CreatedAt: time.Date(2026, time.September, 2, 8, 0, 0, 0, time.UTC)},
	}
	st.Items = []academic.Item{
		{ID: "i1", Title: "Limits", SubjectID: "math", Kind: academic.KindExam, Date: "2026-10-20", Time: "10:00",
			Resources: []academic.Resource{{ID: "r1", Title: "Course", Kind: academic.ResourcePDF, URL: "https://x/r1.pdf"}}},
		{ID: "i2", Title: "Exercises", SubjectID: "math", Kind: academic.KindHomework, Date: "2026-10-14", Resources: []academic.Resource{}},
		{ID: "i3", Title: "Trip", SubjectID: "svt", Kind: academic.KindEvent, Date: "2026-11-02", Location: "Ifrane", Resources: []academic.Resource{}},
	}
	st.Timetable = []timetable.Entry{
		{ID: "t1", Day: 1, StartHour: 10, EndHour: 12, SubjectID: "physics", Color: "bg-indigo-600"},
		{ID: "t2", Day: 1, StartHour: 8, EndHour: 10, SubjectID: "math", Color: "bg-blue-600", Room: "B12"},
	}
	return st
}

func TestStore_SnapshotIsDeepCopy(t *testing.T) {
	store := NewStore(testState())

	snap := store.Snapshot()
	snap.Items[0].Resources[0].Title = "changed"
	snap.Subjects[0].Name[i18n.English] = "changed"
	snap.Identities[0].Name = "changed"

	again := store.Snapshot()
	assert.Equal(t, "Course", again.Items[0].Resources[0].Title)
	assert.NotEqual(t, "changed", again.Subjects[0].Name[i18n.English])
	assert.Equal(t, "Amina Idrissi", again.Identities[0].Name)
}

func TestStore_ReplaceAll(t *testing.T) {
	store := NewStore(testState())
	before := store.Snapshot()

	items := []academic.Item{before.Items[1]}
	store.ReplaceAll(Partial{Items: &items})

	after := store.Snapshot()
	assert.Equal(t, items, after.Items)
	assert.Equal(t, before.Identities, after.Identities)
	assert.Equal(t, before.Timetable, after.Timetable)
	assert.Equal(t, before.Subjects, after.Subjects)
	assert.Equal(t, before.Language, after.Language)

	store.ReplaceAll(Partial{})
	assert.Equal(t, after, store.Snapshot())
}

func TestStore_DeleteItemKeepsOthers(t *testing.T) {
	store := NewStore(testState())
	before := store.Items()

	remaining := make([]academic.Item, 0)
	for _, it := range store.Items() {
		if it.ID != "i2" {
			remaining = append(remaining, it)
		}
	}
	store.ReplaceAll(Partial{Items: &remaining})

	after := store.Items()
	require.Len(t, after, 2)
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[2], after[1])
}

func TestStore_LanguageChangeOnly(t *testing.T) {
	store := NewStore(testState())
	before := store.Snapshot()

	lang := i18n.Arabic
	store.ReplaceAll(Partial{Language: &lang})

	after := store.Snapshot()
	assert.Equal(t, i18n.Arabic, after.Language)
	after.Language = before.Language
	assert.Equal(t, before, after)
}

func TestStore_Accessors(t *testing.T) {
	store := NewStore(testState())

	assert.Len(t, store.ItemsBySubject("math"), 2)
	assert.Len(t, store.ItemsBetween("2026-10-14", "2026-10-20"), 2)
	assert.Equal(t, 1, store.CountByKind(academic.KindExam))

	upcoming := store.Upcoming(time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC))
	require.Len(t, upcoming, 2)
	assert.Equal(t, "i1", upcoming[0].ID)

	monday := store.EntriesByDay(1)
	require.Len(t, monday, 2)
	assert.Equal(t, "t2", monday[0].ID)

	tests := []struct {
		term string
		want int
	}{
		{term: "", want: 2},
		{term: "amina", want: 1},
		{term: "BENALI", want: 1},
		{term: "stu-1", want: 1},
		{term: "stu", want: 2},
		{term: "zzz", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Len(t, store.SearchIdentities(tt.term), tt.want)
		})
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	validate, translator := NewValidator()
	src := NewStore(testState())

	data, err := src.Export()
	require.NoError(t, err)

	p, err := ParsePartial(data, validate, translator)
	require.NoError(t, err)

	dst := NewStore(Initial(i18n.English))
	dst.ReplaceAll(p)
	assert.Equal(t, src.Snapshot(), dst.Snapshot())
}

func TestParsePartial_invalid(t *testing.T) {
	validate, translator := NewValidator()

	tests := []struct {
		name string
		data string
	}{
		{name: "syntax", data: `{"items": [`},
		{name: "wrong shape", data: `{"items": {"id": "x"}}`},
		{name: "language", data: `{"language": "de"}`},
		{name: "role", data: `{"users": [{"id": "u", "email": "a@b.co", "name": "A", "role": "ROOT"}]}`},
		{name: "item kind", data: `{"items": [{"id": "i", "title": "T", "subjectId": "math", "type": "quiz", "date": "2026-10-10"}]}`},
		{name: "timetable hours", data: `{"timetable": [{"id": "t", "day": 1, "startHour": 12, "endHour": 10, "subjectId": "math"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePartial([]byte(tt.data), validate, translator)
			assert.True(t, core.IsValidation(err), "got %v", err)
		})
	}

	p, err := ParsePartial([]byte(`{"language": "ar"}`), validate, translator)
	require.NoError(t, err)
	require.NotNil(t, p.Language)
	assert.Nil(t, p.Items)
	assert.False(t, p.Empty())
}

func TestSnapshotFilename(t *testing.T) {
	now := time.Date(2026, time.October, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "1bacsm2_backup_2026-10-15.json", SnapshotFilename("1bacsm2", now))
}
