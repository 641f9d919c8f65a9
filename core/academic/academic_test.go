package academic

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classhub/core"
)

var testItems = []Item{
	{ID: "1", Title: "Limits", SubjectID: "math", Kind: KindExam, Date: "2026-10-20", Time: "10:00"},
	{ID: "2", Title: "Exercises p.42", SubjectID: "math", Kind: KindHomework, Date: "2026-10-14"},
	{ID: "3", Title: "Redox", SubjectID: "physics", Kind: KindExam, Date: "2026-10-20", Time: "08:00",
		Resources: []Resource{{ID: "r1", Title: "Course", Kind: ResourcePDF, URL: "https://x/r1.pdf"}}},
	{ID: "4", Title: "Trip", SubjectID: "svt", Kind: KindEvent, Date: "2026-11-02"},
}

func ids(items []Item) []string {
	r := make([]string, 0, len(items))
	for _, it := range items {
		r = append(r, it.ID)
	}
	return r
}

func TestFilters(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, ids(BySubject(testItems, "math")))
	assert.Equal(t, []string{"1", "3"}, ids(ByKind(testItems, KindExam)))
	assert.Equal(t, []string{"1", "2", "3"}, ids(Between(testItems, "2026-10-14", "2026-10-20")))
	assert.Equal(t, []string{"1", "3"}, ids(OnDate(testItems, "2026-10-20")))
	assert.Empty(t, BySubject(testItems, "phil"))
	assert.Equal(t, 2, CountByKind(testItems, KindExam))
	assert.Equal(t, 1, CountByKind(testItems, KindEvent))
}

func TestFilters_returnCopies(t *testing.T) {
	got := BySubject(testItems, "physics")
	require.Len(t, got, 1)
	got[0].Resources[0].Title = "changed"
	assert.Equal(t, "Course", testItems[2].Resources[0].Title)
}

func TestUpcoming(t *testing.T) {
	now := time.Date(2026, time.October, 15, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, []string{"3", "1", "4"}, ids(Upcoming(testItems, now)))
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		day  time.Time
		want string
	}{
		{day: time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC), want: "2026-10-12"}, // Thursday
		{day: time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC), want: "2026-10-12"}, // Monday
		{day: time.Date(2026, time.October, 18, 23, 0, 0, 0, time.UTC), want: "2026-10-12"}, // Sunday
	}
	for i, tt := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStart(tt.day).Format(core.DateLayout))
		})
	}
}

func TestKindForContentType(t *testing.T) {
	assert.Equal(t, ResourcePDF, KindForContentType("application/pdf"))
	assert.Equal(t, ResourceVideo, KindForContentType("video/mp4"))
	assert.Equal(t, ResourceExercise, KindForContentType("image/png"))
	assert.Equal(t, ResourceExercise, KindForContentType(""))
}

func TestParseKinds(t *testing.T) {
	k, err := ParseItemKind("exam")
	assert.NoError(t, err)
	assert.Equal(t, KindExam, k)
	_, err = ParseItemKind("quiz")
	assert.True(t, core.IsValidation(err))

	rk, err := ParseResourceKind("note")
	assert.NoError(t, err)
	assert.Equal(t, ResourceNote, rk)
	_, err = ParseResourceKind("image")
	assert.True(t, core.IsValidation(err))
}

func TestNewItem_ValidateAndBuild(t *testing.T) {
	validate, translator := core.NewValidator()
	InitValidators(validate, translator)

	ni := NewItem{
		Title:     "  ",
		Date:      "2026-10-20",
		Resources: []NewResource{{Title: " Video ", Kind: ResourceVideo, URL: " https://youtu.be/x "}},
	}
	require.NoError(t, ni.Validate(validate, "math"))
	assert.Equal(t, "Untitled", ni.Title)
	assert.Equal(t, "math", ni.SubjectID)
	assert.Equal(t, KindHomework, ni.Kind)

	var n int
	item := ni.Build(func() string { n++; return "id" + strconv.Itoa(n) })
	assert.Equal(t, "id1", item.ID)
	assert.Equal(t, []Resource{{ID: "id2", Title: "Video", Kind: ResourceVideo, URL: "https://youtu.be/x"}}, item.Resources)

	bad := []NewItem{
		{Date: "20/10/2026"},
		{Date: "2026-10-20", Kind: ItemKind("quiz")},
		{Date: "2026-10-20", Time: "25:99"},
		{Date: "2026-10-20", Resources: []NewResource{{Title: "x", Kind: ResourceKind("img"), URL: "u"}}},
	}
	for i, b := range bad {
		assert.Error(t, b.Validate(validate, "math"), "case %d", i)
	}
}
