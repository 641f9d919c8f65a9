package academic

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classhub/core"
)

type ItemKind string

const (
	KindExam     ItemKind = "exam"
	KindHomework ItemKind = "homework"
	KindEvent    ItemKind = "event"
)

var ItemKinds = []ItemKind{KindExam, KindHomework, KindEvent}

func (k ItemKind) Valid() bool {
	switch k {
	case KindExam, KindHomework, KindEvent:
		return true
	}
	return false
}

// ParseItemKind rejects any tag that is not one of ItemKinds.
func ParseItemKind(s string) (ItemKind, error) {
	k := ItemKind(s)
	if !k.Valid() {
		return "", core.NewValidationError(nil, core.FieldError{Field: "type", Error: itemKindText})
	}
	return k, nil
}

type ResourceKind string

const (
	ResourcePDF      ResourceKind = "pdf"
	ResourceVideo    ResourceKind = "video"
	ResourceLink     ResourceKind = "link"
	ResourceNote     ResourceKind = "note"
	ResourceExercise ResourceKind = "exercise"
)

var ResourceKinds = []ResourceKind{ResourcePDF, ResourceVideo, ResourceLink, ResourceNote, ResourceExercise}

func (k ResourceKind) Valid() bool {
	switch k {
	case ResourcePDF, ResourceVideo, ResourceLink, ResourceNote, ResourceExercise:
		return true
	}
	return false
}

// ParseResourceKind rejects any tag that is not one of ResourceKinds.
func ParseResourceKind(s string) (ResourceKind, error) {
	k := ResourceKind(s)
	if !k.Valid() {
		return "", core.NewValidationError(nil, core.FieldError{Field: "type", Error: resourceKindText})
	}
	return k, nil
}

// KindForContentType classifies an uploaded file: pdf, video, or exercise for everything else.
func KindForContentType(contentType string) ResourceKind {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "pdf"):
		return ResourcePDF
	case strings.Contains(ct, "video"):
		return ResourceVideo
	default:
		return ResourceExercise
	}
}

type Resource struct {
	ID    string       `json:"id" validate:"required"`
	Title string       `json:"title" validate:"required"`
	Kind  ResourceKind `json:"type" validate:"resourcekind"`
	URL   string       `json:"url" validate:"required"`
}

// Item is a dated exam, homework or event of one subject.
// SubjectID is not checked against the subject list.
type Item struct {
	ID        string     `json:"id" validate:"required"`
	Title     string     `json:"title"`
	SubjectID string     `json:"subjectId" validate:"required"`
	Kind      ItemKind   `json:"type" validate:"itemkind"`
	Date      string     `json:"date" validate:"omitempty,isodate"`
	Time      string     `json:"time,omitempty" validate:"omitempty,clock"`
	Location  string     `json:"location,omitempty"`
	Notes     string     `json:"notes"`
	Resources []Resource `json:"resources" validate:"dive"`
}

func (it Item) Clone() Item {
	c := it
	if it.Resources != nil {
		c.Resources = make([]Resource, len(it.Resources))
		copy(c.Resources, it.Resources)
	}
	return c
}

// CloneItems deep copies items.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	c := make([]Item, len(items))
	for i, it := range items {
		c[i] = it.Clone()
	}
	return c
}

// NewItem contains information needed to create an Item.
type NewItem struct {
	Title     string        `json:"title"`
	SubjectID string        `json:"subjectId"`
	Kind      ItemKind      `json:"type" validate:"omitempty,itemkind"`
	Date      string        `json:"date" validate:"required,isodate"`
	Time      string        `json:"time" validate:"omitempty,clock"`
	Location  string        `json:"location"`
	Notes     string        `json:"notes"`
	Resources []NewResource `json:"resources" validate:"dive"`
}

type NewResource struct {
	Title string       `json:"title" validate:"required"`
	Kind  ResourceKind `json:"type" validate:"resourcekind"`
	URL   string       `json:"url" validate:"required"`
}

// Validate cleans the form and applies its defaults: "Untitled" title, homework kind and defaultSubjectID.
func (ni *NewItem) Validate(validate *validator.Validate, defaultSubjectID string) error {
	ni.Title = core.CleanString(ni.Title)
	if ni.Title == "" {
		ni.Title = "Untitled"
	}
	ni.SubjectID = core.CleanString(ni.SubjectID)
	if ni.SubjectID == "" {
		ni.SubjectID = defaultSubjectID
	}
	if ni.Kind == "" {
		ni.Kind = KindHomework
	}
	ni.Time = core.CleanString(ni.Time)
	ni.Location = core.CleanString(ni.Location)
	for i := range ni.Resources {
		ni.Resources[i].Title = core.CleanString(ni.Resources[i].Title)
		ni.Resources[i].URL = core.CleanString(ni.Resources[i].URL)
	}
	return validate.Struct(ni)
}

// Build turns the form into an Item, newID generating the item and resource ids.
func (ni NewItem) Build(newID func() string) Item {
	item := Item{
		ID:        newID(),
		Title:     ni.Title,
		SubjectID: ni.SubjectID,
		Kind:      ni.Kind,
		Date:      ni.Date,
		Time:      ni.Time,
		Location:  ni.Location,
		Notes:     ni.Notes,
		Resources: make([]Resource, 0, len(ni.Resources)),
	}
	for _, r := range ni.Resources {
		item.Resources = append(item.Resources, Resource{ID: newID(), Title: r.Title, Kind: r.Kind, URL: r.URL})
	}
	return item
}
