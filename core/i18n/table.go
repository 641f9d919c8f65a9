// Package i18n holds the localized UI strings and the active document language.
package i18n

import (
	"sync"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/ar"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"
)

type Language string

const (
	English Language = "en"
	French  Language = "fr"
	Arabic  Language = "ar"

	DefaultLanguage = French
)

var Languages = []Language{English, French, Arabic}

func (l Language) Valid() bool {
	switch l {
	case English, French, Arabic:
		return true
	}
	return false
}

type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// DirectionOf returns the writing direction of documents in lang.
func DirectionOf(lang Language) Direction {
	if lang == Arabic {
		return RTL
	}
	return LTR
}

// Table is a key → string lookup per language.
type Table struct {
	translators map[Language]ut.Translator
}

// NewTable builds a Table from the given messages; DefaultMessages is used when none are given.
func NewTable(messages ...map[Language]map[string]string) (*Table, error) {
	msgs := DefaultMessages
	if len(messages) > 0 {
		msgs = messages[0]
	}

	tlocales := map[Language]locales.Translator{
		English: en.New(),
		French:  fr.New(),
		Arabic:  ar.New(),
	}
	uni := ut.New(tlocales[French], tlocales[English], tlocales[French], tlocales[Arabic])

	t := &Table{translators: make(map[Language]ut.Translator, len(tlocales))}
	for lang := range tlocales {
		trans, found := uni.GetTranslator(string(lang))
		if !found {
			return nil, errors.Errorf("no translator for %q", lang)
		}
		for key, text := range msgs[lang] {
			if err := trans.Add(key, text, true /* override */); err != nil {
				return nil, errors.Wrapf(err, "adding %s translation %q", lang, key)
			}
		}
		t.translators[lang] = trans
	}
	return t, nil
}

// MustNewTable is like NewTable but panics on error.
func MustNewTable(messages ...map[Language]map[string]string) *Table {
	t, err := NewTable(messages...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the string for key in lang, or key itself when lang has no such string.
// It never falls back to another language.
func (t *Table) Lookup(lang Language, key string) string {
	trans, ok := t.translators[lang]
	if !ok {
		return key
	}
	s, err := trans.T(key)
	if err != nil || s == "" {
		return key
	}
	return s
}

// For binds the table to lang.
func (t *Table) For(lang Language) Translator {
	return Translator{table: t, lang: lang}
}

// Translator is a Table bound to one language.
type Translator struct {
	table *Table
	lang  Language
}

func (tr Translator) T(key string) string { return tr.table.Lookup(tr.lang, key) }

func (tr Translator) Language() Language { return tr.lang }

func (tr Translator) Direction() Direction { return DirectionOf(tr.lang) }

// Weekday returns the full localized name of wd.
func (tr Translator) Weekday(wd time.Weekday) string {
	trans, ok := tr.table.translators[tr.lang]
	if !ok {
		return wd.String()
	}
	return trans.WeekdayWide(wd)
}

// Date formats t the way the language writes medium dates.
func (tr Translator) Date(t time.Time) string {
	trans, ok := tr.table.translators[tr.lang]
	if !ok {
		return t.Format("2006-01-02")
	}
	return trans.FmtDateMedium(t)
}

// Document is the rendering surface's language and writing direction.
type Document struct {
	mu   sync.RWMutex
	lang Language
	dir  Direction
}

func NewDocument(lang Language) *Document {
	d := &Document{}
	d.Apply(lang)
	return d
}

// Apply sets the document language and its writing direction: rtl for Arabic, ltr otherwise.
func (d *Document) Apply(lang Language) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lang = lang
	d.dir = DirectionOf(lang)
}

func (d *Document) Language() Language {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lang
}

func (d *Document) Direction() Direction {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dir
}
