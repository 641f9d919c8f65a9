// Package boltprefs persists per-client preferences in a bbolt file.
package boltprefs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/i18n"
	"github.com/trezcool/classhub/core/session"
	"github.com/trezcool/classhub/core/state"
	"github.com/trezcool/classhub/core/subject"
)

var bucket = []byte("prefs")

var _ session.Prefs = (*Store)(nil) // interface compliance check

// Store keeps one JSON state snapshot per client, under "<storageKey>:<clientID>".
type Store struct {
	db         *bbolt.DB
	storageKey string
}

func Open(conf core.PrefsConfig) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(conf.Path), 0755); err != nil {
		return nil, errors.Wrap(err, "creating prefs directory")
	}
	db, err := bbolt.Open(conf.Path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", conf.Path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating prefs bucket")
	}
	return &Store{db: db, storageKey: conf.StorageKey}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) key(clientID string) []byte {
	return []byte(s.storageKey + ":" + clientID)
}

// LoadState returns the snapshot saved for clientID.
// Subjects always come from the seed list, and an invalid language falls back to the default.
func (s *Store) LoadState(clientID string) (state.State, bool, error) {
	var (
		st    state.State
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get(s.key(clientID))
		if data == nil {
			return nil
		}
		found = true
		var err error
		st, err = decode(data)
		return err
	})
	if err != nil {
		return state.State{}, false, errors.Wrapf(err, "loading state of %s", clientID)
	}
	if !found {
		return state.Initial(i18n.DefaultLanguage), false, nil
	}
	return st, true, nil
}

func decode(data []byte) (state.State, error) {
	var st state.State
	if err := json.Unmarshal(data, &st); err != nil {
		return state.State{}, err
	}
	base := state.Initial(st.Language)
	st.Subjects = subject.Seed()
	st.Language = base.Language
	if st.Identities == nil {
		st.Identities = base.Identities
	}
	if st.Items == nil {
		st.Items = base.Items
	}
	if st.Timetable == nil {
		st.Timetable = base.Timetable
	}
	return st, nil
}

func (s *Store) LoadLanguage(clientID string) (i18n.Language, error) {
	st, _, err := s.LoadState(clientID)
	if err != nil {
		return i18n.DefaultLanguage, err
	}
	return st.Language, nil
}

// SaveLanguage updates the language of the saved snapshot and leaves the rest of it untouched.
func (s *Store) SaveLanguage(clientID string, lang i18n.Language) error {
	if !lang.Valid() {
		return errors.Errorf("unsupported language %q", lang)
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		k := s.key(clientID)

		st := state.Initial(lang)
		if data := b.Get(k); data != nil {
			var err error
			if st, err = decode(data); err != nil {
				return err
			}
		}
		st.Language = lang

		data, err := json.Marshal(st)
		if err != nil {
			return err
		}
		return b.Put(k, data)
	})
	return errors.Wrapf(err, "saving language of %s", clientID)
}
