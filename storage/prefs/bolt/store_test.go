package boltprefs

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/academic"
	"github.com/trezcool/classhub/core/i18n"
	"github.com/trezcool/classhub/core/state"
	"github.com/trezcool/classhub/core/subject"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(core.PrefsConfig{
		Path:       filepath.Join(t.TempDir(), "nested", "prefs.db"),
		StorageKey: "1bacsm2_state",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// put writes st as the raw snapshot of clientID.
func put(t *testing.T, s *Store, clientID string, st state.State) {
	t.Helper()
	data, err := json.Marshal(st)
	require.NoError(t, err)
	require.NoError(t, s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put(s.key(clientID), data)
	}))
}

func TestStore_LoadState_Missing(t *testing.T) {
	s := openStore(t)

	st, found, err := s.LoadState("browser-1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, i18n.French, st.Language)
	assert.Equal(t, subject.Seed(), st.Subjects)
	assert.NotNil(t, st.Items)
}

func TestStore_LoadState(t *testing.T) {
	s := openStore(t)

	st, _, err := s.LoadState("browser-1")
	require.NoError(t, err)
	st.Language = i18n.Arabic
	st.Items = append(st.Items, academic.Item{
		ID: "a", Title: "Limits", SubjectID: "math", Kind: academic.KindExam,
		Date: "2026-10-20", Resources: []academic.Resource{},
	})
	// local subject edits are not kept across loads
	st.Subjects = st.Subjects[:1]
	put(t, s, "browser-1", st)

	got, found, err := s.LoadState("browser-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, i18n.Arabic, got.Language)
	assert.Equal(t, st.Items, got.Items)
	assert.Equal(t, subject.Seed(), got.Subjects)

	_, found, err = s.LoadState("browser-2")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Language(t *testing.T) {
	s := openStore(t)

	lang, err := s.LoadLanguage("browser-1")
	require.NoError(t, err)
	assert.Equal(t, i18n.French, lang)

	require.NoError(t, s.SaveLanguage("browser-1", i18n.English))
	lang, err = s.LoadLanguage("browser-1")
	require.NoError(t, err)
	assert.Equal(t, i18n.English, lang)

	assert.Error(t, s.SaveLanguage("browser-1", i18n.Language("de")))
}

func TestStore_SaveLanguage_KeepsSnapshot(t *testing.T) {
	s := openStore(t)

	st, _, err := s.LoadState("browser-1")
	require.NoError(t, err)
	st.Items = []academic.Item{{
		ID: "a", Title: "Limits", SubjectID: "math", Kind: academic.KindExam,
		Date: "2026-10-20", Resources: []academic.Resource{},
	}}
	put(t, s, "browser-1", st)
	require.NoError(t, s.SaveLanguage("browser-1", i18n.Arabic))

	got, _, err := s.LoadState("browser-1")
	require.NoError(t, err)
	assert.Equal(t, i18n.Arabic, got.Language)
	assert.Equal(t, st.Items, got.Items)
}

func TestStore_InvalidLanguageFallsBack(t *testing.T) {
	s := openStore(t)

	st, _, err := s.LoadState("browser-1")
	require.NoError(t, err)
	st.Language = "de"
	put(t, s, "browser-1", st)

	lang, err := s.LoadLanguage("browser-1")
	require.NoError(t, err)
	assert.Equal(t, i18n.French, lang)
}

func TestStore_SaveLanguage_NewClient(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.SaveLanguage("browser-3", i18n.Arabic))

	got, found, err := s.LoadState("browser-3")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, i18n.Arabic, got.Language)
	assert.Empty(t, got.Items)
}
