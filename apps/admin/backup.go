package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/classhub/core/i18n"
	"github.com/trezcool/classhub/core/identity"
	"github.com/trezcool/classhub/core/state"
)

// liveSnapshot exports the remote collections as a session would see them right after a reload.
func (cli *commandLine) liveSnapshot(lang i18n.Language) ([]byte, error) {
	b, err := cli.remote.FetchAll(context.Background())
	if err != nil {
		return nil, errors.Wrap(err, "fetching remote state")
	}
	store := state.NewStore(state.Initial(lang))
	store.ReplaceAll(state.Partial{Identities: &b.Identities, Items: &b.Items, Timetable: &b.Timetable})
	return store.Export()
}

func (cli *commandLine) backupPrefix() string {
	if p := strings.TrimSuffix(cli.conf.Prefs.StorageKey, "_state"); p != "" {
		return p
	}
	return "classhub"
}

func (cli *commandLine) export(dir string) error {
	data, err := cli.liveSnapshot(i18n.DefaultLanguage)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating backup directory")
	}
	path := filepath.Join(dir, state.SnapshotFilename(cli.backupPrefix(), nowFunc()))
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing backup")
	}
	fmt.Fprintln(cli.out, path)
	return nil
}

// diff prints a unified diff from the backup at path to the remote state, in the language of the backup.
func (cli *commandLine) diff(path string) error {
	saved, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading backup")
	}
	var head struct {
		Language i18n.Language `json:"language"`
	}
	if err = json.Unmarshal(saved, &head); err != nil {
		return errors.Wrap(err, "decoding backup")
	}
	if !head.Language.Valid() {
		head.Language = i18n.DefaultLanguage
	}

	live, err := cli.liveSnapshot(head.Language)
	if err != nil {
		return err
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(strings.TrimSpace(string(saved)) + "\n"),
		B:        difflib.SplitLines(strings.TrimSpace(string(live)) + "\n"),
		FromFile: filepath.Base(path),
		ToFile:   "remote",
		Context:  3,
	})
	if err != nil {
		return errors.Wrap(err, "diffing")
	}
	if text == "" {
		fmt.Fprintln(cli.out, "no differences")
		return nil
	}
	fmt.Fprint(cli.out, text)
	return nil
}

func (cli *commandLine) hashSecret(secret string) error {
	hash, err := identity.HashSecret(secret)
	if err != nil {
		return errors.Wrap(err, "hashing secret")
	}
	fmt.Fprintln(cli.out, hash)
	return nil
}
