package database

import (
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classhub/core"
)

func TestDSN(t *testing.T) {
	conf := core.DatabaseConfig{
		Engine:        "postgres",
		Host:          "db",
		Port:          "5432",
		User:          "classhub",
		Password:      "p@ss",
		AdminUser:     "root",
		AdminPassword: "toor",
		DisableTLS:    true,
	}

	assert.Equal(t, "postgres://classhub:p%40ss@db:5432/classhub?sslmode=disable&timezone=utc", dsn("classhub", false, conf))
	assert.Equal(t, "postgres://root:toor@db:5432/postgres?sslmode=disable&timezone=utc", dsn("postgres", true, conf))

	conf.DisableTLS = false
	conf.AdminUser = ""
	conf.Port = ""
	assert.Equal(t, "postgres://classhub:p%40ss@db/postgres?sslmode=require&timezone=utc", dsn("postgres", true, conf))
}

func TestMigrate(t *testing.T) {
	defer func(f func(string, *sql.DB, fs.FS, string, ...string) error) { gooseRunFunc = f }(gooseRunFunc)

	var (
		gotCmd  string
		gotDir  string
		gotArgs []string
		files   []string
	)
	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		gotCmd, gotDir, gotArgs = command, dir, args
		var err error
		files, err = fs.Glob(fsys, dir+"/*.sql")
		return err
	}

	require.NoError(t, Migrate(nil, "up-to", "2"))
	assert.Equal(t, "up-to", gotCmd)
	assert.Equal(t, "migrations", gotDir)
	assert.Equal(t, []string{"2"}, gotArgs)
	assert.Equal(t, []string{
		"migrations/00001_create_users.sql",
		"migrations/00002_create_academic_items.sql",
		"migrations/00003_create_timetable.sql",
	}, files)

	gooseRunFunc = func(string, *sql.DB, fs.FS, string, ...string) error { return errors.New("boom") }
	err := Migrate(nil, "down")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `running migration "down"`)
}
