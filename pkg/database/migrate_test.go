package database

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationsDir = "../../migrations"

// likeOptions are the table-like options Postgres accepts after INCLUDING or EXCLUDING.
var likeOptions = map[string]bool{
	"COMMENTS": true, "COMPRESSION": true, "CONSTRAINTS": true, "DEFAULTS": true, "GENERATED": true,
	"IDENTITY": true, "INDEXES": true, "STATISTICS": true, "STORAGE": true, "ALL": true,
}

var likeOptionRe = regexp.MustCompile(`(?i)\b(?:INCLUDING|EXCLUDING)\s+([A-Z_]+)`)

func readMigration(t *testing.T, read func(uint) (io.ReadCloser, string, error), version uint) string {
	t.Helper()
	r, _, err := read(version)
	require.NoError(t, err, "version %d", version)
	defer r.Close()
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(body)
}

func openMigrations(t *testing.T) source.Driver {
	t.Helper()
	drv, err := (&file.File{}).Open("file://" + migrationsDir)
	require.NoError(t, err)
	t.Cleanup(func() { drv.Close() })
	return drv
}

func TestMigrations_EveryUpHasDown(t *testing.T) {
	drv := openMigrations(t)

	version, err := drv.First()
	require.NoError(t, err)
	for {
		up := readMigration(t, drv.ReadUp, version)
		down := readMigration(t, drv.ReadDown, version)
		assert.NotEmpty(t, strings.TrimSpace(up), "version %d up", version)
		assert.NotEmpty(t, strings.TrimSpace(down), "version %d down", version)

		version, err = drv.Next(version)
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		require.NoError(t, err)
	}
}

func TestMigrations_LikeOptionsAreValid(t *testing.T) {
	drv := openMigrations(t)

	version, err := drv.First()
	require.NoError(t, err)
	for {
		up := readMigration(t, drv.ReadUp, version)
		for _, m := range likeOptionRe.FindAllStringSubmatch(up, -1) {
			assert.True(t, likeOptions[strings.ToUpper(m[1])], "version %d: unsupported LIKE option %q", version, m[1])
		}

		version, err = drv.Next(version)
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		require.NoError(t, err)
	}
}

// Applies the schema to a real database when TEST_PGSQL_URL points at one.
func TestRunMigrations_UpDownUp(t *testing.T) {
	url := os.Getenv("TEST_PGSQL_URL")
	if url == "" {
		t.Skip("TEST_PGSQL_URL not set")
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := RunMigrations(url, migrationsDir, MigrateUp, logger)
	require.NoError(t, err)
	_, err = RunMigrations(url, migrationsDir, MigrateDown, logger)
	require.NoError(t, err)
	changed, err := RunMigrations(url, migrationsDir, MigrateUp, logger)
	require.NoError(t, err)
	assert.True(t, changed)
}
