package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/domain/listing"
	"github.com/phrazzld/tasktrack/internal/export"
	"github.com/phrazzld/tasktrack/internal/mocks"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "export", "token"})
	assert.NotNil(t, root.RunE, "running the root starts the server")
}

func TestMigrateRejectsUnknownCommand(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"--env-file", "", "migrate", "sideways"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}

func TestTokenRequiresOwner(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"--env-file", "", "token"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner")
}

func TestTokenPrintsSignedToken(t *testing.T) {
	t.Setenv("TASKTRACK_DATABASE_URL", "file:unused.db")
	t.Setenv("TASKTRACK_DATABASE_DRIVER", "sqlite3")
	t.Setenv("TASKTRACK_AUTH_JWT_SECRET", testJWTSecret)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs([]string{"--env-file", "", "token", "--owner", "7"})
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Regexp(t, `^[\w-]+\.[\w-]+\.[\w-]+\n$`, out.String())
}

func TestLoadEnvFile(t *testing.T) {
	assert.NoError(t, loadEnvFile(""))
	assert.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TASKTRACK_TEST_ENV_VALUE=from-file\n"), 0o600))
	t.Setenv("TASKTRACK_TEST_ENV_VALUE", "")
	require.NoError(t, os.Unsetenv("TASKTRACK_TEST_ENV_VALUE"))

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("TASKTRACK_TEST_ENV_VALUE"))
}

func TestExportOptionsParse(t *testing.T) {
	format, params, err := exportOptions{
		format:  "json",
		status:  "all",
		search:  "report",
		dueFrom: "2026-01-01",
		dueTo:   "2026-12-31",
	}.parse()
	require.NoError(t, err)
	assert.Equal(t, export.FormatJSON, format)
	assert.Equal(t, "all", params.Status)
	assert.Equal(t, "report", params.Search)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), params.DueFrom)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), params.DueTo)

	_, _, err = exportOptions{format: "xml"}.parse()
	assert.ErrorIs(t, err, export.ErrUnknownFormat)

	_, _, err = exportOptions{format: "csv", dueFrom: "01/02/2026"}.parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--due-from")
}

func TestWriteExport(t *testing.T) {
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	var gotParams listing.Params
	svc := &mocks.MockTaskService{
		Now: now,
		ExportTasksFn: func(ctx context.Context, params listing.Params) ([]*domain.Task, error) {
			gotParams = params
			return []*domain.Task{
				{ID: 2, Name: "Late task", DueDate: now.AddDate(0, 0, -1), Status: domain.StatusPending, OwnerID: 1},
				{ID: 1, Name: "Done task", DueDate: now.AddDate(0, 0, -5), Status: domain.StatusCompleted, OwnerID: 1},
			}, nil
		},
	}

	var buf bytes.Buffer
	n, err := writeExport(context.Background(), svc, export.FormatJSON, listing.Params{Status: "all"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "all", gotParams.Status)

	var docs []export.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &docs))
	require.Len(t, docs, 2)
	assert.True(t, docs[0].Overdue)
	assert.False(t, docs[1].Overdue, "terminal tasks are never overdue")

	svc.ExportTasksFn = nil
	svc.DefaultError = errors.New("store down")
	_, err = writeExport(context.Background(), svc, export.FormatCSV, listing.Params{}, &buf)
	assert.Error(t, err)
}
