package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)

func sampleTasks() []*domain.Task {
	return []*domain.Task{
		{ID: 2, Name: "Revisar código", DueDate: today.AddDate(0, 0, 3), Status: domain.StatusInProgress, OwnerID: 1, Version: 2},
		{ID: 1, Name: "Pay rent, now", DueDate: today.AddDate(0, 0, -1), Status: domain.StatusPending, OwnerID: 4, Version: 1},
		{ID: 3, Name: "Old chore", DueDate: today.AddDate(0, 0, -9), Status: domain.StatusCompleted, OwnerID: 1, Version: 3},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want export.Format
	}{
		{"", export.FormatCSV},
		{"csv", export.FormatCSV},
		{" JSON ", export.FormatJSON},
		{"Pdf", export.FormatPDF},
	}
	for _, tt := range tests {
		got, err := export.ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := export.ParseFormat("xlsx")
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFormatMetadata(t *testing.T) {
	assert.Equal(t, "application/json", export.FormatJSON.ContentType())
	assert.Equal(t, "application/pdf", export.FormatPDF.ContentType())
	assert.Equal(t, "text/csv; charset=utf-8", export.FormatCSV.ContentType())
	assert.Equal(t, "tasks-2026-05-20.pdf", export.FormatPDF.Filename(today))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatCSV, sampleTasks(), today))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"id", "name", "due_date", "status", "owner_id", "overdue"}, records[0])
	assert.Equal(t, []string{"2", "Revisar código", "2026-05-23", "in_progress", "1", "false"}, records[1])
	assert.Equal(t, []string{"1", "Pay rent, now", "2026-05-19", "pending", "4", "true"}, records[2])
	// Finished tasks are never overdue.
	assert.Equal(t, "false", records[3][5])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatJSON, sampleTasks(), today))

	var docs []export.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &docs))
	require.Len(t, docs, 3)
	assert.Equal(t, export.Document{
		ID:          1,
		Name:        "Pay rent, now",
		DueDate:     "2026-05-19",
		Status:      "pending",
		StatusLabel: "Pending",
		OwnerID:     4,
		Version:     1,
		Overdue:     true,
	}, docs[1])

	buf.Reset()
	require.NoError(t, export.Write(&buf, export.FormatJSON, nil, today))
	assert.JSONEq(t, "[]", buf.String())
}

func TestWritePDF(t *testing.T) {
	tasks := sampleTasks()
	for i := int64(10); i < 80; i++ {
		tasks = append(tasks, &domain.Task{
			ID: i, Name: "Filler task", DueDate: today, Status: domain.StatusPending, OwnerID: 1,
		})
	}

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatPDF, tasks, today))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteUnknownFormat(t *testing.T) {
	err := export.Write(&bytes.Buffer{}, export.Format("xml"), nil, today)
	assert.ErrorIs(t, err, export.ErrUnknownFormat)
}
