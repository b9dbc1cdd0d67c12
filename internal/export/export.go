// Package export renders task lists as CSV, JSON or PDF documents.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/phrazzld/tasktrack/internal/domain"
)

// Format is an export document type.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// ErrUnknownFormat is returned for any format other than csv, json or pdf.
var ErrUnknownFormat = errors.New("unknown export format")

// csvHeader is the first row of every CSV export.
var csvHeader = []string{"id", "name", "due_date", "status", "owner_id", "overdue"}

// ParseFormat resolves a case-insensitive format name. An empty name selects CSV.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON, FormatPDF:
		return f, nil
	default:
		return "", domain.NewValidationError("format",
			fmt.Sprintf("%q is not one of csv, json, pdf", name), ErrUnknownFormat)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Filename returns the download name for an export produced on day.
func (f Format) Filename(day time.Time) string {
	return fmt.Sprintf("tasks-%s.%s", day.Format(domain.DateLayout), f)
}

// Document is the JSON form of one exported task.
type Document struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	OwnerID     int64  `json:"owner_id"`
	Version     int    `json:"version"`
	Overdue     bool   `json:"overdue"`
}

// NewDocument converts task into its export form. today decides overdue.
func NewDocument(task *domain.Task, today time.Time) Document {
	return Document{
		ID:          task.ID,
		Name:        task.Name,
		DueDate:     task.DueDate.Format(domain.DateLayout),
		Status:      string(task.Status),
		StatusLabel: task.Status.Label(),
		OwnerID:     task.OwnerID,
		Version:     task.Version,
		Overdue:     task.IsOverdue(today),
	}
}

// Write renders tasks to w in the given format, preserving their order.
func Write(w io.Writer, format Format, tasks []*domain.Task, today time.Time) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, tasks, today)
	case FormatJSON:
		return writeJSON(w, tasks, today)
	case FormatPDF:
		return writePDF(w, tasks, today)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func writeCSV(w io.Writer, tasks []*domain.Task, today time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, task := range tasks {
		doc := NewDocument(task, today)
		record := []string{
			strconv.FormatInt(doc.ID, 10),
			doc.Name,
			doc.DueDate,
			doc.Status,
			strconv.FormatInt(doc.OwnerID, 10),
			strconv.FormatBool(doc.Overdue),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, tasks []*domain.Task, today time.Time) error {
	docs := make([]Document, 0, len(tasks))
	for _, task := range tasks {
		docs = append(docs, NewDocument(task, today))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}

// PDF column layout in millimetres.
var pdfColumns = []struct {
	title string
	width float64
}{
	{"ID", 15},
	{"Name", 85},
	{"Due date", 30},
	{"Status", 30},
	{"Overdue", 20},
}

func writePDF(w io.Writer, tasks []*domain.Task, today time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; names may carry accents.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 6, fmt.Sprintf("Generated %s, %d tasks", today.Format(domain.DateLayout), len(tasks)))
	pdf.Ln(10)
	header()

	for _, task := range tasks {
		doc := NewDocument(task, today)
		overdue := ""
		if doc.Overdue {
			overdue = "yes"
		}
		cells := []string{strconv.FormatInt(doc.ID, 10), tr(doc.Name), doc.DueDate, doc.StatusLabel, overdue}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 6, cells[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
