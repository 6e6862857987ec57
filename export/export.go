// Package export renders the full task collection into portable formats
// for user-initiated downloads.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jung-kurt/gofpdf"

	"github.com/AbdulRehman-Syed/task-manager/domain"
)

// Fixed download filenames, one per supported format.
const (
	FilenameJSON = "tasks-export.json"
	FilenameCSV  = "tasks-export.csv"
	FilenamePDF  = "tasks-export.pdf"
)

// ErrUnknownFormat is returned when the requested format is not supported.
var ErrUnknownFormat = errors.New("unknown export format")

// Result is a rendered export ready to be handed to a download collaborator.
type Result struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Render serializes the given tasks in the requested format. The collection
// is always exported whole and unfiltered; format defaults to JSON.
func Render(tasks []domain.Task, format string) (Result, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		data, err := sonic.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return Result{}, fmt.Errorf("encode json export: %w", err)
		}
		return Result{Data: data, Filename: FilenameJSON, ContentType: "application/json"}, nil
	case "csv":
		data, err := renderCSV(tasks)
		if err != nil {
			return Result{}, err
		}
		return Result{Data: data, Filename: FilenameCSV, ContentType: "text/csv"}, nil
	case "pdf":
		data, err := renderPDF(tasks)
		if err != nil {
			return Result{}, err
		}
		return Result{Data: data, Filename: FilenamePDF, ContentType: "application/pdf"}, nil
	}
	return Result{}, fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

func renderCSV(tasks []domain.Task) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	if err := w.Write([]string{"id", "title", "category", "priority", "due_date", "description", "completed", "created_at"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.String()
		}
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			string(t.Category),
			string(t.Priority),
			due,
			t.Description,
			strconv.FormatBool(t.Completed),
			t.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return b.Bytes(), nil
}

func renderPDF(tasks []domain.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task List")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	for _, t := range tasks {
		state := "pending"
		if t.Completed {
			state = "done"
		}
		line := fmt.Sprintf("#%d [%s/%s] %s (%s)", t.ID, t.Category, t.Priority, t.Title, state)
		if t.DueDate != nil {
			line += " due " + t.DueDate.String()
		}
		pdf.MultiCell(0, 6, line, "0", "L", false)
		if t.Description != "" {
			pdf.MultiCell(0, 5, "    "+t.Description, "0", "L", false)
		}
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf export: %w", err)
	}
	return buf.Bytes(), nil
}
