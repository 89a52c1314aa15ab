package pipeline

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/advisordocs/reportgen/internal/extract"
	"github.com/advisordocs/reportgen/internal/schema"
	"github.com/advisordocs/reportgen/internal/template"
	"github.com/advisordocs/reportgen/internal/template/mapping"
)

type scriptedCompleter struct {
	responses []string
}

func (c *scriptedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if len(c.responses) == 0 {
		return "", errors.New("no scripted response")
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	docXML := `<w:document><w:body><w:p><w:r><w:t>[Meeting Objective]</w:t></w:r></w:p></w:body></w:document>`
	for name, body := range map[string]string{
		"[Content_Types].xml": `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   docXML,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// testWorker wires a worker over a scripted extraction client and a real
// patcher, with the PDF converter stubbed out.
func testWorker(t *testing.T, toPDF func(ctx context.Context, docxPath, pdfPath string) error) (*Worker, *Job) {
	t.Helper()

	client := &scriptedCompleter{responses: []string{
		"Section_name: Meeting\nfield_name: Meeting Objective\nValue: Annual review",
		`{"Meeting": {"Meeting Objective": "Annual review"}}`,
	}}
	fields := &schema.Schema{Sections: []schema.Section{
		{Name: "Meeting", Fields: []schema.Field{
			{Name: "Meeting Objective", Description: "Extract the meeting objective"},
		}},
	}}
	extractor := extract.NewExtractor(client, fields, discard())

	cfg, err := mapping.Default()
	if err != nil {
		t.Fatal(err)
	}
	patcher := template.New(cfg, discard())

	w := NewWorker(nil, extractor, patcher, writeTemplate(t), discard())
	w.toPDF = toPDF

	jobDir := t.TempDir()
	inputPath := filepath.Join(jobDir, "input.txt")
	if err := os.WriteFile(inputPath, []byte("Adviser: the objective today is your annual review."), 0o644); err != nil {
		t.Fatal(err)
	}
	job := &Job{ID: "j1", Filename: "input.txt", InputPath: inputPath, Status: StatusQueued}
	return w, job
}

func TestProcess_ConversionFailureFailsJob(t *testing.T) {
	w, job := testWorker(t, func(ctx context.Context, docxPath, pdfPath string) error {
		return errors.New("libreoffice: exit status 1")
	})

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed job, got %s", snap.Status)
	}
	if snap.Phase != "converting" {
		t.Errorf("expected converting phase, got %q", snap.Phase)
	}
	if snap.Error == "" {
		t.Error("expected conversion error recorded on the job")
	}
	if snap.Artifacts.DocxPath == "" {
		t.Error("expected docx artifact kept for diagnosis")
	}
	if snap.Artifacts.PDFPath != "" {
		t.Errorf("expected no pdf artifact, got %q", snap.Artifacts.PDFPath)
	}
}

func TestProcess_CompletesWithPDF(t *testing.T) {
	w, job := testWorker(t, func(ctx context.Context, docxPath, pdfPath string) error {
		return os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644)
	})

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed job, got %s (%s)", snap.Status, snap.Error)
	}
	if snap.Artifacts.TranscriptPath == "" || snap.Artifacts.JSONPath == "" {
		t.Errorf("expected transcript and json artifacts, got %+v", snap.Artifacts)
	}
	if snap.Artifacts.PDFPath == "" {
		t.Error("expected pdf artifact on success")
	}
	if _, err := os.Stat(snap.Artifacts.DocxPath); err != nil {
		t.Errorf("expected generated docx on disk: %v", err)
	}
}
