package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/advisordocs/reportgen/internal/convert"
	"github.com/advisordocs/reportgen/internal/extract"
	"github.com/advisordocs/reportgen/internal/report"
	"github.com/advisordocs/reportgen/internal/template"
	"github.com/advisordocs/reportgen/internal/transcribe"
	"github.com/advisordocs/reportgen/internal/transcript"
)

// Worker processes a single report-generation job end to end.
type Worker struct {
	transcriber  *transcribe.Client
	extractor    *extract.Extractor
	patcher      *template.Patcher
	templatePath string
	log          *slog.Logger
	toPDF        func(ctx context.Context, docxPath, pdfPath string) error
}

func NewWorker(transcriber *transcribe.Client, extractor *extract.Extractor, patcher *template.Patcher, templatePath string, log *slog.Logger) *Worker {
	return &Worker{
		transcriber:  transcriber,
		extractor:    extractor,
		patcher:      patcher,
		templatePath: templatePath,
		log:          log,
		toPDF:        convert.ToPDF,
	}
}

// Process runs the full pipeline for a job. Each phase writes its artifact
// into the job's directory so partial progress survives a later failure.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	jobDir := filepath.Dir(job.InputPath)

	// Phase 1: obtain transcript text.
	text, err := w.transcriptText(ctx, job, jobDir, log)
	if err != nil {
		log.Error("transcript phase failed", "error", err)
		job.Fail("transcript", err.Error())
		return
	}

	transcriptPath := filepath.Join(jobDir, "transcript.txt")
	if err := os.WriteFile(transcriptPath, []byte(text), 0o644); err != nil {
		log.Error("write transcript failed", "error", err)
		job.Fail("transcript", err.Error())
		return
	}
	job.SetArtifact(func(a *Artifacts) { a.TranscriptPath = transcriptPath })

	// Phase 2: extract structured data, retrying transient API failures.
	job.SetStatus(StatusExtracting, "extracting")
	data, raw, err := w.extractWithRetry(ctx, text, log)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.Fail("extracting", err.Error())
		return
	}

	jsonPath := filepath.Join(jobDir, "extracted.json")
	if err := os.WriteFile(jsonPath, raw, 0o644); err != nil {
		log.Error("write extracted json failed", "error", err)
		job.Fail("extracting", err.Error())
		return
	}
	job.SetArtifact(func(a *Artifacts) { a.JSONPath = jsonPath })

	// Phase 3: fill the report template.
	job.SetStatus(StatusGenerating, "generating")
	docxPath := filepath.Join(jobDir, "report.docx")
	result, err := w.patcher.Generate(w.templatePath, data, docxPath)
	if err != nil {
		log.Error("template fill failed", "error", err)
		job.Fail("generating", err.Error())
		return
	}
	if len(result.Unmatched) > 0 {
		log.Warn("placeholders left unfilled", "count", len(result.Unmatched), "placeholders", result.Unmatched)
		job.SetUnmatched(result.Unmatched)
	}
	job.SetArtifact(func(a *Artifacts) { a.DocxPath = docxPath })

	// Phase 4: render PDF. The requested output is the PDF, so a conversion
	// failure fails the job; the DOCX artifact stays recorded for diagnosis.
	job.SetStatus(StatusConverting, "converting")
	pdfPath := filepath.Join(jobDir, "report.pdf")
	if err := w.toPDF(ctx, docxPath, pdfPath); err != nil {
		log.Error("pdf conversion failed", "error", err)
		job.Fail("converting", err.Error())
		return
	}
	job.SetArtifact(func(a *Artifacts) { a.PDFPath = pdfPath })

	job.SetStatus(StatusCompleted, "done")
	log.Info("job complete", "pdf", pdfPath)
}

// transcriptText produces plain transcript text from the job's input file,
// transcribing audio and video when needed.
func (w *Worker) transcriptText(ctx context.Context, job *Job, jobDir string, log *slog.Logger) (string, error) {
	switch {
	case transcript.IsTranscript(job.Filename):
		return transcript.Read(job.InputPath)

	case transcript.IsAudio(job.Filename):
		if w.transcriber == nil {
			return "", fmt.Errorf("audio upload requires transcription to be configured")
		}
		job.SetStatus(StatusTranscribing, "transcribing")
		log.Info("transcribing audio")
		return w.transcriber.Transcribe(ctx, job.InputPath)

	case transcript.IsVideo(job.Filename):
		if w.transcriber == nil {
			return "", fmt.Errorf("video upload requires transcription to be configured")
		}
		job.SetStatus(StatusTranscribing, "extracting_audio")
		audioPath := filepath.Join(jobDir, "audio.mp3")
		log.Info("extracting audio track")
		if err := transcribe.ExtractAudio(ctx, job.InputPath, audioPath); err != nil {
			return "", err
		}
		job.SetStatus(StatusTranscribing, "transcribing")
		log.Info("transcribing audio")
		return w.transcriber.Transcribe(ctx, audioPath)

	default:
		return "", fmt.Errorf("unsupported input format: %s", filepath.Ext(job.Filename))
	}
}

func (w *Worker) extractWithRetry(ctx context.Context, text string, log *slog.Logger) (report.Data, []byte, error) {
	var err error
	for attempt := range maxExtractAttempts {
		data, raw, exErr := w.extractor.Extract(ctx, text)
		if exErr == nil {
			return data, raw, nil
		}
		err = exErr
		if !transient(exErr) {
			return nil, nil, exErr
		}
		log.Warn("transient extraction error", "attempt", attempt, "error", exErr)
		select {
		case <-time.After(extractDelay(attempt)):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
	return nil, nil, err
}
