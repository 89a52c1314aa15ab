// Package extract turns a meeting transcript into the structured report
// data document using a two-pass LLM flow: an evidence-backed reasoning
// pass over the field schema, then a conversion pass to strict JSON.
package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/advisordocs/reportgen/internal/report"
	"github.com/advisordocs/reportgen/internal/schema"
)

// Completer is the LLM surface the extractor needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Extractor runs the two-pass extraction flow.
type Extractor struct {
	client Completer
	schema *schema.Schema
	log    *slog.Logger
}

func NewExtractor(client Completer, s *schema.Schema, log *slog.Logger) *Extractor {
	return &Extractor{
		client: client,
		schema: s,
		log:    log,
	}
}

// Extract runs both passes and parses the result into report data. The raw
// JSON text is returned alongside so callers can persist it.
func (e *Extractor) Extract(ctx context.Context, transcript string) (report.Data, []byte, error) {
	e.log.Info("extraction pass 1: reasoning over transcript",
		"transcript_chars", len(transcript),
		"schema_fields", e.schema.TotalFields())

	reasoned, err := e.client.Complete(ctx, BuildReasoningPrompt(transcript, e.schema.PromptLines()))
	if err != nil {
		return nil, nil, fmt.Errorf("reasoning pass: %w", err)
	}

	e.log.Info("extraction pass 2: converting to json", "reasoned_chars", len(reasoned))

	converted, err := e.client.Complete(ctx, BuildConversionPrompt(reasoned))
	if err != nil {
		return nil, nil, fmt.Errorf("conversion pass: %w", err)
	}

	raw := []byte(stripCodeBlock(converted))
	data, err := report.Parse(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parse extracted json: %w", err)
	}

	e.log.Info("extraction complete", "sections", len(data))
	return data, raw, nil
}
