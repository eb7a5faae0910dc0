// Package verbatim extracts the marked content from debate files cut under
// the Verbatim .docx convention. Card structure (tag and cite paragraphs,
// typed fully bold) is kept as-is; body paragraphs keep only their
// highlighted and/or underlined runs, and body paragraphs with nothing
// marked disappear from the output.
//
// The transformation is pure and synchronous: one input buffer in, one
// output buffer out, no shared state between calls. An Extractor is safe
// for concurrent use.
//
// Usage:
//
//	ex := verbatim.New(verbatim.Config{})
//	res, err := ex.Extract(data, verbatim.ModeEither)
//	os.WriteFile(verbatim.OutputFilename("aff.docx"), res.Data, 0644)
package verbatim

import (
	"fmt"
	"path/filepath"
	"strings"
)

// outputMarker is appended to the input file stem to name the output.
const outputMarker = "_read-doc"

// Stats counts what the assembler kept and dropped.
type Stats struct {
	ParagraphsKept    int `json:"paragraphs_kept"`
	ParagraphsDropped int `json:"paragraphs_dropped"`
	RunsDropped       int `json:"runs_dropped"`
}

// Result is the outcome of one extraction.
type Result struct {
	// Data is the serialized output package, always a structurally valid
	// .docx even when no paragraphs survived.
	Data []byte
	Stats
}

// Empty reports whether assembly produced zero paragraphs. Not an error:
// the caller decides whether to surface it as a warning.
func (r *Result) Empty() bool { return r.ParagraphsKept == 0 }

// Extractor runs the read, classify, filter, assemble sequence over a
// single document per call.
type Extractor struct {
	cfg Config
}

// New creates an Extractor with the given configuration.
func New(cfg Config) *Extractor {
	cfg.defaults()
	return &Extractor{cfg: cfg}
}

// Extract transforms one .docx buffer. Reader failures propagate unchanged
// (ErrMalformedDocument, ErrUnsupportedFormat); any serialization fault is
// returned as a generic wrapped error. No partial output is ever returned.
func (e *Extractor) Extract(data []byte, mode Mode) (*Result, error) {
	mode, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}

	doc, err := Read(data)
	if err != nil {
		return nil, err
	}

	classifications := make([]Classification, len(doc.Paragraphs))
	for i, p := range doc.Paragraphs {
		classifications[i] = classify(p, e.cfg.StructuralStyles)
	}

	stats := doc.assemble(classifications, mode, e.cfg.KeepCitationAfterTag)

	out, err := doc.serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize output package: %w", err)
	}

	e.cfg.Logger.Debug("extraction complete",
		"mode", mode,
		"paragraphs_kept", stats.ParagraphsKept,
		"paragraphs_dropped", stats.ParagraphsDropped,
		"runs_dropped", stats.RunsDropped)

	return &Result{Data: out, Stats: stats}, nil
}

// OutputFilename derives the suggested output name from the input filename:
// "aff.docx" → "aff_read-doc.docx".
func OutputFilename(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, ".docx") {
		ext = ".docx"
		base = strings.TrimSuffix(base, filepath.Ext(base))
	} else {
		base = strings.TrimSuffix(base, ext)
	}
	return base + outputMarker + ext
}
