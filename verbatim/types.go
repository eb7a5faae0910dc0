package verbatim

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Mode selects which run markings qualify body text for retention.
type Mode string

const (
	// ModeHighlighted keeps runs that carry a highlight color.
	ModeHighlighted Mode = "highlighted"
	// ModeUnderlined keeps runs with underline formatting.
	ModeUnderlined Mode = "underlined"
	// ModeEither keeps runs that are highlighted or underlined. Default.
	ModeEither Mode = "either"
	// ModeAnd keeps only runs that are highlighted and underlined at once.
	ModeAnd Mode = "and"
)

// ParseMode maps a user-supplied mode string to a Mode. The empty string and
// the historical "both" spelling resolve to ModeEither.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "either", "both":
		return ModeEither, nil
	case "highlighted":
		return ModeHighlighted, nil
	case "underlined":
		return ModeUnderlined, nil
	case "and":
		return ModeAnd, nil
	default:
		return "", fmt.Errorf("unknown mode: %q", s)
	}
}

// Modes returns all selectable modes.
func Modes() []Mode {
	return []Mode{ModeHighlighted, ModeUnderlined, ModeEither, ModeAnd}
}

// Classification is the per-paragraph decision of the classifier.
type Classification int

const (
	// Body paragraphs are subject to run filtering.
	Body Classification = iota
	// Structure paragraphs (tags, cites, block headers) are kept verbatim.
	Structure
)

func (c Classification) String() string {
	if c == Structure {
		return "structure"
	}
	return "body"
}

// Run is an atomic span of text with the formatting attributes the filter
// inspects. The underlying XML node is carried untouched so every other
// attribute survives reserialization. Runs are never mutated after parse.
type Run struct {
	Text      string
	Bold      bool
	Underline bool
	Highlight string // highlight color or shading fill, "" when unmarked

	node *xmlquery.Node
}

// Highlighted reports whether the run carries any highlight or shading.
func (r *Run) Highlighted() bool { return r.Highlight != "" }

// Empty reports whether the run has no text beyond whitespace.
func (r *Run) Empty() bool { return strings.TrimSpace(r.Text) == "" }

// Paragraph is an ordered sequence of runs plus paragraph-level formatting,
// which lives on the underlying node and is copied through unchanged.
type Paragraph struct {
	StyleID string // w:pStyle value, "" when unstyled
	Runs    []*Run

	node *xmlquery.Node
}

// nonEmptyRuns returns the runs whose text is non-blank.
func (p *Paragraph) nonEmptyRuns() []*Run {
	var out []*Run
	for _, r := range p.Runs {
		if !r.Empty() {
			out = append(out, r)
		}
	}
	return out
}

// Text returns the concatenated run text, for diagnostics and tests.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Document is a parsed .docx package. It owns the DOM of word/document.xml
// and the original package bytes; assemble rewrites the one and copies the
// rest of the other verbatim.
type Document struct {
	Paragraphs []*Paragraph

	source []byte
	dom    *xmlquery.Node
}
