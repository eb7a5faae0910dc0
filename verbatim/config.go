package verbatim

import "log/slog"

// Config configures an Extractor.
type Config struct {
	// StructuralStyles lists style-ID keywords (matched case-insensitively
	// as substrings of w:pStyle) that force a paragraph to be classified as
	// structure, e.g. "heading", "tag", "cite". Empty disables style
	// matching and classification is bold-only.
	StructuralStyles []string `json:"structural_styles" yaml:"structural_styles"`

	// KeepCitationAfterTag keeps the paragraph immediately following a
	// structure paragraph with all runs intact, the way hand-cut files
	// place the full cite under the tag line. Off by default.
	KeepCitationAfterTag bool `json:"keep_citation_after_tag" yaml:"keep_citation_after_tag"`

	// Logger for debug messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
