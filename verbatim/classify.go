package verbatim

import "strings"

// classify decides whether a paragraph is card structure (tag, cite, block
// header) or body text. The Verbatim convention has no explicit tag marker,
// so the rule is a heuristic: structure paragraphs are typed fully bold,
// body text mixes bold and plain runs.
//
// A paragraph is structure iff it has at least one non-empty run and every
// non-empty run is bold. A paragraph with zero non-empty runs is body; the
// assembler drops it. When structuralStyles is non-empty, a matching
// w:pStyle also forces structure, the way heading/tag/cite styles did in
// hand-formatted files.
func classify(p *Paragraph, structuralStyles []string) Classification {
	if len(structuralStyles) > 0 && p.StyleID != "" {
		style := strings.ToLower(p.StyleID)
		for _, kw := range structuralStyles {
			if kw != "" && strings.Contains(style, strings.ToLower(kw)) {
				return Structure
			}
		}
	}

	runs := p.nonEmptyRuns()
	if len(runs) == 0 {
		return Body
	}
	for _, r := range runs {
		if !r.Bold {
			return Body
		}
	}
	return Structure
}
