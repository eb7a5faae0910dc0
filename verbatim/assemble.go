package verbatim

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
)

// assemble prunes the document DOM according to the per-paragraph
// classifications and the mode, then reserializes the package. Structure
// paragraphs are left untouched; body paragraphs lose their unkept runs and
// are removed entirely when nothing survives. The DOM surgery never touches
// pPr, sectPr, tables, or any other sibling content, so paragraph-level
// formatting and document-level resources carry through unchanged.
func (d *Document) assemble(classifications []Classification, mode Mode, keepCiteAfterTag bool) Stats {
	var stats Stats

	prevStructure := false
	for i, p := range d.Paragraphs {
		if classifications[i] == Structure {
			stats.ParagraphsKept++
			prevStructure = true
			continue
		}
		if keepCiteAfterTag && prevStructure {
			// Cite line under a tag: keep intact even though not all bold.
			stats.ParagraphsKept++
			prevStructure = false
			continue
		}
		prevStructure = false

		kept := 0
		for _, r := range p.Runs {
			if keep(r, mode) {
				kept++
				continue
			}
			xmlquery.RemoveFromTree(r.node)
			if !r.Empty() {
				stats.RunsDropped++
			}
		}
		if kept == 0 {
			xmlquery.RemoveFromTree(p.node)
			stats.ParagraphsDropped++
		} else {
			stats.ParagraphsKept++
		}
	}

	return stats
}

// serialize rebuilds the .docx package: every ZIP part of the source is
// copied verbatim except word/document.xml, which is re-emitted from the
// pruned DOM. Copying the part table wholesale keeps [Content_Types].xml,
// relationships, styles, numbering, and fonts resolvable without the
// assembler knowing anything about them.
func (d *Document) serialize() ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(d.source), int64(len(d.source)))
	if err != nil {
		return nil, fmt.Errorf("reopen source package: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range zr.File {
		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("create part %s: %w", f.Name, err)
		}
		if f.Name == mainDocumentPart {
			if _, err := io.WriteString(w, d.dom.OutputXML(false)); err != nil {
				return nil, fmt.Errorf("write %s: %w", mainDocumentPart, err)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open part %s: %w", f.Name, err)
		}
		if _, err := io.Copy(w, rc); err != nil {
			rc.Close()
			return nil, fmt.Errorf("copy part %s: %w", f.Name, err)
		}
		rc.Close()
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize package: %w", err)
	}
	return buf.Bytes(), nil
}
