package verbatim

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// mainDocumentPart is the ZIP entry holding the document body. Word always
// writes it at this path; packages without it are not WordprocessingML.
const mainDocumentPart = "word/document.xml"

// Selectors are matched on local names so documents with a non-standard
// namespace prefix still parse.
var (
	selBody = xpath.MustCompile("//*[local-name()='body']")
	selRun  = xpath.MustCompile("descendant::*[local-name()='r']")
	selText = xpath.MustCompile("descendant::*[local-name()='t']")
)

// Read parses a .docx byte buffer into a Document. It fails with
// ErrMalformedDocument when the bytes are not a valid package and with
// ErrUnsupportedFormat when the main document part cannot be located.
func Read(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == mainDocumentPart {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("%w: %s not found in archive", ErrUnsupportedFormat, mainDocumentPart)
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrMalformedDocument, mainDocumentPart, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrMalformedDocument, mainDocumentPart, err)
	}

	dom, err := xmlquery.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrMalformedDocument, mainDocumentPart, err)
	}

	body := xmlquery.QuerySelector(dom, selBody)
	if body == nil {
		return nil, fmt.Errorf("%w: document has no body element", ErrMalformedDocument)
	}

	doc := &Document{source: data, dom: dom}

	// Only direct children of the body: paragraphs inside tables are
	// pass-through and must not be classified or filtered.
	for n := body.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode && n.Data == "p" {
			doc.Paragraphs = append(doc.Paragraphs, parseParagraph(n))
		}
	}

	return doc, nil
}

func parseParagraph(node *xmlquery.Node) *Paragraph {
	p := &Paragraph{node: node}

	if pPr := childElement(node, "pPr"); pPr != nil {
		if style := childElement(pPr, "pStyle"); style != nil {
			p.StyleID = localAttr(style, "val")
		}
	}

	// Descendant runs, so text wrapped in w:hyperlink or w:smartTag is
	// seen by the classifier and filter too.
	for _, rn := range xmlquery.QuerySelectorAll(node, selRun) {
		p.Runs = append(p.Runs, parseRun(rn))
	}
	return p
}

func parseRun(node *xmlquery.Node) *Run {
	r := &Run{node: node}

	var sb strings.Builder
	for _, t := range xmlquery.QuerySelectorAll(node, selText) {
		sb.WriteString(t.InnerText())
	}
	r.Text = sb.String()

	rPr := childElement(node, "rPr")
	if rPr == nil {
		return r
	}
	r.Bold = onOff(childElement(rPr, "b"))
	r.Underline = underlineOn(childElement(rPr, "u"))
	r.Highlight = highlightOf(rPr)
	return r
}

// onOff evaluates an OOXML toggle property: present means on unless an
// explicit off value is given.
func onOff(n *xmlquery.Node) bool {
	if n == nil {
		return false
	}
	switch strings.ToLower(localAttr(n, "val")) {
	case "0", "false", "none", "off":
		return false
	}
	return true
}

// underlineOn evaluates w:u, where a missing val defaults to "single" and
// "none" explicitly turns underline off.
func underlineOn(n *xmlquery.Node) bool {
	if n == nil {
		return false
	}
	switch strings.ToLower(localAttr(n, "val")) {
	case "none", "0", "false":
		return false
	}
	return true
}

// highlightOf returns the run's highlight color, checking w:highlight first
// and falling back to w:shd background shading, which Word emits for text
// pasted from the web. Returns "" when unmarked.
func highlightOf(rPr *xmlquery.Node) string {
	if h := childElement(rPr, "highlight"); h != nil {
		val := localAttr(h, "val")
		switch strings.ToLower(val) {
		case "", "none":
		default:
			return val
		}
	}
	if shd := childElement(rPr, "shd"); shd != nil {
		fill := localAttr(shd, "fill")
		switch strings.ToLower(fill) {
		case "", "auto", "ffffff", "none":
		default:
			return fill
		}
	}
	return ""
}

// childElement returns the first direct child element with the given local
// name, ignoring the namespace prefix.
func childElement(n *xmlquery.Node, local string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			return c
		}
	}
	return nil
}

// localAttr returns an attribute value matched by local name only.
func localAttr(n *xmlquery.Node, local string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
