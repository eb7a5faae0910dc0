package verbatim

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

// scenarioDoc is the canonical two-paragraph card: a bold tag line and a
// body paragraph with one unmarked, one highlighted, and one underlined run.
func scenarioDoc(t *testing.T) []byte {
	t.Helper()
	return buildDocx(t, wrapDocument(
		para(run("Smith 2020", propBold))+
			para(run("foo "), run("bar ", propHighlight), run("baz", propUnderline)),
	))
}

func extractAndReread(t *testing.T, data []byte, mode Mode) (*Result, *Document) {
	t.Helper()
	res, err := New(Config{}).Extract(data, mode)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Read(res.Data)
	if err != nil {
		t.Fatalf("output does not read back as a valid package: %v", err)
	}
	return res, out
}

func paragraphTexts(doc *Document) []string {
	var out []string
	for _, p := range doc.Paragraphs {
		out = append(out, p.Text())
	}
	return out
}

func TestExtract_ModeEither(t *testing.T) {
	_, out := extractAndReread(t, scenarioDoc(t), ModeEither)

	if len(out.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %q", len(out.Paragraphs), paragraphTexts(out))
	}
	if got := out.Paragraphs[0].Text(); got != "Smith 2020" {
		t.Errorf("structure paragraph = %q, want %q", got, "Smith 2020")
	}
	if got := out.Paragraphs[1].Text(); got != "bar baz" {
		t.Errorf("body paragraph = %q, want %q", got, "bar baz")
	}
}

func TestExtract_ModeHighlighted(t *testing.T) {
	_, out := extractAndReread(t, scenarioDoc(t), ModeHighlighted)

	if len(out.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(out.Paragraphs))
	}
	body := out.Paragraphs[1]
	if len(body.Runs) != 1 || body.Runs[0].Text != "bar " {
		t.Fatalf("body runs = %q, want only \"bar \"", paragraphTexts(out))
	}
	if !body.Runs[0].Highlighted() {
		t.Error("kept run lost its highlight")
	}
}

func TestExtract_ModeUnderlined(t *testing.T) {
	_, out := extractAndReread(t, scenarioDoc(t), ModeUnderlined)

	body := out.Paragraphs[len(out.Paragraphs)-1]
	if len(body.Runs) != 1 || body.Runs[0].Text != "baz" {
		t.Fatalf("body runs = %v, want only \"baz\"", paragraphTexts(out))
	}
	if !body.Runs[0].Underline {
		t.Error("kept run lost its underline")
	}
}

func TestExtract_ModeAnd(t *testing.T) {
	data := buildDocx(t, wrapDocument(
		para(run("Tag", propBold))+
			para(
				run("only highlight ", propHighlight),
				run("only underline ", propUnderline),
				run("both marks", propHighlight, propUnderline),
			),
	))
	_, out := extractAndReread(t, data, ModeAnd)

	body := out.Paragraphs[1]
	if len(body.Runs) != 1 || body.Runs[0].Text != "both marks" {
		t.Fatalf("body runs = %q, want only \"both marks\"", paragraphTexts(out))
	}
}

func TestExtract_UnmarkedBodyDropped(t *testing.T) {
	data := buildDocx(t, wrapDocument(
		para(run("Tag line", propBold))+
			para(run("nothing "), run("marked "), run("here", propBold)),
	))

	for _, mode := range Modes() {
		res, out := extractAndReread(t, data, mode)
		if len(out.Paragraphs) != 1 {
			t.Errorf("mode %s: expected 1 paragraph, got %d", mode, len(out.Paragraphs))
		}
		if res.ParagraphsDropped != 1 {
			t.Errorf("mode %s: ParagraphsDropped = %d, want 1", mode, res.ParagraphsDropped)
		}
	}
}

func TestExtract_NoEmptyParagraphsInOutput(t *testing.T) {
	data := buildDocx(t, wrapDocument(
		para()+ // empty spacing paragraph
			para(run("   "))+ // whitespace only
			para(run("kept", propHighlight)),
	))
	_, out := extractAndReread(t, data, ModeEither)

	if len(out.Paragraphs) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(out.Paragraphs))
	}
	for _, p := range out.Paragraphs {
		if len(p.Runs) == 0 {
			t.Error("output contains a paragraph with zero runs")
		}
	}
}

func TestExtract_StructureOnlyUnchanged(t *testing.T) {
	data := buildDocx(t, wrapDocument(
		para(run("Block: Warming Adv", propBold))+
			para(run("Smith 2020 ", propBold), run("(professor, MIT)", propBold)),
	))

	for _, mode := range Modes() {
		in, err := Read(data)
		if err != nil {
			t.Fatal(err)
		}
		res, out := extractAndReread(t, data, mode)

		if res.ParagraphsDropped != 0 || res.RunsDropped != 0 {
			t.Errorf("mode %s: dropped %d paragraphs / %d runs from a structure-only document",
				mode, res.ParagraphsDropped, res.RunsDropped)
		}
		if len(out.Paragraphs) != len(in.Paragraphs) {
			t.Fatalf("mode %s: paragraph count changed: %d → %d", mode, len(in.Paragraphs), len(out.Paragraphs))
		}
		for i := range in.Paragraphs {
			ip, op := in.Paragraphs[i], out.Paragraphs[i]
			if len(ip.Runs) != len(op.Runs) {
				t.Fatalf("mode %s: paragraph %d run count changed", mode, i)
			}
			for j := range ip.Runs {
				ir, or := ip.Runs[j], op.Runs[j]
				if ir.Text != or.Text || ir.Bold != or.Bold || ir.Underline != or.Underline || ir.Highlight != or.Highlight {
					t.Errorf("mode %s: run %d/%d changed: %+v → %+v", mode, i, j, ir, or)
				}
			}
		}
	}
}

func TestExtract_OrderPreserved(t *testing.T) {
	data := buildDocx(t, wrapDocument(
		para(run("Tag A", propBold))+
			para(run("skip "), run("one", propHighlight))+
			para(run("all unmarked"))+
			para(run("Tag B", propBold))+
			para(run("two", propUnderline), run(" skip"), run(" three", propHighlight)),
	))
	_, out := extractAndReread(t, data, ModeEither)

	want := []string{"Tag A", "one", "Tag B", "two three"}
	got := paragraphTexts(out)
	if len(got) != len(want) {
		t.Fatalf("paragraphs = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtract_EmptyResult(t *testing.T) {
	data := buildDocx(t, wrapDocument(
		para(run("nothing marked at all"))+
			para(run("still nothing")),
	))
	res, out := extractAndReread(t, data, ModeEither)

	if !res.Empty() {
		t.Error("expected Empty() for a document with no marked content")
	}
	if len(out.Paragraphs) != 0 {
		t.Fatalf("expected 0 paragraphs, got %d", len(out.Paragraphs))
	}
}

func TestExtract_Counts(t *testing.T) {
	res, _ := extractAndReread(t, scenarioDoc(t), ModeHighlighted)

	if res.ParagraphsKept != 2 {
		t.Errorf("ParagraphsKept = %d, want 2", res.ParagraphsKept)
	}
	if res.ParagraphsDropped != 0 {
		t.Errorf("ParagraphsDropped = %d, want 0", res.ParagraphsDropped)
	}
	// "foo " and "baz" go; "bar " stays.
	if res.RunsDropped != 2 {
		t.Errorf("RunsDropped = %d, want 2", res.RunsDropped)
	}
}

func TestExtract_KeepCitationAfterTag(t *testing.T) {
	data := buildDocx(t, wrapDocument(
		para(run("Tag line", propBold))+
			para(run("Smith, professor of climatology, 2020, interview"))+
			para(run("unrelated body")),
	))

	ex := New(Config{KeepCitationAfterTag: true})
	res, err := ex.Extract(data, ModeEither)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Read(res.Data)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"Tag line", "Smith, professor of climatology, 2020, interview"}
	got := paragraphTexts(out)
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("paragraphs = %q, want %q", got, want)
	}
}

func TestExtract_MalformedInput(t *testing.T) {
	res, err := New(Config{}).Extract([]byte("garbage"), ModeEither)
	if !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("expected ErrMalformedDocument, got %v", err)
	}
	if res != nil {
		t.Error("no output must be produced on error")
	}
}

func TestExtract_UnknownMode(t *testing.T) {
	if _, err := New(Config{}).Extract(scenarioDoc(t), Mode("sparkly")); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestExtract_PackagePartsSurvive(t *testing.T) {
	res, err := New(Config{}).Extract(scenarioDoc(t), ModeEither)
	if err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(res.Data), int64(len(res.Data)))
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]bool{}
	for _, f := range zr.File {
		got[f.Name] = true
	}
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"} {
		if !got[name] {
			t.Errorf("output package lost part %s", name)
		}
	}
}
