package transcript

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
)

func TestTextReaderBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "i.txt")
	content := "Interviewer = I\n\nI: First question?\n\nP1: First answer,\nstill the same block.\n\n\n\nP1: Second answer.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	blocks, err := (&TextReader{}).ReadBlocks(path)
	if err != nil {
		t.Fatalf("ReadBlocks failed: %v", err)
	}
	want := []string{
		"Interviewer = I",
		"I: First question?",
		"P1: First answer,\nstill the same block.",
		"P1: Second answer.",
	}
	if !reflect.DeepEqual(blocks, want) {
		t.Errorf("blocks = %q, want %q", blocks, want)
	}
}

func writeODT(t *testing.T, contentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "i.odt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create odt: %v", err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("content.xml")
	if err != nil {
		t.Fatalf("create content.xml: %v", err)
	}
	if _, err := w.Write([]byte(contentXML)); err != nil {
		t.Fatalf("write content.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func TestODTReaderBlocks(t *testing.T) {
	path := writeODT(t, `<?xml version="1.0"?>
<office:document-content xmlns:office="o" xmlns:text="t">
  <office:body><office:text>
    <text:p>Interviewer = I</text:p>
    <text:p>I: How<text:tab/>did it go?</text:p>
    <text:p>P1: <text:span>Quite</text:span><text:s text:c="2"/>well.</text:p>
    <text:p></text:p>
  </office:text></office:body>
</office:document-content>`)

	blocks, err := (&ODTReader{}).ReadBlocks(path)
	if err != nil {
		t.Fatalf("ReadBlocks failed: %v", err)
	}
	want := []string{
		"Interviewer = I",
		"I: How did it go?",
		"P1: Quite  well.",
	}
	if !reflect.DeepEqual(blocks, want) {
		t.Errorf("blocks = %q, want %q", blocks, want)
	}
}

func TestHTMLReaderBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "i.html")
	content := `<html><head><title>skip me</title><script>var x;</script></head>
<body><p>Interviewer = I</p><div>I: A question?</div><p>P1: An <b>important</b> answer.</p></body></html>`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	blocks, err := (&HTMLReader{}).ReadBlocks(path)
	if err != nil {
		t.Fatalf("ReadBlocks failed: %v", err)
	}
	want := []string{
		"Interviewer = I",
		"I: A question?",
		"P1: An important answer.",
	}
	if !reflect.DeepEqual(blocks, want) {
		t.Errorf("blocks = %q, want %q", blocks, want)
	}
}

func TestReadDispatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "i.txt")
	if err := os.WriteFile(path, []byte("P1: Hello there.\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tr, err := Read(path, Options{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(tr.Statements) != 1 || tr.Statements[0].Text != "Hello there." {
		t.Errorf("unexpected transcript: %+v", tr.Statements)
	}
	if tr.ID == "" || tr.SourcePath != path {
		t.Errorf("unexpected identity: id=%q source=%q", tr.ID, tr.SourcePath)
	}
}

func TestReadUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "i.pdf")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Read(path, Options{}); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("got %v, want config error", err)
	}
}

func TestReadEmptyTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Read(path, Options{}); !errors.Is(err, errs.ErrStructural) {
		t.Fatalf("got %v, want structural error", err)
	}
}

func TestDocumentIDStableAndDistinct(t *testing.T) {
	a := DocumentID("transcripts/interview 01.odt")
	if a != DocumentID("transcripts/interview 01.odt") {
		t.Error("DocumentID is not stable")
	}
	if a == DocumentID("other/interview 01.odt") {
		t.Error("same stem in different directories must yield distinct ids")
	}
	for _, ch := range a {
		ok := ch == '-' || ch == '_' ||
			(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
		if !ok {
			t.Errorf("id %q contains unsafe character %q", a, ch)
		}
	}
}
