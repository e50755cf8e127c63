package convert

import (
	"archive/zip"
	"bytes"
	"testing"
)

func zipWithEntry(t *testing.T, name string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("<w:document/>")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	docx := zipWithEntry(t, "word/document.xml")
	if got := Detect(docx); got != KindDocx {
		t.Fatalf("docx detected as %q", got)
	}

	plainZip := zipWithEntry(t, "other.txt")
	if got := Detect(plainZip); got != KindText {
		t.Fatalf("zip without document.xml detected as %q", got)
	}

	ole := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, []byte("body")...)
	if got := Detect(ole); got != KindDoc {
		t.Fatalf("ole detected as %q", got)
	}

	if got := Detect([]byte("just some text")); got != KindText {
		t.Fatalf("text detected as %q", got)
	}

	// A PDF magic prefix without a valid xref table is not a readable PDF.
	if got := Detect([]byte("%PDF-1.7 broken")); got != KindText {
		t.Fatalf("broken pdf detected as %q", got)
	}
}

func TestIsWordProcessing(t *testing.T) {
	if !IsWordProcessing(KindDocx) || !IsWordProcessing(KindDoc) {
		t.Fatal("word formats not accepted")
	}
	if IsWordProcessing(KindPDF) || IsWordProcessing(KindText) {
		t.Fatal("non-word formats accepted")
	}
}

func TestMimeType(t *testing.T) {
	if got := MimeType(KindDocx); got != "application/vnd.openxmlformats-officedocument.wordprocessingml.document" {
		t.Fatalf("docx mime = %q", got)
	}
	if got := MimeType(KindText); got != "text/plain" {
		t.Fatalf("text mime = %q", got)
	}
}
