package convert

import (
	"archive/zip"
	"bytes"

	"github.com/ledongthuc/pdf"
)

// Kind identifies a supported upload format.
type Kind string

const (
	KindDocx Kind = "docx"
	KindDoc  Kind = "doc"
	KindPDF  Kind = "pdf"
	KindText Kind = "txt"
)

var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Detect inspects payload magic bytes and returns the document kind. The
// filename is deliberately ignored; anything unrecognized is treated as text.
func Detect(data []byte) Kind {
	switch {
	case isDocx(data):
		return KindDocx
	case bytes.HasPrefix(data, oleMagic):
		return KindDoc
	case isPDF(data):
		return KindPDF
	default:
		return KindText
	}
}

// IsWordProcessing reports whether kind is accepted by the conversion endpoint.
func IsWordProcessing(kind Kind) bool {
	return kind == KindDocx || kind == KindDoc
}

func isDocx(data []byte) bool {
	if !bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return false
	}
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, file := range reader.File {
		if normalizeZipName(file.Name) == "word/document.xml" {
			return true
		}
	}
	return false
}

func isPDF(data []byte) bool {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return false
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	return reader.NumPage() > 0
}

// MimeType maps a detected kind to its canonical content type.
func MimeType(kind Kind) string {
	switch kind {
	case KindDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case KindDoc:
		return "application/msword"
	case KindPDF:
		return "application/pdf"
	default:
		return "text/plain"
	}
}
