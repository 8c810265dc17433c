package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Account Number:</w:t><w:tab/><w:t>A-100</w:t></w:r></w:p>
    <w:p><w:r><w:t>Due Date: 2024-01-05</w:t></w:r></w:p>
  </w:body>
</w:document>`

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextDocx(t *testing.T) {
	data := buildZip(t, map[string]string{"word/document.xml": documentXML})

	got, err := Text(context.Background(), data, mimeDOCX, "bill.docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := "Account Number:\tA-100\nDue Date: 2024-01-05"
	if got != want {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestTextZipDocxNormalizes(t *testing.T) {
	data := buildZip(t, map[string]string{"word/document.xml": documentXML})

	if _, err := Text(context.Background(), data, "application/zip", "scan"); err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
}

func TestTextRealZipRejected(t *testing.T) {
	data := buildZip(t, map[string]string{"notes.txt": "hello"})

	_, err := Text(context.Background(), data, "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if !strings.Contains(err.Error(), "application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTextPlain(t *testing.T) {
	got, err := Text(context.Background(), []byte("\xef\xbb\xbf  kWh used: 1500 \n"), "text/plain; charset=utf-8", "bill.txt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "kWh used: 1500" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestTextEmpty(t *testing.T) {
	if _, err := Text(context.Background(), []byte("   "), "text/plain", "blank.txt"); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestTextInvalidPDF(t *testing.T) {
	if _, err := Text(context.Background(), []byte("%PDF-1.4 broken"), mimePDF, "bill.pdf"); err == nil {
		t.Fatal("expected error for broken pdf")
	}
}

func TestTextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Text(ctx, []byte("x"), "text/plain", "a.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTruncateOnRuneBoundary(t *testing.T) {
	if got := truncate("héllo", 2); got != "hé" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncate("abc", 5); got != "abc" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
