package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
)

// minimalPDF builds a valid PDF with the given number of empty pages.
func minimalPDF(pages int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	var kids string
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages),
	}
	for i := 0; i < pages; i++ {
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func zipWith(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestInspectCountsPDFPages(t *testing.T) {
	doc, err := Inspect(context.Background(), minimalPDF(2), "application/pdf", "cv.pdf")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if doc.MimeType != MimePDF || doc.Pages != 2 {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestInspectSniffsGenericPDF(t *testing.T) {
	doc, err := Inspect(context.Background(), minimalPDF(1), "application/octet-stream", "upload.bin")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if doc.MimeType != MimePDF || doc.Pages != 1 {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestInspectRejectsTruncatedPDF(t *testing.T) {
	_, err := Inspect(context.Background(), []byte("%PDF-1.4\nnot really"), "application/pdf", "cv.pdf")
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestInspectZipDocxNormalizes(t *testing.T) {
	data := zipWith(t, "word/document.xml", `<w:document xmlns:w="x"><w:body><w:p><w:r><w:t>Senior Go engineer</w:t></w:r></w:p></w:body></w:document>`)

	doc, err := Inspect(context.Background(), data, "application/zip", "cv.docx")
	if err != nil {
		t.Fatalf("expected docx to inspect from zip mime, got error: %v", err)
	}
	if doc.MimeType != MimeDOCX || doc.Words != 3 {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestInspectRealZipRejected(t *testing.T) {
	data := zipWith(t, "notes.txt", "hello")

	_, err := Inspect(context.Background(), data, "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestInspectLegacyDoc(t *testing.T) {
	data := append(append([]byte{}, oleMagic...), make([]byte, 32)...)
	doc, err := Inspect(context.Background(), data, "", "cv.doc")
	if err != nil || doc.MimeType != MimeDOC {
		t.Fatalf("expected doc, got %+v %v", doc, err)
	}

	if _, err := Inspect(context.Background(), []byte("plain text"), MimeDOC, "cv.doc"); !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable for fake doc, got %v", err)
	}
}
