// Package extract inspects uploaded CV documents.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	ErrUnsupported = errors.New("unsupported document type")
	ErrUnreadable  = errors.New("document could not be read")
)

var (
	pdfMagic = []byte("%PDF-")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

const docxBody = "word/document.xml"

// Document summarizes an inspected CV.
type Document struct {
	MimeType string
	// Pages is set for PDFs.
	Pages int
	// Words is set for DOCX files.
	Words int
}

// Inspect checks that data is a readable PDF, DOC or DOCX file. declaredType
// may be empty or generic; the payload and fileName then decide.
func Inspect(ctx context.Context, data []byte, declaredType string, fileName string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	kind := detect(declaredType, fileName, data)
	switch kind {
	case MimePDF:
		pages, err := pdfPages(data)
		if err != nil {
			return Document{}, fmt.Errorf("%w: pdf: %v", ErrUnreadable, err)
		}
		return Document{MimeType: MimePDF, Pages: pages}, nil
	case MimeDOCX:
		words, err := docxWords(data)
		if err != nil {
			return Document{}, fmt.Errorf("%w: docx: %v", ErrUnreadable, err)
		}
		return Document{MimeType: MimeDOCX, Words: words}, nil
	case MimeDOC:
		if !bytes.HasPrefix(data, oleMagic) {
			return Document{}, fmt.Errorf("%w: doc: missing OLE header", ErrUnreadable)
		}
		return Document{MimeType: MimeDOC}, nil
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
}

// detect resolves the document type. A specific declared type wins. Zip and
// generic declarations are resolved from the payload, then the extension.
func detect(declared, fileName string, data []byte) string {
	declared = strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	ext := strings.ToLower(filepath.Ext(fileName))

	switch declared {
	case MimePDF, MimeDOC, MimeDOCX:
		return declared
	case "application/zip", "application/x-zip-compressed":
		if isDOCX(data) || ext == ".docx" {
			return MimeDOCX
		}
		return declared
	case "", "application/octet-stream", "binary/octet-stream":
	default:
		return declared
	}

	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return MimePDF
	case bytes.HasPrefix(data, oleMagic):
		return MimeDOC
	case isDOCX(data):
		return MimeDOCX
	}
	byExt := map[string]string{".pdf": MimePDF, ".doc": MimeDOC, ".docx": MimeDOCX}
	if kind, ok := byExt[ext]; ok {
		return kind
	}
	if declared == "" {
		return "application/octet-stream"
	}
	return declared
}

func pdfPages(data []byte) (pages int, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	if pages = r.NumPage(); pages <= 0 {
		return 0, errors.New("pdf has no pages")
	}
	return pages, nil
}

func isDOCX(data []byte) bool {
	_, err := docxEntry(data)
	return err == nil
}

func docxEntry(data []byte) (*zip.File, error) {
	if len(data) == 0 {
		return nil, errors.New("empty archive")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == docxBody {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%s not found", docxBody)
}

// docxWords streams the document body and counts whitespace-separated words
// across text runs. Paragraph ends separate words.
func docxWords(data []byte) (int, error) {
	entry, err := docxEntry(data)
	if err != nil {
		return 0, err
	}
	rc, err := entry.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	var text strings.Builder
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" || t.Name.Local == "tab" {
				text.WriteByte(' ')
			}
		}
	}
	return len(strings.Fields(text.String())), nil
}
