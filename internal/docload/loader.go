// Package docload turns uploaded file bytes into plain-text documents.
// Supported formats: PDF, DOCX, TXT and Markdown. Anything else is reported
// as ErrUnsupportedFormat so callers can skip the file without failing the
// batch.
package docload

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Document is an immutable loaded file: raw extracted text plus the source
// identity (the upload filename) that every derived chunk inherits.
type Document struct {
	SourceID string
	Text     string
	Format   string
}

// Load extracts text from one uploaded file. The filename selects the
// extractor by extension.
func Load(filename string, data []byte) (Document, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDOCX(data)
	case ".txt", ".md":
		text = string(data)
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return Document{}, fmt.Errorf("extract %s: %w", filename, err)
	}

	return Document{
		SourceID: filename,
		Text:     text,
		Format:   strings.TrimPrefix(ext, "."),
	}, nil
}

func extractPDF(data []byte) (string, error) {
	rdr, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	plain, err := rdr.GetPlainText()
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// extractDOCX reads word/document.xml out of the DOCX zip container and
// collects the text runs, inserting paragraph breaks at w:p boundaries.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return "", err
			}
			break
		}
	}
	if docXML == nil {
		return "", errors.New("document.xml not found in archive")
	}
	defer docXML.Close()

	var (
		sb     strings.Builder
		inText bool
	)
	dec := xml.NewDecoder(docXML)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "br":
				sb.WriteString("\n")
			case "tab":
				sb.WriteString("\t")
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(el)
			}
		}
	}
	return sb.String(), nil
}
