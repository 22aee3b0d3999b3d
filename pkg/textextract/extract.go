package textextract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extract pulls plain text out of an uploaded file. fileType may be an
// extension ("pdf", ".docx") or a MIME type.
func Extract(data []byte, fileType string) (string, error) {
	switch normalizeType(fileType) {
	case "pdf":
		return extractPDF(data)
	case "docx":
		return extractDOCX(data)
	case "txt":
		return string(bytes.TrimSpace(data)), nil
	default:
		return "", fmt.Errorf("unsupported file type: %s", fileType)
	}
}

// SupportedTypes lists the upload formats ingestion accepts.
func SupportedTypes() []string {
	return []string{".pdf", ".docx", ".txt"}
}

func normalizeType(fileType string) string {
	t := strings.ToLower(strings.TrimPrefix(fileType, "."))
	switch {
	case t == "pdf" || strings.Contains(t, "application/pdf"):
		return "pdf"
	case t == "docx" || strings.Contains(t, "wordprocessingml"):
		return "docx"
	case t == "txt" || strings.HasPrefix(t, "text/"):
		return "txt"
	default:
		return t
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open DOCX: %w", err)
	}

	for _, f := range reader.File {
		if filepath.Base(f.Name) != "document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		content := new(bytes.Buffer)
		_, err = content.ReadFrom(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}
		return stripXMLTags(content.String()), nil
	}
	return "", fmt.Errorf("document.xml not found in DOCX")
}

func stripXMLTags(s string) string {
	var result strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			result.WriteRune(' ')
		case !inTag:
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}
