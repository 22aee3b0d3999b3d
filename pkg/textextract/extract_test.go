package textextract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTxt(t *testing.T) {
	out, err := Extract([]byte("  plain notes\n"), ".txt")
	require.NoError(t, err)
	assert.Equal(t, "plain notes", out)

	out, err = Extract([]byte("mime typed"), "text/plain; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "mime typed", out)
}

func TestExtractDOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>Lesson one</w:t></w:r><w:r><w:t>covers sets</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	out, err := Extract(buf.Bytes(), ".docx")
	require.NoError(t, err)
	assert.Equal(t, "Lesson one covers sets", out)
}

func TestExtractDOCXWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	f.Write([]byte("<x/>"))
	require.NoError(t, zw.Close())

	_, err = Extract(buf.Bytes(), "docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document.xml not found")
}

func TestExtractUnsupportedType(t *testing.T) {
	_, err := Extract([]byte("x"), ".xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestExtractPDFInvalid(t *testing.T) {
	_, err := Extract([]byte("not a pdf"), "application/pdf")
	require.Error(t, err)
}

func TestSupportedTypes(t *testing.T) {
	assert.Equal(t, []string{".pdf", ".docx", ".txt"}, SupportedTypes())
}
