package docload

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_PlainText(t *testing.T) {
	doc, err := Load("notes.txt", []byte("Paris is the capital of France."))
	assert.NoError(t, err)
	assert.Equal(t, "notes.txt", doc.SourceID)
	assert.Equal(t, "txt", doc.Format)
	assert.Equal(t, "Paris is the capital of France.", doc.Text)
}

func TestLoad_Markdown(t *testing.T) {
	doc, err := Load("README.md", []byte("# Title\n\nBody text."))
	assert.NoError(t, err)
	assert.Equal(t, "md", doc.Format)
	assert.Contains(t, doc.Text, "Body text.")
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	_, err := Load("image.png", []byte{0x89, 0x50})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad_DOCX(t *testing.T) {
	docXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second</w:t></w:r><w:r><w:t> paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(docXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	doc, err := Load("essay.docx", buf.Bytes())
	assert.NoError(t, err)
	assert.Equal(t, "docx", doc.Format)
	assert.Contains(t, doc.Text, "First paragraph.")
	assert.Contains(t, doc.Text, "Second paragraph.")
}

func TestLoad_DOCX_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Load("broken.docx", buf.Bytes())
	assert.Error(t, err)
}

func TestLoad_CorruptPDF(t *testing.T) {
	_, err := Load("corrupt.pdf", []byte("not a pdf at all"))
	assert.Error(t, err)
}
