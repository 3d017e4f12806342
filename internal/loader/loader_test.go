package loader_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"studygen/internal/loader"
	"studygen/internal/tokenizer"
)

const markdownSource = "# Photosynthesis\n" +
	"Plants make food from light.\n" +
	"They need water.\n" +
	"\n" +
	"## Stages\n" +
	"\n" +
	"- Light reactions happen in the thylakoid.\n" +
	"- The Calvin cycle builds sugar.\n" +
	"\n" +
	"```go\n" +
	"fmt.Println(\"ignored\")\n" +
	"```\n" +
	"\n" +
	"Water is *essential* for `growth`.\n"

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestText(t *testing.T) {
	require.Equal(t, "Plain text.", loader.Text([]byte("\xEF\xBB\xBFPlain text.")))
	require.Equal(t, "Café au lait.", loader.Text([]byte("Caf\xe9 au lait.")))
	require.Equal(t, "Déjà vu.", loader.Text([]byte("Déjà vu.")))
}

func TestMarkdown(t *testing.T) {
	want := "# Photosynthesis\n" +
		"Plants make food from light. They need water.\n" +
		"\n" +
		"# Stages\n" +
		"- Light reactions happen in the thylakoid.\n" +
		"- The Calvin cycle builds sugar.\n" +
		"\n" +
		"Water is essential for growth."
	require.Equal(t, want, loader.Markdown([]byte(markdownSource)))
}

func TestLoadMarkdownKeepsHeadings(t *testing.T) {
	text, err := loader.Load(writeFile(t, "notes.md", []byte(markdownSource)))
	require.NoError(t, err)

	doc, err := tokenizer.Tokenize(text, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"Photosynthesis", "Stages"}, doc.Headings)
	require.Equal(t, "Light reactions happen in the thylakoid.", doc.Sentences[2].Text)
	require.Equal(t, 5, doc.Len())
}

func TestLoadTextNormalizes(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("\xEF\xBB\xBFFirst   line.\r\nSee https://example.com now.\r\n\r\n\r\nSecond paragraph."))
	text, err := loader.Load(path)
	require.NoError(t, err)
	require.Equal(t, "First line.\nSee now.\n\nSecond paragraph.", text)
}

func TestLoadDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	files := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			`<w:p><w:r><w:t>Osmosis moves water</w:t></w:r><w:r><w:t xml:space="preserve"> across membranes.</w:t></w:r></w:p>` +
			`<w:p></w:p>` +
			`<w:p><w:r><w:t>Salt &amp; sugar dissolve.</w:t></w:r></w:p>` +
			`</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	text, err := loader.Load(path)
	require.NoError(t, err)
	require.Equal(t, "Osmosis moves water across membranes.\n\nSalt & sugar dissolve.", text)
}

func TestLoadErrors(t *testing.T) {
	_, err := loader.Load(writeFile(t, "sheet.xlsx", []byte("x")))
	require.ErrorIs(t, err, loader.ErrUnsupportedFormat)

	_, err = loader.Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = loader.Load(writeFile(t, "broken.pdf", []byte("not a pdf")))
	require.Error(t, err)

	_, err = loader.Load(writeFile(t, "broken.docx", []byte("not a zip")))
	require.Error(t, err)
}
