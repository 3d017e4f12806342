// Package loader reads study material from plain text, Markdown, PDF and
// DOCX files and returns normalized text ready for tokenization.
package loader

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/encoding/charmap"

	"studygen/internal/tokenizer"
)

// ErrUnsupportedFormat is returned for file extensions no reader handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extensions lists the file extensions Load accepts.
var Extensions = []string{".txt", ".text", ".md", ".markdown", ".pdf", ".docx"}

// Load reads the file at path, choosing a reader by extension, and
// normalizes the result.
func Load(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var (
		raw string
		err error
	)
	switch ext {
	case ".txt", ".text":
		var data []byte
		if data, err = os.ReadFile(path); err == nil {
			raw = Text(data)
		}
	case ".md", ".markdown":
		var data []byte
		if data, err = os.ReadFile(path); err == nil {
			raw = Markdown(data)
		}
	case ".pdf":
		raw, err = PDF(path)
	case ".docx":
		raw, err = DOCX(path)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return tokenizer.Normalize(raw), nil
}

// Text decodes a plain-text file. A UTF-8 byte order mark is dropped and
// content that is not valid UTF-8 is read as Latin-1.
func Text(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(decoded)
}

type block struct {
	text    string
	heading bool
	item    bool
}

// Markdown flattens Markdown source to the plain layout the tokenizer reads:
// a heading becomes a "# " line directly above the block it introduces, list
// items become "- " lines and code is dropped.
func Markdown(src []byte) string {
	src = bytes.TrimPrefix(src, utf8BOM)
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	var blocks []block
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			blocks = append(blocks, block{text: inline(n, src), heading: true})
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			_, item := n.Parent().(*ast.ListItem)
			if t := inline(n, src); t != "" {
				blocks = append(blocks, block{text: t, item: item})
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.ThematicBreak:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	var b strings.Builder
	for i, bl := range blocks {
		if i > 0 {
			prev := blocks[i-1]
			if (prev.heading && !bl.heading) || (prev.item && bl.item) {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}
		switch {
		case bl.heading:
			b.WriteString("# ")
		case bl.item:
			b.WriteString("- ")
		}
		b.WriteString(bl.text)
	}
	return b.String()
}

func inline(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Value(src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.AutoLink, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// PDF extracts the plain text of every page, one paragraph per page.
func PDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", err
	}
	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if strings.TrimSpace(pageText) != "" {
			pages = append(pages, strings.TrimSpace(pageText))
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// DOCX extracts the text runs of a Word document, one paragraph per
// w:p element.
func DOCX(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", err
	}
	defer r.Close()
	return documentText(r.Editable().GetContent())
}

func documentText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	var (
		b      strings.Builder
		para   strings.Builder
		inText bool
	)
	flush := func() {
		if t := strings.TrimSpace(para.String()); t != "" {
			if b.Len() > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(t)
		}
		para.Reset()
	}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab", "br", "cr":
				para.WriteByte(' ')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flush()
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	flush()
	return b.String(), nil
}
