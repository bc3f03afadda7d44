// Package pdftext extracts the embedded text layer of a PDF without calling
// any external service. It is the last line of defense when the managed
// analyzers reject a document.
package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/docsmith/docchat/internal/extraction"
)

// Parser reads the text layer of PDF bytes.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts plain text page by page. Pages whose content stream cannot
// be decoded are skipped rather than failing the whole document; the parse
// only fails when no page yields any text at all.
func (p *Parser) Parse(data []byte) (*extraction.ParsedDocument, error) {
	doc := &extraction.ParsedDocument{}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}
	doc.PageCount = reader.NumPage()

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	doc.Text = strings.TrimSpace(sb.String())
	if doc.Text == "" {
		return nil, fmt.Errorf("pdf has no extractable text layer")
	}
	return doc, nil
}

// relaxedConfig tolerates the structurally sloppy PDFs that office tooling
// produces in the wild.
func relaxedConfig() *model.Configuration {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

// Probe validates PDF bytes under relaxed rules and reports the page count.
// Upload handling uses it to decide whether the managed analyzer is likely
// to accept the file.
func Probe(data []byte) (pageCount int, ok bool) {
	rs := bytes.NewReader(data)
	if err := api.Validate(rs, relaxedConfig()); err != nil {
		return 0, false
	}
	if _, err := rs.Seek(0, 0); err != nil {
		return 0, false
	}
	n, err := api.PageCount(rs, relaxedConfig())
	if err != nil {
		return 0, false
	}
	return n, true
}
