package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/Hannlytics/rams-generator/internal/domain"
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`

	rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

	documentHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentTail = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
		`<w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134" w:header="708" w:footer="708" w:gutter="0"/>` +
		`</w:sectPr></w:body></w:document>`
)

// DOCXRenderer writes a minimal WordprocessingML package.
type DOCXRenderer struct{}

func NewDOCXRenderer() *DOCXRenderer { return &DOCXRenderer{} }

func (r *DOCXRenderer) Format() domain.DocumentFormat { return domain.FormatDOCX }

func (r *DOCXRenderer) Render(doc domain.Document) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"docProps/core.xml", coreProps(doc)},
		{"word/document.xml", documentXML(doc)},
	}
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate, Modified: doc.GeneratedAt})
		if err != nil {
			return nil, fmt.Errorf("docx: create %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("docx: write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: close: %w", err)
	}
	return buf.Bytes(), nil
}

func coreProps(doc domain.Document) string {
	created := doc.GeneratedAt.UTC().Format(time.RFC3339)
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + escape(doc.Title()) + `</dc:title>` +
		`<dc:creator>` + creatorLabel + `</dc:creator>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + created + `</dcterms:created>` +
		`</cp:coreProperties>`
}

func documentXML(doc domain.Document) string {
	var b strings.Builder
	b.WriteString(documentHead)

	b.WriteString(paragraph(doc.Title(), runStyle{bold: true, size: 32}))
	b.WriteString(paragraph("Generated "+doc.GeneratedAt.Format(dateLayout), runStyle{italic: true, size: 18}))

	for _, s := range doc.Sections() {
		b.WriteString(paragraph(s.Title, runStyle{bold: true, size: 26, spaceBefore: true}))
		for _, e := range s.Entries {
			b.WriteString(entryParagraph(e))
		}
		for _, item := range s.Bullets {
			b.WriteString(paragraph("• "+item, runStyle{indent: true}))
		}
		if s.Body != "" {
			b.WriteString(paragraph(s.Body, runStyle{italic: true, size: 18}))
		}
	}

	b.WriteString(documentTail)
	return b.String()
}

type runStyle struct {
	bold        bool
	italic      bool
	size        int // half-points
	indent      bool
	spaceBefore bool
}

func (s runStyle) props() string {
	var b strings.Builder
	if s.bold {
		b.WriteString(`<w:b/>`)
	}
	if s.italic {
		b.WriteString(`<w:i/>`)
	}
	if s.size > 0 {
		fmt.Fprintf(&b, `<w:sz w:val="%d"/>`, s.size)
	}
	if b.Len() == 0 {
		return ""
	}
	return "<w:rPr>" + b.String() + "</w:rPr>"
}

func paragraph(text string, s runStyle) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	if s.indent || s.spaceBefore {
		b.WriteString("<w:pPr>")
		if s.spaceBefore {
			b.WriteString(`<w:spacing w:before="240"/>`)
		}
		if s.indent {
			b.WriteString(`<w:ind w:left="360"/>`)
		}
		b.WriteString("</w:pPr>")
	}
	b.WriteString(run(text, s))
	b.WriteString("</w:p>")
	return b.String()
}

func entryParagraph(e domain.Entry) string {
	return "<w:p>" + run(e.Label+": ", runStyle{bold: true}) + run(e.Value, runStyle{}) + "</w:p>"
}

// run emits one w:r; embedded newlines become w:br elements.
func run(text string, s runStyle) string {
	var b strings.Builder
	b.WriteString("<w:r>")
	b.WriteString(s.props())
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString("<w:br/>")
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(escape(line))
		b.WriteString("</w:t>")
	}
	b.WriteString("</w:r>")
	return b.String()
}

func escape(s string) string {
	var b strings.Builder
	// EscapeText only fails on writer errors; strings.Builder never returns one.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
