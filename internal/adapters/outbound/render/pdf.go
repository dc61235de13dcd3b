// Package render turns a domain.Document into PDF and Word files.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/go-pdf/fpdf"
)

const (
	pdfFont      = "Helvetica"
	pdfMargin    = 15.0
	pdfLineH     = 5.0
	pdfLabelW    = 55.0
	dateLayout   = "2 January 2006 15:04"
	creatorLabel = "RAMS Generator"
)

// PDFRenderer renders A4 PDFs with the core Helvetica font.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer { return &PDFRenderer{} }

func (r *PDFRenderer) Format() domain.DocumentFormat { return domain.FormatPDF }

// Render lays out every section of doc. Any fpdf error aborts the render
// and no bytes are returned.
func (r *PDFRenderer) Render(doc domain.Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(doc.Title(), true)
	pdf.SetCreator(creatorLabel, true)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.SetModificationDate(doc.GeneratedAt)

	// core fonts are cp1252; this maps curly quotes, pound signs and the like
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin + 3)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// 1. Title block
	pdf.SetFont(pdfFont, "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 8, tr(doc.Title()), "", "L", false)
	pdf.SetFont(pdfFont, "", 9)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, pdfLineH, tr("Generated "+doc.GeneratedAt.Format(dateLayout)), "", "L", false)
	pdf.Ln(4)

	// 2. Sections
	for _, s := range doc.Sections() {
		pdfHeading(pdf, tr(s.Title))
		for _, e := range s.Entries {
			pdfEntry(pdf, tr(e.Label), tr(e.Value))
		}
		for _, b := range s.Bullets {
			pdf.SetFont(pdfFont, "", 10)
			pdf.SetX(pdfMargin + 4)
			pdf.MultiCell(0, pdfLineH, tr("- "+b), "", "L", false)
		}
		if s.Body != "" {
			pdf.SetFont(pdfFont, "I", 9)
			pdf.MultiCell(0, pdfLineH, tr(s.Body), "", "J", false)
		}
		pdf.Ln(3)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf layout: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfHeading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont(pdfFont, "B", 12)
	pdf.SetFillColor(230, 236, 245)
	pdf.SetTextColor(20, 40, 80)
	pdf.CellFormat(0, 7, title, "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(1)
}

// pdfEntry prints a label column and a wrapped value column on one row.
func pdfEntry(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont(pdfFont, "B", 10)
	y := pdf.GetY()
	pdf.SetXY(pdfMargin, y)
	pdf.MultiCell(pdfLabelW, pdfLineH, label, "", "L", false)
	labelBottom := pdf.GetY()

	// a label that wrapped onto a new page leaves y stale
	if labelBottom < y {
		_, y, _, _ = pdf.GetMargins()
	}
	pdf.SetXY(pdfMargin+pdfLabelW, y)
	pdf.SetFont(pdfFont, "", 10)
	page := pdf.PageNo()
	pdf.MultiCell(0, pdfLineH, strings.TrimSpace(value), "", "L", false)
	// labelBottom belongs to the previous page once the value breaks
	if pdf.PageNo() == page && pdf.GetY() < labelBottom {
		pdf.SetY(labelBottom)
	}
	pdf.Ln(1)
}
