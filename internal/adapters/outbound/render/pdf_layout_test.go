package render

import (
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLayoutPDF() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()
	return pdf
}

func TestPDFEntry_ValueBreakingPageFollowsValue(t *testing.T) {
	pdf := newLayoutPDF()
	_, pageH := pdf.GetPageSize()
	pdf.SetY(pageH - pdfMargin - 2*pdfLineH - 1)

	value := strings.TrimSpace(strings.Repeat("Check the harness lanyard before use.\n", 12))
	pdfEntry(pdf, "Controls", value)
	require.NoError(t, pdf.Error())

	// two lines fit on page 1, the other ten continue at the top of page 2
	assert.Equal(t, 2, pdf.PageNo())
	_, top, _, _ := pdf.GetMargins()
	assert.InDelta(t, top+10*pdfLineH+1, pdf.GetY(), 0.5)
}

func TestPDFEntry_WrappedLabelSetsRowHeight(t *testing.T) {
	pdf := newLayoutPDF()
	pdf.SetY(40)

	pdfEntry(pdf, "Emergency arrangements and first aid provision on site", "999")
	require.NoError(t, pdf.Error())

	assert.Equal(t, 1, pdf.PageNo())
	assert.GreaterOrEqual(t, pdf.GetY(), 40+2*pdfLineH+1)
}
