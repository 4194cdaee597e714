package payroll

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	pdfPageWidth  = 595
	pdfPageHeight = 842
	pdfMarginLeft = 50
	pdfTopOffset  = 800
	pdfLeading    = 16
)

type pdfLine struct {
	text string
	bold bool
	size int
}

// pdfPage collects text lines for a single A4 page rendered with the
// standard Type1 fonts, so no font files are embedded.
type pdfPage struct {
	lines []pdfLine
}

func (p *pdfPage) title(text string) {
	p.lines = append(p.lines, pdfLine{text: text, bold: true, size: 16})
}

func (p *pdfPage) heading(text string) {
	p.lines = append(p.lines, pdfLine{text: "", size: 11})
	p.lines = append(p.lines, pdfLine{text: text, bold: true, size: 12})
}

func (p *pdfPage) row(label, value string) {
	p.lines = append(p.lines, pdfLine{text: fmt.Sprintf("%-24s %s", label+":", value), size: 11})
}

func (p *pdfPage) text(text string) {
	p.lines = append(p.lines, pdfLine{text: text, size: 11})
}

func (p *pdfPage) bytes() []byte {
	lines := p.lines
	if len(lines) == 0 {
		lines = []pdfLine{{text: "Payslip", size: 12}}
	}

	var content strings.Builder
	fmt.Fprintf(&content, "BT\n%d TL\n%d %d Td\n", pdfLeading, pdfMarginLeft, pdfTopOffset)
	for i, line := range lines {
		font := "F1"
		if line.bold {
			font = "F2"
		}
		fmt.Fprintf(&content, "/%s %d Tf\n", font, line.size)
		if i == 0 {
			fmt.Fprintf(&content, "(%s) Tj\n", pdfEscape(line.text))
			continue
		}
		fmt.Fprintf(&content, "T* (%s) Tj\n", pdfEscape(line.text))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		fmt.Sprintf("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 4 0 R /F2 5 0 R >> >> /Contents 6 0 R >>\nendobj\n", pdfPageWidth, pdfPageHeight),
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Courier >>\nendobj\n",
		"5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold >>\nendobj\n",
		fmt.Sprintf("6 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)
	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(offsets))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart)

	return out.Bytes()
}

// pdfEscape escapes string delimiters and drops bytes outside printable
// ASCII, which the standard Type1 fonts cannot show.
func pdfEscape(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch {
		case r == '\\' || r == '(' || r == ')':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}
