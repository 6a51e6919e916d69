package payroll

import (
	"bytes"
	"fmt"
	"strings"
)

// buildStatementPDF writes a single page Helvetica PDF, one text line per entry.
func buildStatementPDF(lines []string) []byte {
	if len(lines) == 0 {
		lines = []string{"Payroll statement"}
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 11 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
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
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes()
}

// pdfEscape encodes v as single-byte Latin-1 for the standard Helvetica font.
// Runes above 0xFF become '?'.
func pdfEscape(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch {
		case r == '\\' || r == '(' || r == ')':
			b.WriteByte('\\')
			b.WriteByte(byte(r))
		case r > 0xFF:
			b.WriteByte('?')
		default:
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

func isLatin1(v string) bool {
	for _, r := range v {
		if r > 0xFF {
			return false
		}
	}
	return true
}

// Names the base font cannot render (Hangul etc.) are left out; the email identifies the employee.
func employeeLine(s SummaryResponse) string {
	if s.Name == "" || !isLatin1(s.Name) {
		return fmt.Sprintf("Employee: %s", s.Email)
	}
	return fmt.Sprintf("Name: %s <%s>", s.Name, s.Email)
}

func statementLines(s SummaryResponse) []string {
	lines := []string{
		"Payroll statement",
		employeeLine(s),
		fmt.Sprintf("Period: %s to %s (%d days)", s.From, s.To, s.Days),
		fmt.Sprintf("Worked: %s (%.2f h)", s.WorkedDisplay, s.TotalHours),
		fmt.Sprintf("Hourly rate: %s", FormatKRW(s.HourlyRate)),
		fmt.Sprintf("Gross: %s", s.GrossDisplay),
		fmt.Sprintf("Tax rate: %s", formatPercent(s.TaxRate)),
		fmt.Sprintf("Net: %s", s.NetDisplay),
		"",
	}
	for _, l := range s.Lines {
		if !l.Included {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s  %s-%s  break %dm  %s",
			l.WorkDate, l.StartTime, l.EndTime, l.BreakMinutes, FormatDuration(l.NetMinutes)))
	}
	return lines
}
