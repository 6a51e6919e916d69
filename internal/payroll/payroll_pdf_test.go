package payroll

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPdfEscape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{"ascii", "Kim", []byte("Kim")},
		{"parens and backslash", `a(b)\c`, []byte(`a\(b\)\\c`)},
		{"latin-1 is one byte", "José", []byte{'J', 'o', 's', 0xE9}},
		{"hangul is replaced", "김민지", []byte("???")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, []byte(pdfEscape(tt.in)))
		})
	}
}

func TestStatementLines_EmployeeName(t *testing.T) {
	latin := statementLines(SummaryResponse{Name: "José", Email: "jose@pharmacy.test"})
	assert.Equal(t, "Name: José <jose@pharmacy.test>", latin[1])

	hangul := statementLines(SummaryResponse{Name: "김민지", Email: "minji@pharmacy.test"})
	assert.Equal(t, "Employee: minji@pharmacy.test", hangul[1])

	pdf := buildStatementPDF(hangul)
	assert.False(t, bytes.Contains(pdf, []byte("???")))
	assert.True(t, bytes.Contains(pdf, []byte("(Employee: minji@pharmacy.test) Tj")))
	assert.True(t, bytes.Contains(pdf, []byte("/Encoding /WinAnsiEncoding")))
}
