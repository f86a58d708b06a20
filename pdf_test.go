package pydoll

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yie1d/pydoll-sub004/protocol"
)

// minimalPDF builds a one-page PDF with a correct xref table, the
// smallest document the pdf reader accepts.
func minimalPDF() []byte {
	var buf bytes.Buffer
	offsets := make([]int, 0, 3)

	buf.WriteString("%PDF-1.4\n")
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}
	obj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	obj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	obj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n")

	xrefStart := buf.Len()
	buf.WriteString("xref\n0 4\n")
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefStart)
	return buf.Bytes()
}

func TestPrintToPDFProducesReadablePDF(t *testing.T) {
	t.Parallel()

	doc := minimalPDF()
	srv := newFakeCDP(t, func(s *fakeSession, msg *protocol.Message) {
		require.Equal(t, "Page.printToPDF", msg.Method)
		s.respond(msg.ID, map[string]any{"data": base64.StdEncoding.EncodeToString(doc)})
	})
	tab := newTestTab(t, srv)

	data, err := tab.PrintToPDF(context.Background(), PDFOptions{AsBase64: true, PrintBackground: true})
	require.NoError(t, err)
	require.Equal(t, doc, data)

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, 1, r.NumPage())
}

func TestPrintToPDFWritesFile(t *testing.T) {
	t.Parallel()

	doc := minimalPDF()
	srv := newFakeCDP(t, func(s *fakeSession, msg *protocol.Message) {
		s.respond(msg.ID, map[string]any{"data": base64.StdEncoding.EncodeToString(doc)})
	})
	tab := newTestTab(t, srv)

	path := t.TempDir() + "/out.pdf"
	_, err := tab.PrintToPDF(context.Background(), PDFOptions{Path: path})
	require.NoError(t, err)

	f, r, err := pdf.Open(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, 1, r.NumPage())
}
