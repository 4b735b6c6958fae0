package certificates

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Data is everything printed on a certificate.
type Data struct {
	VolunteerName string
	Points        int
	IssuedAt      time.Time
}

// Renderer turns certificate data into a document.
type Renderer interface {
	Render(ctx context.Context, data Data) ([]byte, error)
}

// PDFRenderer draws the single-page US Letter certificate.
type PDFRenderer struct {
	Title string
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Title: "SevaSetu Certificate of Appreciation"}
}

func (r *PDFRenderer) Render(ctx context.Context, data Data) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle(r.Title, true)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()

	// Baselines mirror a 792pt-tall page measured from the top.
	line := func(y float64, style string, size float64, text string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.SetXY(0, y)
		pdf.CellFormat(pageWidth, size, text, "", 0, "C", false, 0, "")
	}

	line(130, "B", 24, r.Title)
	line(180, "", 18, fmt.Sprintf("Awarded to %s", data.VolunteerName))
	line(220, "", 14, fmt.Sprintf("For contributing %d points in volunteering", data.Points))
	line(260, "", 14, fmt.Sprintf("Date: %s", data.IssuedAt.UTC().Format("2006-01-02")))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
