// Package pdf renders one-page application summaries.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/couchcryptid/insurance-quote-service/internal/domain"
)

const (
	fontFamily = "summary"
	fontSize   = 12
	lineHeight = 10
	titleWidth = 190
)

// Summary titles.
const (
	FullTitle  = "Insurance Application Summary"
	QuickTitle = "Health Insurance Application Summary"
)

// Renderer produces PDF summaries with an embedded TrueType font, so names
// outside Latin-1 render instead of failing.
type Renderer struct {
	font []byte
}

// NewRenderer returns a Renderer using font, or the Go Regular font when
// font is nil.
func NewRenderer(font []byte) *Renderer {
	if len(font) == 0 {
		font = goregular.TTF
	}
	return &Renderer{font: font}
}

// LoadFont reads a TTF file for NewRenderer. An empty path selects the
// embedded font.
func LoadFont(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	return b, nil
}

// Render lays out the summary for rec. The flow, and so the title and
// filename, is inferred from the record.
func (r *Renderer) Render(rec domain.Record) (doc domain.Document, err error) {
	filename := domain.SummaryFilename(rec.Flow())
	defer func() {
		// fpdf panics on some malformed font tables.
		if p := recover(); p != nil {
			doc, err = domain.Document{}, &domain.RenderError{Filename: filename, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	body, err := r.render(rec)
	if err != nil {
		return domain.Document{}, &domain.RenderError{Filename: filename, Err: err}
	}
	return domain.Document{
		Filename:    filename,
		ContentType: domain.ContentTypePDF,
		Body:        body,
	}, nil
}

func (r *Renderer) render(rec domain.Record) ([]byte, error) {
	title, lines := summary(rec)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	now := domain.Now()
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetTitle(title, true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", r.font)
	pdf.SetFont(fontFamily, "", fontSize)
	pdf.AddPage()

	pdf.CellFormat(titleWidth, lineHeight, title, "", 1, "C", false, 0, "")
	pdf.Ln(lineHeight)
	for _, line := range lines {
		pdf.CellFormat(0, lineHeight, line, "", 1, "", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// summary returns the title and body lines for rec.
func summary(rec domain.Record) (string, []string) {
	if rec.Flow() == domain.FlowQuick {
		return QuickTitle, []string{
			"Name: " + rec.Name,
			"Age: " + strconv.Itoa(rec.Age),
			"Employment: " + rec.Employment,
			"Dependents: " + strconv.Itoa(rec.Dependents),
			"Health Issues: " + joinIssues(rec.HealthIssues),
			"Estimated Cost: " + optInt(rec.Cost) + " €",
		}
	}

	lines := []string{
		"Name: " + rec.Name,
		"Mobile: " + rec.Mobile,
		"Email: " + rec.Email,
		"Age: " + strconv.Itoa(rec.Age),
		"Income: " + optInt(rec.Income) + " EUR",
		"Employment: " + rec.Employment,
		"Insurance Type: " + string(rec.InsuranceType),
		"Monthly Cost: " + optInt(rec.MonthlyCostEUR) + " EUR",
		"Yearly Cost: " + optInt(rec.YearlyCostEUR) + " EUR",
		"Covers: " + joinCovers(rec.Covers),
		"Number of Dependents: " + strconv.Itoa(rec.Dependents),
	}
	for i, d := range rec.DependentsInfo {
		lines = append(lines, fmt.Sprintf("Dependent %d: %s (Age: %d)", i+1, d.Name, d.Age))
	}
	return FullTitle, lines
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func joinCovers(covers []domain.Cover) string {
	parts := make([]string, len(covers))
	for i, c := range covers {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func joinIssues(issues []domain.HealthIssue) string {
	parts := make([]string, len(issues))
	for i, h := range issues {
		parts[i] = string(h)
	}
	return strings.Join(parts, ", ")
}
