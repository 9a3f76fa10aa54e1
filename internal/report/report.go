// Package report exports record listings. Fetch walks every page of a
// filtered listing; WritePDF renders the rows as a printable table.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"vera/internal/domain/registro"
)

// Lister is the part of the registros API an export needs.
type Lister interface {
	ListRegistros(ctx context.Context, p registro.Params) (registro.ListResponse, error)
}

const fetchConcurrency = 4

// Fetch returns every record matching p's filters and sort, in listing
// order. p's pagination is ignored.
func Fetch(ctx context.Context, api Lister, p registro.Params) ([]registro.Record, error) {
	p.Page = 0
	p.Limit = registro.MaxPageSize
	first, err := api.ListRegistros(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("fetch page 0: %w", err)
	}
	pages := make([][]registro.Record, max(first.Pagination.TotalPages, 1))
	pages[0] = first.Data

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for page := 1; page < len(pages); page++ {
		pp := p
		pp.Page = page
		g.Go(func() error {
			resp, err := api.ListRegistros(gctx, pp)
			if err != nil {
				return fmt.Errorf("fetch page %d: %w", pp.Page, err)
			}
			pages[pp.Page] = resp.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]registro.Record, 0, first.Pagination.Total)
	for _, rows := range pages {
		out = append(out, rows...)
	}
	return out, nil
}

type Options struct {
	Title       string
	Filters     registro.Filters
	GeneratedAt time.Time
}

// Totals sums salaries exactly before formatting.
type Totals struct {
	Count            int
	Salary           decimal.Decimal
	CalculatedSalary decimal.Decimal
}

func Summarize(records []registro.Record) Totals {
	t := Totals{Count: len(records), Salary: decimal.Zero, CalculatedSalary: decimal.Zero}
	for _, rec := range records {
		t.Salary = t.Salary.Add(decimal.NewFromFloat(rec.Salary))
		t.CalculatedSalary = t.CalculatedSalary.Add(decimal.NewFromFloat(rec.CalculatedSalary))
	}
	return t
}

type column struct {
	title string
	width float64
	align string
	value func(registro.Record) string
}

var columns = []column{
	{"Funcionário", 62, "L", func(r registro.Record) string { return r.Employee }},
	{"Salário", 32, "R", func(r registro.Record) string { return registro.FormatBRL(r.Salary) }},
	{"Salário calculado", 36, "R", func(r registro.Record) string { return registro.FormatBRL(r.CalculatedSalary) }},
	{"Data de admissão", 60, "L", func(r registro.Record) string { return r.CalculatedAdmissionDate }},
}

const (
	rowHeight    = 7.0
	pageBottom   = 297.0 - 15.0
	headerFill   = 230
	reportMargin = 10.0
)

func WritePDF(w io.Writer, records []registro.Record, opts Options) error {
	if opts.Title == "" {
		opts.Title = "Registros de renda"
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(reportMargin, reportMargin, reportMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(opts.GeneratedAt)
	pdf.SetTitle(opts.Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(opts.Title))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, tr("Gerado em "+opts.GeneratedAt.Format("02/01/2006 15:04")))
	pdf.Ln(5)
	if desc := describeFilters(opts.Filters); desc != "" {
		pdf.MultiCell(0, 5, tr("Filtros: "+desc), "", "L", false)
	}
	pdf.Ln(3)

	tableHeader(pdf, tr)
	pdf.SetFont("Helvetica", "", 10)
	for i, rec := range records {
		if pdf.GetY()+rowHeight > pageBottom {
			pdf.AddPage()
			tableHeader(pdf, tr)
			pdf.SetFont("Helvetica", "", 10)
		}
		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 245)
		for _, col := range columns {
			pdf.CellFormat(col.width, rowHeight, tr(col.value(rec)), "", 0, col.align, fill, 0, "")
		}
		pdf.Ln(rowHeight)
	}

	totals := Summarize(records)
	if pdf.GetY()+2*rowHeight > pageBottom {
		pdf.AddPage()
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(columns[0].width, rowHeight, tr(fmt.Sprintf("Total (%d registros)", totals.Count)), "T", 0, "L", false, 0, "")
	pdf.CellFormat(columns[1].width, rowHeight, tr(registro.FormatBRL(totals.Salary.InexactFloat64())), "T", 0, "R", false, 0, "")
	pdf.CellFormat(columns[2].width, rowHeight, tr(registro.FormatBRL(totals.CalculatedSalary.InexactFloat64())), "T", 0, "R", false, 0, "")
	pdf.CellFormat(columns[3].width, rowHeight, "", "T", 0, "L", false, 0, "")
	pdf.Ln(rowHeight)

	return pdf.Output(w)
}

func tableHeader(pdf *gofpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(headerFill, headerFill, headerFill)
	for _, col := range columns {
		pdf.CellFormat(col.width, rowHeight, tr(col.title), "B", 0, col.align, true, 0, "")
	}
	pdf.Ln(rowHeight)
}

func describeFilters(f registro.Filters) string {
	var parts []string
	if f.Employee != "" {
		parts = append(parts, fmt.Sprintf("funcionário contém %q", f.Employee))
	}
	parts = appendRange(parts, "salário", f.StartSalary, f.EndSalary)
	parts = appendRange(parts, "salário calculado", f.StartSalaryCalculated, f.EndSalaryCalculated)
	switch {
	case f.StartDate != "" && f.EndDate != "":
		parts = append(parts, fmt.Sprintf("admissão de %s a %s", f.StartDate, f.EndDate))
	case f.StartDate != "":
		parts = append(parts, "admissão a partir de "+f.StartDate)
	case f.EndDate != "":
		parts = append(parts, "admissão até "+f.EndDate)
	}
	return strings.Join(parts, "; ")
}

func appendRange(parts []string, label string, start, end *float64) []string {
	switch {
	case start != nil && end != nil:
		return append(parts, fmt.Sprintf("%s entre %s e %s", label, registro.FormatBRL(*start), registro.FormatBRL(*end)))
	case start != nil:
		return append(parts, fmt.Sprintf("%s a partir de %s", label, registro.FormatBRL(*start)))
	case end != nil:
		return append(parts, fmt.Sprintf("%s até %s", label, registro.FormatBRL(*end)))
	}
	return parts
}
