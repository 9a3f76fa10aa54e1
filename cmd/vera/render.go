package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"vera/internal/domain/registro"
	"vera/internal/session"
	"vera/internal/transport/http/client"
)

var (
	primary     = lipgloss.Color("#101F38")
	accent      = lipgloss.Color("#8BC34A")
	destructive = lipgloss.Color("#e53935")
	muted       = lipgloss.Color("#6b7280")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numberStyle  = cellStyle.Align(lipgloss.Right)
	borderStyle  = lipgloss.NewStyle().Foreground(muted)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primary)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(accent)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(destructive)
)

var tableHeaders = []string{"ID", "Funcionário", "Salário", "Salário calculado", "Admissão"}

func recordsTable(records []registro.Record) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(tableHeaders...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2 || col == 3:
				return numberStyle
			}
			return cellStyle
		})
	for _, rec := range records {
		t.Row(
			shortID(rec.ID),
			rec.Employee,
			registro.FormatBRL(rec.Salary),
			registro.FormatBRL(rec.CalculatedSalary),
			rec.CalculatedAdmissionDate,
		)
	}
	return t.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (c *cli) printList(w io.Writer, st session.ListState) error {
	if c.asJSON {
		return writeJSON(w, registro.ListResponse{Data: st.Records, Pagination: st.Pagination})
	}
	if len(st.Records) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Nenhum registro encontrado."))
		return nil
	}
	fmt.Fprintln(w, recordsTable(st.Records))
	pg := st.Pagination
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Página %d de %d · %d registros", pg.Page+1, max(pg.TotalPages, 1), pg.Total)))
	return nil
}

func (c *cli) printRecord(w io.Writer, rec registro.Record) error {
	if c.asJSON {
		return writeJSON(w, rec)
	}
	rows := [][2]string{
		{"ID", rec.ID},
		{"Funcionário", rec.Employee},
		{"Salário", registro.FormatBRL(rec.Salary)},
		{"Salário calculado", registro.FormatBRL(rec.CalculatedSalary)},
		{"Data de admissão", rec.CalculatedAdmissionDate + " (" + rec.AdmissionDate + ")"},
	}
	label := lipgloss.NewStyle().Bold(true).Width(19)
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(rec.Employee))
	sb.WriteString("\n")
	for _, row := range rows {
		sb.WriteString(label.Render(row[0]))
		sb.WriteString(row[1])
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderError turns a command error into the message shown to the user.
func renderError(err error) string {
	var fields registro.ValidationErrors
	var netErr *client.NetworkError
	var httpErr *client.HTTPError
	switch {
	case errors.As(err, &fields):
		lines := []string{errorStyle.Render("Dados inválidos:")}
		for _, name := range fields.Fields() {
			lines = append(lines, fmt.Sprintf("  %s: %s", name, fields[name].Message))
		}
		return strings.Join(lines, "\n")
	case errors.Is(err, client.ErrUnavailable):
		return errorStyle.Render("API não disponível. Verifique se o servidor está rodando.")
	case errors.Is(err, registro.ErrNotFound):
		return errorStyle.Render("Registro não encontrado.")
	case errors.As(err, &netErr):
		return errorStyle.Render("Não foi possível conectar à API: " + netErr.Err.Error())
	case errors.As(err, &httpErr):
		return errorStyle.Render(httpErr.Error())
	}
	return errorStyle.Render("erro: " + err.Error())
}

func exitCode(err error) int {
	var fields registro.ValidationErrors
	if errors.As(err, &fields) || errors.Is(err, errNothingToUpdate) {
		return 2
	}
	return 1
}
