package registro

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var monthsPT = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// CalculateSalary applies the configured percentage uplift, rounded to cents.
func CalculateSalary(salary, percent float64) float64 {
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(percent).Div(decimal.NewFromInt(100)))
	return decimal.NewFromFloat(salary).Mul(factor).Round(2).InexactFloat64()
}

// FormatAdmissionDate renders a YYYY-MM-DD date as a pt-BR long date,
// e.g. "15 de março de 2023".
func FormatAdmissionDate(raw string) (string, error) {
	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d de %s de %d", parsed.Day(), monthsPT[parsed.Month()-1], parsed.Year()), nil
}

// FormatBRL formats an amount as Brazilian reais, e.g. "R$ 4.500,00".
func FormatBRL(amount float64) string {
	return "R$ " + brPrinter.Sprintf("%.2f", amount)
}

// Derive fills the server-computed fields of rec.
func Derive(rec *Record, percent float64) error {
	rec.CalculatedSalary = CalculateSalary(rec.Salary, percent)
	formatted, err := FormatAdmissionDate(rec.AdmissionDate)
	if err != nil {
		return err
	}
	rec.CalculatedAdmissionDate = formatted
	return nil
}
