// Package web holds the embedded HTML views for the rental screens.
package web

import (
	"embed"
	"html/template"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Keoroanthony/go-comic-rental/internal/models"
)

//go:embed templates/*.html
var tplFS embed.FS

var funcs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	"optdate": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"linetotal": func(d models.RentalDetail) string {
		return d.PricePerDay.Mul(decimal.NewFromInt(int64(d.Quantity))).StringFixed(2)
	},
	"idstr": func(id uint) string { return strconv.FormatUint(uint64(id), 10) },
}

// Templates parses every view. Pages are addressed by file name, e.g.
// "rental_index.html"; layout.html supplies the shared header and footer.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(tplFS, "templates/*.html"))
}
