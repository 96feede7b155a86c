// Package views holds the embedded page templates and static assets.
package views

import (
	"embed"
	"html/template"
	"io/fs"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var printer = message.NewPrinter(language.AmericanEnglish)

// FuncMap is the helper set available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"usd":    USD,
		"number": Number,
	}
}

// USD formats a price the en-US way, e.g. $28,045 or $25,999.5.
func USD(v float64) string {
	return "$" + printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Number formats an integer with en-US digit grouping.
func Number(v int) string {
	return printer.Sprint(number.Decimal(v))
}

// Templates parses every page. Page templates are addressed by their
// define name, e.g. "account/login".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS,
		"templates/*.html",
		"templates/*/*.html",
	)
}

// Static is the file tree served under /css and /js.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
