// Package terminal renders reports to the console in a formatted text form.
package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/sell-tools/margin-atlas/pkg/models/domain"
)

// Reporter outputs SKU reports as plain text.
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter.
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(report *domain.SkuReport) error {
	tmpl := `
Profit report for {{.Account}}
Period: {{.Period.From.Format "2006-01-02"}} to {{.Period.To.Format "2006-01-02"}}
Total profit: {{printf "%.2f" .TotalProfit}}
{{- if .Unavailable}}
Unavailable sources: {{range .Unavailable}}{{.}} {{end}}
{{- end}}

{{range .Rows -}}
[{{.Class}}] {{.SKU}}{{if .Name}} {{.Name}}{{end}}
  units: {{.GrossUnits}} sold, {{.ReturnedUnits}} returned, {{.InTransitUnits}} in transit
  money: {{printf "%.2f" .NetMonetary}} net, {{printf "%.2f" .CostOfGoods}} cost of goods{{if .AdSpend}}, {{printf "%.2f" (deref .AdSpend)}} ad spend{{else}}, ad spend unavailable{{end}}
  profit: {{printf "%.2f" .Profit}}{{if .ProfitPerUnit}} ({{printf "%.2f" (deref .ProfitPerUnit)}}/unit){{end}}{{if .ROI}}, ROI {{printf "%.1f" (deref .ROI)}}%{{end}}{{if .BuyoutRate}}, buyout {{printf "%.1f" (mul 100 (deref .BuyoutRate))}}%{{end}}
{{end}}`

	t, err := template.New("report").Funcs(template.FuncMap{
		"deref": func(f *float64) float64 {
			if f == nil {
				return 0
			}
			return *f
		},
		"mul": func(a, b float64) float64 { return a * b },
	}).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
