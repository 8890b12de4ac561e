// Package render turns a final report table into a presentation format.
package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/syntrixbase/esreport/pkg/model"
)

// Renderer writes a table to w.
type Renderer interface {
	Render(w io.Writer, t *model.Table) error
	ContentType() string
}

// Format names a renderer.
type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ForFormat returns the renderer for name. An empty name selects JSON.
func ForFormat(name string) (Renderer, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatJSON:
		return JSON{}, nil
	case FormatHTML:
		return HTML{}, nil
	case FormatText:
		return Text{}, nil
	}
	return nil, fmt.Errorf("unsupported format %q", name)
}

var tableTemplate = template.Must(template.New("table").Parse(
	`<table border='1' cellpadding='10' cellspacing='0' style='border-collapse:collapse;'>` +
		`<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>` +
		`<tbody>{{range .Records}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody>` +
		`</table>`))

// HTML renders a bordered HTML table. Cell values are escaped.
type HTML struct{}

func (HTML) Render(w io.Writer, t *model.Table) error {
	return tableTemplate.Execute(w, struct {
		Columns []string
		Records [][]string
	}{t.Columns, t.Records()})
}

func (HTML) ContentType() string { return "text/html; charset=utf-8" }

// HTMLString renders t as an HTML fragment.
func HTMLString(t *model.Table) (string, error) {
	var b strings.Builder
	if err := (HTML{}).Render(&b, t); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Text renders an aligned plain-text table for terminals.
type Text struct{}

func (Text) Render(w io.Writer, t *model.Table) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Columns)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(t.Records())
	table.Render()
	return nil
}

func (Text) ContentType() string { return "text/plain; charset=utf-8" }

// JSON renders {"columns": [...], "rows": [[...], ...]} with rows in column order.
type JSON struct{}

func (JSON) Render(w io.Writer, t *model.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Columns []string   `json:"columns"`
		Rows    [][]string `json:"rows"`
	}{t.Columns, t.Records()})
}

func (JSON) ContentType() string { return "application/json" }
