package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"analysis-backend/internal/panel"
	"analysis-backend/internal/resultview"
)

// renderResult prints a formatted result. Payloads that are not structured
// JSON are printed verbatim.
func renderResult(w io.Writer, res *resultview.Result, raw string) {
	switch {
	case res == nil:
		color.New(color.Faint).Fprintln(w, "Result is not structured data; showing raw text:")
		fmt.Fprintln(w, raw)
	case res.Kind == resultview.KindSingle:
		renderSingle(w, res)
	default:
		renderTable(w, res)
	}
}

func renderSingle(w io.Writer, res *resultview.Result) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Field", "Value"})
	for _, f := range res.Present() {
		tbl.AppendRow(table.Row{f.Label, f.Value})
	}
	tbl.Render()
}

func renderTable(w io.Writer, res *resultview.Result) {
	var cols []resultview.Column
	for _, c := range res.Columns {
		if c.Type != resultview.ColumnAction {
			cols = append(cols, c)
		}
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)

	header := table.Row{"#"}
	for _, c := range cols {
		header = append(header, c.Label)
	}
	tbl.AppendHeader(header)

	for _, row := range res.Rows {
		line := table.Row{row.RowIndex}
		for _, c := range cols {
			v, _ := row.Get(c.FieldName)
			line = append(line, resultview.Render(c.FieldName, c.Label, v))
		}
		tbl.AppendRow(line)
	}

	n := res.ItemCount()
	suffix := "s"
	if n == 1 {
		suffix = ""
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("%d item%s", n, suffix)})
	tbl.Render()
}

func renderDetail(w io.Writer, view panel.DetailView) {
	if !view.Visible {
		return
	}
	color.New(color.Bold).Fprintln(w, view.Title)
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	for _, f := range view.Fields {
		tbl.AppendRow(table.Row{f.Label, f.Value})
	}
	tbl.Render()
}

// toastPrinter shows panel notifications on a terminal.
type toastPrinter struct {
	w io.Writer
}

func (t toastPrinter) OnToast(level panel.Level, title, message string) {
	c := color.New(color.FgCyan)
	switch level {
	case panel.LevelSuccess:
		c = color.New(color.FgGreen)
	case panel.LevelWarning:
		c = color.New(color.FgYellow)
	case panel.LevelError:
		c = color.New(color.FgRed)
	}
	c.Fprintf(t.w, "[%s] %s: %s\n", level, title, message)
}

func (t toastPrinter) OnCloseDetail(message string) {
	color.New(color.Faint).Fprintln(t.w, message)
}

// fileClipboard writes copied text to a file, or stdout for "-".
type fileClipboard struct {
	path   string
	stdout io.Writer
}

func (c fileClipboard) WriteText(text string) error {
	if c.path == "-" {
		_, err := fmt.Fprintln(c.stdout, text)
		return err
	}
	return writeFile(c.path, text)
}

// urlPrinter prints the workflow URL instead of opening a browser.
type urlPrinter struct {
	baseURL string
	w       io.Writer
}

func (p urlPrinter) Open(url string) error {
	_, err := fmt.Fprintln(p.w, p.baseURL+url)
	return err
}
