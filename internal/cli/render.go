package cli

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// renderTable writes a boxed table on a terminal and CSV
// otherwise, so output stays easy to pipe.
func renderTable(w io.Writer, title string, header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(header)
	t.AppendRows(rows)

	if !isTerminal(w) {
		t.RenderCSV()
		return
	}
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	t.Render()
}

// renderFields writes name/value pairs.
func renderFields(w io.Writer, title string, fields [][2]string) {
	rows := make([]table.Row, len(fields))
	for i, f := range fields {
		rows[i] = table.Row{f[0], f[1]}
	}
	renderTable(w, title, table.Row{"Field", "Value"}, rows)
}
