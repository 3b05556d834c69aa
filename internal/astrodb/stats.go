package astrodb

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/litescript/ls-astrodb/internal/catalog"
	"github.com/litescript/ls-astrodb/internal/octree"
)

// CatalogStats summarizes one catalog.
type CatalogStats struct {
	ID      catalog.ID
	Name    string
	Prefix  string
	Entries int
}

// Stats is a point-in-time summary of a database.
type Stats struct {
	Objects        int
	Stars          int
	DSOs           int
	Bodies         int
	Systems        int
	Names          int
	LocalizedNames int
	NameRecords    int
	AvgDSOMag      float64
	NextIndex      catalog.Index
	Catalogs       []CatalogStats
	StarTree       octree.Stats
	DSOTree        octree.Stats
}

// Stats collects counters from every component.
func (d *Database) Stats() Stats {
	s := Stats{
		Objects:        d.Len(),
		Stars:          d.StarCount(),
		DSOs:           d.DSOCount(),
		Bodies:         d.BodyCount(),
		Systems:        len(d.systems),
		Names:          d.names.Len(),
		LocalizedNames: d.names.LocalizedLen(),
		NameRecords:    d.names.Live(),
		AvgDSOMag:      d.AvgDSOMag(),
		NextIndex:      d.alloc.Peek(),
		StarTree:       d.stars.Stats(),
		DSOTree:        d.dsos.Stats(),
	}
	for c := range d.catalogs.All() {
		s.Catalogs = append(s.Catalogs, CatalogStats{
			ID:      c.ID,
			Name:    c.Name,
			Prefix:  c.Prefix,
			Entries: c.CrossIndex().Len(),
		})
	}
	return s
}

// DumpStats writes Stats as tables.
func (d *Database) DumpStats(w io.Writer) {
	s := d.Stats()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Objects")
	t.AppendHeader(table.Row{"Kind", "Count"})
	t.AppendRows([]table.Row{
		{"stars", s.Stars},
		{"deep-sky objects", s.DSOs},
		{"bodies", s.Bodies},
		{"solar systems", s.Systems},
	})
	t.AppendFooter(table.Row{"total", s.Objects})
	t.Render()

	t = table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Names")
	t.AppendRows([]table.Row{
		{"canonical", s.Names},
		{"localized", s.LocalizedNames},
		{"records", s.NameRecords},
	})
	t.Render()

	t = table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Catalogs")
	t.AppendHeader(table.Row{"ID", "Catalog", "Prefix", "Entries"})
	for _, c := range s.Catalogs {
		t.AppendRow(table.Row{c.ID, c.Name, c.Prefix, c.Entries})
	}
	t.Render()

	t = table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Octrees")
	t.AppendHeader(table.Row{"Tree", "Entries", "Nodes", "Leaves", "Depth", "Outliers", "Brightest"})
	for _, row := range []struct {
		name string
		st   octree.Stats
	}{{"stars", s.StarTree}, {"dsos", s.DSOTree}} {
		t.AppendRow(table.Row{row.name, row.st.Entries, row.st.Nodes, row.st.Leaves, row.st.MaxDepth, row.st.Outliers, formatMag(row.st.Brightest)})
	}
	t.Render()

	_, _ = fmt.Fprintf(w, "average DSO magnitude: %.2f\nnext auto index: %s\n", s.AvgDSOMag, s.NextIndex)
}

func formatMag(m float32) string {
	if m > 1e30 {
		return "-"
	}
	return fmt.Sprintf("%.2f", m)
}
