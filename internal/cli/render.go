package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/skillscope/engine"
	"github.com/spektr-org/skillscope/schema"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatCSV   = "csv"
)

// renderer writes a panel either as structured data (json, yaml) or as
// its tabular projection (table, csv).
type renderer struct {
	w      io.Writer
	format string
}

func newRenderer(w io.Writer, format string) *renderer {
	if format == "" {
		format = formatTable
	}
	return &renderer{w: w, format: format}
}

// render writes v in the renderer's format. tables is the tabular
// projection of v and is ignored by the structured formats.
func (r *renderer) render(v any, tables []*engine.TableData) error {
	switch r.format {
	case formatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatCSV:
		return writeCSV(r.w, tables)
	case formatTable:
		for i, t := range tables {
			if i > 0 {
				_, _ = fmt.Fprintln(r.w)
			}
			writePretty(r.w, t)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json, yaml or csv)", r.format)
	}
}

// writePretty renders one table with go-pretty. Right-aligned columns keep
// their alignment in the footer.
func writePretty(w io.Writer, t *engine.TableData) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	if t.Title != "" {
		tw.SetTitle(t.Title)
	}

	header := make(table.Row, len(t.Columns))
	var configs []table.ColumnConfig
	for i, col := range t.Columns {
		header[i] = col.Label
		if col.Align == "right" {
			configs = append(configs, table.ColumnConfig{
				Number:      i + 1,
				Align:       text.AlignRight,
				AlignFooter: text.AlignRight,
			})
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range t.Rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}
	if t.Summary != nil {
		footer := make(table.Row, 0, len(t.Columns))
		for _, cell := range summaryCells(t) {
			footer = append(footer, cell)
		}
		tw.AppendFooter(footer)
	}
	tw.Render()
}

// writeCSV writes every table as header, rows and summary. Several tables
// are separated by an empty record and introduced by their title.
func writeCSV(w io.Writer, tables []*engine.TableData) error {
	cw := csv.NewWriter(w)
	for i, t := range tables {
		if len(tables) > 1 {
			if i > 0 {
				if err := cw.Write([]string{}); err != nil {
					return err
				}
			}
			if err := cw.Write([]string{t.Title}); err != nil {
				return err
			}
		}
		header := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			header[j] = col.Label
		}
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(t.Rows); err != nil {
			return err
		}
		if t.Summary != nil {
			if err := cw.Write(summaryCells(t)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// summaryCells lays the summary out under the table's columns: the label
// in the first column, values by column key.
func summaryCells(t *engine.TableData) []string {
	cells := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		if i == 0 {
			cells[i] = t.Summary.Label
			continue
		}
		cells[i] = t.Summary.Values[col.Key]
	}
	return cells
}

// columnLabel prefers the schema's display name and falls back to a
// title-cased key.
func columnLabel(key string) string {
	if name := schema.JobPostings().DisplayName(key); name != key {
		return name
	}
	return engine.LabelForDimension(key)
}
