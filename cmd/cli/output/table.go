package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderTable prints a pretty table to w. A non-nil footer is rendered below the rows.
func RenderTable(w io.Writer, headers []string, rows [][]any, footer []any) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)

	headerRow := table.Row{}
	for _, h := range headers {
		headerRow = append(headerRow, h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}
	if footer != nil {
		t.AppendFooter(table.Row(footer))
	}

	t.SetColumnConfigs(amountColumns(headers))
	t.Render()
}

// amountColumns right-aligns money columns.
func amountColumns(headers []string) []table.ColumnConfig {
	var cfgs []table.ColumnConfig
	for i, h := range headers {
		if h == "Amount" || h == "Total" {
			cfgs = append(cfgs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight, AlignFooter: text.AlignRight})
		}
	}
	return cfgs
}

// PrintJSON pretty-prints a raw JSON body.
func PrintJSON(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, buf.String())
	return err
}
