// Package table converts catalog entities, query rows and admin listings
// into rows for the CLI table formatter.
package table

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/agentstation/dremio/pkg/catalog"
	"github.com/agentstation/dremio/pkg/rest"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data is a rendered table.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// Columns returns the column order for rows: the schema order when one is
// given, otherwise the sorted union of keys.
func Columns(rows []map[string]any, schema []catalog.Field) []string {
	if len(schema) > 0 {
		cols := make([]string, len(schema))
		for i, f := range schema {
			cols[i] = f.Name
		}
		return cols
	}
	seen := map[string]bool{}
	var cols []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	slices.Sort(cols)
	return cols
}

// RowsToTableData renders query result rows.
func RowsToTableData(rows []map[string]any, schema []catalog.Field) Data {
	cols := Columns(rows, schema)
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = FormatValue(row[c])
		}
		out = append(out, line)
	}
	return Data{Headers: cols, Rows: out}
}

// ItemsToTableData renders catalog items, one per line.
func ItemsToTableData(items []catalog.Item, wide bool) Data {
	headers := []string{"Path", "Kind", "ID"}
	if wide {
		headers = append(headers, "Tag", "Created")
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		kind := "-"
		if k, err := catalog.Classify(item); err == nil {
			kind = k.String()
		}
		row := []string{strings.Join(item.Path, "."), kind, item.ID}
		if wide {
			row = append(row, dash(item.Tag), dash(item.CreatedAt))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

// NodeToTableData renders one entity as property/value pairs.
func NodeToTableData(meta catalog.Meta) Data {
	rows := [][]string{
		{"Kind", meta.Kind.String()},
		{"Path", strings.Join(meta.Path, ".")},
		{"ID", dash(meta.ID)},
		{"Tag", dash(meta.Tag)},
	}
	if meta.SQL != "" {
		rows = append(rows, []string{"SQL", meta.SQL})
	}
	if len(meta.Fields) > 0 {
		names := make([]string, len(meta.Fields))
		for i, f := range meta.Fields {
			names[i] = f.Name + " " + f.Type.Name
		}
		rows = append(rows, []string{"Fields", strings.Join(names, ", ")})
	}
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

// ReflectionsToTableData renders reflections.
func ReflectionsToTableData(reflections []rest.Reflection, wide bool) Data {
	headers := []string{"ID", "Name", "Type", "Dataset", "Enabled", "Availability"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignCenter, AlignLeft}
	if wide {
		headers = append(headers, "Size")
		align = append(align, AlignRight)
	}
	rows := make([][]string, 0, len(reflections))
	for _, r := range reflections {
		row := []string{r.ID, dash(r.Name), dash(r.Type), r.DatasetID, strconv.FormatBool(r.Enabled), dash(r.Status.Availability)}
		if wide {
			row = append(row, FormatNumber(r.CurrentSizeBytes))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// FormatValue renders a cell.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// FormatNumber formats large numbers with comma separators.
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}

	var b strings.Builder
	for i, r := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
