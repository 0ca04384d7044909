/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	pkgerrors "github.com/pkg/errors"

	"github.com/suparena/crudstore/resourcemodels"
)

// ErrNoData is returned when there is nothing to export
var ErrNoData = pkgerrors.New("Nenhum dado disponível para exportação.")

// Format selects how records are rendered
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// DefaultSeparator is the CSV field separator of the panel exports
const DefaultSeparator = ';'

// Options controls the rendered columns and the CSV dialect
type Options struct {
	// Columns selects and orders the output. All keys are used when empty.
	Columns   []string
	Title     string
	Separator rune
	// BOM prefixes CSV output with a UTF-8 byte order mark.
	BOM bool
}

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatTable, FormatMarkdown, FormatCSV, FormatJSON:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", pkgerrors.Errorf("unknown output format %q", name)
	}
}

// Write renders items to w in format
func Write(w io.Writer, format Format, items []resourcemodels.Record, opts Options) error {
	switch format {
	case FormatCSV:
		return CSV(w, items, opts)
	case FormatMarkdown:
		return Markdown(w, items, opts)
	case FormatJSON:
		return JSON(w, items)
	default:
		return Table(w, items, opts)
	}
}

// Columns returns the union of the record keys, with "id" first and the rest sorted
func Columns(items []resourcemodels.Record) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, item := range items {
		for k := range item {
			if _, ok := seen[k]; ok || k == "id" {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	sort.Strings(cols)

	for _, item := range items {
		if _, ok := item["id"]; ok {
			return append([]string{"id"}, cols...)
		}
	}
	return cols
}

func columnsOf(items []resourcemodels.Record, opts Options) []string {
	if len(opts.Columns) > 0 {
		return opts.Columns
	}
	return Columns(items)
}

func newTable(items []resourcemodels.Record, opts Options) table.Writer {
	cols := columnsOf(items, opts)

	t := table.NewWriter()
	if opts.Title != "" {
		t.SetTitle(opts.Title)
	}
	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	t.AppendHeader(header)
	for _, item := range items {
		row := make(table.Row, len(cols))
		for i, c := range cols {
			row[i] = FormatValue(item[c])
		}
		t.AppendRow(row)
	}
	return t
}

// Table renders items as an aligned text table
func Table(w io.Writer, items []resourcemodels.Record, opts Options) error {
	if len(items) == 0 {
		return ErrNoData
	}
	t := newTable(items, opts)
	t.SetStyle(table.StyleLight)
	_, err := io.WriteString(w, t.Render()+"\n")
	return err
}

// Markdown renders items as a markdown table
func Markdown(w io.Writer, items []resourcemodels.Record, opts Options) error {
	if len(items) == 0 {
		return ErrNoData
	}
	_, err := io.WriteString(w, newTable(items, opts).RenderMarkdown()+"\n")
	return err
}

// CSV writes items as delimited text with a header line
func CSV(w io.Writer, items []resourcemodels.Record, opts Options) error {
	if len(items) == 0 {
		return ErrNoData
	}
	if opts.BOM {
		if _, err := io.WriteString(w, "\ufeff"); err != nil {
			return err
		}
	}

	cols := columnsOf(items, opts)
	cw := csv.NewWriter(w)
	cw.Comma = opts.Separator
	if cw.Comma == 0 {
		cw.Comma = DefaultSeparator
	}
	if err := cw.Write(cols); err != nil {
		return pkgerrors.Wrap(err, "writing csv header")
	}
	line := make([]string, len(cols))
	for _, item := range items {
		for i, c := range cols {
			line[i] = FormatValue(item[c])
		}
		if err := cw.Write(line); err != nil {
			return pkgerrors.Wrap(err, "writing csv row")
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSON writes items as an indented JSON array
func JSON(w io.Writer, items []resourcemodels.Record) error {
	if items == nil {
		items = []resourcemodels.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// FormatValue renders one cell. Lists are joined with ", " and objects become JSON.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = FormatValue(e)
		}
		return strings.Join(parts, ", ")
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
