// Package render writes record tables and load summaries.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"go.trai.ch/ibmetrics/internal/core/domain"
	"go.trai.ch/ibmetrics/internal/ui/style"
)

// NullText is shown for null cells in the table view.
const NullText = "NULL"

const tableTimeLayout = "2006-01-02 15:04:05"

var tsvEscaper = strings.NewReplacer("\\", `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)

// TSV writes t as tab-separated values, one header line followed by one line per record.
// Null cells are empty; tabs and newlines inside cells are escaped.
func TSV(w io.Writer, t *domain.RecordTable) error {
	bw := bufio.NewWriter(w)

	names := columnNames(t)
	writeTSVLine(bw, names)

	cells := make([]string, len(names))
	for _, rec := range t.Records {
		for i, name := range names {
			v, _ := rec.Get(name)
			cells[i] = v.Text()
		}
		writeTSVLine(bw, cells)
	}
	return bw.Flush()
}

func writeTSVLine(w *bufio.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			_ = w.WriteByte('\t')
		}
		_, _ = tsvEscaper.WriteString(w, c)
	}
	_ = w.WriteByte('\n')
}

// Table writes t as a bordered table using the given colour profile.
func Table(w io.Writer, t *domain.RecordTable, profile termenv.Profile) error {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)

	headerStyle := style.TableHeader.Renderer(r)
	cellStyle := style.TableCell.Renderer(r)
	nullStyle := style.TableNull.Renderer(r)

	names := columnNames(t)
	rows := make([][]string, 0, len(t.Records))
	nulls := make([][]bool, 0, len(t.Records))
	for _, rec := range t.Records {
		row := make([]string, len(names))
		isNull := make([]bool, len(names))
		for i, name := range names {
			v, _ := rec.Get(name)
			row[i], isNull[i] = tableCell(v), v.IsNull()
		}
		rows = append(rows, row)
		nulls = append(nulls, isNull)
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(style.TableBorder.Renderer(r)).
		Headers(names...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row < len(nulls) && col < len(nulls[row]) && nulls[row][col]:
				return nullStyle
			default:
				return cellStyle
			}
		})

	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

func tableCell(v domain.Value) string {
	switch v.Kind() {
	case domain.KindNull:
		return NullText
	case domain.KindTime:
		return v.Time().Format(tableTimeLayout)
	case domain.KindList:
		return strings.Join(v.List(), ", ")
	default:
		return v.Text()
	}
}

func columnNames(t *domain.RecordTable) []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Origin says where a loaded table came from.
type Origin int

const (
	// OriginParsed means the dump was parsed and the cache updated.
	OriginParsed Origin = iota
	// OriginCached means the table was served from the cache.
	OriginCached
	// OriginBypassed means the dump was parsed without touching the cache.
	OriginBypassed
	// OriginRefreshed means the dump was parsed and its cache entry replaced.
	OriginRefreshed
)

func (o Origin) String() string {
	switch o {
	case OriginCached:
		return "cached"
	case OriginBypassed:
		return "parsed, cache bypassed"
	case OriginRefreshed:
		return "refreshed"
	default:
		return "parsed"
	}
}

// Summary writes the one-line outcome of loading a dump.
func Summary(out *termenv.Output, name string, t *domain.RecordTable, origin Origin, elapsed time.Duration) {
	icon := out.String(style.Check).Foreground(out.Color(string(style.Green)))
	if len(t.Failures) > 0 {
		icon = out.String(style.Warning).Foreground(out.Color(string(style.Yellow)))
	}

	detail := out.String(fmt.Sprintf("(%s, %s)", origin, elapsed.Round(time.Millisecond))).
		Foreground(out.Color(string(style.Slate)))

	_, _ = fmt.Fprintf(out, "%s %s: %s, %s %s\n",
		icon, name,
		plural(t.Len(), "record"),
		plural(len(t.Failures), "failure"),
		detail,
	)
}

// Failed writes the one-line outcome of a dump that could not be loaded.
func Failed(out *termenv.Output, name string, err error) {
	icon := out.String(style.Cross).Foreground(out.Color(string(style.Red)))
	msg := strings.ReplaceAll(err.Error(), "\n", ": ")
	_, _ = fmt.Fprintf(out, "%s %s: %s\n", icon, name, msg)
}

// Failures lists the lines of t that could not be decoded.
func Failures(w io.Writer, t *domain.RecordTable) {
	for _, f := range t.Failures {
		_, _ = fmt.Fprintf(w, "  line %d: %s\n", f.Line, f.Reason)
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
