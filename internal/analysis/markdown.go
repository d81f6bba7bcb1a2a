package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/titanic-insights/internal/dataset"
)

// ViewMarkdown renders an aggregate view as a two-column table.
func ViewMarkdown(title string, v View) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(fmt.Sprintf("[%s]\n", strings.ToUpper(title)))
	}
	valueHeader := "count"
	if v.Stat == StatMean {
		valueHeader = "mean " + v.Target
	}
	b.WriteString(fmt.Sprintf("| %s | %s | n |\n|---|---|---|\n", safeName(v.GroupBy), valueHeader))
	for _, g := range v.Groups {
		val := strconv.Itoa(g.Count)
		if v.Stat == StatMean {
			val = fmt.Sprintf("%.4f", g.Value)
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %d |\n", safeVal(g.Label), val, g.Count))
	}
	return b.String()
}

// HistogramMarkdown renders non-empty bins with a proportional bar.
func HistogramMarkdown(h Histogram) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s DISTRIBUTION] (n=%d, bins=%d)\n", strings.ToUpper(h.Column), h.Total(), len(h.Bins)))
	peak := 0
	for _, bin := range h.Bins {
		if bin.Count > peak {
			peak = bin.Count
		}
	}
	for _, bin := range h.Bins {
		if bin.Count == 0 {
			continue
		}
		width := 1
		if peak > 0 {
			width = bin.Count * 40 / peak
			if width == 0 {
				width = 1
			}
		}
		b.WriteString(fmt.Sprintf("%8.2f – %8.2f | %-40s %d\n", bin.Lo, bin.Hi, strings.Repeat("#", width), bin.Count))
	}
	return b.String()
}

// RowsMarkdown renders passengers as a Markdown table, truncating long text.
func RowsMarkdown(rows []dataset.Passenger) string {
	cols := dataset.Columns()
	var b strings.Builder
	b.WriteString("| ")
	b.WriteString(strings.Join(cols, " | "))
	b.WriteString(" |\n|")
	for range cols {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for _, p := range rows {
		cells := []string{
			strconv.Itoa(p.PassengerID),
			strconv.Itoa(p.Survived),
			strconv.Itoa(p.Pclass),
			p.Name,
			p.Sex,
			optCell(p.Age),
			strconv.Itoa(p.SibSp),
			strconv.Itoa(p.Parch),
			p.Ticket,
			optCell(p.Fare),
			p.Cabin,
			p.Embarked,
		}
		b.WriteString("| ")
		for i, c := range cells {
			if i > 0 {
				b.WriteString(" | ")
			}
			if len(c) > 40 {
				c = c[:37] + "..."
			}
			b.WriteString(safeVal(c))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

func optCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
