// report.go - evaluation report rendering.

package eval

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderText writes the report as human-readable tables.
func RenderText(w io.Writer, r *Report) error {
	_, _ = fmt.Fprintf(w, "Evaluated %d rows from %s\n\n", r.Rows, r.Dataset)

	_, _ = fmt.Fprintln(w, "Final Label Performance")
	labelTable(w, r.Finals).Render()

	_, _ = fmt.Fprintln(w, "\nIntermediate Label Performance")
	labelTable(w, r.Intermediates).Render()

	_, _ = fmt.Fprintln(w, "\nAggregate Metrics")
	aggregateTable(w, r).Render()
	return nil
}

// RenderMarkdown writes the report as markdown tables.
func RenderMarkdown(w io.Writer, r *Report) error {
	_, _ = fmt.Fprintf(w, "Evaluated %d rows from %s\n\n", r.Rows, r.Dataset)

	_, _ = fmt.Fprintln(w, "## Final Label Performance")
	labelTable(w, r.Finals).RenderMarkdown()

	_, _ = fmt.Fprintln(w, "\n## Intermediate Label Performance")
	labelTable(w, r.Intermediates).RenderMarkdown()

	_, _ = fmt.Fprintln(w, "\n## Aggregate Metrics")
	aggregateTable(w, r).RenderMarkdown()
	return nil
}

func labelTable(w io.Writer, results []LabelResult) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Label", "Prec", "Rec", "F1", "Support"})
	for _, lr := range results {
		t.AppendRow(table.Row{
			lr.Label,
			fmt.Sprintf("%.3f", lr.Precision),
			fmt.Sprintf("%.3f", lr.Recall),
			fmt.Sprintf("%.3f", lr.F1),
			lr.Support,
		})
	}
	return t
}

func aggregateTable(w io.Writer, r *Report) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendRow(table.Row{"Macro F1", fmt.Sprintf("%.3f", r.Aggregates.MacroF1)})
	t.AppendRow(table.Row{"Micro F1", fmt.Sprintf("%.3f", r.Aggregates.MicroF1)})
	t.AppendRow(table.Row{"Weighted F1", fmt.Sprintf("%.3f", r.Aggregates.WeightedF1)})
	t.AppendRow(table.Row{"Accuracy", fmt.Sprintf("%.3f", r.Aggregates.Accuracy)})
	return t
}

// RenderJSON writes the report as indented JSON.
func RenderJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
