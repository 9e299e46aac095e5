package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/suomisf/suomisf/pkg/snapshot"
)

func summary(label string, r *snapshot.Report) string {
	return fmt.Sprintf("%s: %s  run=%s  %d passed / %d failed  total=%.1fs",
		label, r.Timestamp.Format("2006-01-02 15:04:05"), r.RunID, r.Passed, r.Failed, r.TotalDurationMS/1000)
}

var kindColors = map[string]text.Colors{
	snapshot.DeltaRegression:  {text.FgRed, text.Bold},
	snapshot.DeltaImprovement: {text.FgGreen},
	snapshot.DeltaNew:         {text.FgCyan},
	snapshot.DeltaRemoved:     {text.Faint},
}

func renderDeltas(deltas []snapshot.Delta, all bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Snapshot", "Baseline", "Current", "Change", "Result"})

	for _, d := range deltas {
		if d.Kind == snapshot.DeltaUnchanged && !all {
			continue
		}
		baseline, current, change := "-", "-", "-"
		if d.Kind != snapshot.DeltaNew {
			baseline = fmt.Sprintf("%.1fms", d.BaselineMS)
		}
		if d.Kind != snapshot.DeltaRemoved {
			current = fmt.Sprintf("%.1fms", d.CurrentMS)
		}
		if d.Kind != snapshot.DeltaNew && d.Kind != snapshot.DeltaRemoved {
			change = fmt.Sprintf("%+.0f%%", d.Percent)
		}
		kind := d.Kind
		if colors, ok := kindColors[d.Kind]; ok {
			kind = colors.Sprint(d.Kind)
		}
		tw.AppendRow(table.Row{d.Name, baseline, current, change, kind})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}
