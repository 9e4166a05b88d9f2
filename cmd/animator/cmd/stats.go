package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"

	"github.com/go-drift/animator/pkg/canvas"
)

// Display probe statistics.
func displayProbeStats(res canvas.ProbeResult, strategy string) {
	logger.Noticef("probe statistics\n%s", probeStatsTable(res, strategy))
	if len(res.History) > 0 {
		logger.Noticef("fps history\n%s", fpsHistoryTable(res))
	}
}

func probeStatsTable(res canvas.ProbeResult, strategy string) string {
	name, frames := res.Animator, res.TotalFrames
	if name == "" {
		name, strategy, frames = "(none)", "-", res.CanvasFrame
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Animator", "Strategy", "Restarts", "Frames", "Duration", "Last fps", "Total fps"})
	table.Append([]string{
		name,
		strategy,
		fmt.Sprintf("%d", res.Restarts),
		fmt.Sprintf("%d", frames),
		res.Duration.String(),
		fmt.Sprintf("%.2f", res.LastFPS),
		fmt.Sprintf("%.2f", res.TotalFPS),
	})
	table.SetFooter([]string{"", "", "", "", "", "TITLE", res.Title})
	table.Render()
	return buf.String()
}

func fpsHistoryTable(res canvas.ProbeResult) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Time", "Frames", "Window", "Last fps", "Total fps"})
	for _, s := range res.History {
		table.Append([]string{
			s.Timestamp.Format("15:04:05.000"),
			fmt.Sprintf("%d", s.TotalFrames),
			fmt.Sprintf("%d", s.Window),
			fmt.Sprintf("%.2f", s.LastFPS),
			fmt.Sprintf("%.2f", s.TotalFPS),
		})
	}
	table.Render()
	return buf.String()
}
