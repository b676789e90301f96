package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cadenzr/go-timeline-engine/internal/data/loader"
	"github.com/cadenzr/go-timeline-engine/internal/presentation/layout"
	"github.com/cadenzr/go-timeline-engine/internal/util"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <definition.json>",
	Short: "Print the tracks, events and curves of a definition",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func runInspect(cmd *cobra.Command, args []string) error {
	initLogging()

	def, err := loader.Load(args[0])
	if err != nil {
		return err
	}
	tl := def.Build()

	sizer := layout.Sizer{}
	out := os.Stdout

	name := tl.Owner
	if name == "" {
		name = args[0]
	}
	loopNote := ""
	if tl.Loop {
		loopNote = "  (loop)"
	}
	fmt.Fprintf(out, "%s  %s%s\n\n",
		headerStyle.Render(name),
		util.FormatSeconds(tl.Duration),
		loopNote)

	for _, track := range tl.Tracks() {
		fmt.Fprintf(out, "%s  %s, %d events\n",
			sectionStyle.Render("track "+track.ID),
			util.FormatSeconds(track.Duration),
			track.Len())

		events := track.Events()
		ids := make([]string, 0, len(events))
		for _, e := range events {
			ids = append(ids, e.ID)
		}
		idWidth := sizer.ColumnWidth(ids, 8)
		for _, e := range events {
			unreachable := ""
			if e.Time > tl.Duration {
				unreachable = dimStyle.Render("  (beyond timeline duration)")
			}
			fmt.Fprintf(out, "  %s  %s%s\n",
				sizer.PadString(e.ID, idWidth, true),
				util.FormatSeconds(e.Time),
				unreachable)
		}
		fmt.Fprintln(out)
	}

	for _, fc := range tl.Curves() {
		flags := ""
		if fc.Loop {
			flags += "  loop"
		}
		if !fc.Enabled {
			flags += "  disabled"
		}
		fmt.Fprintf(out, "%s  %d keyframes, domain [%s, %s]%s\n",
			sectionStyle.Render("curve "+fc.ID),
			fc.Curve.Len(),
			util.FormatSeconds(fc.Curve.MinTime()),
			util.FormatSeconds(fc.Curve.MaxTime()),
			flags)
	}
	return nil
}
