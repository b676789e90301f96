package commands

import (
	"github.com/spf13/cobra"

	"github.com/cadenzr/go-timeline-engine/internal/data/loader"
	"github.com/cadenzr/go-timeline-engine/internal/presentation/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui <definition.json>",
	Short: "Interactive transport: play, pause, seek and scrub a definition",
	Long: `Opens an interactive terminal transport for a timeline definition.

Keys:
  space   play/pause
  r       toggle direction
  l       toggle loop
  s       stop
  ←/→     seek by one second (replays crossed events)
  0/$     jump to start/end
  q       quit`,
	Args: cobra.ExactArgs(1),
	RunE: runTui,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTui(cmd *cobra.Command, args []string) error {
	initLogging()

	def, err := loader.Load(args[0])
	if err != nil {
		return err
	}
	tl := def.Build()
	if tl.Owner == "" {
		tl.Owner = args[0]
	}
	if def.Autoplay {
		tl.Play()
	}
	return tui.Run(tl)
}
