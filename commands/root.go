package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cadenzr/go-timeline-engine/internal/core/timeline"
	"github.com/cadenzr/go-timeline-engine/internal/data/loader"
	"github.com/cadenzr/go-timeline-engine/internal/runner"
	"github.com/cadenzr/go-timeline-engine/internal/util"
)

var (
	// Logging related
	debug   bool
	logFile string

	// Playback related
	speed     float64
	reverse   bool
	loopFlag  bool
	frameRate float64
	seekTo    float64

	// Live authoring
	watch bool

	rootCmd = &cobra.Command{
		Use:   "go-timeline-engine <definition.json>",
		Short: "Timed event and curve playback engine",
		Long: `go-timeline-engine plays JSON timeline definitions: ordered event
tracks fire once per pass as the clock crosses them, float curves are
sampled every tick, in forward or reverse direction, with seek and loop
support.

Examples:
  go-timeline-engine show.json                  # Play a definition to the end
  go-timeline-engine show.json --reverse        # Play end-to-start
  go-timeline-engine show.json --seek 6         # Jump, replaying crossed events
  go-timeline-engine show.json --loop --watch   # Loop and hot-reload on edits
  go-timeline-engine inspect show.json          # Print tracks and curves
  go-timeline-engine tui show.json              # Interactive transport`,
		Args: cobra.ExactArgs(1),
		RunE: runPlay,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Append logs to this file")

	rootCmd.Flags().Float64Var(&speed, "speed", 1,
		"Playback rate multiplier")
	rootCmd.Flags().BoolVar(&reverse, "reverse", false,
		"Play from the end toward the start")
	rootCmd.Flags().BoolVar(&loopFlag, "loop", false,
		"Loop at the end of the range (overrides the definition)")
	rootCmd.Flags().Float64Var(&frameRate, "fps", 60,
		"Tick rate while playing")
	rootCmd.Flags().Float64Var(&seekTo, "seek", -1,
		"Seek before playing, replaying events up to that position")
	rootCmd.Flags().BoolVar(&watch, "watch", false,
		"Reload and restart when the definition file changes")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func initLogging() {
	level := "info"
	if debug {
		level = "debug"
	}
	util.InitLogger(level, logFile, debug)
}

func runPlay(cmd *cobra.Command, args []string) error {
	initLogging()
	path := args[0]

	if frameRate <= 0 || frameRate > 1000 {
		return fmt.Errorf("fps must be between 1 and 1000")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var watcher *loader.DefinitionWatcher
	if watch {
		w, err := loader.NewDefinitionWatcher(path)
		if err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		watcher = w
		defer watcher.Close()
	}

	for {
		reloaded, err := playOnce(ctx, path, watcher)
		if err != nil {
			return err
		}
		if !reloaded {
			return nil
		}
		util.LogInfof("definition changed, restarting playback")
	}
}

// playOnce plays the definition to completion. It reports true when a
// watched definition changed and playback should restart from a fresh
// build.
func playOnce(ctx context.Context, path string, watcher *loader.DefinitionWatcher) (bool, error) {
	def, err := loader.Load(path)
	if err != nil {
		return false, err
	}
	tl := def.Build()
	tl.SetSpeed(speed)
	if loopFlag {
		tl.Loop = true
	}
	p := newPrinter(os.Stdout)
	tl.Subscribe(p)

	if reverse {
		tl.PlayReverse()
		tl.Seek(tl.Duration)
	} else {
		tl.Play()
	}
	if seekTo >= 0 {
		tl.Seek(seekTo)
	}

	playCtx := ctx
	var cancel context.CancelFunc
	reloadc := make(chan struct{}, 1)
	if watcher != nil {
		playCtx, cancel = context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-watcher.Changes():
				reloadc <- struct{}{}
				cancel()
			case <-playCtx.Done():
			}
		}()
	}

	r := runner.New(tl, runner.Config{FrameRate: frameRate})
	err = r.Run(playCtx)
	p.printSummary()

	select {
	case <-reloadc:
		return true, nil
	default:
	}
	if err != nil && ctx.Err() != nil {
		// Interrupted by the user; not a failure.
		return false, nil
	}
	if err != nil && err != context.Canceled {
		return false, err
	}
	return false, nil
}

// printer writes fired events to stdout as playback crosses them and
// remembers the last sample of every curve for the closing summary.
type printer struct {
	out     *os.File
	samples map[string]float64
	order   []string
}

func newPrinter(out *os.File) *printer {
	return &printer{out: out, samples: make(map[string]float64)}
}

func (p *printer) OnEvent(n timeline.EventNotification) {
	fmt.Fprintf(p.out, "%s  event %s/%s\n", util.FormatSeconds(n.Event.Time), n.TrackID, n.Event.ID)
}

func (p *printer) OnCurve(n timeline.CurveNotification) {
	if _, seen := p.samples[n.CurveID]; !seen {
		p.order = append(p.order, n.CurveID)
	}
	p.samples[n.CurveID] = n.Value
}

func (p *printer) printSummary() {
	for _, id := range p.order {
		fmt.Fprintf(p.out, "curve %s final value %s\n", id, util.FormatValue(p.samples[id]))
	}
}
