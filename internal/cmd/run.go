package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/ensemble-cli/ensemble/internal/config"
	"github.com/ensemble-cli/ensemble/internal/itc"
	"github.com/ensemble-cli/ensemble/internal/logging"
	"github.com/ensemble-cli/ensemble/internal/plugin"
	"github.com/ensemble-cli/ensemble/internal/plugins/countdown"
	"github.com/ensemble-cli/ensemble/internal/plugins/debugkeys"
	"github.com/ensemble-cli/ensemble/internal/plugins/echo"
	"github.com/ensemble-cli/ensemble/internal/plugins/pidfile"
	"github.com/ensemble-cli/ensemble/internal/plugins/watchfile"
	"github.com/ensemble-cli/ensemble/internal/supervisor"
)

var runCmd = &cobra.Command{
	Use:   "run [plugin]...",
	Short: "Run the named plugins under one supervisor",
	Long: heredoc.Doc(`
		Run composes the named plugins into one cooperatively-supervised
		process. Plugins are set up in the order given on the command line
		and torn down in reverse; their background tasks run concurrently
		until the first one finishes or fails, or the process is
		interrupted.
	`),
	Example: heredoc.Doc(`
		# count down from 5 every half second, echoing each update
		ensemble run countdown echo --from 5 --interval 500ms

		# watch a directory and monitor debug keys, until interrupted
		ensemble run watchfile debug --watch ./data
	`),
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: pluginNames(),
	RunE:      runPlugins,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("from", "f", 0, "count down from this number")
	runCmd.Flags().DurationP("interval", "s", 0, "pause between counts")
	runCmd.Flags().Bool("immediately", false, "echo the current value on start instead of waiting for the first update")
	runCmd.Flags().Duration("min-interval", 0, "minimum spacing between echoed updates")
	runCmd.Flags().String("watch", "", "file or directory for the watchfile plugin")
	runCmd.Flags().String("pidfile", "", "path for the pidfile plugin")
}

// pluginNames lists the built-in plugins, sorted.
func pluginNames() []string {
	names := []string{"countdown", "echo", "debug", "pidfile", "watchfile"}
	sort.Strings(names)
	return names
}

func runPlugins(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log := logging.New(os.Stderr, cfg.Logging.Level)
	shared := &plugin.SharedContext{
		Hub: itc.NewHub(),
		Log: log,
	}

	factories, err := buildFactories(cmd, cfg, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return supervisor.New(supervisor.WithLogger(log)).Run(ctx, shared, factories)
}

// buildFactories resolves plugin names to factories, in command-line order.
func buildFactories(cmd *cobra.Command, cfg *config.Config, names []string) ([]plugin.Factory, error) {
	factories := make([]plugin.Factory, 0, len(names))
	for _, name := range names {
		f, err := buildFactory(cmd, cfg, name)
		if err != nil {
			return nil, err
		}
		factories = append(factories, f)
	}
	return factories, nil
}

func buildFactory(cmd *cobra.Command, cfg *config.Config, name string) (plugin.Factory, error) {
	flags := cmd.Flags()

	switch name {
	case "countdown":
		from := cfg.Countdown.From
		if flags.Changed("from") {
			from, _ = flags.GetInt("from")
		}
		interval := cfg.Countdown.Interval()
		if flags.Changed("interval") {
			interval, _ = flags.GetDuration("interval")
		}
		if from < 1 {
			return plugin.Factory{}, fmt.Errorf("countdown must start from at least 1, got %d", from)
		}
		if interval <= 0 {
			return plugin.Factory{}, fmt.Errorf("countdown interval must be positive, got %v", interval)
		}
		return countdown.NewFactory(from, interval), nil

	case "echo":
		opts := echo.Options{
			Immediately: cfg.Echo.Immediately,
			MinInterval: cfg.Echo.MinInterval(),
		}
		if flags.Changed("immediately") {
			opts.Immediately, _ = flags.GetBool("immediately")
		}
		if flags.Changed("min-interval") {
			opts.MinInterval, _ = flags.GetDuration("min-interval")
		}
		return echo.NewFactory(opts), nil

	case "debug":
		return debugkeys.NewFactory(nil), nil

	case "pidfile":
		path := cfg.Pidfile.Path
		if flags.Changed("pidfile") {
			path, _ = flags.GetString("pidfile")
		}
		return pidfile.NewFactory(path), nil

	case "watchfile":
		path := cfg.Watch.Path
		if flags.Changed("watch") {
			path, _ = flags.GetString("watch")
		}
		return watchfile.NewFactory(path), nil

	default:
		return plugin.Factory{}, fmt.Errorf("unknown plugin %q (known plugins: %s)",
			name, strings.Join(pluginNames(), ", "))
	}
}
