package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"surveillance-dashboard/internal/alertfeed"
	"surveillance-dashboard/internal/client"
	"surveillance-dashboard/internal/config"
	"surveillance-dashboard/internal/logger"
)

var (
	watchDemo      bool
	watchCollapsed bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the live alert feed in the terminal",
	Long: `Poll the dashboard snapshot and print the alert feed whenever new
alerts arrive. With --demo a synthetic alert is added on every poll that
brings nothing new.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		appLogger := logger.New(cfg.Environment, cfg.LogLevel)

		demo := cfg.Dashboard.DemoMode
		if cmd.Flags().Changed("demo") {
			demo = watchDemo
		}
		var gen *alertfeed.Generator
		if demo {
			gen = alertfeed.NewGenerator(time.Now().UnixNano())
		}

		feed := alertfeed.NewFeed(alertfeed.DefaultCapacity)
		if watchCollapsed {
			feed.Toggle()
		}

		api := client.NewDashboardClient(dashboardURL, 10*time.Second)
		poller := alertfeed.NewPoller(api, feed, cfg.Dashboard.PollInterval, gen, appLogger)

		out := cmd.OutOrStdout()
		poller.OnChange = func(f *alertfeed.Feed) {
			if err := renderFeed(out, f); err != nil {
				appLogger.Error().Err(err).Msg("failed to render alert feed")
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		poller.Run(ctx)
		return nil
	},
}

// renderFeed prints the sidebar: a header with the alert count and, when
// open, one line per alert.
func renderFeed(out io.Writer, feed *alertfeed.Feed) error {
	items := feed.Items()
	fmt.Fprintf(out, "Live Alerts (%d) [%s]\n", len(items), feed.State())
	if feed.State() == alertfeed.Collapsed {
		return nil
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "No alerts")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, e := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("15:04:05"), e.AlertLevel, e.EventType, e.CameraID, e.Details)
	}
	return w.Flush()
}

func init() {
	watchCmd.Flags().BoolVar(&watchDemo, "demo", false, "add synthetic alerts when nothing new arrives (defaults to ALERT_DEMO_MODE)")
	watchCmd.Flags().BoolVar(&watchCollapsed, "collapsed", false, "start with the alert list collapsed")
}
