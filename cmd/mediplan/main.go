package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/mediplan/internal/cli"
	"github.com/terraincognita07/mediplan/internal/schedule"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "mediplan",
		Short:        "Medication schedule and reminder server",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newResetPasswordCommand())
	root.AddCommand(newScheduleCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadServerConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, config)
		},
	}
}

func newResetPasswordCommand() *cobra.Command {
	var (
		dbPath string
		prompt bool
	)

	cmd := &cobra.Command{
		Use:   "reset-password <email>",
		Short: "Replace a user's password",
		Long:  "Replace a user's password. Without --prompt a temporary password is generated and printed once.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options := cli.ResetOptions{}
			if prompt {
				options.ReadPassword = cli.TerminalPasswordReader(os.Stdin, cmd.ErrOrStderr())
			}
			return cli.RunResetPasswordCommand(dbPath, args[0], options, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", resolveDBPath(), "path to the SQLite database")
	cmd.Flags().BoolVar(&prompt, "prompt", false, "ask for the new password instead of generating one")
	return cmd
}

func newScheduleCommand() *cobra.Command {
	var (
		dbPath string
		limit  int
		date   string
	)

	cmd := &cobra.Command{
		Use:   "schedule <email>",
		Short: "Print today's medications and upcoming starts for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := mustLoadLocation(getEnv("TZ", "UTC"))
			now, err := scheduleInstant(date, location)
			if err != nil {
				return err
			}
			return cli.RunScheduleCommand(dbPath, args[0], cli.ScheduleOptions{
				Now:           now,
				Location:      location,
				UpcomingLimit: limit,
			}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", resolveDBPath(), "path to the SQLite database")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of upcoming medications, 0 for all")
	cmd.Flags().StringVar(&date, "date", "", "day to inspect as DD/MM/YYYY (default today)")
	return cmd
}

// scheduleInstant turns an optional DD/MM/YYYY day into noon of that day in location.
func scheduleInstant(raw string, location *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Now().In(location), nil
	}
	day, ok := schedule.ParseDate(raw)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid --date %q, expected DD/MM/YYYY", raw)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, location), nil
}
