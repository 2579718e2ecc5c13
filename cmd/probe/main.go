package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/jelajah/internal/probe"
	"github.com/okian/jelajah/pkg/logger"
)

const defaultRunTimeout = 5 * time.Minute

var rootCmd = &cobra.Command{ //nolint:gochecknoglobals // cobra root command
	Use:   "probe",
	Short: "Verify a running jelajah server",
	Long: `probe calls a running jelajah server, sends a recommendation query for
every category and region in its catalog, and checks each response: at most
ten matches, scores in [0,1] sorted from best to worst, every match in the
requested category and region. It then stores a profile, visits the top
personalized match and waits for it to disappear from the list.`,
	SilenceUsage: true,
}

func init() { //nolint:gochecknoinits // cobra command tree
	rootCmd.AddCommand(runCmd())
}

func runCmd() *cobra.Command {
	cfg := probe.DefaultConfig()
	var (
		logFile    string
		reportFile string
		deadline   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every check once against the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			closeLog, err := probe.SetupLogging(logFile, cfg.Verbose)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), deadline)
			defer cancel()

			rep, runErr := probe.Run(ctx, cfg, logger.Named("probe"))
			for _, v := range rep.Violations {
				fmt.Fprintln(cmd.ErrOrStderr(), v.String())
			}
			if reportFile != "" {
				if err := probe.SaveReport(reportFile, rep); err != nil {
					return err
				}
			} else if err := probe.WriteReport(cmd.OutOrStdout(), rep); err != nil {
				return err
			}
			return runErr
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "base URL of the server")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent requests")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-request timeout")
	f.StringVar(&cfg.UserID, "user", cfg.UserID, "user id for the profile and visit flow")
	f.BoolVar(&cfg.SkipVisits, "skip-visits", false, "skip the profile and visit flow")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log every checked query")
	f.StringVar(&logFile, "log", "", "also append logs to this file")
	f.StringVar(&reportFile, "output", "", "write the JSON report to this file instead of stdout")
	f.DurationVar(&deadline, "deadline", defaultRunTimeout, "overall deadline of the run")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
