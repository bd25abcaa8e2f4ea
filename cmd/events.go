package cmd

import (
	"fmt"

	"github.com/josephlewis42/minishell/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the shell event log.",
}

type eventReport interface {
	Update(le *logger.LogEntry)
}

func reportCommand(use, short string, newReport func() eventReport) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			config, err := loadConfig()
			if err != nil {
				return err
			}

			fd, err := config.ReadEventLog()
			if err != nil {
				return err
			}
			defer fd.Close()

			report := newReport()
			if err := logger.ReadJSONLinesLog(fd, report.Update); err != nil {
				return err
			}

			out, err := yaml.Marshal(report)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand("report", "Show a report of events.", func() eventReport {
		return &logger.Report{}
	}))
	eventsCmd.AddCommand(reportCommand("bugs", "Show syntax errors and failed commands.", func() eventReport {
		return logger.NewBugReport()
	}))
	eventsCmd.AddCommand(reportCommand("sessions", "Show the lines typed in each session.", func() eventReport {
		return &logger.SessionReport{}
	}))
}
