package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tturner/nettrainer/internal/app"
	"github.com/tturner/nettrainer/internal/logging"
)

type replayFlags struct {
	configPath  string
	actionsCSV  string
	actionsJSON string
	verbose     bool
}

func newReplayCmd() *cobra.Command {
	flags := &replayFlags{}

	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Score a scripted session without the desktop",
		Long: `Play a YAML script of trainee actions against a simulated clock and print
the evaluation result message as JSON.

Each step names an action and may wait before the next one:

  scenario: wifi_password
  fail_probability: 0
  steps:
    - action: open_troubleshooter
    - action: enable_wifi
      wait: 1s
    - action: submit_wifi_password
      value: password123
      wait: 1s
    - action: run_troubleshooter

Pending transitions run to completion after the last step.

Actions: ` + strings.Join(app.Actions(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			logger := logging.Nop()
			if flags.verbose {
				logger = logging.NewWriterLogger(logging.LogLevelVerbose, cmd.ErrOrStderr())
			}
			result, err := app.RunReplay(cmd.Context(), app.ReplayOptions{
				ScriptPath:  args[0],
				ConfigPath:  flags.configPath,
				ActionsCSV:  flags.actionsCSV,
				ActionsJSON: flags.actionsJSON,
				Out:         cmd.OutOrStdout(),
				Logger:      logger,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Score: %d/%d\n", result.Score, result.MaxScore)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "Config file path (built-in defaults if empty)")
	cmd.Flags().StringVar(&flags.actionsCSV, "actions-csv", "", "Write the action log as CSV")
	cmd.Flags().StringVar(&flags.actionsJSON, "actions-json", "", "Write the action log as JSON")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log every action to stderr")
	return cmd
}
