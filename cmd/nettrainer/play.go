package main

import (
	"github.com/spf13/cobra"

	"github.com/tturner/nettrainer/internal/app"
)

const defaultConfigPath = "nettrainer.yaml"

type playFlags struct {
	configPath string
	dataDir    string
	scenario   string
	reportURL  string
	reportFile string
	logLevel   string
	fresh      bool
}

func newPlayCmd() *cobra.Command {
	flags := &playFlags{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start an interactive troubleshooting session",
		Long: `Open the simulated desktop. The computer starts offline; find and fix the
cause of the outage, then press F to finish and see the evaluation.

Desktop keys:
  enter   start troubleshooting from the error overlay
  m       start menu            /   search
  s       settings              w   WordPad
  t       terminal              b   browser
  a       airplane mode         v   VPN
  +       add network           i   contact the ISP
  ?       hint (costs points)   T   toggle theme
  F       finish and evaluate   esc close the active window

Cosmetic desktop state (networks, theme, tabs, history) is saved to the data
directory and restored on the next run. The action log and score always start
fresh.`,
		Example: `  # Play with a random scenario
  nettrainer play

  # Practice one scenario and keep the result on disk
  nettrainer play --scenario dns_issue --report-file result.json

  # Report the result to the hosting page
  nettrainer play --report-url http://localhost:8080/result

  # Discard the saved desktop
  nettrainer play --fresh`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			return app.RunPlay(app.PlayOptions{
				ConfigPath:       flags.configPath,
				AutoCreateConfig: !cmd.Flags().Changed("config"),
				DataDir:          flags.dataDir,
				Scenario:         flags.scenario,
				ReportURL:        flags.reportURL,
				ReportFile:       flags.reportFile,
				LogLevel:         flags.logLevel,
				Fresh:            flags.fresh,
			})
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", defaultConfigPath, "Config file path (created with defaults if missing)")
	cmd.Flags().StringVar(&flags.dataDir, "data-dir", "", "Directory for the saved desktop state")
	cmd.Flags().StringVar(&flags.scenario, "scenario", "", "Force a scenario key instead of a random draw (see nettrainer scenarios)")
	cmd.Flags().StringVar(&flags.reportURL, "report-url", "", "POST the evaluation result to this URL")
	cmd.Flags().StringVar(&flags.reportFile, "report-file", "", "Write the evaluation result to this JSON file")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level override: silent|error|info|verbose|debug")
	cmd.Flags().BoolVar(&flags.fresh, "fresh", false, "Ignore and remove the saved desktop state")
	return cmd
}
