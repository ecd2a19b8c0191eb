// Package cmd implements the memagent command line.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	configx "github.com/tanpawarit/memagent/pkg/config"
	logx "github.com/tanpawarit/memagent/pkg/logger"
)

var (
	envFile  string
	modeFlag string
)

// RootCmd is the top-level command; without a subcommand it starts a chat.
var RootCmd = &cobra.Command{
	Use:           "memagent",
	Short:         "Single-user conversational agent with persistent memory",
	Long:          "Asks a hosted LLM for the next action, runs it against a fixed tool set and remembers facts about the user between sessions.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configx.SetEnvFile(envFile)
		logCfg, err := configx.New[logx.Config]("LOG")
		if err != nil {
			return err
		}
		logx.Init(*logCfg)
		return nil
	},
	RunE: runChat,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Dotenv file to load (default: .env when present)")
	RootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "Operating mode: reactive or planning (default: $AGENT_MODE)")
}

// Execute runs the CLI with a context cancelled on interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RootCmd.ExecuteContext(ctx)
}
