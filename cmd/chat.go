package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	consolex "github.com/tanpawarit/memagent/agent/console"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session (type exit to quit)",
		Args:  cobra.NoArgs,
		RunE:  runChat,
	})

	RootCmd.AddCommand(&cobra.Command{
		Use:   "ask <question...>",
		Short: "Run a single turn and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	})
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	return consolex.New(a.executor, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	reply, err := a.executor.HandleMessage(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		fmt.Fprintln(os.Stderr, consolex.Describe(err))
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}
