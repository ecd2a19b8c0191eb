package cmd

import (
	"github.com/spf13/cobra"
	statex "github.com/tanpawarit/memagent/agent/state"
)

func init() {
	memoryCmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect the stored memory document",
	}
	memoryCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored memory document as JSON",
		Args:  cobra.NoArgs,
		RunE:  runMemoryShow,
	})
	RootCmd.AddCommand(memoryCmd)
}

func runMemoryShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)

	doc, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}
	body, err := statex.Encode(doc)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(body)
	return err
}
