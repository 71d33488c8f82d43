package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"reactor/internal/statusview"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Boot the registered service graph and print its status table",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	init, err := buildInitService()
	if err != nil {
		return err
	}
	if err := init.Boot(); err != nil {
		return err
	}
	defer init.Shutdown()

	view := statusview.New(init.Registrations())
	defer view.Close()

	fmt.Println(view.Render())
	return nil
}
