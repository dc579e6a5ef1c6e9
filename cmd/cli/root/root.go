package root

import (
	"github.com/spf13/cobra"
)

// RootCmd is the top-level "expense" command.
var RootCmd = &cobra.Command{
	Use:           "expense",
	Short:         "Personal expense tracker CLI",
	Long:          "Command line interface for recording expenses and reading reports from the expense tracker API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func GetRoot() *cobra.Command {
	return RootCmd
}
