package cmd

import (
	"fmt"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			common.LoadVersionFromFile()
			fmt.Fprintf(cmd.OutOrStdout(), "tradejournal %s\n", common.GetVersionInfo())
		},
	}
}
