package cmd

import (
	"errors"
	"fmt"

	"github.com/AnTengye/casebrief/pkg/casename"
	"github.com/spf13/cobra"
)

var nameStrict bool

var nameCmd = &cobra.Command{
	Use:   "name <url>...",
	Short: "Derive case names from opinion URLs",
	Args:  cobra.MinimumNArgs(1),
	// Pure string work: no config or dataset needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runName,
}

func init() {
	nameCmd.Flags().BoolVar(&nameStrict, "strict", false, "fail when a URL has no case name")
	rootCmd.AddCommand(nameCmd)
}

func runName(cmd *cobra.Command, args []string) error {
	unparsable := 0
	for _, ref := range args {
		if _, err := casename.Parse(ref); errors.Is(err, casename.ErrUnparsableReference) {
			unparsable++
		}
		fmt.Fprintln(cmd.OutOrStdout(), casename.Extract(ref))
	}

	if nameStrict && unparsable > 0 {
		return fmt.Errorf("%d of %d references have no case name", unparsable, len(args))
	}
	return nil
}
