package cmd

import (
	"fmt"
	"strconv"

	"github.com/AnTengye/casebrief/service"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	showStyle string
	showRaw   bool
	showFull  bool
)

var showCmd = &cobra.Command{
	Use:   "show <index>",
	Short: "Print the brief of one case",
	Long: `Print the brief of the case at the given dataset index.

The brief is rendered for the terminal with the chosen glamour style
(dark, light, notty, ascii, dracula, ...). Use --raw for plain markdown.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showStyle, "style", "s", "dark", "glamour style for terminal rendering")
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "print markdown without terminal rendering")
	showCmd.Flags().BoolVar(&showFull, "full", false, "append the original opinion text")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid case index %q", args[0])
	}

	store, err := loadStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	selected, err := store.Get(index)
	if err != nil {
		return fmt.Errorf("case %d: %w", index, err)
	}

	md := service.NewRenderer().Markdown(selected, service.MarkdownOptions{IncludeOpinion: showFull})
	if showRaw {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}

	rendered, err := glamour.Render(md, showStyle)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}
