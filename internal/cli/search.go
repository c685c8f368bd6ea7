package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/happy-days/internal/filter"
	"github.com/rcliao/happy-days/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Find memories by what was said",
		Long:  "Case-insensitive substring search over transcripts. An empty query lists every memory.",
		Run:   runSearch,
	}

	cmd.Flags().Bool("ids-only", false, "Only output memory ids")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	idsOnly, _ := cmd.Flags().GetBool("ids-only")
	query := strings.Join(args, " ")

	a := mustOpenApp()
	defer a.Close()

	ctx := cmd.Context()
	all := a.store.Enumerate(ctx)
	matches, err := filter.Filter(ctx, a.index, all, query)
	if err != nil {
		exitErr("search", err)
	}

	if idsOnly {
		for _, m := range matches {
			fmt.Println(m.ID)
		}
		return
	}

	infos := make([]model.Info, 0, len(matches))
	for _, m := range matches {
		info, err := a.store.Describe(ctx, m)
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}
	printJSON(infos)
}
