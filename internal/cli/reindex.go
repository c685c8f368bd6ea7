package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from transcripts on disk",
		Run:   runReindex,
	}

	RootCmd.AddCommand(cmd)
}

func runReindex(cmd *cobra.Command, args []string) {
	a := mustOpenApp()
	defer a.Close()

	res, err := a.store.Reindex(cmd.Context())
	if err != nil {
		exitErr("reindex", err)
	}
	printJSON(res)
}
