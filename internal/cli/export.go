package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every memory with its transcript as JSON",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	a := mustOpenApp()
	defer a.Close()

	infos, err := a.store.Export(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}
	printJSON(infos)
}
