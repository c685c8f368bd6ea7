package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one memory",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	a := mustOpenApp()
	defer a.Close()

	ctx := cmd.Context()
	m, err := a.store.Get(ctx, args[0])
	if err != nil {
		exitErr("get", err)
	}
	info, err := a.store.Describe(ctx, m)
	if err != nil {
		exitErr("get", err)
	}
	printJSON(info)
}
