package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add <image>",
		Short: "Create a memory from a photo",
		Long:  "Store a photo as a new memory: a full-size JPEG plus a thumbnail. Accepts jpeg, png, gif, bmp, tiff and webp.",
		Args:  cobra.ExactArgs(1),
		Run:   runAdd,
	}

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	a := mustOpenApp()
	defer a.Close()

	ctx := cmd.Context()
	m, err := a.store.CreateFromFile(ctx, args[0])
	if err != nil {
		exitErr("add", err)
	}

	info, err := a.store.Describe(ctx, m)
	if err != nil {
		exitErr("add", err)
	}
	printJSON(info)
}
