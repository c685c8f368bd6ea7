package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/happy-days/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memories",
		Run:   runList,
	}

	cmd.Flags().String("state", "", "Only memories in this state: created, recorded, transcribed")
	cmd.Flags().Bool("ids-only", false, "Only output memory ids")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	state, _ := cmd.Flags().GetString("state")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	a := mustOpenApp()
	defer a.Close()

	ctx := cmd.Context()
	memories := a.store.Enumerate(ctx)

	infos := make([]model.Info, 0, len(memories))
	for _, m := range memories {
		info, err := a.store.Describe(ctx, m)
		if err != nil {
			// deleted since the scan
			continue
		}
		if state != "" && string(info.State) != state {
			continue
		}
		infos = append(infos, info)
	}

	if idsOnly {
		for _, info := range infos {
			fmt.Println(info.ID)
		}
		return
	}
	printJSON(infos)
}
