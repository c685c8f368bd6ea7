package cli

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/happy-days/internal/model"
	"github.com/rcliao/happy-days/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show journal statistics",
		Run:   runStats,
	}

	cmd.Flags().Bool("json", false, "Output JSON")

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	asJSON, _ := cmd.Flags().GetBool("json")

	a := mustOpenApp()
	defer a.Close()

	ctx := cmd.Context()
	st, err := a.store.Stats(ctx)
	if err != nil {
		exitErr("stats", err)
	}
	indexed, err := a.index.Count(ctx)
	if err != nil {
		exitErr("stats", err)
	}

	if asJSON {
		printJSON(struct {
			*store.Stats
			Indexed int `json:"indexed"`
		}{st, indexed})
		return
	}

	fmt.Printf("Directory:   %s\n", st.Dir)
	fmt.Printf("Memories:    %d\n", st.Memories)
	for _, s := range []model.State{model.StateCreated, model.StateRecorded, model.StateTranscribed} {
		fmt.Printf("  %-12s %d\n", s, st.States[s])
	}
	fmt.Printf("Indexed:     %d\n", indexed)
	fmt.Printf("Disk usage:  %s\n", humanize.Bytes(uint64(st.TotalBytes)))

	kinds := make([]string, 0, len(st.Bytes))
	for k := range st.Bytes {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("  %-12s %s\n", k, humanize.Bytes(uint64(st.Bytes[k])))
	}
}
