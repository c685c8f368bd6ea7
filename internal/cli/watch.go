package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/happy-days/internal/filter"
	"github.com/rcliao/happy-days/internal/model"
	"github.com/rcliao/happy-days/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the memory list whenever it changes",
		Long: "Watch the memory directory and print the (optionally filtered) list of ids " +
			"each time a memory is added, recorded or transcribed. Stops on Ctrl-C.",
		Run: runWatch,
	}

	cmd.Flags().StringP("query", "q", "", "Only show memories whose transcript matches")

	RootCmd.AddCommand(cmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	query, _ := cmd.Flags().GetString("query")

	a := mustOpenApp()
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := filter.NewSession(a.index)
	show := func(all []model.Memory) {
		visible, err := sess.Filter(ctx, all, query)
		if err != nil {
			if !errors.Is(err, filter.ErrSuperseded) && !errors.Is(err, context.Canceled) {
				fmt.Fprintf(os.Stderr, "error: filter: %v\n", err)
			}
			return
		}
		ids := make([]string, len(visible))
		for i, m := range visible {
			ids[i] = string(m.ID)
		}
		fmt.Printf("%d memories: %s\n", len(ids), strings.Join(ids, " "))
	}

	w, err := store.NewWatcher(a.store, a.cfg.WatchDebounce, show)
	if err != nil {
		exitErr("watch", err)
	}
	if err := w.Start(ctx); err != nil {
		exitErr("watch", err)
	}
	defer w.Stop()

	show(a.store.Enumerate(ctx))
	<-ctx.Done()
}
