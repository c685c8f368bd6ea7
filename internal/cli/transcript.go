package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "transcript <id> [text]",
		Short: "Set a memory's transcript by hand",
		Long:  "Store a transcript for a recorded memory and index it. Text can be positional args or piped via stdin.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runTranscript,
	}

	RootCmd.AddCommand(cmd)
}

func runTranscript(cmd *cobra.Command, args []string) {
	// Get text: positional args first, then check stdin
	var text string
	if len(args) > 1 {
		text = strings.Join(args[1:], " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			text = string(b)
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		exitErr("transcript", fmt.Errorf("text is required (positional arg or stdin)"))
	}

	a := mustOpenApp()
	defer a.Close()

	ctx := cmd.Context()
	m, err := a.store.Get(ctx, args[0])
	if err != nil {
		exitErr("transcript", err)
	}
	if err := a.store.AttachTranscript(ctx, m, text); err != nil && !warnIndex(err) {
		exitErr("transcript", err)
	}

	info, err := a.store.Describe(ctx, m)
	if err != nil {
		exitErr("transcript", err)
	}
	printJSON(info)
}
