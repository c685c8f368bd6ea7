package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/happy-days/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "record <id> <audio-file>",
		Short: "Attach a voice recording to a memory",
		Long: "Attach an AAC recording to a memory, replacing any earlier one. " +
			"The file is staged at the scratch path first and the original is kept unless --move is given. " +
			"Re-recording discards the old transcript.",
		Args: cobra.ExactArgs(2),
		Run:  runRecord,
	}

	cmd.Flags().Bool("move", false, "Move the audio file instead of copying it")
	cmd.Flags().BoolP("transcribe", "t", false, "Transcribe the recording afterwards")

	RootCmd.AddCommand(cmd)
}

func runRecord(cmd *cobra.Command, args []string) {
	move, _ := cmd.Flags().GetBool("move")
	transcribe, _ := cmd.Flags().GetBool("transcribe")

	a := mustOpenApp()
	defer a.Close()

	ctx := cmd.Context()
	m, err := a.store.Get(ctx, args[0])
	if err != nil {
		exitErr("record", err)
	}

	src := args[1]
	if !move {
		scratch := a.cfg.ScratchPath()
		if err := copyFile(src, scratch); err != nil {
			exitErr("stage recording", err)
		}
		src = scratch
	}

	if err := a.store.AttachAudio(ctx, m, src); err != nil {
		if !warnIndex(err) {
			exitErr("record", err)
		}
	}

	if transcribe {
		if _, err := newTranscriber(a).Transcribe(ctx, m, progress()); err != nil && !warnIndex(err) {
			exitErr("transcribe", err)
		}
	}

	info, err := a.store.Describe(ctx, m)
	if err != nil {
		exitErr("record", err)
	}
	printJSON(info)
}

// warnIndex reports index failures without failing the command: the
// artifact write they follow has already succeeded.
func warnIndex(err error) bool {
	var ie *store.IndexError
	if !errors.As(err, &ie) {
		return false
	}
	slog.Warn("index update failed; run reindex to repair", "id", ie.ID, "error", ie.Err)
	return true
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
