package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/happy-days/internal/transcribe"
)

func init() {
	cmd := &cobra.Command{
		Use:   "transcribe <id>",
		Short: "Transcribe a memory's recording",
		Long: "Run the configured speech recognizer (transcriber.command or $HAPPY_DAYS_TRANSCRIBER) " +
			"on the memory's audio and store the final transcript.",
		Args: cobra.ExactArgs(1),
		Run:  runTranscribe,
	}

	cmd.Flags().String("with", "", "Recognizer command for this run, {audio} is replaced by the audio path")

	RootCmd.AddCommand(cmd)
}

func runTranscribe(cmd *cobra.Command, args []string) {
	with, _ := cmd.Flags().GetString("with")

	a := mustOpenApp()
	defer a.Close()
	if with != "" {
		a.cfg.Transcriber.Command = with
	}

	ctx := cmd.Context()
	m, err := a.store.Get(ctx, args[0])
	if err != nil {
		exitErr("transcribe", err)
	}

	job := newTranscriber(a).Start(ctx, m, progress())
	<-job.Done()
	if _, err := job.Result(); err != nil && !warnIndex(err) {
		exitErr("transcribe", err)
	}

	info, err := a.store.Describe(ctx, m)
	if err != nil {
		exitErr("transcribe", err)
	}
	printJSON(info)
}

func newTranscriber(a *app) *transcribe.Transcriber {
	rec, err := transcribe.NewCommandRecognizer(a.cfg.Transcriber.Command, a.cfg.Transcriber.Timeout)
	if err != nil {
		if !errors.Is(err, transcribe.ErrUnavailable) {
			exitErr("transcriber", err)
		}
		slog.Debug("no speech recognizer configured")
		return transcribe.New(nil, a.store)
	}
	return transcribe.New(rec, a.store)
}

// progress prints partial results to stderr in verbose mode.
func progress() func(string) {
	if !verbose {
		return nil
	}
	return func(text string) {
		fmt.Fprintf(os.Stderr, "… %s\n", text)
	}
}
