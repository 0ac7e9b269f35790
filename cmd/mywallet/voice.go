package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/thucvanminh/mywallet/internal/cli"
	"github.com/thucvanminh/mywallet/internal/common"
	"github.com/thucvanminh/mywallet/internal/extract"
	"github.com/thucvanminh/mywallet/internal/voice"
)

func voiceCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "voice <audio-file>",
		Short: "Create transactions from a recorded voice note",
		Long: `Sends a recorded audio clip to the extraction service and creates a
transaction for every purchase it understands. Candidates are applied
independently; one bad candidate does not stop the rest.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			extractor, err := extract.NewClient(extractorConfig())
			if err != nil {
				return err
			}

			w, store, err := initSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			defer w.SignOut()

			recorder := &voice.FileRecorder{Path: args[0]}

			var opts []voice.Option
			if timeout > 0 {
				opts = append(opts, voice.WithTimeout(timeout))
			}

			// The bar is sized lazily because the candidate count is only
			// known once extraction answers.
			var bar *progressbar.ProgressBar
			opts = append(opts, voice.WithProgress(func(done, total int) {
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetDescription("Applying"),
						progressbar.OptionShowCount(),
						progressbar.OptionClearOnFinish(),
					)
				}
				_ = bar.Set(done)
			}))

			session := voice.NewSession(recorder, extractor, w, nil, opts...)

			fmt.Println(cli.InfoStyle.Render(cli.MicIcon + " Extracting transactions from " + args[0] + "..."))

			result, err := session.Process(ctx, w.Profile().ID, w.Categories())
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return voiceError(err)
			}

			for _, txn := range result.Applied {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s  %.2f  %s",
					txn.Date.Format("2006-01-02"), txn.Amount, txn.Note)))
			}

			for _, name := range result.Fallbacks {
				fmt.Println(cli.FormatWarning(fmt.Sprintf(
					"category %q not found, used the default category instead", name)))
			}

			for _, failure := range result.Failed {
				fmt.Println(cli.FormatError(fmt.Sprintf(
					"candidate %d (%s): %v", failure.Index+1, failure.Candidate.Note, failure.Err)))
			}

			if len(result.Failed) > 0 {
				return fmt.Errorf("%d of %d candidates could not be applied",
					len(result.Failed), len(result.Applied)+len(result.Failed))
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created %d transaction(s)", len(result.Applied))))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "extraction timeout (default 45s)")

	return cmd
}

// voiceError turns the pipeline's error taxonomy into actionable messages.
func voiceError(err error) error {
	switch {
	case errors.Is(err, common.ErrEmptyExtraction):
		fmt.Println(cli.FormatWarning("No transactions were understood from the recording. Try speaking the amount and category clearly."))
		return nil
	case errors.Is(err, common.ErrPermissionDenied):
		return common.NewUserError("cannot read the audio clip", err)
	case errors.Is(err, common.ErrExtractionTimeout):
		return common.NewUserError("the extraction service did not answer in time", err)
	case errors.Is(err, common.ErrTransportFailure):
		return common.NewUserError("the extraction service could not be reached or returned garbage", err)
	case errors.Is(err, common.ErrSessionBusy):
		return common.NewUserError("another recording is already being processed", err)
	default:
		return err
	}
}
