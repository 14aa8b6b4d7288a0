package main

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/spf13/cobra"
	verrors "github.com/vango-dev/vform/internal/errors"
	"github.com/vango-dev/vform/pkg/form"
	"github.com/vango-dev/vform/pkg/tui"
)

// newPromptDriver builds the terminal driver. Replaced in tests.
var newPromptDriver = func(out io.Writer) tui.PromptDriver {
	return tui.NewSurveyDriver(out)
}

func promptCmd(g *globals) *cobra.Command {
	var (
		maxAttempts int
		yes         bool
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "prompt <scenario.yaml>",
		Short: "Fill in a scenario's form in the terminal",
		Long: `Ask for every field of a scenario's form in the terminal. Each answer
goes through the form's validation; invalid fields are asked again.
The form is submitted once every field is valid.

Examples:
  vform prompt examples/signup.yaml
  vform prompt examples/signup.yaml --yes --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(args[0])
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("max-attempts") {
				maxAttempts = g.cfg.Prompt.MaxAttempts
			}
			out := cmd.OutOrStdout()

			ctrl := form.New(g.formConfig(sc))
			defer ctrl.Dispose()

			session, err := tui.New(ctrl, sc.Prompts(),
				tui.WithPromptDriver(newPromptDriver(out)),
				tui.WithLogger(g.logger),
				tui.WithMaxAttempts(maxAttempts),
				tui.WithConfirm(!yes && !g.cfg.Prompt.NoConfirm),
			)
			if err != nil {
				return verrors.New("V012").Wrap(err)
			}

			res, err := session.Run(cmd.Context())
			switch {
			case errors.Is(err, tui.ErrDeclined):
				info(out, "Not submitted.")
				return nil
			case errors.Is(err, tui.ErrAborted):
				return verrors.New("V030").Wrap(err)
			case errors.Is(err, tui.ErrInvalid), errors.Is(err, tui.ErrTooManyAttempts):
				return verrors.New("V021").Wrap(err)
			case err != nil && res.State.SubmitFailed:
				return verrors.New("V020").Wrap(err)
			case err != nil:
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Values)
			}
			for _, name := range sortedKeys(res.Values) {
				info(out, "%s = %v", name, res.Values[name])
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Prompts per invalid field, 0 for unlimited (default from vform.json)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Submit without asking for confirmation")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the submitted values as JSON")

	return cmd
}
