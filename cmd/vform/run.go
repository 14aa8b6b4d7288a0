package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/vform/internal/config"
	verrors "github.com/vango-dev/vform/internal/errors"
	"github.com/vango-dev/vform/internal/scenario"
	"github.com/vango-dev/vform/pkg/form"
)

func runCmd(g *globals) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Replay a scenario's steps",
		Long: `Replay the scripted steps of a scenario against a fresh form and
print the form state after every step.

Examples:
  vform run examples/signup.yaml
  vform run examples/signup.yaml --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = g.cfg.Output
			}
			switch output {
			case config.OutputText, config.OutputJSON:
			default:
				return verrors.New("V032").WithDetail(fmt.Sprintf("got %q", output))
			}

			sc, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			frames, err := scenario.Replay(cmd.Context(), sc, g.formConfig(sc))
			if err != nil {
				return verrors.New("V012").Wrap(err)
			}

			out := cmd.OutOrStdout()
			if output == config.OutputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(frames)
			}
			printFrames(out, sc, frames)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: text or json (default from vform.json)")

	return cmd
}

func printFrames(w io.Writer, sc *scenario.Scenario, frames []scenario.Frame) {
	fmt.Fprintf(w, "%s: %d steps\n", sc.FormName(), len(frames)-1)
	for _, fr := range frames {
		fmt.Fprintf(w, "#%-3d %-20s %s\n", fr.Step, fr.Action, stateSummary(fr.State))
		if fr.Err != "" {
			info(w, "  error: %s", fr.Err)
		}
	}

	last := frames[len(frames)-1].State
	fmt.Fprintln(w)
	for _, name := range sortedKeys(last.Values) {
		info(w, "%s = %v", name, last.Values[name])
	}
}

// stateSummary renders the form flags and the error table on one line.
func stateSummary(s form.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "valid=%t", s.ValidForm)
	if s.Submitting {
		b.WriteString(" submitting")
	}
	if s.SubmitFailed {
		b.WriteString(" failed")
	}
	if len(s.Errors) > 0 {
		keys := sortedKeys(s.Errors)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + s.Errors[k]
		}
		b.WriteString(" errors[" + strings.Join(parts, ", ") + "]")
	}
	return b.String()
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
