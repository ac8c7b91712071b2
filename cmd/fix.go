package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/blacktop/postcheck/internal/logutil"
	"github.com/blacktop/postcheck/internal/postcheck"
	"github.com/blacktop/postcheck/internal/postcheck/convert"
	"github.com/blacktop/postcheck/internal/postcheck/media"
	"github.com/blacktop/postcheck/internal/postcheck/remedy"
)

const (
	envConvertURL     = "POSTCHECK_CONVERT_URL"
	defaultConvertURL = "http://localhost:8787/api/convert"
)

var convertURLFlag string

func newFixCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Convert non-playable videos and re-check the draft",
		Long: "fix runs the best-effort remediation pass: every attached video the browser " +
			"cannot play is sent to the conversion service and replaced in place, then the " +
			"draft is re-evaluated against the enabled networks. Conversion failures leave " +
			"the original file untouched and never abort the batch.",
		RunE: runFix,
		Example: `  postcheck fix --media ./raw.avi --network all
  postcheck fix -m "New clip" --media ./raw.mkv --network tiktok --convert-url http://media-tools:8787/api/convert`,
	}

	addDraftFlags(cmd)
	cmd.Flags().StringVar(&convertURLFlag, "convert-url", "", "Conversion service endpoint (default $"+envConvertURL+" or "+defaultConvertURL+")")
	cmd.Flags().SortFlags = false

	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
	draft, err := buildDraft(cmd, args)
	if err != nil {
		return err
	}

	url := convertURLFlag
	if url == "" {
		url = strings.TrimSpace(os.Getenv(envConvertURL))
	}
	if url == "" {
		url = defaultConvertURL
	}

	orch := &remedy.Orchestrator{
		Converter: convert.NewClient(url),
		Extractor: &media.Extractor{FFprobe: ffprobeFlag},
	}

	logutil.Debugf("remediation starting: media=%d networks=%d", len(draft.Media), len(draft.EnabledNetworks()))
	report, err := orch.FixAll(cmd.Context(), draft)
	if err != nil {
		return err
	}

	printReport(cmd, draft, report)
	return nil
}

func printReport(cmd *cobra.Command, draft *postcheck.Draft, report *remedy.Report) {
	out := cmd.OutOrStdout()
	colored := term.IsTerminal(int(os.Stdout.Fd()))

	if len(report.Auto) > 0 {
		fmt.Fprintln(out, "auto adjustments:")
		for _, line := range report.Auto {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}
	if report.Converted > 0 || report.Failed > 0 {
		fmt.Fprintf(out, "converted %d video(s), %d failed\n", report.Converted, report.Failed)
	}

	for _, k := range draft.EnabledNetworks() {
		before, after := report.Before[k], report.After[k]
		fmt.Fprintf(out, "%s -> %s %s\n", chip(before.Level, colored), chip(after.Level, colored), k.Label())
	}

	if len(report.Remaining) == 0 {
		fmt.Fprintln(out, "no manual fixes needed")
		return
	}
	fmt.Fprintln(out, "manual fixes remaining:")
	for _, issues := range report.Remaining {
		fmt.Fprintf(out, "  %s:\n", issues.Network.Label())
		for _, msg := range issues.Messages {
			fmt.Fprintf(out, "    - %s\n", msg)
		}
	}
}
