/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/blacktop/postcheck/internal/logutil"
	"github.com/blacktop/postcheck/internal/postcheck"
	"github.com/blacktop/postcheck/internal/postcheck/media"
	"github.com/blacktop/postcheck/internal/postcheck/rules"
)

var (
	messageFlag  string
	mediaFlags   []string
	networksFlag []string
	noComments   bool
	scheduleFlag string
	ffprobeFlag  string
	forceFlag    bool
	verboseFlag  bool
)

// Execute runs the root command.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "postcheck [message]",
		Short: "Validate a draft post against per-network publishing rules",
		Long: "postcheck evaluates a drafted post (text, media, link, comment toggle) against " +
			"the publishing rules of X, Instagram, Facebook, LinkedIn, YouTube, and TikTok " +
			"and reports an ok/warn/block verdict per network. Blocked networks gate " +
			"publishing unless you acknowledge them with --force.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logutil.SetVerbose(verboseFlag)
		},
		RunE: runRoot,
		Example: `  postcheck --message "hello world" --media ./clip.mp4 --network x --network youtube
  postcheck "Ship it!" --network all --no-comments
  echo "Release shipped" | postcheck --network linkedin`,
	}

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "V", false, "Enable verbose logging")
	addDraftFlags(cmd)
	cmd.Flags().BoolVar(&forceFlag, "force", false, "Acknowledge blocked networks and exit zero anyway")
	cmd.Flags().SortFlags = false

	cmd.AddCommand(newFixCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newCompletionCommand())

	return cmd
}

func addDraftFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&messageFlag, "message", "m", "", "Message text of the draft")
	cmd.Flags().StringSliceVar(&mediaFlags, "media", nil, "Media file to attach (repeatable)")
	cmd.Flags().StringSliceVar(&networksFlag, "network", []string{"all"}, "Network to validate against (x, instagram, facebook, linkedin, youtube, tiktok, or all)")
	cmd.Flags().BoolVar(&noComments, "no-comments", false, "Disable comments on the post")
	cmd.Flags().StringVar(&scheduleFlag, "schedule", "", "Scheduled publish time (RFC 3339)")
	cmd.Flags().StringVar(&ffprobeFlag, "ffprobe", "", "Path to the ffprobe binary used for video probes")
}

func runRoot(cmd *cobra.Command, args []string) error {
	draft, err := buildDraft(cmd, args)
	if err != nil {
		return err
	}

	extractor := &media.Extractor{FFprobe: ffprobeFlag}
	metas := extractor.ExtractAll(cmd.Context(), draft.Media)

	out := cmd.OutOrStdout()
	colored := term.IsTerminal(int(os.Stdout.Fd()))

	blocked := 0
	for _, k := range draft.EnabledNetworks() {
		verdict := rules.Evaluate(k, draft, metas)
		fmt.Fprintf(out, "%s %s\n", chip(verdict.Level, colored), k.Label())
		for _, msg := range verdict.Messages {
			fmt.Fprintf(out, "    - %s\n", msg)
		}
		if verdict.Level == postcheck.LevelBlock {
			blocked++
		}
	}

	if blocked > 0 {
		if forceFlag {
			logutil.Warnf("forced publish: %d network(s) will be marked as failed", blocked)
			return nil
		}
		return fmt.Errorf("%d network(s) block publishing (re-run with --force to acknowledge)", blocked)
	}
	return nil
}

// buildDraft assembles a draft from the shared flags and positional args.
func buildDraft(cmd *cobra.Command, args []string) (*postcheck.Draft, error) {
	message, err := resolveMessage(cmd, args)
	if err != nil {
		return nil, err
	}
	if message == "" && len(mediaFlags) == 0 {
		return nil, errors.New("a message or at least one media file is required")
	}

	draft := postcheck.NewDraft(message)
	if noComments {
		draft.AllowComments = false
	}

	if scheduleFlag != "" {
		at, err := time.Parse(time.RFC3339, scheduleFlag)
		if err != nil {
			return nil, fmt.Errorf("parse --schedule: %w", err)
		}
		draft.ScheduledAt = &at
	}

	networks, err := normalizeNetworks(networksFlag)
	if err != nil {
		return nil, err
	}
	for _, k := range networks {
		draft.Enable(k)
	}

	for _, path := range mediaFlags {
		f, err := loadMediaFile(path)
		if err != nil {
			return nil, err
		}
		draft.AddMedia(f)
	}

	return draft, nil
}

func resolveMessage(cmd *cobra.Command, args []string) (string, error) {
	var message string

	if messageFlag != "" {
		message = messageFlag
	}

	if len(args) > 0 {
		if message != "" {
			return "", errors.New("provide the message either as an argument or with --message, not both")
		}
		message = strings.Join(args, " ")
	}

	if message != "" {
		return message, nil
	}

	stdin := cmd.InOrStdin()
	if file, ok := stdin.(*os.File); ok {
		info, err := file.Stat()
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		if (info.Mode() & os.ModeCharDevice) == 0 {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return "", fmt.Errorf("read stdin: %w", err)
			}
			message = strings.TrimSpace(string(data))
		}
	}

	return message, nil
}

func normalizeNetworks(values []string) ([]postcheck.NetworkKey, error) {
	result := make([]postcheck.NetworkKey, 0, len(values))
	seen := map[postcheck.NetworkKey]struct{}{}
	for _, raw := range values {
		raw = strings.TrimSpace(strings.ToLower(raw))
		if raw == "" {
			continue
		}
		if raw == "all" {
			return postcheck.AllNetworks(), nil
		}
		k, err := postcheck.ParseNetwork(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, k)
	}

	if len(result) == 0 {
		return nil, errors.New("no networks selected")
	}
	return result, nil
}

func loadMediaFile(path string) (postcheck.MediaFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return postcheck.MediaFile{}, fmt.Errorf("media %q not found", path)
		}
		return postcheck.MediaFile{}, fmt.Errorf("read media: %w", err)
	}

	name := filepath.Base(path)
	return postcheck.MediaFile{
		Name: name,
		MIME: detectMIME(name, data),
		Data: data,
	}, nil
}

func detectMIME(name string, data []byte) string {
	if mt := mime.TypeByExtension(filepath.Ext(name)); mt != "" {
		return mt
	}
	// fallback to simple detection
	return http.DetectContentType(data)
}

func chip(l postcheck.Level, colored bool) string {
	label := strings.ToUpper(l.String())
	if !colored {
		return "[" + label + "]"
	}
	var code string
	switch l {
	case postcheck.LevelOK:
		code = "32"
	case postcheck.LevelWarn:
		code = "33"
	default:
		code = "31"
	}
	return "\x1b[" + code + "m[" + label + "]\x1b[0m"
}
