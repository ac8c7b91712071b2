package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blacktop/postcheck/internal/logutil"
	"github.com/blacktop/postcheck/internal/postcheck/convert"
)

var (
	configFlag string
	listenFlag string
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the video format-conversion service",
		Long: "serve starts the HTTP service that transcodes uploaded videos to " +
			"web-playable MP4 (H.264/AAC, faststart). POST a multipart body with a " +
			"single \"file\" field to /api/convert.",
		RunE: runServe,
		Example: `  postcheck serve
  postcheck serve --config ./postcheck.yml --listen :9090`,
	}

	cmd.Flags().StringVar(&configFlag, "config", "postcheck.yml", "Path to the service config file")
	cmd.Flags().StringVar(&listenFlag, "listen", "", "Listen address (overrides config)")
	cmd.Flags().SortFlags = false

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := convert.LoadConfig(configFlag)
	if err != nil {
		return err
	}
	if listenFlag != "" {
		cfg.Listen = listenFlag
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logutil.Infof("conversion service listening on %s", cfg.Listen)
	return convert.NewServer(cfg).ListenAndServe(ctx)
}
