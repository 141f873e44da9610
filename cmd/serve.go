package main

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/doccheck/internal/completion"
	"github.com/sells-group/doccheck/internal/extract"
	"github.com/sells-group/doccheck/internal/server"
	"github.com/sells-group/doccheck/internal/validator"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the document validation API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ext, err := extract.New(cfg.Extract)
		if err != nil {
			return err
		}

		// A missing key is tolerated at boot so /api/health can report it;
		// /api/validate then fails fast. Any other construction error is fatal.
		var batch server.Validator
		client, err := completion.New(cfg.Completion)
		switch {
		case errors.Is(err, completion.ErrMissingAPIKey):
			zap.L().Warn("no completion API key configured; /api/validate is disabled")
			client = nil
		case err != nil:
			return err
		default:
			batch = validator.NewBatch(client)
		}

		srvCfg := cfg.Server
		if servePort != 0 {
			srvCfg.Port = servePort
		}

		return server.New(srvCfg, ext, client, batch).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
