package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/titanic-insights/internal/server"
)

var (
	serveAddr     string
	serveEagerFit bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, c, log, err := newApp(true)
		if err != nil {
			return err
		}
		defer log.Sync()

		addr := c.HTTPAddr
		if cmd.Flags().Changed("addr") && serveAddr != "" {
			addr = serveAddr
		}
		// The dataset must be readable before we accept traffic.
		d, err := app.Dataset()
		if err != nil {
			log.Error("dataset load failed", "path", app.DataPath(), "error", err)
			return err
		}
		if serveEagerFit || c.ModelEagerFit {
			if err := app.EagerFit(); err != nil {
				log.Warn("eager model fit failed", "error", err)
			}
		}

		if !debug {
			gin.SetMode(gin.ReleaseMode)
		}
		router := server.NewRouter(server.RouterConfig{App: app, Logger: log, CORSOrigins: c.CORSOrigins})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		log.Info("serving dataset", "rows", d.Len(), "prediction_enabled", app.PredictionEnabled())
		return server.Run(ctx, addr, router, time.Duration(c.ShutdownTimeoutSec)*time.Second, log)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides http_addr)")
	serveCmd.Flags().BoolVar(&serveEagerFit, "eager-fit", false, "fit the survival model before serving")
}
