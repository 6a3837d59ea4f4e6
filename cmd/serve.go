package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/pagepress/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			v := app.Config

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Config{
				Addr:            v.GetString("http_addr"),
				CORSOrigins:     v.GetStringSlice("server.cors_origins"),
				MaxBodyBytes:    v.GetInt64("server.max_body_bytes"),
				ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
			}, app.Pipeline, app.HTML, app.Themes, app.Logger)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().String("listen", "", "Listen address (overrides http_addr)")
	return cmd
}
