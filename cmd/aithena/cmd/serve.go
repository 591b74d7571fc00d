package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/aithena-labs/aithena/server"
	"github.com/spf13/cobra"
)

func newServeCmd(params *rootParams) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			assistant, logger, cleanup, err := newAssistant(ctx, params)
			if err != nil {
				return err
			}
			defer cleanup()

			httpServer := &http.Server{
				Addr:    fmt.Sprintf(":%d", port),
				Handler: server.NewServer(assistant, logger).Handler(),
				BaseContext: func(l net.Listener) context.Context {
					return ctx
				},
			}

			go func() {
				<-ctx.Done()
				if err := httpServer.Shutdown(context.WithoutCancel(ctx)); err != nil {
					logger.Error("failed to shutdown server", "error", err)
				}
			}()

			logger.Info("server started", "port", port)
			defer logger.Info("server stopped")

			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "Port to listen on")

	return cmd
}
