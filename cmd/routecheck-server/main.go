// Package main provides the route check HTTP server binary.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	rclog "github.com/BurkeyCode/routecheck/log"
	"github.com/BurkeyCode/routecheck/server"
)

var (
	addr     string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "routecheck-server",
	Short: "Route check HTTP server",
	Long:  `HTTP server that provides route check functionality via REST API endpoints`,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := rclog.ParseLogLevel(logLevel)
		if err != nil {
			return err
		}
		rclog.SetLevel(level)

		srv := &http.Server{
			Addr:    addr,
			Handler: server.NewServer().Handler(),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Printf("Starting routecheck HTTP server on %s", addr)
		log.Printf("Log level set to: %s", logLevel)
		log.Printf("Example usage: curl 'http://localhost:3766/routecheck?destination=10.0.0.1&gateway=GW1=192.168.1.1'")

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&addr, "addr", "a", ":3766", "HTTP server address to listen on")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (error, warn, info, debug, trace)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
