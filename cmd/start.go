/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/prism-be/handler"
	"github.com/tieubaoca/prism-be/service"
)

const shutdownTimeout = 10 * time.Second

// startServerCmd represents the startServer command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the API server",
	Long:  `Starts the HTTP server that answers the research, quiz, ablation and upload endpoints`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, aiService, cleanup, err := loadRuntime()
		if err != nil {
			return err
		}
		defer cleanup()

		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}
		if cfg.Mode == "production" || cfg.Mode == "release" {
			gin.SetMode(gin.ReleaseMode)
		}

		// Initialize services
		pdfService := service.NewPDFService(documentConfig(cfg), log)
		researchService := newResearchService(cfg, aiService, log)
		fileService := service.NewFileService(aiService, pdfService, log)

		// Initialize handlers
		router := handler.NewRouter(handler.Handlers{
			Research: handler.NewResearchHandler(researchService),
			Upload:   handler.NewUploadHandler(fileService, cfg.MaxUploadMB),
			Health:   handler.NewHealthHandler(cfg.Provider, cfg.Model),
		}, log)

		// Generation calls are bounded by ai_timeout, the write timeout leaves
		// room for an upload that makes two of them.
		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      2*cfg.AITimeout + 30*time.Second,
			IdleTimeout:       120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("Starting server", "port", cfg.Port, "provider", cfg.Provider, "model", cfg.Model)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err, ok := <-errCh:
			if ok {
				log.Error("Server error", "error", err)
				return err
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
	startServerCmd.Flags().StringP("port", "p", "", "port to listen on (overrides config)")
}
