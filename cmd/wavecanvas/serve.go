package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-wavecanvas/internal/app"
)

var (
	addr      string
	streamFPS int
	ledOn     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Render continuously and serve the frame stream and control socket",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&addr, "addr", "", "HTTP listen address")
	f.IntVar(&streamFPS, "stream-fps", 0, "max frames per second sent to stream clients")
	f.BoolVar(&ledOn, "led", false, "drive the LED strip")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("addr") {
		cfg.Addr = addr
	}
	if f.Changed("stream-fps") {
		cfg.StreamFPS = streamFPS
	}
	if f.Changed("led") {
		cfg.LED.Enabled = ledOn
	}

	core, err := app.InitCore(cfg)
	if err != nil {
		return err
	}
	defer core.Close()

	mux := http.NewServeMux()
	core.Hub.Routes(mux)
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := make(chan error, 1)
	go func() { runErr <- core.Run(ctx) }()

	srvErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Int("fps", cfg.FPS).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err = <-srvErr:
		log.Error().Err(err).Msg("http server failed")
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	if rerr := <-runErr; err == nil {
		err = rerr
	}
	return err
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}
