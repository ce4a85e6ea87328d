package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nstehr/vimy/assault-core/agent"
	"github.com/nstehr/vimy/assault-core/config"
	"github.com/nstehr/vimy/assault-core/ipc"
	"github.com/nstehr/vimy/assault-core/observability"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const banner = `
 ▄▀█ █▀ █▀ ▄▀█ █ █ █   ▀█▀
 █▀█ ▄█ ▄█ █▀█ █▄█ █▄▄  █

Leader/Support Assault Intelligence`

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Listen for the game mod on a Unix domain socket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg, os.Stdout)
		fmt.Fprintln(cmd.OutOrStdout(), banner)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg config.Config) error {
	slog.Info("starting assault-core", "socket", cfg.Socket, "namespace", cfg.Namespace, "stateDir", cfg.StateDir)

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(cfg.Socket); err != nil {
		return fmt.Errorf("clean up socket %s: %w", cfg.Socket, err)
	}
	listener, err := net.Listen("unix", cfg.Socket)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Socket, err)
	}
	defer os.Remove(cfg.Socket)
	slog.Info("listening on domain socket", "path", cfg.Socket)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		return listener.Close()
	})

	g.Go(func() error {
		for {
			conn, err := listener.Accept()
			if err != nil {
				if gctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return nil
				}
				slog.Error("failed to accept connection", "error", err)
				continue
			}
			slog.Info("new connection accepted")
			go handleConn(gctx, conn, cfg)
		}
	})

	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux(), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			slog.Info("serving metrics", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	slog.Info("shutting down")
	return err
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	return mux
}

func handleConn(ctx context.Context, conn net.Conn, cfg config.Config) {
	c := ipc.NewConnection(conn, nil)
	s, err := agent.New(c, agent.Options{
		Tuning:         cfg.Tuning.Tuning,
		Namespace:      cfg.Namespace,
		MaxSnapshotAge: cfg.Tuning.MaxSnapshotAge,
		StateDir:       cfg.StateDir,
		Sink:           observability.LogSink{},
	})
	if err != nil {
		slog.Error("failed to start session", "error", err)
		conn.Close()
		return
	}
	s.Register()

	if err := c.ReadLoop(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("session ended with error", "session", s.ID, "player", s.Player, "error", err)
	}
	if err := s.Close(); err != nil {
		slog.Error("failed to persist session state", "session", s.ID, "error", err)
	}
	slog.Info("session closed", "session", s.ID, "player", s.Player)
}
