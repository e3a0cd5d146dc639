package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"wasteportal/internal/api"
	"wasteportal/internal/auth"
	"wasteportal/internal/certs"
	"wasteportal/internal/crypto"
	"wasteportal/internal/portal"
	"wasteportal/internal/utils"
)

const shutdownTimeout = 10 * time.Second

var cli struct {
	Config  string `help:"Path to the YAML config file." type:"path"`
	EnvFile string `help:"Dotenv file loaded before reading PORTAL_* variables." default:".env" type:"path"`
	Listen  string `help:"Override the listen address."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("wasteportal"),
		kong.Description("Municipal waste segregation portal."),
	)

	if err := godotenv.Load(cli.EnvFile); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Fatal("Failed to load env file")
	}

	cfg, err := utils.LoadConfig(cli.Config)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}
	if cli.Listen != "" {
		cfg.Listen = cli.Listen
	}

	log, closer, err := utils.NewLogger(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to set up logging")
	}

	os.Exit(finish(log, closer, run(cfg, log)))
}

func run(cfg utils.Config, log *logrus.Logger) error {
	secret, err := sessionSecret(cfg.Session.Secret, log)
	if err != nil {
		return err
	}
	keys, err := crypto.DeriveCookieKeys(secret)
	if err != nil {
		return err
	}

	portals := portal.NewStore(cfg.Session.IdleTTL.Std(), portal.Options{
		LoginDelay: cfg.LoginDelay.Std(),
	})
	defer portals.Close()

	server, err := api.NewServer(log, auth.NewSessions(keys, cfg.Session.CookieSecure), portals)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           api.NewRouter(server),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	if cfg.TLS.Enabled() {
		cm := certs.NewCertManager(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		tlsConfig, leaf, err := cm.TLSConfig()
		if err != nil {
			return err
		}
		if cm.IsExpired(leaf) {
			log.WithField("expired", leaf.NotAfter.Format(time.RFC3339)).Warn("TLS certificate has expired")
		}
		srv.TLSConfig = tlsConfig
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr": cfg.Listen,
			"tls":  cfg.TLS.Enabled(),
		}).Info("Server running")

		var err error
		if cfg.TLS.Enabled() {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listen")
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
	})
	return g.Wait()
}

// finish logs a failed run and releases the log file before the process exits.
// It returns the exit code.
func finish(log logrus.FieldLogger, closer io.Closer, err error) int {
	if err != nil {
		log.WithError(err).Error("Server stopped")
	}
	if cerr := closer.Close(); cerr != nil {
		logrus.WithError(cerr).Error("Failed to close log file")
	}
	if err != nil {
		return 1
	}
	return 0
}

func sessionSecret(hexSecret string, log logrus.FieldLogger) ([]byte, error) {
	if hexSecret == "" {
		log.Warn("No session secret configured, using an ephemeral one; sessions will not survive a restart")
		return crypto.GenerateSecret(), nil
	}
	return crypto.ParseSecret(hexSecret)
}
