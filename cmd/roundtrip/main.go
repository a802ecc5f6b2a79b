package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/micahhausler/cypher-client/cmd"
	"github.com/micahhausler/cypher-client/config"
	"github.com/micahhausler/cypher-client/cypher"
	"github.com/micahhausler/cypher-client/keyinfo"
	"github.com/micahhausler/cypher-client/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"
)

func main() {
	level := cmd.LevelFlag(slog.LevelInfo)
	fs := config.Flags("roundtrip")
	fs.Var(&level, "log-level", "log level. Use `debug`, `info`, `warn` or `error`")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := level.Set(cfg.LogLevel); err != nil {
		slog.Error("invalid log level", "error", err)
		os.Exit(1)
	}
	logger := level.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg, logger, os.Stdout, os.Stderr); err != nil {
		logger.Error("round trip failed", "error", err, "base-url", cfg.BaseURL)
		os.Exit(1)
	}
}

// run creates a key pair, encrypts cfg.Text with the public key and decrypts
// it again with the private key, printing every intermediate value to out.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, out, errOut io.Writer) error {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	client := cypher.NewClient(cfg.BaseURL,
		cypher.WithTransport(m.InstrumentRoundTripper(http.DefaultTransport)),
		cypher.WithTimeout(cfg.Timeout),
		cypher.WithLogger(logger),
		cypher.WithUserAgent(cfg.UserAgent),
	)

	if err := client.Ping(ctx); err != nil {
		logger.Warn("health check failed, trying anyway", "error", err)
	}

	keys, err := client.CreateKeys(ctx)
	if err != nil {
		return errors.Wrap(err, "create keys")
	}
	fmt.Fprintf(out, "keys: %+v\n", *keys)
	describeKey(out, logger, "public", keys.Public)
	describeKey(out, logger, "private", keys.Private)

	encrypted, err := client.Encrypt(ctx, cfg.Text, keys.Public)
	if err != nil {
		return errors.Wrap(err, "encrypt")
	}
	fmt.Fprintf(out, "encrypted_text: %q\n", encrypted)

	text, err := client.Decrypt(ctx, encrypted, keys.Private)
	if err != nil {
		return errors.Wrap(err, "decrypt")
	}
	fmt.Fprintf(out, "text: %q\n", text)

	if cfg.Metrics {
		if err := metrics.WriteText(errOut, reg); err != nil {
			logger.Warn("failed to write metrics", "error", err)
		}
	}

	if text != cfg.Text {
		return errors.Errorf("decrypted text %q does not match %q", text, cfg.Text)
	}
	return nil
}

func describeKey(out io.Writer, logger *slog.Logger, name, pemText string) {
	info, err := keyinfo.Describe(pemText)
	if err != nil {
		logger.Debug("can't describe key", "key", name, "error", err)
		return
	}
	fmt.Fprintf(out, "%s key: %s\n", name, info)
}
