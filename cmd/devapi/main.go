// Command devapi serves the voting REST API from memory for local demos.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dmitrijs2005/gophvote/internal/devapi"
	"github.com/dmitrijs2005/gophvote/internal/shared"
)

func main() {
	_ = godotenv.Load()

	addr := envOr("GVOTE_DEVAPI_ADDR", ":8080")
	secret := os.Getenv("GVOTE_DEVAPI_SECRET")
	level := envOr("GVOTE_LOG_LEVEL", "info")

	flag.StringVar(&addr, "a", addr, "listen address")
	flag.StringVar(&level, "l", level, "log level")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	logger := devapi.NewConsoleLogger(lvl)

	key := []byte(secret)
	if len(key) == 0 {
		// Tokens then only survive as long as this process.
		key, err = shared.RandomSecret(32)
		if err != nil {
			logger.Fatal().Err(err).Msg("generate secret")
		}
	}

	srv := devapi.New(devapi.Config{Secret: key, Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	logger.Info().Str("addr", addr).Msg("devapi listening")
	if err := srv.Listen(addr); err != nil {
		logger.Fatal().Err(err).Msg("listen")
	}
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
