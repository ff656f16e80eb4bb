package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jvm123/botstory"
	"github.com/jvm123/botstory/internal/cli"
	"github.com/jvm123/botstory/internal/demo"
	httpAdapter "github.com/jvm123/botstory/pkg/adapters/http"
	"github.com/jvm123/botstory/pkg/adapters/memory"
	redisAdapter "github.com/jvm123/botstory/pkg/adapters/redis"
	"github.com/jvm123/botstory/pkg/persistence/middleware"
	"github.com/jvm123/botstory/pkg/ports"
	"github.com/jvm123/botstory/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// encryptKeyEnv holds the hex-encoded 32-byte AES key for session
// state encryption at rest.
const encryptKeyEnv = "BOTSTORY_ENCRYPT_KEY"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chatbot server",
	Long:  `Starts the dialog engine in server mode, exposing the chatbot JSON API over HTTP with cookie-based sessions.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := botOptions(cmd)
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		piiPatterns, _ := cmd.Flags().GetStringSlice("mask")

		logger := cli.CreateLogger(opts.Debug)

		reg, botOpts, isDemo, err := cli.LoadStory(opts.ConfigPath, logger)
		if err != nil {
			fmt.Printf("Error loading story: %v\n", err)
			os.Exit(1)
		}
		botOpts = append(botOpts, botstory.WithLogger(logger))

		factory := func() session.Bot {
			bot, err := botstory.New(reg, botOpts...)
			if err != nil {
				// The registry was already validated; a failure here
				// is a programming error.
				panic(err)
			}
			if isDemo {
				demo.Attach(bot)
			}
			return bot
		}

		store, err := buildStore(redisAddr, piiPatterns)
		if err != nil {
			fmt.Printf("Error setting up session store: %v\n", err)
			os.Exit(1)
		}

		sessions := session.NewManager(factory, store, session.WithLogger(logger))

		registry := prometheus.NewRegistry()
		handler := httpAdapter.NewHandler(sessions,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(registry),
		)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting botstory server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("botstory server stopped gracefully")
		}
	},
}

// buildStore assembles the session store: Redis when an address is
// given, in-memory otherwise, optionally wrapped in PII masking and
// encryption middleware.
func buildStore(redisAddr string, piiPatterns []string) (ports.StateStore, error) {
	var store ports.StateStore
	if redisAddr != "" {
		store = redisAdapter.New(redisAddr, "", 0)
	} else {
		store = memory.NewStore()
	}

	if keyHex := os.Getenv(encryptKeyEnv); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", encryptKeyEnv, err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("%s must decode to 32 bytes, got %d", encryptKeyEnv, len(key))
		}
		store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(store)
	}

	if len(piiPatterns) > 0 {
		store = middleware.NewPIIMiddleware(piiPatterns)(store)
	}
	return store, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for shared session state (empty keeps sessions in memory)")
	serveCmd.Flags().StringSlice("mask", nil, "Slot name patterns to mask in persisted state")
}
