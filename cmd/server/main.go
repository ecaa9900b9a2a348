package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m2tx/city_agent/internal/config"
	"github.com/m2tx/city_agent/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg := config.Load()
	logging.Init(os.Stderr, cfg.LogLevel)

	app := newApp(cfg)
	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func newApp(cfg *config.Config) *cli.App {
	return &cli.App{
		Name:  "city-agent",
		Usage: "answers weather and local time questions about cities",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the chat HTTP server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "port",
						Usage: "HTTP port",
						Value: cfg.HTTPPort,
					},
				},
				Action: func(c *cli.Context) error {
					return serve(c.Context, cfg, c.String("port"))
				},
			},
			{
				Name:      "ask",
				Usage:     "send one prompt to a running server and print the returned contents",
				ArgsUsage: " ",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "url",
						Usage: "base URL of the server",
						Value: "http://localhost:" + cfg.HTTPPort,
					},
					&cli.StringFlag{
						Name:  "session",
						Usage: "session id (a new one is generated when empty)",
					},
					&cli.StringFlag{
						Name:    "message",
						Aliases: []string{"m"},
						Usage:   "prompt to send",
						Value:   defaultSmokeMessage,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "overall request timeout",
						Value: 2 * time.Minute,
					},
				},
				Action: func(c *cli.Context) error {
					sessionID := c.String("session")
					if sessionID == "" {
						sessionID = fmt.Sprintf("smoke-%d", time.Now().UnixNano())
					}
					ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
					defer cancel()
					return runAsk(ctx, http.DefaultClient, c.String("url"), sessionID, c.String("message"), c.App.Writer)
				},
			},
			{
				Name:      "call",
				Usage:     "invoke a tool locally without the model",
				ArgsUsage: "<get_weather|get_current_time> <city>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.Exit("usage: call <tool> <city>", 2)
					}
					a, err := buildTools(cfg, nil, nil)
					if err != nil {
						return err
					}
					return runCall(c.Context, a, c.Args().Get(0), c.Args().Get(1), c.App.Writer)
				},
			},
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, port string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, ping, cleanup, err := buildAgent(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           newHandler(a, ping),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{"port": port, "model": a.Model(), "tools": a.Tools()}).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	logrus.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
