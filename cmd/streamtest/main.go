// streamtest connects to the Binance WebSocket and prints parsed ticks
// to console. Usage: go run ./cmd/streamtest -symbols BTC,ETH,SOL
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/stream"
)

// printSink writes every decoded tick to stdout.
type printSink struct{}

func (printSink) PutQuote(ctx context.Context, category model.Category, q model.Quote) error {
	fmt.Printf("%s  %-6s %14s USDT\n",
		q.RetrievedAt.Format("15:04:05"), q.Symbol, q.Price.StringFixed(2))
	return nil
}

func main() {
	symbols := flag.String("symbols", "BTC,ETH", "comma-separated symbols to watch")
	url := flag.String("url", "", "websocket base URL (default public Binance)")
	verbose := flag.Bool("verbose", false, "log at debug level")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	cfg := stream.DefaultConfig(strings.Split(*symbols, ","))
	if *url != "" {
		cfg.URL = *url
	}

	ticks := stream.New(cfg, printSink{}, logger)
	if err := ticks.Start(ctx); err != nil {
		logger.Error("failed to start stream", "error", err)
		os.Exit(1)
	}

	logger.Info("streaming ticks, Ctrl-C to stop", "symbols", *symbols)

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := ticks.Stop(stopCtx); err != nil {
		logger.Warn("stream shutdown", "error", err)
	}

	st := ticks.Stats()
	fmt.Printf("\n%d ticks, %d reconnects\n", st.Ticks, st.Reconnects)
}
