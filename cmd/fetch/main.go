package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"stockrelay/internal/config"
	"stockrelay/internal/httpx"
	"stockrelay/internal/logging"
	"stockrelay/internal/provider"
	"stockrelay/internal/provider/alphavantage"
	"stockrelay/internal/relay"
)

// point is one bar of the series, flattened for printing.
type point struct {
	Time   string            `json:"time"`
	Fields map[string]string `json:"fields"`
}

func main() {
	var configPath string
	var timeout int
	var limit int

	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json or config.yaml (optional)")
	flag.IntVar(&timeout, "timeout", 0, "request timeout seconds (defaults to server.request_timeout_sec)")
	flag.IntVar(&limit, "limit", 10, "number of newest points to print (0 prints all)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if timeout > 0 {
		cfg.Server.RequestTimeoutSec = timeout
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.AlphaVantage.APIKey == "" {
		logger.Fatal("no API key configured; set ALPHAVANTAGE_API_KEY or alphavantage.api_key")
	}

	d := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
	client := alphavantage.NewClient(cfg.AlphaVantage.APIKey,
		alphavantage.WithBaseURL(cfg.AlphaVantage.BaseURL),
		alphavantage.WithHTTPClient(httpx.NewPool(d).Client()),
		alphavantage.WithLogger(logger))
	rl := relay.New(relay.Config{Timeout: d}, client, logger, nil)

	series, err := rl.GetStockData(context.Background())
	if err != nil {
		logger.Fatal("fetch failed", zap.Stringer("kind", relay.KindOf(err)), zap.Error(err))
	}
	logger.Info("fetched series", zap.String("symbol", alphavantage.Symbol), zap.Int("points", len(series)))

	b, err := render(series, limit)
	if err != nil {
		logger.Fatal("encoding output", zap.Error(err))
	}
	fmt.Println(string(b))
}

// render formats the newest limit points as indented JSON.
func render(series provider.Series, limit int) ([]byte, error) {
	return json.MarshalIndent(newest(series, limit), "", "  ")
}

// newest returns up to n points, most recent first. Timestamps share one
// fixed-width layout, so lexical order is chronological.
func newest(series provider.Series, n int) []point {
	out := make([]point, 0, len(series))
	for ts, fields := range series {
		out = append(out, point{Time: ts, Fields: fields})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time > out[j].Time })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
