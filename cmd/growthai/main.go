package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"growthai/internal/catalog"
	"growthai/internal/churn"
	"growthai/internal/config"
	"growthai/internal/embed"
	"growthai/internal/llm"
	"growthai/internal/llm/openai"
	"growthai/internal/log"
	"growthai/internal/recsys"
	"growthai/internal/retention"
	"growthai/internal/seed"
	"growthai/internal/server"
	"growthai/internal/store"
	"growthai/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		serveCmd(os.Args[2:])
	case "seed":
		seedCmd(os.Args[2:])
	case "version":
		fmt.Println(version.String())
	case "help", "-h", "--help":
		usage()
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("growthai - personalization and retention service")
	fmt.Println("usage:")
	fmt.Println("  growthai serve [--config growthai.yaml] [--addr :8090] [--mem]")
	fmt.Println("  growthai seed  [--config growthai.yaml] [--seed 42] [--mem]")
	fmt.Println("  growthai version")
}

func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "growthai.yaml", "config file path")
	addr := fs.String("addr", "", "listen address (overrides config)")
	mem := fs.Bool("mem", false, "use the in-memory store instead of sqlite")
	_ = fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	logger, err := log.New(cfg.Server.Debug)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()

	st, closeStore, err := openStore(cfg, *mem)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer closeStore()

	cat, err := loadCatalog(cfg)
	if err != nil {
		// includes duplicate item ids: the catalog invariant is not
		// negotiable, refuse to start
		logger.Fatal("catalog build failed", zap.Error(err))
	}
	logger.Info("catalog built", zap.Int("items", cat.Len()))

	client := openai.New(openai.Options{
		BaseURL:        cfg.LLM.BaseURL,
		APIKey:         cfg.LLM.APIKey,
		ChatModel:      cfg.LLM.ChatModel,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		Timeout:        60 * time.Second,
	})

	var emb *embed.Store
	if client.Configured() {
		buildCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		emb, err = embed.Build(buildCtx, client, cat.Items())
		cancel()
		if err != nil {
			logger.Warn("embedding build failed, serving degraded", zap.Error(err))
			emb = nil
		} else {
			logger.Info("embeddings built", zap.Int("vectors", emb.Len()), zap.Int("dim", emb.Dim()))
		}
	} else {
		logger.Warn("no embedding provider configured, serving degraded")
	}

	engOpts := []recsys.Option{
		recsys.WithOverfetch(cfg.Recsys.Overfetch),
		recsys.WithLogger(logger.Named("recsys")),
	}
	if cfg.Recsys.ColdSeed != 0 {
		engOpts = append(engOpts, recsys.WithRand(rand.New(rand.NewSource(cfg.Recsys.ColdSeed))))
	}
	eng, err := recsys.New(cat, emb, st, engOpts...)
	if err != nil {
		logger.Fatal("engine init", zap.Error(err))
	}

	var chat llm.ChatProvider
	if client.Configured() {
		chat = client
	}
	ret := retention.New(chat, st, logger.Named("retention"))

	srv, err := server.New(server.Options{
		Engine:    eng,
		Store:     st,
		Scorer:    churn.NewLogisticScorer(),
		Retention: ret,
		Logger:    logger.Named("http"),
		Debug:     cfg.Server.Debug,
	})
	if err != nil {
		logger.Fatal("server init", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func seedCmd(args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	cfgPath := fs.String("config", "growthai.yaml", "config file path")
	seedVal := fs.Int64("seed", 42, "random seed")
	mem := fs.Bool("mem", false, "use the in-memory store instead of sqlite")
	_ = fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err)
	}
	logger, err := log.New(cfg.Server.Debug)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()

	st, closeStore, err := openStore(cfg, *mem)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer closeStore()

	dir := filepath.Dir(cfg.Paths.Products)
	if err := seed.Run(dir, st, *seedVal, logger); err != nil {
		logger.Fatal("seed", zap.Error(err))
	}
}

func openStore(cfg *config.Config, mem bool) (store.Store, func(), error) {
	if mem {
		return store.NewMem(), func() {}, nil
	}
	s, err := store.NewSQLite(cfg.Paths.SQLite)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { s.Close() }, nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	products, err := catalog.LoadProductsCSV(cfg.Paths.Products)
	if err != nil {
		return nil, fmt.Errorf("load products (run `growthai seed` first?): %w", err)
	}
	content, err := catalog.LoadContentCSV(cfg.Paths.Content)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return catalog.Build(products, content)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "growthai: %v\n", err)
	os.Exit(1)
}
