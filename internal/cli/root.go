// Package cli implements the arsip CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/arsip-kita/internal/board"
	"github.com/rcliao/arsip-kita/internal/classify"
	"github.com/rcliao/arsip-kita/internal/config"
	"github.com/rcliao/arsip-kita/internal/logging"
	"github.com/rcliao/arsip-kita/internal/metrics"
	"github.com/rcliao/arsip-kita/internal/store"
)

var (
	dbPath     string
	configPath string
	logLevel   string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "arsip",
	Short: "A memory board for short notes",
	Long:  "Arsip Kita: hang short notes on a board. Each note gets a mood and color from an AI classifier, with a neutral fallback. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $ARSIP_DB or ~/.arsip/arsip.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.arsip/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// app bundles everything a command needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Collector
	store   *store.SQLiteStore
}

func loadConfig() *config.Config {
	// A .env in the working directory may carry API keys; real env wins.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg
}

func newApp() *app {
	cfg := loadConfig()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		exitErr("init logger", err)
	}

	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		exitErr("open store", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewCollector("arsip"),
		store:   s,
	}
}

func (a *app) classifier() *classify.Service {
	p, err := classify.NewProvider(a.cfg.Classifier)
	if err != nil {
		exitErr("classifier", err)
	}
	return classify.NewService(p, classify.WithLogger(a.logger), classify.WithMetrics(a.metrics))
}

func (a *app) board() *board.Board {
	return board.New(board.Options{
		Store:      a.store,
		Classifier: a.classifier(),
		Secret:     a.cfg.DeleteSecret,
		Logger:     a.logger,
		Metrics:    a.metrics,
	})
}

func (a *app) close() {
	a.store.Close()
	a.logger.Sync()
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
