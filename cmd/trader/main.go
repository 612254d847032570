package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/quantlance/ai-options-trader/internal/bot"
	"github.com/quantlance/ai-options-trader/internal/broker"
	"github.com/quantlance/ai-options-trader/internal/config"
	"github.com/quantlance/ai-options-trader/internal/connection"
	"github.com/quantlance/ai-options-trader/internal/journal"
	"github.com/quantlance/ai-options-trader/internal/logger"
	"github.com/quantlance/ai-options-trader/internal/monitoring"
	"github.com/quantlance/ai-options-trader/internal/notifications"
	"github.com/quantlance/ai-options-trader/internal/portfolio"
	"github.com/quantlance/ai-options-trader/internal/predictor"
)

func main() {
	var (
		configFile = flag.String("config", "", "Configuration file (e.g., trader.json)")
		envFile    = flag.String("env", ".env", "Environment file path (default: .env)")
		brokerName = flag.String("broker", "", "Broker name (paper, alpaca) - overrides config")
		interval   = flag.Int("interval", 0, "Cycle interval in seconds - overrides config")
		dryRun     = flag.Bool("dry-run", false, "Force the paper broker regardless of config")
	)
	flag.Parse()

	if err := loadEnvFile(*envFile); err != nil {
		log.Printf("Warning: Could not load .env file (%v), checking environment variables...", err)
	}

	fmt.Println("🚀 AI Options Trader Starting...")

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyOverrides(cfg, *brokerName, *interval, *dryRun)
	if cfg.Broker.Name != "" && (*brokerName != "" || *dryRun) {
		fmt.Printf("🔧 Broker overridden to: %s\n", cfg.Broker.Name)
	}

	trader, cleanup, err := buildTrader(cfg)
	if err != nil {
		log.Fatalf("Failed to build trader: %v", err)
	}
	defer cleanup()

	trader.PrintStartupInfo()
	trader.PrintConfiguration()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Shutdown on SIGINT/SIGTERM; the in-flight cycle completes first.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n🛑 Shutdown signal received...")
		cancel()
	}()

	if err := trader.Run(ctx); err != nil {
		if errors.Is(err, connection.ErrConnectionExhausted) {
			log.Printf("Could not reach broker: %v", err)
			os.Exit(1)
		}
		log.Fatalf("Trader stopped with error: %v", err)
	}

	fmt.Println("✅ Trader stopped successfully")
}

// applyOverrides layers command-line flags on top of the loaded config.
// Dry-run wins over an explicit broker choice: it always forces the paper
// broker so no live order can leave the process.
func applyOverrides(cfg *config.Config, brokerName string, interval int, dryRun bool) {
	if brokerName != "" {
		cfg.Broker.Name = brokerName
	}
	if dryRun {
		cfg.Broker.Name = "paper"
	}
	if interval > 0 {
		cfg.Trading.IntervalSecs = interval
	}
}

// buildTrader wires the full dependency graph from configuration. The
// returned cleanup closes the predictor and file logger.
func buildTrader(cfg *config.Config) (*bot.Trader, func(), error) {
	factory := broker.NewFactory()
	brokerInstance, err := factory.CreateBroker(cfg.Broker)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create broker: %w", err)
	}

	conn := connection.NewManager(brokerInstance, cfg.Connection)

	pred, err := buildPredictor(cfg)
	if err != nil {
		return nil, nil, err
	}

	tracker, err := portfolio.LoadState(cfg.Trading.StatePath)
	if err != nil {
		pred.Close()
		return nil, nil, fmt.Errorf("failed to load portfolio state: %w", err)
	}

	jrnl, err := journal.New(cfg.Journal.Dir)
	if err != nil {
		pred.Close()
		return nil, nil, fmt.Errorf("failed to open journal: %w", err)
	}

	fileLogger, err := logger.NewLogger(cfg.Trading.Symbols)
	if err != nil {
		pred.Close()
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	fmt.Printf("📝 Trading logs: %s\n", fileLogger.GetLogPath())

	var notifier notifications.Notifier = notifications.Noop{}
	if cfg.Notifications.TelegramToken != "" && cfg.Notifications.TelegramChatID != "" {
		notifier = notifications.NewTelegramNotifier(
			cfg.Notifications.TelegramToken, cfg.Notifications.TelegramChatID)
	}

	health := monitoring.NewHealthChecker()
	startMonitoringServers(cfg.Monitoring, health)

	trader := bot.New(cfg, conn, pred, tracker, jrnl, fileLogger, notifier, health)

	cleanup := func() {
		pred.Close()
		fileLogger.Close()
	}
	return trader, cleanup, nil
}

func buildPredictor(cfg *config.Config) (predictor.Predictor, error) {
	if cfg.Model.Kind == "onnx" {
		p, err := predictor.NewONNXPredictor(cfg.Model.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load model %s: %w", cfg.Model.Path, err)
		}
		fmt.Printf("🧠 Model loaded: %s\n", cfg.Model.Path)
		return p, nil
	}
	fmt.Println("🧠 Using deterministic momentum model")
	return predictor.NewMomentumPredictor(), nil
}

// startMonitoringServers exposes the Prometheus and health endpoints when
// ports are configured. Zero ports disable them.
func startMonitoringServers(cfg config.MonitoringConfig, health *monitoring.HealthChecker) {
	if cfg.PrometheusPort > 0 {
		go func() {
			addr := fmt.Sprintf(":%d", cfg.PrometheusPort)
			mux := http.NewServeMux()
			mux.Handle("/metrics", monitoring.NewMetricsHandler())
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("Metrics server stopped: %v", err)
			}
		}()
	}
	if cfg.HealthPort > 0 {
		go func() {
			addr := fmt.Sprintf(":%d", cfg.HealthPort)
			mux := http.NewServeMux()
			mux.Handle("/health", health)
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("Health server stopped: %v", err)
			}
		}()
	}
}

// loadEnvFile loads environment variables from a file
func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err == nil {
		return godotenv.Load(envFile)
	}
	return fmt.Errorf("env file %s not found", envFile)
}
