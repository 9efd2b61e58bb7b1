package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/crypto-protection-bot/internal/exchange"
	"github.com/ducminhle1904/crypto-protection-bot/internal/exchange/bybit"
	"github.com/ducminhle1904/crypto-protection-bot/internal/logger"
	"github.com/ducminhle1904/crypto-protection-bot/internal/monitoring"
	"github.com/ducminhle1904/crypto-protection-bot/internal/protection"
	"github.com/ducminhle1904/crypto-protection-bot/internal/store"
	"github.com/ducminhle1904/crypto-protection-bot/pkg/config"
	"github.com/ducminhle1904/crypto-protection-bot/pkg/reporting"
	"github.com/ducminhle1904/crypto-protection-bot/pkg/types"
	"github.com/ducminhle1904/crypto-protection-bot/pkg/utils"
)

// ProtectionBot evaluates the configured protections against recent trade
// history and keeps the lock registry current. Which protections run, and
// in what order, is decided here by the config file, not by the
// protections themselves.
type ProtectionBot struct {
	config      *config.Config
	protections []protection.Protection
	trades      *store.TradeStore
	locks       *store.LockRegistry
	history     *bybit.Client
	log         *logger.Logger
	stopChan    chan struct{}
}

// NewProtectionBot wires the bot from its collaborators.
func NewProtectionBot(
	cfg *config.Config,
	protections []protection.Protection,
	trades *store.TradeStore,
	locks *store.LockRegistry,
	history *bybit.Client,
	lg *logger.Logger,
) *ProtectionBot {
	return &ProtectionBot{
		config:      cfg,
		protections: protections,
		trades:      trades,
		locks:       locks,
		history:     history,
		log:         lg,
		stopChan:    make(chan struct{}),
	}
}

// Run evaluates the protections once per timeframe candle until the
// context is cancelled.
func (b *ProtectionBot) Run(ctx context.Context) error {
	tfMinutes, err := exchange.TimeframeToMinutes(b.config.Timeframe)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(tfMinutes) * time.Minute)
	defer ticker.Stop()

	b.evaluate(time.Now().UTC())

	for {
		select {
		case <-ctx.Done():
			b.log.Info("Evaluation loop stopped")
			return nil
		case <-b.stopChan:
			b.log.Info("Evaluation loop stopped")
			return nil
		case <-ticker.C:
			b.refreshHistory(ctx)
			b.evaluate(time.Now().UTC())
		}
	}
}

// refreshHistory pulls recent closed trades from the exchange when
// credentials were configured.
func (b *ProtectionBot) refreshHistory(ctx context.Context) {
	if b.history == nil {
		return
	}
	for _, pair := range b.config.Pairs {
		trades, err := b.history.GetClosedTrades(ctx, b.config.Exchange.Category, pair, 50)
		if err != nil {
			b.log.Error("Failed to refresh trade history for %s: %v", pair, err)
			monitoring.RecordError("history_refresh")
			continue
		}
		for _, trade := range trades {
			b.trades.Add(trade)
			monitoring.RecordTrade(trade.Pair)
		}
	}
}

// evaluate runs one protection evaluation tick for both sides, recording
// any resulting locks.
func (b *ProtectionBot) evaluate(now time.Time) {
	sides := []types.Side{types.SideLong, types.SideShort}

	for _, p := range b.protections {
		monitoring.RecordEvaluation(p.Name())

		if p.HasGlobalStop() {
			for _, side := range sides {
				if result := p.GlobalStop(now, side); result != nil && result.Lock {
					b.locks.AddGlobalLock(p.Name(), result)
					b.log.Lock("Global lock (%s) for %s: %s",
						result.Side, utils.FormatDuration(result.Until.Sub(now)), result.Reason)
				}
			}
		}

		if p.HasLocalStop() {
			for _, pair := range b.config.Pairs {
				for _, side := range sides {
					if result := p.StopPerPair(pair, now, side); result != nil && result.Lock {
						b.locks.AddPairLock(pair, p.Name(), result)
						b.log.Lock("Pair lock %s (%s) for %s: %s",
							pair, result.Side, utils.FormatDuration(result.Until.Sub(now)), result.Reason)
					}
				}
			}
		}
	}

	b.locks.Prune(now)
}

// Shutdown stops the loop and writes the lock report.
func (b *ProtectionBot) Shutdown() {
	close(b.stopChan)

	locks := b.locks.All()
	if len(locks) == 0 {
		return
	}
	path := fmt.Sprintf("results/locks_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	if err := reporting.WriteLocksXLSX(locks, path); err != nil {
		b.log.Error("Failed to write lock report: %v", err)
		return
	}
	b.log.Info("Lock report written to %s", path)
}

func main() {
	configPath := flag.String("config", "configs/protections.json", "Path to configuration file")
	envFile := flag.String("env", ".env", "Path to environment file")
	flag.Parse()

	// Load environment variables (optional - skip if file doesn't exist)
	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load env file %s: %v", *envFile, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logger.New("protection_bot")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lg.Close()

	trades := store.NewTradeStore()
	locks := store.NewLockRegistry()

	protections := make([]protection.Protection, 0, len(cfg.Protections))
	for _, pcfg := range cfg.Protections {
		p, err := protection.New(cfg.Timeframe, pcfg, trades, lg)
		if err != nil {
			log.Fatalf("Failed to initialize protection %q: %v", pcfg.Method, err)
		}
		protections = append(protections, p)
	}

	reporting.PrintProtections(protections)

	var history *bybit.Client
	creds := config.LoadCredentials()
	if creds.APIKey != "" && creds.APISecret != "" {
		history = bybit.NewClient(bybit.Config{
			APIKey:    creds.APIKey,
			APISecret: creds.APISecret,
			Testnet:   creds.Testnet,
			Demo:      cfg.Exchange.Demo,
		})
		lg.Info("Trade history source: Bybit (%s)", history.GetEnvironment())
	} else {
		lg.Info("No exchange credentials found, running on locally recorded trades only")
	}

	// Serve Prometheus metrics
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort)
		http.Handle("/metrics", monitoring.NewMetricsHandler())
		if err := http.ListenAndServe(addr, nil); err != nil {
			lg.Error("Metrics server error: %v", err)
		}
	}()

	bot := NewProtectionBot(cfg, protections, trades, locks, history, lg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runDone := make(chan error, 1)
	go func() {
		runDone <- bot.Run(ctx)
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	lg.Info("Shutdown signal received")
	cancel()
	// Let the evaluation loop finish before reading lock state for reports.
	if err := <-runDone; err != nil {
		lg.Error("Evaluation loop error: %v", err)
	}
	bot.Shutdown()
	reporting.PrintActiveLocks(locks.Active(time.Now().UTC()), time.Now().UTC())
}
