// Command defense-server runs the planetary defense simulation, either as an
// HTTP/WebSocket service or as a headless batch run for scenario tuning.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/planetary-defense-sim/internal/api"
	"github.com/signalsfoundry/planetary-defense-sim/internal/config"
	"github.com/signalsfoundry/planetary-defense-sim/internal/ledgerbus"
	"github.com/signalsfoundry/planetary-defense-sim/internal/logging"
	"github.com/signalsfoundry/planetary-defense-sim/internal/observability"
	"github.com/signalsfoundry/planetary-defense-sim/internal/sim"
)

const version = "0.3.0"

var (
	flagConfig string
	flagAddr   string
	flagSeed   int64

	flagSimDays int
	flagSimStep time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "defense-server",
	Short: "Asteroid risk simulation and mitigation engine",
	Long: `defense-server hosts an educational asteroid-threat scenario: synthetic and
catalog-sourced near-Earth objects approach on a simulated clock, and an
operator spends a limited budget on tracking, alerts, evacuations, and
deflection missions while a score and public-trust ledger keeps tally.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulation with the HTTP and WebSocket API",
	RunE:  runServe,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless batch scenario and print the final ledger",
	RunE:  runSimulate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("defense-server", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config (defaults apply when empty)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "random seed (0 seeds from the wall clock)")

	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "listen address")

	simulateCmd.Flags().IntVar(&flagSimDays, "days", 365, "simulated days to run")
	simulateCmd.Flags().DurationVar(&flagSimStep, "step", time.Hour, "simulated time per step")

	rootCmd.AddCommand(serveCmd, simulateCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRand() *rand.Rand {
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func buildEngine(ctx context.Context, cfg config.Config, log logging.Logger, opts ...sim.Option) *sim.Engine {
	engine := sim.NewEngine(cfg, time.Now().UTC(), newRand(), log, opts...)
	engine.Seed(ctx)
	return engine
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logging.NewFromEnv()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	metrics, err := observability.NewEngineCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := []sim.Option{sim.WithMetrics(metrics)}

	// The Kafka publisher is optional; the engine runs standalone without it.
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := ledgerbus.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return fmt.Errorf("init ledger bus: %w", err)
		}
		defer publisher.Close()
		opts = append(opts, sim.WithPublisher(publisher))
	}

	engine := buildEngine(ctx, cfg, log, opts...)

	hub := api.NewHub(log)
	go hub.Run(ctx)

	server := api.NewServer(engine, hub, metrics, log)
	httpServer := &http.Server{
		Addr:         flagAddr,
		Handler:      server.Handler(os.Stdout),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	clockStop := make(chan struct{})
	go engine.Clock().Run(time.Second, clockStop)

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "http server listening", logging.String("addr", flagAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		close(clockStop)
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	close(clockStop)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log := logging.NewFromEnv()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine := buildEngine(ctx, cfg, log)

	steps := int(time.Duration(flagSimDays) * 24 * time.Hour / flagSimStep)
	for i := 0; i < steps; i++ {
		engine.Clock().Advance(flagSimStep)
		if engine.GameOver() {
			break
		}
	}

	ledger := engine.Ledger()
	fmt.Printf("simulated %d days (seed %d)\n", flagSimDays, flagSeed)
	fmt.Printf("  score:            %.0f\n", ledger.Score)
	fmt.Printf("  final score:      %.0f\n", ledger.FinalScore())
	fmt.Printf("  trust:            %.1f\n", ledger.Trust)
	fmt.Printf("  budget remaining: $%.0fM\n", ledger.BudgetM)
	fmt.Printf("  lives saved:      %d\n", ledger.LivesSaved)
	fmt.Printf("  lives lost:       %d\n", ledger.LivesAtRisk)
	fmt.Printf("  deflections:      %d\n", ledger.SuccessfulDeflections)
	fmt.Printf("  false alarms:     %d\n", ledger.FalseAlarms)
	fmt.Printf("  game over:        %v\n", engine.GameOver())
	return nil
}
