// Command whatif прогоняет один сценарий через пайплайн симуляции
// из терминала и печатает готовый презентационный вывод.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"whatif-server/internal/apperrors"
	"whatif-server/internal/config"
	"whatif-server/internal/generator"
	"whatif-server/internal/logger"
	"whatif-server/internal/simulator"
)

func main() {
	envFile := flag.String("env", ".env", "path to .env file")
	timeout := flag.Duration("timeout", 0, "override simulation time budget (0 = use config)")
	sequential := flag.Bool("sequential", false, "generate outcomes one after another instead of in parallel")
	quiet := flag.Bool("quiet", false, "suppress progress logging, print only the result")
	flag.Parse()

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	if *quiet {
		zlog = zlog.Level(zerolog.ErrorLevel)
	}

	scenario := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if scenario == "" {
		scenario = readStdinScenario(zlog)
	}
	if scenario == "" {
		fmt.Fprintln(os.Stderr, "usage: whatif [flags] \"What if ...\"")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Zap нужен внутренним компонентам; в quiet режиме глушим его тоже.
	logLevel := cfg.LogLevel
	if *quiet {
		logLevel = "error"
	}
	zapLog, err := logger.New(logger.Config{Level: logLevel, Encoding: "console"})
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize logger")
	}
	defer zapLog.Sync()

	aiClient, err := generator.NewAIClient(cfg, zapLog)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to create AI client")
	}

	simCfg := simulator.Config{
		EnableLogging:            cfg.SimEnableLogging && !*quiet,
		EnableMetrics:            false,
		MaxProcessingTime:        cfg.SimMaxProcessingTime,
		EnableParallelGeneration: cfg.SimParallelGeneration && !*sequential,
	}
	if *timeout > 0 {
		simCfg.MaxProcessingTime = *timeout
	}

	retryOpts := apperrors.RetryOptions{
		MaxAttempts:       cfg.AIMaxAttempts,
		BaseDelay:         cfg.AIBaseRetryDelay,
		MaxDelay:          cfg.AIMaxRetryDelay,
		BackoffMultiplier: 2,
		Logger:            zapLog.Named("Retry"),
	}

	sim := simulator.New(aiClient, retryOpts, simCfg, zapLog)

	zlog.Info().Str("scenario", scenario).Msg("Running simulation")
	started := time.Now()

	result := sim.ProcessScenario(context.Background(), scenario)

	if !result.Success {
		zlog.Error().Str("error", result.Error).Dur("elapsed", time.Since(started)).Msg("Simulation failed")
		if result.Error != "" {
			fmt.Fprintln(os.Stderr, result.Error)
		}
		os.Exit(1)
	}

	zlog.Info().Dur("elapsed", time.Since(started)).Msg("Simulation complete")
	fmt.Println(result.PresentationOutput)

	if result.Metrics != nil && !*quiet {
		zlog.Info().
			Int64("validation_ms", result.Metrics.ValidationTime).
			Int64("processing_ms", result.Metrics.ProcessingTime).
			Int64("serious_ms", result.Metrics.SeriousGenerationTime).
			Int64("fun_ms", result.Metrics.FunGenerationTime).
			Int64("formatting_ms", result.Metrics.FormattingTime).
			Int64("total_ms", result.Metrics.TotalProcessingTime).
			Msg("Stage timings")
	}
}

// readStdinScenario читает сценарий из пайпа. Интерактивный терминал
// без аргументов сценарием не считается.
func readStdinScenario(zlog zerolog.Logger) string {
	stat, err := os.Stdin.Stat()
	if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
		return ""
	}

	var sb strings.Builder
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteString(" ")
	}
	if err := scanner.Err(); err != nil {
		zlog.Warn().Err(err).Msg("Failed to read stdin")
	}
	return strings.TrimSpace(sb.String())
}
