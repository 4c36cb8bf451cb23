package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"trafficforge/config"
	"trafficforge/internal/emit"
	"trafficforge/internal/logger"
	"trafficforge/internal/metrics"
	"trafficforge/internal/output/eventhttp"
	"trafficforge/internal/output/eventjson"
	"trafficforge/internal/output/eventredis"
	"trafficforge/internal/report"
	"trafficforge/internal/synth"
)

func findConfigFile(configArg string) string {
	if configArg != "" {
		if _, err := os.Stat(configArg); err == nil {
			return configArg
		}
		log.Printf("Warning: config file not found at %s, trying default locations", configArg)
	}

	if _, err := os.Stat("trafficforge.yml"); err == nil {
		return "trafficforge.yml"
	}

	exePath, err := os.Executable()
	if err == nil {
		path := filepath.Join(filepath.Dir(exePath), "trafficforge.yml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "trafficforge.yml"
}

func applyDefaults(cfg *config.Config) {
	if cfg.TrafficForge.Generator.Seed == 0 {
		cfg.TrafficForge.Generator.Seed = 42
	}
	if cfg.TrafficForge.Generator.Campaigns <= 0 {
		cfg.TrafficForge.Generator.Campaigns = 3
	}
	if cfg.TrafficForge.Generator.Rate <= 0 {
		cfg.TrafficForge.Generator.Rate = 5
	}

	if cfg.TrafficForge.Output.Mode == "" {
		cfg.TrafficForge.Output.Mode = "stdout"
	}
	if cfg.TrafficForge.Output.File.Path == "" {
		cfg.TrafficForge.Output.File.Path = "output/events.jsonl"
	}
	if cfg.TrafficForge.Output.Redis.Addr == "" {
		cfg.TrafficForge.Output.Redis.Addr = "127.0.0.1:6379"
	}
	if cfg.TrafficForge.Output.Redis.Key == "" {
		cfg.TrafficForge.Output.Redis.Key = "gateway_events"
	}

	if cfg.TrafficForge.Metrics.Listen == "" {
		cfg.TrafficForge.Metrics.Listen = ":9190"
	}
	if cfg.TrafficForge.Logging.Level == "" {
		cfg.TrafficForge.Logging.Level = "info"
	}
}

func runGenerate(args []string) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	configArg := fs.String("config", "", "Config file path")
	output := fs.String("output", "", "Output file path, or - for stdout")
	count := fs.Int64("count", 0, "Total events (0 = unbounded streaming)")
	rate := fs.Float64("rate", 0, "Events/sec in streaming mode")
	seed := fs.Int64("seed", 0, "RNG seed for reproducibility")
	campaigns := fs.Int("campaigns", 0, "Number of distillation campaigns")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := &config.Config{}
	configPath := findConfigFile(*configArg)
	loaded, err := config.LoadConfig(configPath)
	switch {
	case err == nil:
		cfg = loaded
	case os.IsNotExist(err) && *configArg == "":
		// No config file anywhere; run on defaults.
	default:
		log.Fatalf("Failed to load config from %s: %v", configPath, err)
	}
	applyDefaults(cfg)

	// Flags set on the command line override the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			if *output == "-" {
				cfg.TrafficForge.Output.Mode = "stdout"
			} else {
				cfg.TrafficForge.Output.Mode = "file"
				cfg.TrafficForge.Output.File.Path = *output
			}
		case "count":
			cfg.TrafficForge.Generator.Count = *count
		case "rate":
			cfg.TrafficForge.Generator.Rate = *rate
		case "seed":
			cfg.TrafficForge.Generator.Seed = *seed
		case "campaigns":
			cfg.TrafficForge.Generator.Campaigns = *campaigns
		}
	})

	if err := logger.Init(cfg.TrafficForge.Logging.Enabled, cfg.TrafficForge.Logging.Level, cfg.TrafficForge.Logging.File, cfg.TrafficForge.Logging.Console); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Infof("TrafficForge starting: seed=%d campaigns=%d count=%d",
		cfg.TrafficForge.Generator.Seed,
		cfg.TrafficForge.Generator.Campaigns,
		cfg.TrafficForge.Generator.Count,
	)

	source, err := synth.New(cfg.TrafficForge.Generator.Seed, cfg.TrafficForge.Generator.Campaigns)
	if err != nil {
		logger.Errorf("Failed to create synthesizer: %v", err)
		log.Fatalf("Failed to create synthesizer: %v", err)
	}

	var writer emit.EventWriter
	destination := ""
	switch cfg.TrafficForge.Output.Mode {
	case "stdout":
		writer = eventjson.NewStreamWriter(os.Stdout)
		destination = "stdout"
	case "file":
		w, err := eventjson.NewWriter(cfg.TrafficForge.Output.File.Path)
		if err != nil {
			logger.Errorf("Failed to create file writer: %v", err)
			log.Fatalf("Failed to create file writer: %v", err)
		}
		writer = w
		destination = cfg.TrafficForge.Output.File.Path
	case "http":
		w, err := eventhttp.NewWriter(eventhttp.Config{
			URL:       cfg.TrafficForge.Output.HTTP.URL,
			Timeout:   cfg.TrafficForge.Output.HTTP.Timeout,
			BatchSize: cfg.TrafficForge.Output.HTTP.BatchSize,
			Headers:   cfg.TrafficForge.Output.HTTP.Headers,
		})
		if err != nil {
			logger.Errorf("Failed to create HTTP writer: %v", err)
			log.Fatalf("Failed to create HTTP writer: %v", err)
		}
		writer = w
		destination = cfg.TrafficForge.Output.HTTP.URL
	case "redis":
		w, err := eventredis.NewWriter(eventredis.Config{
			Addr:     cfg.TrafficForge.Output.Redis.Addr,
			Password: cfg.TrafficForge.Output.Redis.Password,
			DB:       cfg.TrafficForge.Output.Redis.DB,
			Key:      cfg.TrafficForge.Output.Redis.Key,
		})
		if err != nil {
			logger.Errorf("Failed to create Redis writer: %v", err)
			log.Fatalf("Failed to create Redis writer: %v", err)
		}
		writer = w
		destination = fmt.Sprintf("redis://%s/%s", cfg.TrafficForge.Output.Redis.Addr, cfg.TrafficForge.Output.Redis.Key)
	default:
		log.Fatalf("Unknown output mode: %s", cfg.TrafficForge.Output.Mode)
	}
	logger.Infof("Output mode: %s (%s)", cfg.TrafficForge.Output.Mode, destination)

	var stats *metrics.Metrics
	if cfg.TrafficForge.Metrics.Enabled {
		stats = metrics.New()
		go func() {
			if err := stats.Serve(cfg.TrafficForge.Metrics.Listen); err != nil {
				logger.Errorf("Metrics listener error: %v", err)
			}
		}()
		logger.Infof("Metrics listening on %s", cfg.TrafficForge.Metrics.Listen)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Infof("Shutting down")
		cancel()
	}()

	emitter := emit.New(source, writer, emit.Config{
		Count: cfg.TrafficForge.Generator.Count,
		Rate:  cfg.TrafficForge.Generator.Rate,
	}, stats)

	summary, err := emitter.Run(ctx)
	if err != nil && err != context.Canceled {
		logger.Errorf("Generation failed: %v", err)
		fmt.Fprintf(os.Stderr, "generation failed after %d events: %v\n", summary.Total, err)
		return 1
	}

	logger.Infof("Generation finished: total=%d positive=%d", summary.Total, summary.Positive)
	fmt.Fprintf(os.Stderr, "Generated %d events (%d positive) → %s\n", summary.Total, summary.Positive, destination)
	return 0
}

func runSummarize(args []string) int {
	fs := flag.NewFlagSet("summarize", flag.ContinueOnError)
	input := fs.String("input", "output/events.jsonl", "Generated JSONL input path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	events, err := report.LoadEventsJSONL(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load events: %v\n", err)
		return 1
	}

	rep := report.Summarize(events)
	rep.Print(os.Stdout)
	return 0
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "generate":
			os.Exit(runGenerate(os.Args[2:]))
		case "summarize":
			os.Exit(runSummarize(os.Args[2:]))
		default:
			// Backward-compatible mode: bare flags mean generate.
			os.Exit(runGenerate(os.Args[1:]))
		}
	}
	os.Exit(runGenerate(nil))
}
