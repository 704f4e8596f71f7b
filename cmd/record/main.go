package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dczia/Defcon32-Badge/internal/config"
	"github.com/dczia/Defcon32-Badge/internal/metrics"
	"github.com/dczia/Defcon32-Badge/internal/periph"
	"github.com/dczia/Defcon32-Badge/internal/recorder"
	"github.com/dczia/Defcon32-Badge/internal/server"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "badge-recorder"
	serviceVersion    = "1.0.0"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Logging)

	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)

	logger.Info("Configuration loaded",
		slog.Int("i2s_clock_pin", cfg.I2S.ClockPin),
		slog.Int("i2s_word_select_pin", cfg.I2S.WordSelectPin),
		slog.Int("i2s_data_pin", cfg.I2S.DataPin),
		slog.Int("i2s_bus_id", cfg.I2S.BusID),
		slog.Int("i2s_buffer_bytes", cfg.I2S.BufferBytes),
		slog.Int("sample_rate", cfg.Audio.SampleRate),
		slog.Int("bits_per_sample", cfg.Audio.BitsPerSample),
		slog.Int("channels", cfg.Audio.Channels),
		slog.Int("record_seconds", cfg.Audio.RecordSeconds),
		slog.String("output_file", cfg.Audio.OutputFile),
		slog.String("mount_dir", cfg.Audio.MountDir),
		slog.String("log_level", cfg.Logging.Level),
	)

	appMetrics := metrics.NewMetrics()

	input, err := periph.NewMicrophone(periph.MicrophoneConfig{
		SampleRate:  cfg.Audio.SampleRate,
		Channels:    cfg.Audio.Channels,
		BufferBytes: cfg.I2S.BufferBytes,
	})
	if err != nil {
		logger.Error("Failed to open microphone", slog.String("error", err.Error()))
		os.Exit(1)
	}

	storage, err := periph.NewDirStorage(cfg.Audio.MountDir)
	if err != nil {
		logger.Error("Failed to mount storage", slog.String("error", err.Error()))
		input.Close()
		os.Exit(1)
	}

	rec, err := recorder.New(recorder.Config{
		SampleRate:      cfg.Audio.SampleRate,
		BitsPerSample:   cfg.Audio.BitsPerSample,
		Channels:        cfg.Audio.Channels,
		RecordSeconds:   cfg.Audio.RecordSeconds,
		ShiftBits:       cfg.Audio.ShiftBits,
		OutputFile:      cfg.Audio.OutputFile,
		ReadBufferBytes: cfg.I2S.BufferBytes,
	}, input, storage, logger, appMetrics)
	if err != nil {
		logger.Error("Failed to create recorder", slog.String("error", err.Error()))
		input.Close()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var httpServer *server.HTTPServer
	if cfg.Debug.Enabled {
		httpServer = server.NewHTTPServer(cfg.Debug, logger, appMetrics, nil, rec)
		if err := httpServer.Start(); err != nil {
			logger.Error("Failed to start debug server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	recordErr := rec.Record(ctx)

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := httpServer.Stop(shutdownCtx); serr != nil {
			logger.Error("Error stopping debug server", slog.String("error", serr.Error()))
		}
	}

	if recordErr != nil {
		logger.Error("Recording failed", slog.String("error", recordErr.Error()))
		os.Exit(1)
	}

	logger.Info("Service stopped")
}

// initLogger creates the structured logger from configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stderr\n", cfg.Output, err)
			output = os.Stderr
		} else {
			output = file
		}
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
