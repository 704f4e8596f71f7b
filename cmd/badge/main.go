package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dczia/Defcon32-Badge/internal/config"
	"github.com/dczia/Defcon32-Badge/internal/metrics"
	"github.com/dczia/Defcon32-Badge/internal/periph"
	"github.com/dczia/Defcon32-Badge/internal/server"
	"github.com/dczia/Defcon32-Badge/internal/sim"
	"github.com/dczia/Defcon32-Badge/internal/sstv"
	"github.com/dczia/Defcon32-Badge/internal/state"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "badge-ui"
	serviceVersion    = "1.0.0"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	simulator := flag.Bool("sim", false, "Run the terminal badge simulator regardless of configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *simulator {
		cfg.UI.Simulator = true
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
		slog.String("initial_state", cfg.UI.InitialState),
		slog.Duration("tick_interval", cfg.UI.TickInterval),
		slog.Bool("simulator", cfg.UI.Simulator),
		slog.String("log_level", cfg.Logging.Level),
	)

	appMetrics := metrics.NewMetrics()

	// Peripherals: the simulator badge or headless stand-ins
	var (
		display periph.Display
		button  periph.Button
		rotary  periph.RotaryEncoder
		badge   *sim.Badge
	)
	if cfg.UI.Simulator {
		badge = sim.NewBadge()
		display, button, rotary = badge, badge, badge
	} else {
		display = periph.NopDisplay{}
		button = periph.NopButton{}
		rotary = periph.NopRotary{}
	}

	machine, err := buildMachine(cfg, logger, appMetrics, display, button, rotary)
	if err != nil {
		logger.Error("Failed to build state machine", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var httpServer *server.HTTPServer
	if cfg.Debug.Enabled {
		httpServer = server.NewHTTPServer(cfg.Debug, logger, appMetrics, machine, nil)
		if err := httpServer.Start(); err != nil {
			logger.Error("Failed to start debug server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if err := machine.GoTo(cfg.UI.InitialState); err != nil {
		logger.Error("Failed to enter initial state", slog.String("error", err.Error()))
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if badge != nil {
			return sim.Run(gctx, badge, machine, cfg.UI.TickInterval)
		}
		return machine.Run(gctx, cfg.UI.TickInterval)
	})

	err = g.Wait()

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := httpServer.Stop(shutdownCtx); serr != nil {
			logger.Error("Error stopping debug server", slog.String("error", serr.Error()))
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("UI loop failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Service stopped")
}

// buildMachine registers every badge state
func buildMachine(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics,
	display periph.Display, button periph.Button, rotary periph.RotaryEncoder) (*state.Machine, error) {

	machine := state.NewMachine(logger, m)

	encoder := sstv.NewSilenceEncoder(sstv.ScottieS1)
	decoder := sstv.NewNullDecoder(sstv.ScottieS1)

	entries := []state.MenuEntry{
		{Label: "Party Mode", Target: "party"},
		{Label: "Image", Target: "image"},
		{Label: "SSTV Encode", Target: "sstv_encode"},
		{Label: "SSTV Decode", Target: "sstv_decode"},
	}

	// The UI stays usable without storage; SSTV transmit reports the
	// failure on screen instead.
	var storage periph.Storage
	if dirStorage, err := periph.NewDirStorage(cfg.Audio.MountDir); err != nil {
		logger.Warn("Storage unavailable, SSTV transmit disabled",
			slog.String("error", err.Error()),
		)
	} else {
		storage = dirStorage
	}

	states := []state.State{
		state.NewStartupState(display, button),
		state.NewMenuState(display, button, rotary, entries),
		state.NewPartyState(display, button),
		state.NewImageDisplayState(display, button, cfg.UI.ImageFile),
		state.NewSSTVEncoderState(display, button, encoder, storage, cfg.UI.ImageFile, "sstv.wav"),
		state.NewSSTVDecoderState(display, button, decoder, periph.StarvedInput{}),
	}

	for _, s := range states {
		if err := machine.AddState(s); err != nil {
			return nil, err
		}
	}

	return machine, nil
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
