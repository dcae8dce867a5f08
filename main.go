// Command touchless-console runs the touchless button console: it polls the
// proximity sensors, reports button events to the host over serial and keeps
// the LED zones in step.
//
// Usage:
//
//	touchless-console [flags]
//
// Flags:
//
//	-config string     Configuration file path
//	-log-level string  Log level: debug, info, warn, error (overrides the file)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"touchless-console/capture"
	"touchless-console/clock"
	"touchless-console/config"
	"touchless-console/controller"
	"touchless-console/lights"
	"touchless-console/node"
	"touchless-console/poll"
	"touchless-console/sensor"
	"touchless-console/serialport"
	"touchless-console/types"
)

var (
	configFile string
	logLevel   string
)

func init() {
	flag.StringVar(&configFile, "config", "", "Configuration file path")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// strip is what the console needs from an LED driver plus shutdown.
type strip interface {
	lights.Strip
	io.Closer
}

func main() {
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger, err := types.NewLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Console stopped: %v", err)
	}
	logger.Info("Console shut down")
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	logger.WithFields(logrus.Fields{
		"console":  node.GetNodeName(),
		"port":     cfg.Serial.Port,
		"baud":     cfg.Serial.Baud,
		"channels": len(cfg.Channels),
	}).Info("Starting touchless console")

	settings, err := controller.FromConfig(cfg)
	if err != nil {
		return err
	}

	link, err := serialport.Open(cfg.Serial.Port, cfg.Serial.Baud, logger)
	if err != nil {
		return err
	}
	defer link.Close()
	link.Start(ctx)

	reader, sim, closeSensor, err := openSensor(cfg.Sensor)
	if err != nil {
		return err
	}
	defer closeSensor()

	leds, err := openStrip(cfg.LEDs, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := leds.Clear(); err != nil {
			logger.WithError(err).Warn("Failed to clear LEDs")
		}
		if err := leds.Close(); err != nil {
			logger.WithError(err).Warn("Error closing LED strip")
		}
	}()

	var trace *capture.Recorder
	if cfg.Trace.File != "" {
		trace, err = capture.OpenFile(cfg.Trace.File)
		if err != nil {
			return err
		}
		defer trace.Close()
		logger.WithField("file", cfg.Trace.File).Info("Capturing protocol traffic")
	}

	console, err := controller.New(settings, controller.Deps{
		Clock:  clock.NewSystem(),
		Source: link,
		Link:   link,
		Sensor: reader,
		Strip:  leds,
		Sim:    sim,
		Trace:  trace,
		Log:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to build console: %w", err)
	}

	loop := poll.NewLoop(console, cfg.Timing.Tick(), cfg.Timing.StartupDelay(), logger)
	return loop.Run(ctx)
}

// openSensor returns the configured reader. sim is non-nil only for the
// simulated driver.
func openSensor(sc config.SensorConfig) (reader sensor.Reader, sim *sensor.Sim, closeFn func(), err error) {
	switch sc.Driver {
	case config.SensorMCP3008:
		adc, err := sensor.OpenMCP3008(uint8(sc.ChipSelect))
		if err != nil {
			return nil, nil, nil, err
		}
		return adc, nil, func() { adc.Close() }, nil
	case config.SensorSim:
		sim := sensor.NewSim(sc.SimDefault)
		return sim, sim, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown sensor driver %q", sc.Driver)
	}
}

func openStrip(lc config.LEDConfig, logger logrus.FieldLogger) (strip, error) {
	switch lc.Driver {
	case config.LEDSerial:
		return lights.NewSerialStrip(lc.Port, lc.Baud), nil
	case config.LEDMemory:
		return lights.NewMemoryStrip(lc.Pixels, logger), nil
	default:
		return nil, fmt.Errorf("unknown led driver %q", lc.Driver)
	}
}
