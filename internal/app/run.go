package app

import (
	"context"
	"fmt"
	"log/slog"

	"airmonitor/internal/aio"
	"airmonitor/internal/config"
	"airmonitor/internal/display"
	"airmonitor/internal/monitor"
	"airmonitor/internal/sensor"
	"airmonitor/internal/telemetry"
)

// Run wires the sensor, display and telemetry collaborators together and
// runs the monitor loop until ctx is cancelled. Acquired hardware is
// released on the way out even when an error escapes the loop.
func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"updateInterval", cfg.UpdateInterval,
		"sensorType", cfg.SensorType,
		"dht11Pin", cfg.DHT11Pin,
		"displayEnabled", cfg.DisplayEnabled,
		"adafruitIOEnabled", cfg.AdafruitIOEnabled,
		"adafruitIOTransport", cfg.AdafruitIOTransport,
		"adafruitIOUploadInterval", cfg.AdafruitIOUploadInterval,
	)

	var driver sensor.Driver
	switch cfg.SensorType {
	case config.SensorDHT11:
		d, err := sensor.NewDHT11(cfg.DHT11Pin)
		if err != nil {
			return fmt.Errorf("sensor setup: %w", err)
		}
		driver = d
	default:
		return fmt.Errorf("unrecognized sensor type %q", cfg.SensorType)
	}

	reader := sensor.NewReader(driver, sensor.Offsets{
		Temperature: cfg.TemperatureCalibration,
		Humidity:    cfg.HumidityCalibration,
	})

	var disp display.Display
	if cfg.DisplayEnabled {
		lcd, err := display.OpenLCD(cfg.LCDI2CAddr)
		if err != nil {
			return fmt.Errorf("display setup: %w", err)
		}
		defer func() {
			if err := lcd.Close(); err != nil {
				slog.Error("display close", "error", err)
			}
		}()
		disp = lcd
	}

	var publisher monitor.Publisher
	if cfg.AdafruitIOEnabled {
		client := aio.NewClient(cfg.AdafruitIOUser, cfg.AdafruitIOKey)

		var sender telemetry.Sender = client
		if cfg.AdafruitIOTransport == config.TransportMQTT {
			mqttSender := aio.NewMQTTSender(cfg.AdafruitIOUser, cfg.AdafruitIOKey, "airmonitor")
			if err := mqttSender.Connect(ctx); err != nil {
				return fmt.Errorf("mqtt setup: %w", err)
			}
			defer mqttSender.Close()
			sender = mqttSender
		}

		publisher = telemetry.NewPublisher(client, sender, slog.Default())
	}

	m := monitor.New(monitor.Options{
		Sampler:        reader,
		Display:        disp,
		Publisher:      publisher,
		Throttle:       telemetry.NewThrottle(cfg.AdafruitIOUploadInterval),
		UpdateInterval: cfg.UpdateInterval,
		Logger:         slog.Default(),
	})

	return m.Run(ctx)
}
