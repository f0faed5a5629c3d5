package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// SensorDHT11 is the only recognized sensor model.
const SensorDHT11 = "DHT11"

// Telemetry transports.
const (
	TransportHTTP = "http"
	TransportMQTT = "mqtt"
)

type Config struct {
	AppEnv            string
	LogLevel          slog.Level
	ConsoleLogEnabled bool

	UpdateInterval time.Duration
	SensorType     string
	DHT11Pin       string

	// Additive corrections applied to raw sensor output.
	TemperatureCalibration float64
	HumidityCalibration    float64

	DisplayEnabled bool
	LCDI2CAddr     uint16

	AdafruitIOEnabled        bool
	AdafruitIOUser           string
	AdafruitIOKey            string
	AdafruitIOUploadInterval time.Duration
	AdafruitIOTransport      string
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	consoleLogStr := strings.TrimSpace(os.Getenv("CONSOLE_LOG_ENABLED"))
	if consoleLogStr == "" {
		consoleLogStr = "y"
	}
	consoleLogEnabled, err := parseToggle("CONSOLE_LOG_ENABLED", consoleLogStr)
	if err != nil {
		return Config{}, err
	}

	updateIntervalStr := strings.TrimSpace(os.Getenv("UPDATE_INTERVAL"))
	if updateIntervalStr == "" {
		updateIntervalStr = "5"
	}
	updateIntervalSec, err := strconv.Atoi(updateIntervalStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid UPDATE_INTERVAL %q (seconds): %w", updateIntervalStr, err)
	}
	if updateIntervalSec <= 0 {
		return Config{}, fmt.Errorf("UPDATE_INTERVAL must be positive, got %d", updateIntervalSec)
	}

	sensorType := strings.TrimSpace(os.Getenv("SENSOR_TYPE"))
	if sensorType == "" {
		sensorType = SensorDHT11
	}

	dht11Pin := strings.TrimSpace(os.Getenv("DHT11_PIN"))
	if dht11Pin == "" {
		dht11Pin = "GPIO4"
	}

	temperatureCalibration, err := parseCalibration("TEMPERATURE_CALIBRATION")
	if err != nil {
		return Config{}, err
	}
	humidityCalibration, err := parseCalibration("HUMIDITY_CALIBRATION")
	if err != nil {
		return Config{}, err
	}

	displayStr := strings.TrimSpace(os.Getenv("DISPLAY_ENABLED"))
	if displayStr == "" {
		displayStr = "n"
	}
	displayEnabled, err := parseToggle("DISPLAY_ENABLED", displayStr)
	if err != nil {
		return Config{}, err
	}

	lcdAddrStr := strings.TrimSpace(os.Getenv("LCD_I2C_ADDR"))
	if lcdAddrStr == "" {
		lcdAddrStr = "0x27"
	}
	lcdAddr, err := strconv.ParseUint(lcdAddrStr, 0, 16)
	if err != nil {
		return Config{}, fmt.Errorf("invalid LCD_I2C_ADDR %q: %w", lcdAddrStr, err)
	}

	aioStr := strings.TrimSpace(os.Getenv("ADAFRUIT_IO_ENABLED"))
	if aioStr == "" {
		aioStr = "n"
	}
	aioEnabled, err := parseToggle("ADAFRUIT_IO_ENABLED", aioStr)
	if err != nil {
		return Config{}, err
	}

	aioUser := strings.TrimSpace(os.Getenv("ADAFRUIT_IO_USER"))
	aioKey := strings.TrimSpace(os.Getenv("ADAFRUIT_IO_KEY"))
	if aioEnabled {
		if aioUser == "" {
			return Config{}, fmt.Errorf("ADAFRUIT_IO_USER is required when ADAFRUIT_IO_ENABLED is set")
		}
		if aioKey == "" {
			return Config{}, fmt.Errorf("ADAFRUIT_IO_KEY is required when ADAFRUIT_IO_ENABLED is set")
		}
	}

	uploadIntervalStr := strings.TrimSpace(os.Getenv("ADAFRUIT_IO_UPLOAD_INTERVAL"))
	if uploadIntervalStr == "" {
		uploadIntervalStr = "5"
	}
	uploadIntervalMin, err := strconv.Atoi(uploadIntervalStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid ADAFRUIT_IO_UPLOAD_INTERVAL %q (minutes): %w", uploadIntervalStr, err)
	}
	if uploadIntervalMin <= 0 {
		return Config{}, fmt.Errorf("ADAFRUIT_IO_UPLOAD_INTERVAL must be positive, got %d", uploadIntervalMin)
	}

	transport := strings.TrimSpace(os.Getenv("ADAFRUIT_IO_TRANSPORT"))
	if transport == "" {
		transport = TransportHTTP
	}
	switch transport {
	case TransportHTTP, TransportMQTT:
	default:
		return Config{}, fmt.Errorf("invalid ADAFRUIT_IO_TRANSPORT %q (allowed: http, mqtt)", transport)
	}

	return Config{
		AppEnv:                   appEnv,
		LogLevel:                 level,
		ConsoleLogEnabled:        consoleLogEnabled,
		UpdateInterval:           time.Duration(updateIntervalSec) * time.Second,
		SensorType:               sensorType,
		DHT11Pin:                 dht11Pin,
		TemperatureCalibration:   temperatureCalibration,
		HumidityCalibration:      humidityCalibration,
		DisplayEnabled:           displayEnabled,
		LCDI2CAddr:               uint16(lcdAddr),
		AdafruitIOEnabled:        aioEnabled,
		AdafruitIOUser:           aioUser,
		AdafruitIOKey:            aioKey,
		AdafruitIOUploadInterval: time.Duration(uploadIntervalMin) * time.Minute,
		AdafruitIOTransport:      transport,
	}, nil
}

func parseCalibration(key string) (float64, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return v, nil
}

// parseToggle accepts the historical y/n toggles alongside the usual
// boolean spellings.
func parseToggle(key, s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1":
		return true, nil
	case "n", "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s %q (allowed: y, n, true, false)", key, s)
	}
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
