package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"airmonitor/internal/display"
	"airmonitor/internal/sensor"
	"airmonitor/internal/telemetry"
)

// Sampler produces calibrated readings.
type Sampler interface {
	Sample() (sensor.Reading, error)
}

// Publisher uploads a reading to the telemetry service.
type Publisher interface {
	Publish(ctx context.Context, r sensor.Reading)
}

// Options configures a Monitor. Display and Publisher are nil when the
// corresponding feature is disabled.
type Options struct {
	Sampler        Sampler
	Display        display.Display
	Publisher      Publisher
	Throttle       *telemetry.Throttle
	UpdateInterval time.Duration
	Logger         *slog.Logger
	Now            func() time.Time // defaults to time.Now
}

// Monitor runs the sample/report/display/upload cycle. It owns the last
// successful reading; a failed sample leaves it untouched.
type Monitor struct {
	sampler        Sampler
	display        display.Display
	publisher      Publisher
	throttle       *telemetry.Throttle
	updateInterval time.Duration
	logger         *slog.Logger
	now            func() time.Time

	last *sensor.Reading
}

func New(opts Options) *Monitor {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Monitor{
		sampler:        opts.Sampler,
		display:        opts.Display,
		publisher:      opts.Publisher,
		throttle:       opts.Throttle,
		updateInterval: opts.UpdateInterval,
		logger:         opts.Logger,
		now:            now,
	}
}

// Run iterates until ctx is cancelled. Cancellation is checked only
// between iterations, at the sleep boundary; an iteration in progress
// always finishes.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	for {
		m.Iterate(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Iterate runs one sampling cycle.
func (m *Monitor) Iterate(ctx context.Context) {
	if reading, err := m.sampler.Sample(); err != nil {
		m.logger.Error("sensor read failed", "error", err)
	} else {
		m.last = &reading
	}

	m.report()

	if m.display != nil {
		m.updateDisplay()
	}

	if m.publisher != nil && m.last != nil {
		now := m.now()
		if m.throttle.MayUpload(now) {
			m.publisher.Publish(ctx, *m.last)
			m.throttle.RecordAttempt(now)
		}
	}
}

func (m *Monitor) report() {
	if m.last == nil {
		m.logger.Info("no reading yet")
		return
	}
	m.logger.Info("reading",
		"celsius", m.last.Celsius,
		"fahrenheit", m.last.Fahrenheit,
		"humidity", m.last.Humidity,
	)
}

func (m *Monitor) updateDisplay() {
	if err := m.display.Clear(); err != nil {
		m.logger.Error("display clear failed", "error", err)
		return
	}
	if err := m.display.DisplayLine(m.now().Format("01/02 15:04:05"), 1); err != nil {
		m.logger.Error("display write failed", "line", 1, "error", err)
	}
	if m.last == nil {
		return
	}
	line := fmt.Sprintf("T|%sF H|%s%%", m.last.Fahrenheit, m.last.Humidity)
	if err := m.display.DisplayLine(line, 2); err != nil {
		m.logger.Error("display write failed", "line", 2, "error", err)
	}
}
