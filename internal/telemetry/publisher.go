package telemetry

import (
	"context"
	"log/slog"

	"airmonitor/internal/aio"
	"airmonitor/internal/sensor"
)

// feedNames is the fixed publish order for a reading's metrics.
var feedNames = [...]string{"fahrenheit", "celsius", "humidity"}

// FeedStore resolves and provisions named feeds.
type FeedStore interface {
	Feed(ctx context.Context, name string) (aio.Feed, bool, error)
	CreateFeed(ctx context.Context, name string) (aio.Feed, error)
}

// Sender appends a value to a feed.
type Sender interface {
	Send(ctx context.Context, feedKey, value string) error
}

// Publisher pushes readings to named feeds, creating each feed on first
// use. A failure on one feed is logged and does not stop the remaining
// feeds; nothing is retried within a pass.
type Publisher struct {
	feeds  FeedStore
	sender Sender
	logger *slog.Logger
}

func NewPublisher(feeds FeedStore, sender Sender, logger *slog.Logger) *Publisher {
	return &Publisher{feeds: feeds, sender: sender, logger: logger}
}

// Publish sends all three metric values of r.
func (p *Publisher) Publish(ctx context.Context, r sensor.Reading) {
	values := map[string]string{
		"fahrenheit": r.Fahrenheit,
		"celsius":    r.Celsius,
		"humidity":   r.Humidity,
	}

	for _, name := range feedNames {
		if err := p.publishValue(ctx, name, values[name]); err != nil {
			p.logger.Error("feed upload failed", "feed", name, "error", err)
		}
	}
}

func (p *Publisher) publishValue(ctx context.Context, name, value string) error {
	feed, found, err := p.feeds.Feed(ctx, name)
	if err != nil {
		return err
	}
	if !found {
		feed, err = p.feeds.CreateFeed(ctx, name)
		if err != nil {
			return err
		}
		p.logger.Info("created feed", "feed", name, "key", feed.Key)
	}
	return p.sender.Send(ctx, feed.Key, value)
}
