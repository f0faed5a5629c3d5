package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"airmonitor/internal/aio"
	"airmonitor/internal/sensor"
)

type fakeFeedStore struct {
	existing  map[string]aio.Feed
	lookupErr map[string]error
	created   []string
}

func (f *fakeFeedStore) Feed(_ context.Context, name string) (aio.Feed, bool, error) {
	if err := f.lookupErr[name]; err != nil {
		return aio.Feed{}, false, err
	}
	feed, ok := f.existing[name]
	return feed, ok, nil
}

func (f *fakeFeedStore) CreateFeed(_ context.Context, name string) (aio.Feed, error) {
	f.created = append(f.created, name)
	feed := aio.Feed{Key: name, Name: name}
	f.existing[name] = feed
	return feed, nil
}

type send struct {
	feedKey string
	value   string
}

type fakeSender struct {
	sends    []send
	failKeys map[string]bool
}

func (f *fakeSender) Send(_ context.Context, feedKey, value string) error {
	f.sends = append(f.sends, send{feedKey: feedKey, value: value})
	if f.failKeys[feedKey] {
		return fmt.Errorf("send %s failed", feedKey)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func allFeeds() map[string]aio.Feed {
	return map[string]aio.Feed{
		"fahrenheit": {Key: "fahrenheit", Name: "fahrenheit"},
		"celsius":    {Key: "celsius", Name: "celsius"},
		"humidity":   {Key: "humidity", Name: "humidity"},
	}
}

var reading = sensor.Reading{Celsius: "22.5", Fahrenheit: "72.5", Humidity: "49"}

func TestPublish_allFeedsExist(t *testing.T) {
	feeds := &fakeFeedStore{existing: allFeeds()}
	sender := &fakeSender{}
	NewPublisher(feeds, sender, discardLogger()).Publish(context.Background(), reading)

	want := []send{
		{feedKey: "fahrenheit", value: "72.5"},
		{feedKey: "celsius", value: "22.5"},
		{feedKey: "humidity", value: "49"},
	}
	if len(sender.sends) != len(want) {
		t.Fatalf("got %d sends, want %d: %+v", len(sender.sends), len(want), sender.sends)
	}
	for i, w := range want {
		if sender.sends[i] != w {
			t.Errorf("sends[%d] = %+v, want %+v", i, sender.sends[i], w)
		}
	}
	if len(feeds.created) != 0 {
		t.Errorf("created = %v, want none", feeds.created)
	}
}

func TestPublish_missingFeedIsCreatedThenSentOnce(t *testing.T) {
	existing := allFeeds()
	delete(existing, "humidity")
	feeds := &fakeFeedStore{existing: existing}
	sender := &fakeSender{}
	NewPublisher(feeds, sender, discardLogger()).Publish(context.Background(), reading)

	if len(feeds.created) != 1 || feeds.created[0] != "humidity" {
		t.Errorf("created = %v, want [humidity]", feeds.created)
	}

	var humiditySends int
	for _, s := range sender.sends {
		if s.feedKey == "humidity" {
			humiditySends++
			if s.value != "49" {
				t.Errorf("humidity value = %q, want %q", s.value, "49")
			}
		}
	}
	if humiditySends != 1 {
		t.Errorf("humidity sends = %d, want exactly 1", humiditySends)
	}
}

func TestPublish_sendFailureIsIsolated(t *testing.T) {
	feeds := &fakeFeedStore{existing: allFeeds()}
	sender := &fakeSender{failKeys: map[string]bool{"celsius": true}}
	NewPublisher(feeds, sender, discardLogger()).Publish(context.Background(), reading)

	attempted := map[string]bool{}
	for _, s := range sender.sends {
		attempted[s.feedKey] = true
	}
	for _, name := range []string{"fahrenheit", "celsius", "humidity"} {
		if !attempted[name] {
			t.Errorf("feed %s was not attempted", name)
		}
	}
}

func TestPublish_lookupFailureIsIsolated(t *testing.T) {
	feeds := &fakeFeedStore{
		existing:  allFeeds(),
		lookupErr: map[string]error{"fahrenheit": fmt.Errorf("lookup failed")},
	}
	sender := &fakeSender{}
	NewPublisher(feeds, sender, discardLogger()).Publish(context.Background(), reading)

	if len(sender.sends) != 2 {
		t.Fatalf("got %d sends, want 2 (celsius, humidity): %+v", len(sender.sends), sender.sends)
	}
	if sender.sends[0].feedKey != "celsius" || sender.sends[1].feedKey != "humidity" {
		t.Errorf("sends = %+v, want celsius then humidity", sender.sends)
	}
}
