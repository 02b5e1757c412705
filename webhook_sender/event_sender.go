package webhook_sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pvpokemon/pvpokemon/events"
)

var _ Sender = (*EventSender)(nil)

type Sender interface {
	AddEvent(events.Event) error
	Run(ctx context.Context) error
	Flush()
}

// Register queues every Box.* event published on 'bus' to 'sender'.
func Register(bus *events.Bus, sender Sender) {
	for _, eventType := range []string{events.BOX_ENTRY_ADDED, events.BOX_ENTRY_UPDATED, events.BOX_ENTRY_REMOVED} {
		bus.Subscribe(eventType, "webhooks", sender.AddEvent)
	}
}

type webhookDestination struct {
	logger     *logrus.Logger
	config     WebhookConfig
	eventTypes map[string]struct{}
	httpClient *http.Client
}

func (dest *webhookDestination) sendEvents(ctx context.Context, evs []events.Event) error {
	var buf bytes.Buffer

	evs = dest.filterEvents(evs)
	if len(evs) == 0 {
		return nil
	}

	dest.logger.Infof("EventSender: sending %d event(s) to '%s'", len(evs), dest.config.Url)

	encoder := json.NewEncoder(&buf)
	err := encoder.Encode(evs)
	if err != nil {
		return fmt.Errorf("couldn't json encode events: %w", err)
	}

	url := dest.config.Url

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return fmt.Errorf("couldn't create webhook request to '%s': %w", url, err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range dest.config.HeadersAsMap() {
		req.Header.Set(k, v)
	}

	resp, err := dest.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make webhook request to '%s': %w", url, err)
	}

	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook '%s' returned http status %d", url, resp.StatusCode)
	}

	return nil
}

func (dest *webhookDestination) filterEvents(evs []events.Event) []events.Event {
	if len(dest.eventTypes) == 0 {
		return evs
	}
	filtered := make([]events.Event, 0, len(evs))
	for _, ev := range evs {
		if _, ok := dest.eventTypes[ev.Type]; ok {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}

// EventSender collects events and posts them to every configured webhook
// in batches. Delivery is best effort: failed batches are logged and
// dropped.
type EventSender struct {
	logger *logrus.Logger

	flushInterval time.Duration
	timeout       time.Duration
	retries       int
	retryDelay    time.Duration

	mutex        sync.Mutex
	queue        []events.Event
	destinations []*webhookDestination

	onSent func(int)
}

func (sender *EventSender) popEvents() []events.Event {
	sender.mutex.Lock()
	defer sender.mutex.Unlock()
	evs := sender.queue
	sender.queue = nil
	return evs
}

func (sender *EventSender) AddEvent(event events.Event) error {
	sender.mutex.Lock()
	sender.queue = append(sender.queue, event)
	sender.mutex.Unlock()
	return nil
}

// sleepContext waits for 'dur' unless 'ctx' is done first.
func sleepContext(ctx context.Context, dur time.Duration) error {
	timer := time.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-timer.C:
		return nil
	}
}

func (sender *EventSender) sendWithRetries(ctx context.Context, destination *webhookDestination, evs []events.Event) error {
	err := destination.sendEvents(ctx, evs)
	for attempt := 1; err != nil && attempt <= sender.retries; attempt++ {
		sender.logger.Debugf("EventSender: retry %d/%d for '%s' after: %v", attempt, sender.retries, destination.config.Url, err)
		if sleepErr := sleepContext(ctx, sender.retryDelay*time.Duration(attempt)); sleepErr != nil {
			return fmt.Errorf("%w (gave up retrying: %v)", err, sleepErr)
		}
		err = destination.sendEvents(ctx, evs)
	}
	return err
}

// Flush will send the collected events. This is meant to be used after
// the web server has been shut down and before the program exits.
func (sender *EventSender) Flush() {
	var wg sync.WaitGroup

	evs := sender.popEvents()
	if len(evs) == 0 {
		return
	}

	ctx := context.Background()
	if sender.timeout > 0 {
		var cancelFn context.CancelFunc
		ctx, cancelFn = context.WithTimeout(ctx, sender.timeout)
		defer cancelFn()
	}

	for _, destination := range sender.destinations {
		wg.Add(1)
		go func(destination *webhookDestination) {
			defer wg.Done()
			if err := sender.sendWithRetries(ctx, destination, evs); err != nil {
				sender.logger.Warnf("EventSender: %v", err)
			}
		}(destination)
	}
	wg.Wait()

	if sender.onSent != nil {
		sender.onSent(len(evs))
	}
}

// Run will monitor the queue and send in bulk every flush interval.
// This blocks until `ctx` is cancelled.
func (sender *EventSender) Run(ctx context.Context) error {
	ticker := time.NewTicker(sender.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sender.logger.Infof("EventSender: asked to shut down. Flushing events...")
			sender.Flush()
			sender.logger.Infof("EventSender: done flushing events...")
			return nil
		case <-ticker.C:
			go sender.Flush()
		}
	}
}

// NewEventSender creates an EventSender. 'onSent', if not nil, is called
// with the size of every flushed batch.
func NewEventSender(logger *logrus.Logger, webhooks WebhooksConfig, settings SettingsConfig, onSent func(int)) (*EventSender, error) {
	if err := webhooks.Validate(); err != nil {
		return nil, err
	}

	flushInterval := settings.FlushInterval()
	if flushInterval <= 0 {
		flushInterval = time.Second
	}

	destinations := make([]*webhookDestination, len(webhooks))
	for idx, webhookCfg := range webhooks {
		eventTypes := make(map[string]struct{}, len(webhookCfg.EventTypes))
		for _, eventType := range webhookCfg.EventTypes {
			eventTypes[eventType] = struct{}{}
		}
		destinations[idx] = &webhookDestination{
			logger:     logger,
			config:     webhookCfg,
			eventTypes: eventTypes,
			httpClient: &http.Client{},
		}
	}

	logger.Infof("EventSender: Added %d webhook destination(s)", len(destinations))

	sender := &EventSender{
		logger:        logger,
		flushInterval: flushInterval,
		timeout:       settings.Timeout(),
		retries:       settings.Retries,
		retryDelay:    settings.RetryDelay(),
		destinations:  destinations,
		onSent:        onSent,
	}

	return sender, nil
}
