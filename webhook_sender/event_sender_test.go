package webhook_sender

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logrus_test "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pvpokemon/pvpokemon/db_store"
	"github.com/pvpokemon/pvpokemon/events"
)

type receivedBatch struct {
	header http.Header
	events []map[string]any
}

type testReceiver struct {
	mutex   sync.Mutex
	batches []receivedBatch
	status  int
}

func (recv *testReceiver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	var evs []map[string]any
	json.Unmarshal(body, &evs)

	recv.mutex.Lock()
	recv.batches = append(recv.batches, receivedBatch{r.Header.Clone(), evs})
	status := recv.status
	recv.mutex.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
}

func (recv *testReceiver) Batches() []receivedBatch {
	recv.mutex.Lock()
	defer recv.mutex.Unlock()
	return append([]receivedBatch(nil), recv.batches...)
}

func TestEventSenderFlush(t *testing.T) {
	all := &testReceiver{}
	allServer := httptest.NewServer(all)
	defer allServer.Close()

	removals := &testReceiver{}
	removalsServer := httptest.NewServer(removals)
	defer removalsServer.Close()

	logger, _ := logrus_test.NewNullLogger()

	var sent []int
	sender, err := NewEventSender(logger, WebhooksConfig{
		{Url: allServer.URL, Headers: []string{"X-Token: abc:def"}},
		{Url: removalsServer.URL, EventTypes: []string{events.BOX_ENTRY_REMOVED}},
	}, GetDefaultSettingsConfig(), func(n int) { sent = append(sent, n) })
	require.NoError(t, err)

	bus := events.NewBus(logger)
	Register(bus, sender)

	box := []db_store.BoxEntry{{Sprite: "a.png", CP: 5}}
	bus.Publish(events.NewBoxEntryAdded("ash", box))
	bus.Publish(events.NewBoxEntryRemoved("ash", 0, box[0], nil))

	sender.Flush()

	batches := all.Batches()
	require.Len(t, batches, 1)
	require.Len(t, batches[0].events, 2)
	assert.Equal(t, events.BOX_ENTRY_ADDED, batches[0].events[0]["event_type"])
	assert.Equal(t, events.BOX_ENTRY_REMOVED, batches[0].events[1]["event_type"])
	assert.Equal(t, "abc:def", batches[0].header.Get("X-Token"))
	assert.Equal(t, "application/json", batches[0].header.Get("Content-Type"))

	payload := batches[0].events[0]["payload"].(map[string]any)
	assert.Equal(t, "ash", payload["user_id"])
	assert.Equal(t, "add", payload["action"])

	batches = removals.Batches()
	require.Len(t, batches, 1)
	require.Len(t, batches[0].events, 1)
	assert.Equal(t, events.BOX_ENTRY_REMOVED, batches[0].events[0]["event_type"])

	assert.Equal(t, []int{2}, sent)

	// nothing queued, nothing sent.
	sender.Flush()
	assert.Len(t, all.Batches(), 1)
	assert.Equal(t, []int{2}, sent)
}

func TestEventSenderLogsFailures(t *testing.T) {
	recv := &testReceiver{status: http.StatusInternalServerError}
	server := httptest.NewServer(recv)
	defer server.Close()

	logger, hook := logrus_test.NewNullLogger()

	settings := GetDefaultSettingsConfig()
	settings.Retries = 1
	settings.RetryDelayMs = 1

	sender, err := NewEventSender(logger, WebhooksConfig{{Url: server.URL}}, settings, nil)
	require.NoError(t, err)

	sender.AddEvent(events.NewBoxEntryUpdated("ash", 0, nil))
	sender.Flush()

	// first attempt plus one retry
	require.Len(t, recv.Batches(), 2)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Contains(t, entry.Message, "returned http status 500")
}

type flakyReceiver struct {
	testReceiver
	failures int
}

func (recv *flakyReceiver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	recv.mutex.Lock()
	if recv.failures > 0 {
		recv.failures--
		recv.status = http.StatusServiceUnavailable
	} else {
		recv.status = http.StatusOK
	}
	recv.mutex.Unlock()
	recv.testReceiver.ServeHTTP(w, r)
}

func TestEventSenderRetries(t *testing.T) {
	recv := &flakyReceiver{failures: 2}
	server := httptest.NewServer(recv)
	defer server.Close()

	logger, hook := logrus_test.NewNullLogger()

	settings := GetDefaultSettingsConfig()
	settings.Retries = 2
	settings.RetryDelayMs = 1

	sender, err := NewEventSender(logger, WebhooksConfig{{Url: server.URL}}, settings, nil)
	require.NoError(t, err)

	sender.AddEvent(events.NewBoxEntryAdded("ash", nil))
	sender.Flush()

	assert.Len(t, recv.Batches(), 3)
	for _, entry := range hook.AllEntries() {
		assert.NotEqual(t, logrus.WarnLevel, entry.Level, entry.Message)
	}
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancelFn := context.WithCancel(context.Background())
	cancelFn()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}

func TestEventSenderRunFlushesOnShutdown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	recv := &testReceiver{}
	server := httptest.NewServer(recv)
	defer server.Close()

	logger, _ := logrus_test.NewNullLogger()

	settings := GetDefaultSettingsConfig()
	settings.FlushIntervalSeconds = 3600

	sender, err := NewEventSender(logger, WebhooksConfig{{Url: server.URL}}, settings, nil)
	require.NoError(t, err)

	ctx, cancelFn := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- sender.Run(ctx) }()

	sender.AddEvent(events.NewBoxEntryAdded("ash", nil))
	cancelFn()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run didn't return after cancel")
	}

	assert.Len(t, recv.Batches(), 1)
}

func TestWebhookConfigValidate(t *testing.T) {
	assert.NoError(t, (&WebhookConfig{Url: "https://example.com/hook"}).Validate())
	assert.Error(t, (&WebhookConfig{Url: "ftp://example.com/hook"}).Validate())
	assert.Error(t, (&WebhookConfig{Url: "http://example.com", Headers: []string{"nocolon"}}).Validate())

	_, err := NewEventSender(nil, WebhooksConfig{{Url: "example.com"}}, GetDefaultSettingsConfig(), nil)
	assert.Error(t, err)

	assert.Error(t, SettingsConfig{FlushIntervalSeconds: 0}.Validate())
	assert.Error(t, SettingsConfig{FlushIntervalSeconds: 1, Retries: -1}.Validate())
	assert.NoError(t, GetDefaultSettingsConfig().Validate())
}
