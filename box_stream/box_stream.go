package box_stream

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pvpokemon/pvpokemon/events"
)

const DEFAULT_LISTENER_BUFFER = 32

// Listener receives the Box.* events of one user.
type Listener struct {
	userId string
	ch     chan events.Event
	done   chan struct{}
}

func (l *Listener) UserId() string {
	return l.userId
}

func (l *Listener) Events() <-chan events.Event {
	return l.ch
}

// Done is closed when the hub shuts down.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

// Hub fans Box.* events out to per-user listeners. Slow listeners don't
// block publishers: events that don't fit in a listener's buffer are
// dropped for that listener.
type Hub struct {
	logger     *logrus.Logger
	bufferSize int

	mutex     sync.Mutex
	listeners map[string]map[*Listener]struct{}
	closed    bool
}

func (hub *Hub) Register(bus *events.Bus) {
	for _, eventType := range []string{events.BOX_ENTRY_ADDED, events.BOX_ENTRY_UPDATED, events.BOX_ENTRY_REMOVED} {
		bus.Subscribe(eventType, "box_stream", hub.HandleEvent)
	}
}

func (hub *Hub) HandleEvent(event events.Event) error {
	payload, ok := event.Payload.(*events.BoxChanged)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for listener := range hub.listeners[payload.UserId] {
		select {
		case listener.ch <- event:
		default:
			hub.logger.Warnf("BOX[%s]: stream listener is behind. Dropped %s event.", payload.UserId, event.Type)
		}
	}

	return nil
}

// Listen adds a listener for 'userId'. The returned func removes it and
// must be called when done.
func (hub *Hub) Listen(userId string) (*Listener, func()) {
	listener := &Listener{
		userId: userId,
		ch:     make(chan events.Event, hub.bufferSize),
		done:   make(chan struct{}),
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	if hub.closed {
		close(listener.done)
		return listener, func() {}
	}

	userListeners := hub.listeners[userId]
	if userListeners == nil {
		userListeners = make(map[*Listener]struct{})
		hub.listeners[userId] = userListeners
	}
	userListeners[listener] = struct{}{}

	var once sync.Once

	return listener, func() {
		once.Do(func() {
			hub.mutex.Lock()
			defer hub.mutex.Unlock()
			hub.remove(listener)
		})
	}
}

func (hub *Hub) remove(listener *Listener) {
	userListeners := hub.listeners[listener.userId]
	if _, ok := userListeners[listener]; !ok {
		return
	}
	delete(userListeners, listener)
	if len(userListeners) == 0 {
		delete(hub.listeners, listener.userId)
	}
	close(listener.done)
}

// NumListeners returns the number of listeners for 'userId'.
func (hub *Hub) NumListeners(userId string) int {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	return len(hub.listeners[userId])
}

// Close signals every listener to finish. Later listeners are done
// immediately.
func (hub *Hub) Close() {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	if hub.closed {
		return
	}
	hub.closed = true

	for _, userListeners := range hub.listeners {
		for listener := range userListeners {
			hub.remove(listener)
		}
	}
}

func NewHub(logger *logrus.Logger, bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = DEFAULT_LISTENER_BUFFER
	}
	return &Hub{
		logger:     logger,
		bufferSize: bufferSize,
		listeners:  make(map[string]map[*Listener]struct{}),
	}
}
