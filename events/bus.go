package events

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

type Handler func(Event) error

type subscription struct {
	name    string
	handler Handler
}

// Bus is an in-process publish/subscribe bus. Handlers run synchronously
// in the publishing goroutine, in the order they subscribed.
type Bus struct {
	logger *logrus.Logger

	mutex         sync.RWMutex
	subscriptions map[string][]subscription
}

// Subscribe adds a handler for 'eventType'. 'name' is only used in logs.
func (bus *Bus) Subscribe(eventType, name string, handler Handler) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	bus.subscriptions[eventType] = append(bus.subscriptions[eventType], subscription{name, handler})
}

// Publish calls every handler for the event's type. A failing or panicking
// handler is logged and the remaining handlers still run.
func (bus *Bus) Publish(event Event) {
	bus.mutex.RLock()
	subs := bus.subscriptions[event.Type]
	bus.mutex.RUnlock()

	for _, sub := range subs {
		if err := bus.callHandler(sub, event); err != nil {
			bus.logger.Warnf("EVENTS[%s]: handler '%s' failed: %v", event.Type, sub.name, err)
		}
	}
}

func (bus *Bus) callHandler(sub subscription, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return sub.handler(event)
}

func NewBus(logger *logrus.Logger) *Bus {
	return &Bus{
		logger:        logger,
		subscriptions: make(map[string][]subscription),
	}
}
