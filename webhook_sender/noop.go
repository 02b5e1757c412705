package webhook_sender

import (
	"context"

	"github.com/pvpokemon/pvpokemon/events"
)

var _ Sender = (*NoopSender)(nil)

type NoopSender struct{}

func (sender *NoopSender) AddEvent(events.Event) error   { return nil }
func (sender *NoopSender) Run(ctx context.Context) error { <-ctx.Done(); return nil }
func (sender *NoopSender) Flush()                        {}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}
