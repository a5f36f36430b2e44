package ports

import "context"

// EventConsumer is the inbound port for message-driven processing triggers.
type EventConsumer interface {
	Listen(ctx context.Context) error
}
