package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/divyansh89532/SentinalAI/internal/core/domain"
	"github.com/divyansh89532/SentinalAI/internal/core/ports"
)

type NatsConsumerAdapter struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	log     *logrus.Logger
	handler func(ctx context.Context, videoID string) error
}

type processEvent struct {
	VideoID string `json:"video_id"`
}

func NewNatsConsumerAdapter(url string, log *logrus.Logger, handler func(ctx context.Context, videoID string) error) (ports.EventConsumer, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("getting JetStream context: %w", err)
	}

	return &NatsConsumerAdapter{nc: nc, js: js, log: log, handler: handler}, nil
}

// Listen subscribes to the processing-request subject. A conflict means
// another worker already owns the video, so the message is acked rather
// than redelivered forever.
func (a *NatsConsumerAdapter) Listen(ctx context.Context) error {
	sub, err := a.js.Subscribe("video.process", func(m *nats.Msg) {
		var event processEvent
		if err := json.Unmarshal(m.Data, &event); err != nil {
			a.log.WithField("error", err.Error()).Error("unmarshaling process event")
			m.Term()
			return
		}

		a.log.WithField("video_id", event.VideoID).Info("received processing event")

		if err := a.handler(ctx, event.VideoID); err != nil {
			if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
				a.log.WithFields(logrus.Fields{
					"video_id": event.VideoID,
					"error":    err.Error(),
				}).Warn("dropping processing event")
				m.Ack()
				return
			}
			a.log.WithFields(logrus.Fields{
				"video_id": event.VideoID,
				"error":    err.Error(),
			}).Error("handling processing event")
			m.Nak()
			return
		}

		m.Ack()
	}, nats.Durable("video-worker"), nats.ManualAck())

	if err != nil {
		return fmt.Errorf("subscribing to NATS: %w", err)
	}

	a.log.WithField("subject", sub.Subject).Info("listening for processing events")
	return nil
}
