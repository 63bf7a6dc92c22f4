package publisher

import (
	"context"
	"fmt"

	"github.com/Carbonhell/SmartDisplay/internal/repository"
)

type QoS int

const (
	QoSAtMostOnce  QoS = 0
	QoSAtLeastOnce QoS = 1
)

func (q QoS) Validate() error {
	if q != QoSAtMostOnce && q != QoSAtLeastOnce {
		return fmt.Errorf("unsupported qos %d", q)
	}
	return nil
}

type Options struct {
	// Retain asks the broker to keep the last message so late subscribers get it.
	Retain bool
	QoS    QoS
}

type Publisher interface {
	// Publish sends events as one JSON array to topic. The topic is the plain
	// name; transport encoding is the implementation's job.
	Publish(ctx context.Context, topic string, events []repository.Event, opts Options) error
}
