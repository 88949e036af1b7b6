// Package live turns change notifications into live queries: a subscriber
// gets the current value of a query immediately and again after every change.
package live

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	TopicFloor  = "floor"
	TopicOrders = "orders"
	TopicShifts = "shifts"
)

// Notifier announces that data behind a topic changed.
type Notifier interface {
	Notify(ctx context.Context, topic string, payload any) error
}

// Source delivers raw change notifications for a topic until cancel is called.
type Source interface {
	Subscribe(ctx context.Context, topic string) (<-chan string, func() error, error)
}

// Feed implements Notifier and Source over redis Pub/Sub.
type Feed struct {
	rdb    *redis.Client
	prefix string
}

func NewFeed(rdb *redis.Client, prefix string) *Feed {
	return &Feed{rdb: rdb, prefix: prefix}
}

func (f *Feed) channel(topic string) string { return f.prefix + ":" + topic }

func (f *Feed) Notify(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return f.rdb.Publish(ctx, f.channel(topic), data).Err()
}

func (f *Feed) Subscribe(ctx context.Context, topic string) (<-chan string, func() error, error) {
	ps := f.rdb.Subscribe(ctx, f.channel(topic))
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, nil, err
	}

	out := make(chan string)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			select {
			case out <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, ps.Close, nil
}

// NopNotifier is used when no redis is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, any) error { return nil }

// NotifyQuietly logs instead of returning: live updates are best effort.
func NotifyQuietly(ctx context.Context, n Notifier, topic string, payload any) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, topic, payload); err != nil {
		logrus.WithField("topic", topic).WithError(err).Warn("live notify failed")
	}
}
