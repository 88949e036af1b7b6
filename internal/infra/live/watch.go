package live

import (
	"context"
	"time"
)

type Snapshot struct {
	Topic string    `json:"topic"`
	At    time.Time `json:"at"`
	Data  any       `json:"data"`
}

type Loader func(ctx context.Context) (any, error)

// Subscription is a running live query. Updates is closed after Stop or when
// the context given to Watch ends.
type Subscription struct {
	Initial Snapshot
	Updates <-chan Snapshot
	Stop    func()
}

// Watch loads the query once, then reloads it on every notification for
// topic. A failed reload is skipped; the next notification tries again.
func Watch(ctx context.Context, src Source, topic string, load Loader) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	notes, closeSrc, err := src.Subscribe(ctx, topic)
	if err != nil {
		cancel()
		return nil, err
	}

	data, err := load(ctx)
	if err != nil {
		cancel()
		closeSrc()
		return nil, err
	}

	updates := make(chan Snapshot)
	go func() {
		defer close(updates)
		defer closeSrc()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-notes:
				if !ok {
					return
				}
				data, err := load(ctx)
				if err != nil {
					continue
				}
				select {
				case updates <- Snapshot{Topic: topic, At: time.Now(), Data: data}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		Initial: Snapshot{Topic: topic, At: time.Now(), Data: data},
		Updates: updates,
		Stop:    cancel,
	}, nil
}
