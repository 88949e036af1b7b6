package shift

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/domain"
	"pos-service/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const resolveTimeout = 10 * time.Second

type Resolver struct {
	repo    repository.ShiftRepository
	windows []Window
	loc     *time.Location
	now     func() time.Time
	group   singleflight.Group

	// OnCreated runs after this resolver inserted a new shift record.
	OnCreated func(ctx context.Context, s *domain.Shift)
}

type Option func(*Resolver)

func WithWindows(w []Window) Option { return func(r *Resolver) { r.windows = w } }

func WithLocation(loc *time.Location) Option { return func(r *Resolver) { r.loc = loc } }

func WithClock(now func() time.Time) Option { return func(r *Resolver) { r.now = now } }

func NewResolver(repo repository.ShiftRepository, opts ...Option) *Resolver {
	r := &Resolver{
		repo:    repo,
		windows: DefaultWindows,
		loc:     time.Local,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Current returns the shift for the current time, creating its record on
// first use. It returns nil, nil while no window is open.
func (r *Resolver) Current(ctx context.Context) (*domain.Shift, error) {
	return r.Resolve(ctx, r.now())
}

// Resolve is Current for an explicit instant.
func (r *Resolver) Resolve(ctx context.Context, at time.Time) (*domain.Shift, error) {
	local := at.In(r.loc)
	w, ok := WindowAt(r.windows, local)
	if !ok {
		return nil, nil
	}
	dateKey := DateKey(local)

	// The shared lookup outlives any single caller; each caller still stops
	// waiting when its own ctx ends.
	ch := r.group.DoChan(dateKey+"|"+string(w.Type), func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), resolveTimeout)
		defer cancel()
		return r.getOrCreate(shared, dateKey, w)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		s := *res.Val.(*domain.Shift)
		return &s, nil
	}
}

// Peek looks the current shift up without creating it.
func (r *Resolver) Peek(ctx context.Context) (*domain.Shift, error) {
	local := r.now().In(r.loc)
	w, ok := WindowAt(r.windows, local)
	if !ok {
		return nil, nil
	}
	return r.repo.FindByWindow(ctx, DateKey(local), w.Type)
}

// List returns every shift, most recent first.
func (r *Resolver) List(ctx context.Context) ([]domain.Shift, error) {
	return r.repo.List(ctx)
}

func (r *Resolver) getOrCreate(ctx context.Context, dateKey string, w Window) (*domain.Shift, error) {
	existing, err := r.repo.FindByWindow(ctx, dateKey, w.Type)
	if err != nil {
		return nil, fmt.Errorf("find shift %s %s: %w", dateKey, w.Type, err)
	}
	if existing != nil {
		return existing, nil
	}

	rec, err := NewRecord(dateKey, w, r.loc)
	if err != nil {
		return nil, err
	}
	rec.TotalRevenue = decimal.Zero

	stored, created, err := r.repo.CreateIfAbsent(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("create shift %s %s: %w", dateKey, w.Type, err)
	}
	if created {
		logrus.WithFields(logrus.Fields{
			"shift_id": stored.ID,
			"date":     dateKey,
			"type":     w.Type,
		}).Info("shift opened")
		if r.OnCreated != nil {
			r.OnCreated(ctx, stored)
		}
	}
	return stored, nil
}
