package services

import (
	"context"
	"time"

	"pos-service/internal/domain"
	"pos-service/internal/repository"

	"golang.org/x/sync/errgroup"
)

// ShiftPeeker looks up the current shift without opening one.
type ShiftPeeker interface {
	Peek(ctx context.Context) (*domain.Shift, error)
}

type FloorOverview struct {
	Areas       []domain.Area  `json:"areas"`
	Tables      []domain.Table `json:"tables"`
	Orders      []domain.Order `json:"orders"`
	Shift       *domain.Shift  `json:"shift"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

type FloorService struct {
	tables repository.TableRepository
	orders repository.OrderRepository
	shifts ShiftPeeker
}

func NewFloorService(tables repository.TableRepository, orders repository.OrderRepository, shifts ShiftPeeker) *FloorService {
	return &FloorService{tables: tables, orders: orders, shifts: shifts}
}

// Overview loads everything the floor screen shows in parallel.
func (s *FloorService) Overview(ctx context.Context) (*FloorOverview, error) {
	out := &FloorOverview{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		areas, err := s.tables.ListAreas(gctx)
		out.Areas = areas
		return err
	})
	g.Go(func() error {
		tables, err := s.tables.ListTables(gctx)
		out.Tables = tables
		return err
	})
	g.Go(func() error {
		orders, err := s.orders.ListOpen(gctx)
		out.Orders = orders
		return err
	})
	g.Go(func() error {
		shift, err := s.shifts.Peek(gctx)
		out.Shift = shift
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.GeneratedAt = time.Now()
	return out, nil
}
