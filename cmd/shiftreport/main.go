// Command shiftreport prints recorded shifts and their revenue.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"strconv"
	"time"

	"pos-service/internal/config"
	"pos-service/internal/domain"
	"pos-service/internal/infra/database"
	"pos-service/internal/logging"
	"pos-service/internal/money"
	mysqlrepo "pos-service/internal/repository/mysql"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		date  = flag.String("date", "", "only show shifts of this day (YYYY-MM-DD)")
		limit = flag.Int("limit", 0, "maximum number of shifts to print, 0 for all")
	)
	flag.Parse()

	cfg := config.Load()
	logging.New(cfg.LogLevel, cfg.LogFormat)

	gdb, err := database.Open(cfg.DB)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shifts, err := mysqlrepo.NewShiftRepository(gdb).List(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("failed to list shifts")
	}

	shifts = filter(shifts, *date, *limit)
	if err := writeReport(os.Stdout, shifts, money.ParseCurrency(cfg.Currency), cfg.Location()); err != nil {
		logrus.WithError(err).Fatal("failed to render report")
	}
}

func filter(shifts []domain.Shift, date string, limit int) []domain.Shift {
	out := make([]domain.Shift, 0, len(shifts))
	for _, s := range shifts {
		if date != "" && s.Date != date {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func writeReport(w io.Writer, shifts []domain.Shift, c money.Currency, loc *time.Location) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Date", "Shift", "Window", "Revenue")

	total := decimal.Zero
	for _, s := range shifts {
		window := s.StartTime.In(loc).Format("15:04") + "-" + s.EndTime.In(loc).Format("15:04")
		if err := table.Append([]string{
			strconv.FormatUint(s.ID, 10),
			s.Date,
			string(s.ShiftType),
			window,
			money.Format(s.TotalRevenue, c),
		}); err != nil {
			return err
		}
		total = total.Add(s.TotalRevenue)
	}
	table.Footer("", "", "", "Total", money.Format(total, c))
	return table.Render()
}
