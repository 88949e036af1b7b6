package mysql

import (
	"errors"
	"fmt"

	"pos-service/internal/domain"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// translate maps driver level serialization failures onto
// domain.ErrTransactionConflict so callers can offer a retry.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var me *mysqldriver.MySQLError
	if errors.As(err, &me) && (me.Number == mysqlDeadlock || me.Number == mysqlLockWaitTimeout) {
		return fmt.Errorf("%w: %v", domain.ErrTransactionConflict, err)
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) && (pe.Code == "40001" || pe.Code == "40P01") {
		return fmt.Errorf("%w: %v", domain.ErrTransactionConflict, err)
	}
	return err
}

func notFound(err error, what string, id uint64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
	}
	return err
}
