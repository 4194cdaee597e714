package deduction

import (
	"errors"
	"strings"

	deductionerrors "go-payroll/internal/deduction/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return deductionerrors.ErrDeductionNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "name") {
			return deductionerrors.ErrDeductionNameTaken.WithCause(err)
		}
		return deductionerrors.ErrDeductionCodeTaken.WithCause(err)
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return deductionerrors.ErrDeductionNameTaken.WithCause(err)
	}

	return err
}
