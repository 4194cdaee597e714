package employee

import (
	"errors"

	employeeerrors "go-payroll/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return employeeerrors.ErrEmploymentAlreadyExists.WithCause(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return employeeerrors.ErrEmploymentAlreadyExists.WithCause(err)
	}

	return err
}
