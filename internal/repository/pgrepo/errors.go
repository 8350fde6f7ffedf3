package pgrepo

import (
	"errors"
	"fmt"

	"github.com/autogiro/credits/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode = "23505"
	checkViolationCode  = "23514"
)

// convertErr приводит ошибку к стандартному виду слоя репозитория: контекст операции,
// тип бизнес-ошибки и оригинальное сообщение.
// Особенности:
//   - pgx.ErrNoRows превращается в domain.ErrRecordNotFound;
//   - нарушение уникального ключа - в domain.ErrDuplicateKey;
//   - нарушение CHECK (credits >= 0) - в domain.ErrInsufficientCredits: страховка на
//     случай, если запрос обошел условие WHERE;
//   - все прочие ошибки возвращаются как domain.ErrUnknown.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, formatArgs...)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("[repository/%s] %w", msg, domain.ErrRecordNotFound)
	}

	var pgErr *pgconn.PgError
	errType := domain.ErrUnknown

	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			errType = domain.ErrDuplicateKey
		case checkViolationCode:
			errType = domain.ErrInsufficientCredits
		}
	}

	return fmt.Errorf("[repository/%s] %w: %s", msg, errType, err.Error())
}
