package pgrepo

import (
	"context"
	"errors"

	"github.com/autogiro/credits/internal/domain"
	"github.com/autogiro/credits/internal/repository/repoargs"
	"github.com/autogiro/credits/pkg/uow"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	conn uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT id, created_at, updated_at, name, COALESCE(cpf, ''), role, credits, total_credits_purchased
		FROM users
		WHERE id = $1`, id)

	var u domain.User
	if err := row.Scan(
		&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Name, &u.CPF, &u.Role,
		&u.Credits, &u.TotalCreditsPurchased,
	); err != nil {
		return nil, convertErr(err, "finding user by id %d", id)
	}
	return &u, nil
}

// ApplyDelta атомарно меняет баланс одним условным UPDATE: списание применяется только
// если итоговый баланс не уходит в минус. Отдельного чтения перед записью нет - два
// конкурирующих списания не могут оба пройти по одному и тому же прочитанному балансу.
//
// Если строка не обновилась, делается уточняющий запрос: юзер отсутствует -
// domain.ErrRecordNotFound, иначе - domain.ErrInsufficientCredits.
func (r *UserRepository) ApplyDelta(
	ctx context.Context,
	args repoargs.BalanceDelta,
) (*repoargs.BalanceChange, error) {
	row := r.conn.QueryRow(ctx, `
		UPDATE users
		SET credits = credits + $1,
		    total_credits_purchased = total_credits_purchased + CASE WHEN $2 THEN $1 ELSE 0 END,
		    updated_at = now()
		WHERE id = $3 AND credits + $1 >= 0
		RETURNING credits, total_credits_purchased`,
		args.Amount, args.IncludeInPurchasedTotal, args.UserID)

	var change repoargs.BalanceChange
	if err := row.Scan(&change.NewBalance, &change.TotalCreditsPurchased); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyNoRows(ctx, args.UserID)
		}
		return nil, convertErr(err, "applying balance delta for user %d", args.UserID)
	}
	return &change, nil
}

// UpdateCPF сохраняет CPF юзера. Дубликат CPF другого юзера вернется
// как domain.ErrDuplicateKey.
func (r *UserRepository) UpdateCPF(ctx context.Context, userID int64, cpf string) error {
	tag, err := r.conn.Exec(ctx,
		`UPDATE users SET cpf = $1, updated_at = now() WHERE id = $2`, cpf, userID)
	if err != nil {
		return convertErr(err, "updating cpf for user %d", userID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "updating cpf for user %d", userID)
	}
	return nil
}

func (r *UserRepository) classifyNoRows(ctx context.Context, userID int64) error {
	var exists bool
	if err := r.conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID,
	).Scan(&exists); err != nil {
		return convertErr(err, "checking user %d existence", userID)
	}
	if !exists {
		return convertErr(pgx.ErrNoRows, "applying balance delta for user %d", userID)
	}
	return domain.ErrInsufficientCredits
}
