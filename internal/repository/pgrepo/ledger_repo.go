package pgrepo

import (
	"context"

	"github.com/autogiro/credits/internal/domain"
	"github.com/autogiro/credits/internal/repository/repoargs"
	"github.com/autogiro/credits/pkg/uow"
	"github.com/jackc/pgx/v5"
)

// LedgerRepository работает с журналом операций. Журнал append-only:
// репозиторий умеет только INSERT и SELECT.
type LedgerRepository struct {
	conn uow.DBTX
}

func NewLedgerRepository(conn uow.DBTX) *LedgerRepository {
	return &LedgerRepository{conn: conn}
}

func (r *LedgerRepository) Create(
	ctx context.Context,
	entry repoargs.LedgerEntryCreate,
) (*domain.LedgerEntry, error) {
	row := r.conn.QueryRow(ctx, `
		INSERT INTO ledger_entries (
			user_id, kind, amount, balance_before, balance_after,
			proposal_id, purchase_id, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, user_id, kind, amount, balance_before, balance_after,
			proposal_id, purchase_id, description`,
		entry.UserID, entry.Kind, entry.Amount, entry.BalanceBefore, entry.BalanceAfter,
		entry.ProposalID, entry.PurchaseID, entry.Description)

	e, err := scanLedgerEntry(row)
	if err != nil {
		return nil, convertErr(err, "creating ledger entry for user %d", entry.UserID)
	}
	return e, nil
}

// GetByUserID возвращает записи журнала юзера, новые первыми.
func (r *LedgerRepository) GetByUserID(
	ctx context.Context,
	userID int64,
	limit uint,
) ([]domain.LedgerEntry, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, created_at, user_id, kind, amount, balance_before, balance_after,
			proposal_id, purchase_id, description
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, convertErr(err, "getting ledger entries for user %d", userID)
	}
	return collectLedgerEntries(rows, userID)
}

// GetAll возвращает записи журнала по всем юзерам, новые первыми. Для админки.
func (r *LedgerRepository) GetAll(ctx context.Context, limit uint) ([]domain.LedgerEntry, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, created_at, user_id, kind, amount, balance_before, balance_after,
			proposal_id, purchase_id, description
		FROM ledger_entries
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, convertErr(err, "getting ledger entries")
	}
	return collectLedgerEntries(rows, 0)
}

func collectLedgerEntries(rows pgx.Rows, userID int64) ([]domain.LedgerEntry, error) {
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, convertErr(err, "scanning ledger entry for user %d", userID)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, convertErr(err, "reading ledger entries for user %d", userID)
	}
	return entries, nil
}

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	if err := row.Scan(
		&e.ID, &e.CreatedAt, &e.UserID, &e.Kind, &e.Amount,
		&e.BalanceBefore, &e.BalanceAfter, &e.ProposalID, &e.PurchaseID, &e.Description,
	); err != nil {
		return nil, err
	}
	return &e, nil
}
