package pgrepo

import (
	"context"

	"github.com/autogiro/credits/internal/domain"
	"github.com/autogiro/credits/internal/repository/repoargs"
	"github.com/autogiro/credits/pkg/uow"
	"github.com/jackc/pgx/v5"
)

type PurchaseRepository struct {
	conn uow.DBTX
}

func NewPurchaseRepository(conn uow.DBTX) *PurchaseRepository {
	return &PurchaseRepository{conn: conn}
}

const purchaseColumns = `id, created_at, updated_at, user_id, amount_requested,
	credits_to_add, external_ref, pay_code, qr_code_url, status, expires_at, paid_at`

func (r *PurchaseRepository) Create(
	ctx context.Context,
	args repoargs.PurchaseCreate,
) (*domain.PendingPurchase, error) {
	row := r.conn.QueryRow(ctx, `
		INSERT INTO pending_purchases (
			user_id, amount_requested, credits_to_add, external_ref,
			pay_code, qr_code_url, status, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7)
		RETURNING `+purchaseColumns,
		args.UserID, args.AmountRequested, args.CreditsToAdd, args.ExternalRef,
		args.PayCode, args.QRCodeURL, args.ExpiresAt)

	p, err := scanPurchase(row)
	if err != nil {
		return nil, convertErr(err, "creating pending purchase for user %d", args.UserID)
	}
	return p, nil
}

func (r *PurchaseRepository) FindByID(ctx context.Context, id int64) (*domain.PendingPurchase, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM pending_purchases WHERE id = $1`, id)
	p, err := scanPurchase(row)
	if err != nil {
		return nil, convertErr(err, "finding pending purchase %d", id)
	}
	return p, nil
}

// MarkPaidIf переводит заявку из pending в paid условным UPDATE. Возвращает true,
// если перевод выполнила именно эта транзакция. Это и есть граница идемпотентности
// зачисления: из гонки конкурирующих проверок оплаты выходит ровно один победитель,
// остальные получают false.
func (r *PurchaseRepository) MarkPaidIf(ctx context.Context, id int64) (bool, error) {
	tag, err := r.conn.Exec(ctx, `
		UPDATE pending_purchases
		SET status = 'paid', paid_at = now(), updated_at = now()
		WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return false, convertErr(err, "marking purchase %d paid", id)
	}
	return tag.RowsAffected() > 0, nil
}

// GetPendingByUserID возвращает неоплаченные заявки юзера, новые первыми.
func (r *PurchaseRepository) GetPendingByUserID(
	ctx context.Context,
	userID int64,
	limit uint,
) ([]domain.PendingPurchase, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT `+purchaseColumns+`
		FROM pending_purchases
		WHERE user_id = $1 AND status = 'pending'
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, convertErr(err, "getting pending purchases for user %d", userID)
	}
	return collectPurchases(rows)
}

// GetPendingBatch возвращает партию неоплаченных и не просроченных заявок
// для фонового опроса провайдера.
func (r *PurchaseRepository) GetPendingBatch(ctx context.Context, limit uint) ([]domain.PendingPurchase, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT `+purchaseColumns+`
		FROM pending_purchases
		WHERE status = 'pending' AND expires_at >= now()
		ORDER BY created_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, convertErr(err, "getting pending purchases batch")
	}
	return collectPurchases(rows)
}

// ExpireOverdue помечает просроченные pending заявки как expired. Возврат не нужен:
// списания при создании заявки не было. Уже оплаченные строки не трогаются.
func (r *PurchaseRepository) ExpireOverdue(ctx context.Context, limit uint) (int64, error) {
	tag, err := r.conn.Exec(ctx, `
		UPDATE pending_purchases
		SET status = 'expired', updated_at = now()
		WHERE id IN (
			SELECT id FROM pending_purchases
			WHERE status = 'pending' AND expires_at < now()
			ORDER BY expires_at ASC
			LIMIT $1
		)`, limit)
	if err != nil {
		return 0, convertErr(err, "expiring overdue purchases")
	}
	return tag.RowsAffected(), nil
}

func collectPurchases(rows pgx.Rows) ([]domain.PendingPurchase, error) {
	defer rows.Close()

	var purchases []domain.PendingPurchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, convertErr(err, "scanning pending purchase")
		}
		purchases = append(purchases, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, convertErr(err, "reading pending purchases")
	}
	return purchases, nil
}

func scanPurchase(row pgx.Row) (*domain.PendingPurchase, error) {
	var p domain.PendingPurchase
	if err := row.Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.UserID, &p.AmountRequested,
		&p.CreditsToAdd, &p.ExternalRef, &p.PayCode, &p.QRCodeURL,
		&p.Status, &p.ExpiresAt, &p.PaidAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
