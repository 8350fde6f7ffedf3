package pgrepo

import (
	"context"

	"github.com/autogiro/credits/internal/domain"
	"github.com/autogiro/credits/pkg/uow"
	"github.com/jackc/pgx/v5"
)

// ItemRepository - минимальный доступ к каталогу. Наполнением каталога занимается
// внешний пайплайн, ядру нужны только проверки и флаг победителя.
type ItemRepository struct {
	conn uow.DBTX
}

func NewItemRepository(conn uow.DBTX) *ItemRepository {
	return &ItemRepository{conn: conn}
}

func (r *ItemRepository) FindByRef(ctx context.Context, externalRef string) (*domain.Item, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT id, external_ref, title, is_active, has_winning_proposal
		FROM items
		WHERE external_ref = $1`, externalRef)

	var item domain.Item
	if err := row.Scan(
		&item.ID, &item.ExternalRef, &item.Title, &item.IsActive, &item.HasWinningProposal,
	); err != nil {
		return nil, convertErr(err, "finding item by ref %s", externalRef)
	}
	return &item, nil
}

// MarkWinningProposal ставит флаг победителя условным UPDATE: строка обновится
// только если флаг еще не стоял. Уже выигранный лот - domain.ErrItemClosed,
// транзакция принятия откатывается, второго победителя по лоту не бывает.
func (r *ItemRepository) MarkWinningProposal(ctx context.Context, itemID int64) error {
	tag, err := r.conn.Exec(ctx, `
		UPDATE items
		SET has_winning_proposal = TRUE
		WHERE id = $1 AND has_winning_proposal = FALSE`, itemID)
	if err != nil {
		return convertErr(err, "marking winning proposal for item %d", itemID)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyNoRows(ctx, itemID)
	}
	return nil
}

func (r *ItemRepository) classifyNoRows(ctx context.Context, itemID int64) error {
	var exists bool
	if err := r.conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE id = $1)`, itemID,
	).Scan(&exists); err != nil {
		return convertErr(err, "checking item %d existence", itemID)
	}
	if !exists {
		return convertErr(pgx.ErrNoRows, "marking winning proposal for item %d", itemID)
	}
	return domain.ErrItemClosed
}
