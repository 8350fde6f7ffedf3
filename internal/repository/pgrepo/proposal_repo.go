package pgrepo

import (
	"context"
	"errors"

	"github.com/autogiro/credits/internal/domain"
	"github.com/autogiro/credits/internal/repository/repoargs"
	"github.com/autogiro/credits/pkg/uow"
	"github.com/jackc/pgx/v5"
)

type ProposalRepository struct {
	conn uow.DBTX
}

func NewProposalRepository(conn uow.DBTX) *ProposalRepository {
	return &ProposalRepository{conn: conn}
}

const proposalColumns = `id, created_at, updated_at, user_id, item_id, item_ref,
	amount_offered, credits_charged, status, is_winner, decided_at, decided_by`

// Create вставляет предложение условным INSERT: строка появится только если лот
// активен и еще не выигран. Проверка живет в самом INSERT, а не в отдельном чтении -
// предложение не может закоммититься по лоту, закрытому конкурирующим принятием.
// Закрытый лот - domain.ErrItemClosed.
func (r *ProposalRepository) Create(
	ctx context.Context,
	args repoargs.ProposalCreate,
) (*domain.Proposal, error) {
	row := r.conn.QueryRow(ctx, `
		INSERT INTO proposals (user_id, item_id, item_ref, amount_offered, credits_charged, status)
		SELECT $1, $2, $3, $4, $5, 'pending'
		WHERE EXISTS (
			SELECT 1 FROM items WHERE id = $2 AND is_active AND NOT has_winning_proposal
		)
		RETURNING `+proposalColumns,
		args.UserID, args.ItemID, args.ItemRef, args.AmountOffered, args.CreditsCharged)

	p, err := scanProposal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemClosed
		}
		return nil, convertErr(err, "creating proposal for user %d", args.UserID)
	}
	return p, nil
}

func (r *ProposalRepository) FindByID(ctx context.Context, id int64) (*domain.Proposal, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+proposalColumns+` FROM proposals WHERE id = $1`, id)
	p, err := scanProposal(row)
	if err != nil {
		return nil, convertErr(err, "finding proposal %d", id)
	}
	return p, nil
}

// GetByUserID возвращает предложения юзера, новые первыми.
func (r *ProposalRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Proposal, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT `+proposalColumns+` FROM proposals WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, convertErr(err, "getting proposals for user %d", userID)
	}
	return collectProposals(rows)
}

// UpdateStatusIf переводит предложение в новый статус условным UPDATE: строка
// обновится только если ее текущий статус равен args.From. Возвращает true, если
// строка изменилась. false без ошибки означает, что кто-то успел раньше - решать,
// конфликт это или идемпотентный повтор, должен вызывающий.
func (r *ProposalRepository) UpdateStatusIf(
	ctx context.Context,
	args repoargs.ProposalStatusFlip,
) (bool, error) {
	tag, err := r.conn.Exec(ctx, `
		UPDATE proposals
		SET status = $1,
		    is_winner = CASE WHEN $2 THEN TRUE ELSE is_winner END,
		    decided_at = now(),
		    decided_by = $3,
		    updated_at = now()
		WHERE id = $4 AND status = $5`,
		args.To, args.SetWinner, args.DecidedBy, args.ProposalID, args.From)
	if err != nil {
		return false, convertErr(err, "updating proposal %d status", args.ProposalID)
	}
	return tag.RowsAffected() > 0, nil
}

// RejectPendingByItem отклоняет все еще ожидающие предложения по лоту, кроме
// победившего, и возвращает затронутые строки - по каждой из них вызывающий обязан
// провести возврат кредитов.
func (r *ProposalRepository) RejectPendingByItem(
	ctx context.Context,
	itemID int64,
	excludeProposalID int64,
	decidedBy int64,
) ([]domain.Proposal, error) {
	rows, err := r.conn.Query(ctx, `
		UPDATE proposals
		SET status = 'rejected', decided_at = now(), decided_by = $1, updated_at = now()
		WHERE item_id = $2 AND id != $3 AND status = 'pending'
		RETURNING `+proposalColumns,
		decidedBy, itemID, excludeProposalID)
	if err != nil {
		return nil, convertErr(err, "rejecting pending proposals for item %d", itemID)
	}
	return collectProposals(rows)
}

func collectProposals(rows pgx.Rows) ([]domain.Proposal, error) {
	defer rows.Close()

	var proposals []domain.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, convertErr(err, "scanning proposal")
		}
		proposals = append(proposals, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, convertErr(err, "reading proposals")
	}
	return proposals, nil
}

func scanProposal(row pgx.Row) (*domain.Proposal, error) {
	var p domain.Proposal
	if err := row.Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.UserID, &p.ItemID, &p.ItemRef,
		&p.AmountOffered, &p.CreditsCharged, &p.Status, &p.IsWinner, &p.DecidedAt, &p.DecidedBy,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
