package repoargs

import (
	"github.com/autogiro/credits/internal/domain"
	"github.com/shopspring/decimal"
)

type ProposalCreate struct {
	UserID         int64
	ItemID         int64
	ItemRef        string
	AmountOffered  decimal.Decimal
	CreditsCharged decimal.Decimal
}

// ProposalStatusFlip - аргументы условного перевода статуса: строка обновится только
// если текущий статус равен From. Так два конкурирующих перевода разрешаются в пользу
// ровно одного.
type ProposalStatusFlip struct {
	ProposalID int64
	From       domain.ProposalStatusType
	To         domain.ProposalStatusType
	DecidedBy  int64
	// SetWinner выставляет is_winner при переводе в accepted.
	SetWinner bool
}
