package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	CPF       string
	Role      RoleType
	// Credits - текущий баланс. Меняется только через условный UPDATE в репозитории,
	// никакой другой код поле не пишет.
	Credits decimal.Decimal
	// TotalCreditsPurchased - счетчик для отчетности, растет только при реальных оплатах.
	TotalCreditsPurchased decimal.Decimal
}

// LedgerEntry - запись журнала операций по балансу. После создания не редактируется
// и не удаляется; исправления выполняются только компенсирующими записями (refund).
type LedgerEntry struct {
	ID            int64
	CreatedAt     time.Time
	UserID        int64
	Kind          LedgerKind
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	ProposalID    *int64
	PurchaseID    *int64
	Description   string
}

type Proposal struct {
	ID            int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	UserID        int64
	ItemID        int64
	ItemRef       string
	AmountOffered decimal.Decimal
	// CreditsCharged фиксируется при создании и больше не меняется: ровно столько
	// вернет последующий возврат.
	CreditsCharged decimal.Decimal
	Status         ProposalStatusType
	IsWinner       bool
	DecidedAt      *time.Time
	DecidedBy      *int64
}

type PendingPurchase struct {
	ID              int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	UserID          int64
	AmountRequested decimal.Decimal
	CreditsToAdd    decimal.Decimal
	ExternalRef     string
	PayCode         string
	QRCodeURL       string
	Status          PurchaseStatusType
	ExpiresAt       time.Time
	PaidAt          *time.Time
}

// Item - минимальная проекция каталога: ядру нужно лишь существование лота,
// открытость для предложений и флаг победителя.
type Item struct {
	ID                 int64
	ExternalRef        string
	Title              string
	IsActive           bool
	HasWinningProposal bool
}

// Principal - аутентифицированный субъект запроса. Проверка подлинности выполняется
// снаружи, ядро доверяет этим полям как уже верифицированным.
type Principal struct {
	UserID  int64
	IsAdmin bool
}
