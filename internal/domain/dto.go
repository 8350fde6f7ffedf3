package domain

type ProposalStatusType string

const (
	ProposalStatusPending  ProposalStatusType = "pending"
	ProposalStatusAccepted ProposalStatusType = "accepted"
	ProposalStatusRejected ProposalStatusType = "rejected"
	ProposalStatusOutbid   ProposalStatusType = "outbid"
)

type PurchaseStatusType string

const (
	PurchaseStatusPending PurchaseStatusType = "pending"
	PurchaseStatusPaid    PurchaseStatusType = "paid"
	PurchaseStatusExpired PurchaseStatusType = "expired"
)

type LedgerKind string

const (
	LedgerKindPurchase        LedgerKind = "purchase"
	LedgerKindProposalDebit   LedgerKind = "proposal_debit"
	LedgerKindRefund          LedgerKind = "refund"
	LedgerKindAdminAdjustment LedgerKind = "admin_adjustment"
)

type RoleType string

const (
	RoleUser  RoleType = "user"
	RoleAdmin RoleType = "admin"
)

// CanTransitionTo описывает машину состояний предложения:
// pending -> {accepted, rejected, outbid}, accepted -> rejected (когда по тому же лоту
// победило другое предложение).
func (s ProposalStatusType) CanTransitionTo(target ProposalStatusType) bool {
	switch s {
	case ProposalStatusPending:
		return target == ProposalStatusAccepted ||
			target == ProposalStatusRejected ||
			target == ProposalStatusOutbid
	case ProposalStatusAccepted:
		return target == ProposalStatusRejected
	default:
		return false
	}
}

// Refundable сообщает, положен ли возврат кредитов при переходе из статуса s в target.
func (s ProposalStatusType) Refundable(target ProposalStatusType) bool {
	if target != ProposalStatusRejected && target != ProposalStatusOutbid {
		return false
	}
	return s == ProposalStatusPending || s == ProposalStatusAccepted
}
