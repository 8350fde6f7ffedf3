package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrUnknown        = errors.New("unknown error")

	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrForbidden           = errors.New("forbidden")
	ErrItemClosed          = errors.New("item is not open for proposals")
	ErrCPFRequired         = errors.New("cpf required")
	ErrAmountBelowMinimum  = errors.New("amount below minimum")
)

// InvalidTransitionError уточняет ErrInvalidTransition парой статусов.
type InvalidTransitionError struct {
	From ProposalStatusType
	To   ProposalStatusType
}

func NewInvalidTransitionError(from, to ProposalStatusType) error {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("proposal transition %s -> %s is not allowed", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
