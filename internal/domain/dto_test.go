package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProposalStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from ProposalStatusType
		to   ProposalStatusType
		want bool
	}{
		{ProposalStatusPending, ProposalStatusAccepted, true},
		{ProposalStatusPending, ProposalStatusRejected, true},
		{ProposalStatusPending, ProposalStatusOutbid, true},
		// принятое предложение может быть отклонено, когда по лоту победило другое.
		{ProposalStatusAccepted, ProposalStatusRejected, true},
		{ProposalStatusAccepted, ProposalStatusOutbid, false},
		{ProposalStatusAccepted, ProposalStatusPending, false},
		{ProposalStatusRejected, ProposalStatusPending, false},
		{ProposalStatusRejected, ProposalStatusAccepted, false},
		{ProposalStatusOutbid, ProposalStatusAccepted, false},
		{ProposalStatusOutbid, ProposalStatusRejected, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestProposalStatusRefundable(t *testing.T) {
	cases := []struct {
		from   ProposalStatusType
		target ProposalStatusType
		want   bool
	}{
		{ProposalStatusPending, ProposalStatusRejected, true},
		{ProposalStatusPending, ProposalStatusOutbid, true},
		{ProposalStatusAccepted, ProposalStatusRejected, true},
		// принятие не возвращает кредит.
		{ProposalStatusPending, ProposalStatusAccepted, false},
		// из терминальных статусов возврат уже выдан.
		{ProposalStatusRejected, ProposalStatusOutbid, false},
		{ProposalStatusOutbid, ProposalStatusRejected, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, c.from.Refundable(c.target), "%s -> %s", c.from, c.target)
	}
}
