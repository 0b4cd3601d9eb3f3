package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSide names the project aggregate an amount is rolled into.
type LedgerSide string

const (
	SideRevenue LedgerSide = "REVENUE"
	SideCost    LedgerSide = "COST"
)

// DocumentRef points at a document attached to a project.
type DocumentRef struct {
	Kind       DocumentKind `json:"kind"`
	DocumentID string       `json:"documentID"`
}

// LedgerEntry is an append-only record of one change to a project aggregate.
// Summing entries per side reproduces the project's totals.
type LedgerEntry struct {
	EntryID      string          `json:"entryID"`
	ProjectID    string          `json:"projectID"`
	DocumentKind DocumentKind    `json:"documentKind"`
	DocumentID   string          `json:"documentID"`
	Side         LedgerSide      `json:"side"`
	Amount       decimal.Decimal `json:"amount"` // Signed; negative for downward item edits
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// Rollup describes one change to a project's aggregates.
//
// AppendRef rollups attach Ref to the project's reference collection and add
// Amount to the matching total. Adjustment rollups (AppendRef false) only move
// the total and are produced by item edits on already-attached documents.
type Rollup struct {
	ProjectID string
	Ref       DocumentRef
	Amount    decimal.Decimal
	AppendRef bool
	ActorID   string
	At        time.Time
}

// NewAttachRollup builds the rollup that attaches ref to a project.
func NewAttachRollup(projectID string, ref DocumentRef, amount decimal.Decimal, actorID string, at time.Time) Rollup {
	return Rollup{ProjectID: projectID, Ref: ref, Amount: amount, AppendRef: true, ActorID: actorID, At: at}
}

// NewAdjustmentRollup builds the rollup that moves a project total by delta.
func NewAdjustmentRollup(projectID string, ref DocumentRef, delta decimal.Decimal, actorID string, at time.Time) Rollup {
	return Rollup{ProjectID: projectID, Ref: ref, Amount: delta, ActorID: actorID, At: at}
}

// Side returns the aggregate the rollup targets.
func (r Rollup) Side() LedgerSide {
	return r.Ref.Kind.Side()
}

// Entry returns the ledger entry recorded for r, or false when r moves no money.
func (r Rollup) Entry(entryID string) (LedgerEntry, bool) {
	if r.Amount.IsZero() {
		return LedgerEntry{}, false
	}
	return LedgerEntry{
		EntryID:      entryID,
		ProjectID:    r.ProjectID,
		DocumentKind: r.Ref.Kind,
		DocumentID:   r.Ref.DocumentID,
		Side:         r.Side(),
		Amount:       r.Amount,
		CreatedAt:    r.At,
		CreatedBy:    r.ActorID,
	}, true
}

// SumEntries totals ledger entries per side.
func SumEntries(entries []LedgerEntry) (revenue, cost decimal.Decimal) {
	revenue, cost = decimal.Zero, decimal.Zero
	for _, e := range entries {
		switch e.Side {
		case SideRevenue:
			revenue = revenue.Add(e.Amount)
		case SideCost:
			cost = cost.Add(e.Amount)
		}
	}
	return revenue, cost
}
