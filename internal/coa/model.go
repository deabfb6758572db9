// Package coa maintains the chart of accounts: a nested-set tree of posting
// accounts keyed by their Vietnamese account code ("111", "131", "5111", …).
package coa

import (
	"fmt"
	"time"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// AccountType enumerates chart-of-accounts categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// BalanceSide is the side on which an account naturally increases.
type BalanceSide string

const (
	BalanceSideDebit  BalanceSide = "DEBIT"
	BalanceSideCredit BalanceSide = "CREDIT"
)

// NormalBalance returns the conventional side for the account type.
func (t AccountType) NormalBalance() BalanceSide {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return BalanceSideDebit
	default:
		return BalanceSideCredit
	}
}

// Account models a chart-of-accounts node. Lft/Rgt/Depth are materialised
// nested-set bounds; they are only ever written by the bulk rebuild pass.
type Account struct {
	ID            int64
	Code          string
	Name          string
	SearchKey     string
	Type          AccountType
	NormalBalance BalanceSide
	ParentID      *int64
	Lft           int
	Rgt           int
	Depth         int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLeaf reports whether the node has no children. Only leaves accept
// journal postings.
func (a Account) IsLeaf() bool {
	return a.Rgt-a.Lft == 1
}

// Validate checks invariants on create/update input.
func (a Account) Validate() error {
	if a.Code == "" {
		return fmt.Errorf("%w: account code required", shared.ErrValidation)
	}
	if a.Name == "" {
		return fmt.Errorf("%w: account name required", shared.ErrValidation)
	}
	switch a.Type {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
	default:
		return fmt.Errorf("%w: unknown account type %q", shared.ErrValidation, a.Type)
	}
	switch a.NormalBalance {
	case BalanceSideDebit, BalanceSideCredit:
	default:
		return fmt.Errorf("%w: unknown normal balance %q", shared.ErrValidation, a.NormalBalance)
	}
	return nil
}
