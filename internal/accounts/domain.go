// Package accounts reads the chart of accounts: party accounts, the nested
// set hierarchy, fiscal years and the configured tax accounts.
package accounts

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested account record does not exist.
var ErrNotFound = errors.New("accounts: not found")

// Account types used by reports.
const (
	TypeReceivable = "Receivable"
	TypePayable    = "Payable"
	TypeTax        = "Tax"
)

// Root types whose balances restart every fiscal year.
var PeriodRootTypes = []string{"Income", "Expense"}

// MaxDepth bounds parent chain walks so a cyclic hierarchy terminates.
const MaxDepth = 10

// Node is one account in the nested-set tree.
type Node struct {
	Name        string
	AccountName string
	Parent      string
	Lft         int
	Rgt         int
	IsGroup     bool
	RootType    string
}

// Contains reports whether other lies inside n's bounds.
func (n Node) Contains(other Node) bool {
	return n.Lft <= other.Lft && other.Rgt <= n.Rgt
}

// Bounds are the nested-set interval of an account.
type Bounds struct {
	Lft int
	Rgt int
}

// Valid reports whether both bounds are set.
func (b Bounds) Valid() bool {
	return b.Lft > 0 && b.Rgt > 0
}

// FiscalYear is a named accounting year.
type FiscalYear struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Depth counts the ancestors of account by walking parents. The walk stops
// at MaxDepth+1 levels.
func Depth(parents map[string]string, account string) int {
	level := 0
	parent := parents[account]
	for parent != "" {
		level++
		if level > MaxDepth {
			break
		}
		parent = parents[parent]
	}
	return level
}
