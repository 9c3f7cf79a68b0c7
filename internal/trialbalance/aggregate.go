// Package trialbalance builds the chart-of-accounts trial balance and the
// parent account view over it.
package trialbalance

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/muzaini-app/muzaini-reports/internal/accounts"
	"github.com/muzaini-app/muzaini-reports/internal/ledger"
)

// Line is one account of the trial balance with Dr/Cr split balances.
type Line struct {
	Account     string
	AccountName string
	Parent      string
	IsGroup     bool
	Indent      int

	OpeningDebit  decimal.Decimal
	OpeningCredit decimal.Decimal
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	ClosingDebit  decimal.Decimal
	ClosingCredit decimal.Decimal
}

// Zero reports whether every amount of the line is zero.
func (l Line) Zero() bool {
	for _, d := range []decimal.Decimal{l.OpeningDebit, l.OpeningCredit, l.Debit, l.Credit, l.ClosingDebit, l.ClosingCredit} {
		if !d.IsZero() {
			return false
		}
	}
	return true
}

func (l *Line) add(o Line) {
	l.OpeningDebit = l.OpeningDebit.Add(o.OpeningDebit)
	l.OpeningCredit = l.OpeningCredit.Add(o.OpeningCredit)
	l.Debit = l.Debit.Add(o.Debit)
	l.Credit = l.Credit.Add(o.Credit)
	l.ClosingDebit = l.ClosingDebit.Add(o.ClosingDebit)
	l.ClosingCredit = l.ClosingCredit.Add(o.ClosingCredit)
}

// TrialBalance is the account lines in tree order plus their total.
type TrialBalance struct {
	Lines []Line
	Total Line
}

// split nets a signed balance onto one side.
func split(net decimal.Decimal) (dr, cr decimal.Decimal) {
	if net.IsNegative() {
		return decimal.Zero, net.Neg()
	}
	return net, decimal.Zero
}

// Build rolls ledger movements up the account tree. Each node accumulates
// the movements of every account inside its nested-set bounds; opening and
// closing positions are netted per node. Movements on accounts missing from
// the tree are ignored.
func Build(tree []accounts.Node, moves []ledger.Movement) TrialBalance {
	nodes := make([]accounts.Node, len(tree))
	copy(nodes, tree)
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Lft < nodes[j].Lft })

	byName := make(map[string]accounts.Node, len(nodes))
	for _, n := range nodes {
		byName[n.Name] = n
	}

	type sums struct{ opening, debit, credit decimal.Decimal }
	acc := make(map[string]*sums, len(nodes))
	for _, n := range nodes {
		acc[n.Name] = &sums{}
	}
	for _, m := range moves {
		leaf, ok := byName[m.Account]
		if !ok {
			continue
		}
		for _, n := range nodes {
			if !n.Contains(leaf) {
				continue
			}
			s := acc[n.Name]
			s.opening = s.opening.Add(m.Opening)
			s.debit = s.debit.Add(m.Debit)
			s.credit = s.credit.Add(m.Credit)
		}
	}

	tb := TrialBalance{Lines: make([]Line, 0, len(nodes))}
	for _, n := range nodes {
		s := acc[n.Name]
		line := Line{
			Account:     n.Name,
			AccountName: n.AccountName,
			Parent:      n.Parent,
			IsGroup:     n.IsGroup,
			Debit:       s.debit,
			Credit:      s.credit,
		}
		line.OpeningDebit, line.OpeningCredit = split(s.opening)
		line.ClosingDebit, line.ClosingCredit = split(s.opening.Add(s.debit).Sub(s.credit))
		tb.Lines = append(tb.Lines, line)
	}
	tb.Total = Total(tb.Lines)
	return tb
}

// Total sums the lines whose parent is not itself among the lines, so a
// group and its members are never counted twice.
func Total(lines []Line) Line {
	present := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		present[l.Account] = struct{}{}
	}
	var total Line
	for _, l := range lines {
		if _, nested := present[l.Parent]; nested && l.Parent != "" {
			continue
		}
		total.add(l)
	}
	return total
}
