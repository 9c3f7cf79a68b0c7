package db

import (
	"strconv"
	"strings"
)

// Predicate is one WHERE condition. The clause is a static template using ?
// placeholders; values only ever travel in args.
type Predicate struct {
	clause string
	args   []any
}

// Cond builds a predicate. clause must be a constant template: caller data
// belongs in args.
func Cond(clause string, args ...any) Predicate {
	return Predicate{clause: clause, args: args}
}

// Empty reports whether the predicate holds no condition.
func (p Predicate) Empty() bool {
	return p.clause == ""
}

// Clause returns the template text.
func (p Predicate) Clause() string {
	return p.clause
}

// Args returns the bound values in placeholder order.
func (p Predicate) Args() []any {
	return p.args
}

// And joins predicates into one parenthesised conjunction.
func And(preds ...Predicate) Predicate {
	return join(" AND ", preds)
}

// Or joins predicates into one parenthesised disjunction.
func Or(preds ...Predicate) Predicate {
	return join(" OR ", preds)
}

func join(sep string, preds []Predicate) Predicate {
	parts := make([]string, 0, len(preds))
	var args []any
	for _, p := range preds {
		if p.Empty() {
			continue
		}
		parts = append(parts, p.clause)
		args = append(args, p.args...)
	}
	switch len(parts) {
	case 0:
		return Predicate{}
	case 1:
		return Predicate{clause: parts[0], args: args}
	}
	return Predicate{clause: "(" + strings.Join(parts, sep) + ")", args: args}
}

// Where renders predicates as an AND-joined clause with Postgres placeholders
// numbered from start. An empty list renders TRUE.
func Where(start int, preds ...Predicate) (string, []any) {
	var b strings.Builder
	var args []any
	n := start
	written := 0
	for _, p := range preds {
		if p.Empty() {
			continue
		}
		if written > 0 {
			b.WriteString(" AND ")
		}
		written++
		for i := 0; i < len(p.clause); i++ {
			if p.clause[i] == '?' {
				b.WriteString("$")
				b.WriteString(strconv.Itoa(n))
				n++
				continue
			}
			b.WriteByte(p.clause[i])
		}
		args = append(args, p.args...)
	}
	if written == 0 {
		return "TRUE", nil
	}
	return b.String(), args
}
