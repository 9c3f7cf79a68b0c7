package documents

import (
	"github.com/shopspring/decimal"

	"github.com/muzaini-app/muzaini-reports/internal/i18n"
)

// Raw document statuses.
const (
	StatusDraft      = "Draft"
	StatusPaid       = "Paid"
	StatusUnpaid     = "Unpaid"
	StatusPartlyPaid = "Partly Paid"
	StatusOverdue    = "Overdue"
	StatusCancelled  = "Cancelled"
)

var hundred = decimal.NewFromInt(100)

// PaidPercent returns round(100 - outstanding/grand*100). ok is false when
// grand is zero.
func PaidPercent(grand, outstanding decimal.Decimal) (pct decimal.Decimal, ok bool) {
	if grand.IsZero() {
		return decimal.Zero, false
	}
	outstandingPct := outstanding.Div(grand).Mul(hundred)
	return hundred.Sub(outstandingPct).RoundBank(0), true
}

// SalesStatus derives the display status of a sales invoice.
func SalesStatus(inv Invoice, loc *i18n.Localizer) string {
	return invoiceStatus(inv, loc, "Sales Return", !inv.GrandTotal.IsZero())
}

// PurchaseStatus derives the display status of a purchase invoice. Unlike
// sales, a zero outstanding marks it fully paid even with a zero total.
func PurchaseStatus(inv Invoice, loc *i18n.Localizer) string {
	inv.IsPOS = false
	return invoiceStatus(inv, loc, "Purchase Return", true)
}

func invoiceStatus(inv Invoice, loc *i18n.Localizer, returnLabel string, settledByOutstanding bool) string {
	switch {
	case inv.IsReturn:
		return loc.T(returnLabel)
	case inv.Status == StatusPaid || (settledByOutstanding && inv.Outstanding.IsZero()):
		if inv.IsPOS {
			return loc.T("Cash invoice")
		}
		return loc.T("Fully Paid")
	case inv.Status == StatusUnpaid:
		return loc.T("Unpaid")
	case inv.Status == StatusPartlyPaid:
		pct, ok := PaidPercent(inv.GrandTotal, inv.Outstanding)
		if !ok {
			return loc.T("Partly Paid")
		}
		return loc.T("Partly Paid (%s%%)", pct.String())
	case inv.Status == StatusOverdue:
		return loc.T("Overdue")
	case inv.Status == StatusCancelled:
		return loc.T("Cancelled")
	default:
		return loc.Label(inv.Status)
	}
}
