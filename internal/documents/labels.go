package documents

import (
	"strconv"

	"github.com/muzaini-app/muzaini-reports/internal/i18n"
)

// VoucherLabel is the display name of a voucher type in the cash statement.
// Payment entries are labelled by their payment type.
func VoucherLabel(voucherType, paymentType string, loc *i18n.Localizer) string {
	switch voucherType {
	case "Payment Entry":
		switch paymentType {
		case PaymentReceive:
			return loc.T("Receipt voucher")
		case PaymentPay:
			return loc.T("Payment voucher")
		case PaymentInternalTransfer:
			return loc.T("Internal transfer voucher")
		}
		return loc.T("Payment Entry")
	case "Sales Invoice", "Purchase Invoice":
		return loc.T(voucherType)
	case "Journal Entry":
		return loc.T("Accounting entry")
	}
	return loc.Label(voucherType)
}

// DocstatusLabel names a docstatus value.
func DocstatusLabel(docstatus int, loc *i18n.Localizer) string {
	switch docstatus {
	case 0:
		return loc.T("Draft")
	case 1:
		return loc.T("Approved")
	case 2:
		return loc.T("Cancelled")
	}
	return strconv.Itoa(docstatus)
}

// Docstatus maps a status filter to a docstatus value. Unknown names mean
// submitted.
func Docstatus(status string) int {
	switch status {
	case "Draft":
		return 0
	case "Cancelled":
		return 2
	}
	return 1
}

// PaymentTypeLabel names a payment type in the payment register.
func PaymentTypeLabel(paymentType string, loc *i18n.Localizer) string {
	switch paymentType {
	case PaymentReceive:
		return loc.T("Receipt voucher")
	case PaymentPay:
		return loc.T("Payment voucher")
	}
	return loc.T("Internal Transfer")
}

// PaymentDirection is the short receive/pay label used on party statements.
func PaymentDirection(paymentType string, loc *i18n.Localizer) string {
	switch paymentType {
	case PaymentReceive:
		return loc.T("Receive")
	case PaymentPay:
		return loc.T("Pay")
	}
	return ""
}

// SalesLogStatus is the status shown in the sales log.
func SalesLogStatus(status string, isReturn bool, loc *i18n.Localizer) string {
	if isReturn {
		return loc.T("Sales Return")
	}
	if status == StatusPaid {
		return loc.T("Fully Paid")
	}
	return loc.Label(status)
}
