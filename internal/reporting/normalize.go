package reporting

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Requirement names a filter a report cannot run without, and the message
// shown when it is missing.
type Requirement struct {
	Field   string
	Message string
}

// Required filters, keyed the way the filter mapping names them.
var (
	RequireCustomer      = Requirement{Field: "customer", Message: "Please select a customer"}
	RequireSupplier      = Requirement{Field: "supplier", Message: "Please select a supplier"}
	RequireModeOfPayment = Requirement{Field: "mode_of_payment", Message: "Mode of payment is required"}
)

// Normalizer injects defaults into a filter set and enforces required fields.
type Normalizer struct {
	now      func() time.Time
	company  string
	validate *validator.Validate
}

// NewNormalizer builds a normalizer. company is the default company applied
// when a request names none; now may be nil to use the wall clock.
func NewNormalizer(company string, now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now, company: company, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Today returns the current date at midnight UTC.
func (n *Normalizer) Today() time.Time {
	t := n.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type window struct {
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
	FromTime string    `validate:"omitempty,datetime=15:04:05"`
	ToTime   string    `validate:"omitempty,datetime=15:04:05"`
}

// Normalize fills the default company and a month-to-date window, then
// checks the requirements in order. The input is not modified.
func (n *Normalizer) Normalize(f Filters, reqs ...Requirement) (Filters, error) {
	today := n.Today()
	if f.FromDate.IsZero() {
		f.FromDate = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if f.ToDate.IsZero() {
		f.ToDate = today
	}
	if f.Company == "" {
		f.Company = n.company
	}

	for _, req := range reqs {
		if err := n.validate.Var(f.lookup(req.Field), "required"); err != nil {
			return f, Invalid(req.Field, req.Message)
		}
	}

	w := window{From: f.FromDate, To: f.ToDate, FromTime: f.FromTime, ToTime: f.ToTime}
	if err := n.validate.Struct(w); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			switch errs[0].Field() {
			case "FromTime":
				return f, Invalid("from_time", "Invalid time in %s", "from_time")
			case "ToTime":
				return f, Invalid("to_time", "Invalid time in %s", "to_time")
			}
		}
		return f, Invalid("to_date", "To date must not be before from date")
	}
	return f, nil
}

func (f Filters) lookup(field string) string {
	if get, ok := scalarKeys[field]; ok {
		return *get(&f)
	}
	return ""
}
