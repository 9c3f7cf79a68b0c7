package reporting

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Filters is the completed filter set a report runs with. Zero values mean
// "not supplied".
type Filters struct {
	FromDate time.Time
	ToDate   time.Time
	FromTime string
	ToTime   string

	Company       string
	FiscalYear    string
	Customer      string
	Supplier      string
	ModeOfPayment string
	Account       string
	PartyType     string
	Party         string
	PaymentType   string
	Status        string
	VoucherType   string
	POSProfile    string
	ParentAccount string
	TaxAccount    string

	CostCenters []string
	Users       []string
	Warehouses  []string

	ShowCreditReturns bool
	ShowZeroValues    bool
	IncludeCancelled  bool
}

// CostCenter returns the first cost center, for reports that accept one.
func (f Filters) CostCenter() string {
	if len(f.CostCenters) == 0 {
		return ""
	}
	return f.CostCenters[0]
}

// User returns the first user, for reports that accept one.
func (f Filters) User() string {
	if len(f.Users) == 0 {
		return ""
	}
	return f.Users[0]
}

// Warehouse returns the first warehouse, for reports that accept one.
func (f Filters) Warehouse() string {
	if len(f.Warehouses) == 0 {
		return ""
	}
	return f.Warehouses[0]
}

var scalarKeys = map[string]func(*Filters) *string{
	"from_time":             func(f *Filters) *string { return &f.FromTime },
	"to_time":               func(f *Filters) *string { return &f.ToTime },
	"company":               func(f *Filters) *string { return &f.Company },
	"fiscal_year":           func(f *Filters) *string { return &f.FiscalYear },
	"customer":              func(f *Filters) *string { return &f.Customer },
	"supplier":              func(f *Filters) *string { return &f.Supplier },
	"mode_of_payment":       func(f *Filters) *string { return &f.ModeOfPayment },
	"account":               func(f *Filters) *string { return &f.Account },
	"party_type":            func(f *Filters) *string { return &f.PartyType },
	"party":                 func(f *Filters) *string { return &f.Party },
	"payment_type":          func(f *Filters) *string { return &f.PaymentType },
	"status":                func(f *Filters) *string { return &f.Status },
	"voucher_type":          func(f *Filters) *string { return &f.VoucherType },
	"pos_profile":           func(f *Filters) *string { return &f.POSProfile },
	"parent_account_filter": func(f *Filters) *string { return &f.ParentAccount },
	"tax_account":           func(f *Filters) *string { return &f.TaxAccount },
}

var listKeys = map[string]func(*Filters) *[]string{
	"cost_center":  func(f *Filters) *[]string { return &f.CostCenters },
	"cost_centers": func(f *Filters) *[]string { return &f.CostCenters },
	"user":         func(f *Filters) *[]string { return &f.Users },
	"users":        func(f *Filters) *[]string { return &f.Users },
	"owner":        func(f *Filters) *[]string { return &f.Users },
	"warehouse":    func(f *Filters) *[]string { return &f.Warehouses },
	"warehouses":   func(f *Filters) *[]string { return &f.Warehouses },
}

var flagKeys = map[string]func(*Filters) *bool{
	"show_credit_returns": func(f *Filters) *bool { return &f.ShowCreditReturns },
	"show_zero_values":    func(f *Filters) *bool { return &f.ShowZeroValues },
	"include_cancelled":   func(f *Filters) *bool { return &f.IncludeCancelled },
}

// ParseFilters reads the recognised keys from a query-string style mapping.
// Unknown keys are ignored. List keys accept repeated values and comma
// separated values.
func ParseFilters(values url.Values) (Filters, error) {
	var f Filters
	for key, raw := range values {
		key = strings.ToLower(strings.TrimSpace(key))
		switch key {
		case "from_date", "to_date":
			v := first(raw)
			if v == "" {
				continue
			}
			d, err := time.Parse(time.DateOnly, v)
			if err != nil {
				return Filters{}, Invalid(key, "Invalid date in %s", key)
			}
			if key == "from_date" {
				f.FromDate = d
			} else {
				f.ToDate = d
			}
			continue
		}
		if field, ok := scalarKeys[key]; ok {
			*field(&f) = first(raw)
			continue
		}
		if field, ok := listKeys[key]; ok {
			*field(&f) = appendUnique(*field(&f), splitList(raw)...)
			continue
		}
		if field, ok := flagKeys[key]; ok {
			v := first(raw)
			if v == "" {
				continue
			}
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Filters{}, Invalid(key, "Invalid value in %s", key)
			}
			*field(&f) = b
		}
	}
	return f, nil
}

// Values is the inverse of ParseFilters. The output is stable so it can be
// used to build cache and deduplication keys.
func (f Filters) Values() url.Values {
	out := url.Values{}
	if !f.FromDate.IsZero() {
		out.Set("from_date", FormatDate(f.FromDate))
	}
	if !f.ToDate.IsZero() {
		out.Set("to_date", FormatDate(f.ToDate))
	}
	for key, field := range scalarKeys {
		if v := *field(&f); v != "" {
			out.Set(key, v)
		}
	}
	for _, key := range []string{"cost_centers", "users", "warehouses"} {
		for _, v := range *listKeys[key](&f) {
			out.Add(key, v)
		}
	}
	for key, field := range flagKeys {
		if *field(&f) {
			out.Set(key, "1")
		}
	}
	return out
}

// Key returns a canonical encoding of the filter set.
func (f Filters) Key() string {
	values := f.Values()
	for _, vs := range values {
		sort.Strings(vs)
	}
	return values.Encode()
}

func first(raw []string) string {
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func splitList(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		dup := false
		for _, existing := range dst {
			if existing == v {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, v)
		}
	}
	return dst
}
