package reporting

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/muzaini-app/muzaini-reports/internal/i18n"
	_ "github.com/muzaini-app/muzaini-reports/testing"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 17, 15, 4, 5, 0, time.UTC)
}

func TestParseFiltersRecognisesKeys(t *testing.T) {
	values := url.Values{
		"from_date":             {"2025-01-01"},
		"to_date":               {"2025-01-31"},
		"company":               {"Muzaini"},
		"customer":              {"CUST-1"},
		"cost_center":           {"Main - M", "Branch - M,Main - M"},
		"users":                 {"a@x.com"},
		"owner":                 {"b@x.com"},
		"show_zero_values":      {"1"},
		"parent_account_filter": {"Assets - M"},
		"ignored":               {"x"},
	}
	f, err := ParseFilters(values)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), f.FromDate)
	require.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), f.ToDate)
	require.Equal(t, "Muzaini", f.Company)
	require.Equal(t, "CUST-1", f.Customer)
	require.Equal(t, []string{"Main - M", "Branch - M"}, f.CostCenters)
	require.ElementsMatch(t, []string{"a@x.com", "b@x.com"}, f.Users)
	require.True(t, f.ShowZeroValues)
	require.Equal(t, "Assets - M", f.ParentAccount)
	require.Equal(t, "Main - M", f.CostCenter())
}

func TestParseFiltersRejectsBadDate(t *testing.T) {
	_, err := ParseFilters(url.Values{"from_date": {"01/02/2025"}})
	require.ErrorIs(t, err, ErrInvalidFilter)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "from_date", verr.Field)
	require.Equal(t, "Invalid date in from_date", verr.Message(nil))
}

func TestFiltersKeyRoundTrips(t *testing.T) {
	f := Filters{
		FromDate:         time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Company:          "Muzaini",
		Supplier:         "SUP-9",
		CostCenters:      []string{"B", "A"},
		IncludeCancelled: true,
	}
	parsed, err := ParseFilters(f.Values())
	require.NoError(t, err)
	require.Equal(t, f.Key(), parsed.Key())
	require.True(t, parsed.IncludeCancelled)
	require.Equal(t, "SUP-9", parsed.Supplier)
}

func TestNormalizeInjectsMonthToDate(t *testing.T) {
	n := NewNormalizer("Default Co", fixedNow)
	f, err := n.Normalize(Filters{})
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), f.FromDate)
	require.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), f.ToDate)
	require.Equal(t, "Default Co", f.Company)
}

func TestNormalizeKeepsSuppliedValues(t *testing.T) {
	n := NewNormalizer("Default Co", fixedNow)
	in := Filters{FromDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Company: "Other"}
	f, err := n.Normalize(in, RequireCustomer)
	require.Error(t, err)
	require.True(t, in.ToDate.IsZero(), "input must not be mutated")
	require.Equal(t, "Other", f.Company)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), f.FromDate)
}

func TestNormalizeRequiredFields(t *testing.T) {
	n := NewNormalizer("", fixedNow)
	ar := i18n.MustCatalog("ar").Localizer("ar")

	cases := []struct {
		req     Requirement
		message string
	}{
		{RequireCustomer, "يرجى تحديد العميل"},
		{RequireSupplier, "يرجى تحديد المورد"},
		{RequireModeOfPayment, "طريقة الدفع مطلوبة"},
	}
	for _, tc := range cases {
		_, err := n.Normalize(Filters{}, tc.req)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), tc.req.Field)
		require.Equal(t, tc.req.Field, verr.Field)
		require.Equal(t, tc.message, verr.Message(ar))
	}

	_, err := n.Normalize(Filters{Customer: "CUST-1"}, RequireCustomer)
	require.NoError(t, err)
}

func TestNormalizeRejectsInvertedWindowAndBadTime(t *testing.T) {
	n := NewNormalizer("", fixedNow)
	_, err := n.Normalize(Filters{
		FromDate: time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "to_date", verr.Field)

	_, err = n.Normalize(Filters{FromTime: "25:00"})
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "from_time", verr.Field)

	_, err = n.Normalize(Filters{FromTime: "08:30:00", ToTime: "17:00:00"})
	require.NoError(t, err)
}

type stubRunner struct {
	name string
	res  Result
	err  error
}

func (s stubRunner) Name() string { return s.name }

func (s stubRunner) Run(context.Context, Filters, *i18n.Localizer) (Result, error) {
	return s.res, s.err
}

type recordingObserver struct {
	names []string
	errs  []error
}

func (o *recordingObserver) ObserveReport(name string, _ time.Duration, err error) {
	o.names = append(o.names, name)
	o.errs = append(o.errs, err)
}

func TestRegistryRunsAndObserves(t *testing.T) {
	obs := &recordingObserver{}
	reg := NewRegistry(nil, obs)
	reg.Register(stubRunner{name: "b"}, stubRunner{name: "a", err: Invalid("customer", "Please select a customer")})

	require.Equal(t, []string{"a", "b"}, reg.Names())

	res, err := reg.Run(context.Background(), "b", Filters{}, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Rows)

	_, err = reg.Run(context.Background(), "a", Filters{}, nil)
	require.ErrorIs(t, err, ErrInvalidFilter)

	_, err = reg.Run(context.Background(), "missing", Filters{}, nil)
	require.ErrorIs(t, err, ErrUnknownReport)

	require.Equal(t, []string{"b", "a"}, obs.names)
	require.NoError(t, obs.errs[0])
	require.Error(t, obs.errs[1])
}

func TestRowFlags(t *testing.T) {
	require.True(t, Row{FlagTotal: true}.Synthetic())
	require.False(t, Row{"debit": 1}.Synthetic())
	require.False(t, Row{FlagTotal: "yes"}.Flag(FlagTotal))
}

func TestLocalizeColumns(t *testing.T) {
	ar := i18n.MustCatalog("ar").Localizer("ar")
	cols := Localize(ar, Column{FieldName: "debit", Label: "Debit", Type: TypeCurrency})
	require.Equal(t, "مدين", cols[0].Label)
	require.Equal(t, "", FormatDate(time.Time{}))
}
