package accounts

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// TaxAccounts maps a company to the accounts holding its recoverable tax.
//
// The file format is a mapping of company name to account names:
//
//	Muzaini Trading:
//	  - VAT 15% - MT
//	  - Input VAT - MT
type TaxAccounts map[string][]string

// LoadTaxAccounts reads a tax account mapping. An empty path yields an empty
// mapping.
func LoadTaxAccounts(path string) (TaxAccounts, error) {
	if path == "" {
		return TaxAccounts{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("accounts: open tax accounts: %w", err)
	}
	defer f.Close()
	return ParseTaxAccounts(f)
}

// ParseTaxAccounts decodes the YAML mapping. Empty and duplicate names are
// dropped.
func ParseTaxAccounts(r io.Reader) (TaxAccounts, error) {
	raw := map[string][]string{}
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("accounts: decode tax accounts: %w", err)
	}
	out := make(TaxAccounts, len(raw))
	for company, list := range raw {
		seen := make(map[string]struct{}, len(list))
		for _, name := range list {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out[company] = append(out[company], name)
		}
	}
	return out, nil
}

// For returns the configured accounts of a company.
func (t TaxAccounts) For(company string) ([]string, bool) {
	list, ok := t[company]
	if !ok || len(list) == 0 {
		return nil, false
	}
	return append([]string(nil), list...), true
}

// Companies lists the configured companies in order.
func (t TaxAccounts) Companies() []string {
	out := make([]string, 0, len(t))
	for company := range t {
		out = append(out, company)
	}
	sort.Strings(out)
	return out
}
