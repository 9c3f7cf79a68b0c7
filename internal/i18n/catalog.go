// Package i18n holds the process-wide message catalog used to localize report
// labels and the money formatting shared by every report.
package i18n

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Catalog resolves request languages to Localizers.
type Catalog struct {
	builder  *catalog.Builder
	matcher  language.Matcher
	tags     []language.Tag
	fallback language.Tag
}

// NewCatalog builds the catalog with Arabic and English. defaultLang is used
// when a request expresses no usable preference.
func NewCatalog(defaultLang string) (*Catalog, error) {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range arabic {
		if err := builder.SetString(language.Arabic, key, msg); err != nil {
			return nil, fmt.Errorf("i18n: register %q: %w", key, err)
		}
	}

	fallback := language.Arabic
	if defaultLang != "" {
		tag, err := language.Parse(defaultLang)
		if err != nil {
			return nil, fmt.Errorf("i18n: default language %q: %w", defaultLang, err)
		}
		fallback = tag
	}
	tags := []language.Tag{language.Arabic, language.English}
	if base, _ := fallback.Base(); base.String() == "en" {
		tags = []language.Tag{language.English, language.Arabic}
	}

	return &Catalog{
		builder:  builder,
		matcher:  language.NewMatcher(tags),
		tags:     tags,
		fallback: tags[0],
	}, nil
}

// MustCatalog is NewCatalog for static defaults.
func MustCatalog(defaultLang string) *Catalog {
	c, err := NewCatalog(defaultLang)
	if err != nil {
		panic(err)
	}
	return c
}

// Localizer returns a Localizer for an Accept-Language header value or a
// plain tag such as "en".
func (c *Catalog) Localizer(accept string) *Localizer {
	tag := c.fallback
	if strings.TrimSpace(accept) != "" {
		if prefs, _, err := language.ParseAcceptLanguage(accept); err == nil && len(prefs) > 0 {
			_, idx, conf := c.matcher.Match(prefs...)
			if conf != language.No {
				tag = c.tags[idx]
			}
		}
	}
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(c.builder)),
	}
}

// Localizer translates message ids for one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// T translates key and applies args to the translated format.
func (l *Localizer) T(key string, args ...any) string {
	if l == nil || l.printer == nil {
		return message.NewPrinter(language.English).Sprintf(key, args...)
	}
	return l.printer.Sprintf(key, args...)
}

// Label translates a value coming from the database, such as a raw document
// status. Values unknown to the catalog are returned unchanged.
func (l *Localizer) Label(value string) string {
	if value == "" || strings.Contains(value, "%") {
		return value
	}
	return l.T(value)
}

// Money renders an amount with two decimals and thousands grouping. Digits
// stay ASCII in every language.
func (l *Localizer) Money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.Grow(len(sign) + len(whole) + len(whole)/3 + len(frac) + 1)
	b.WriteString(sign)
	for i := 0; i < len(whole); i++ {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(whole[i])
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// Tag returns the resolved language.
func (l *Localizer) Tag() language.Tag {
	if l == nil {
		return language.English
	}
	return l.tag
}

// Dir returns the text direction for HTML rendering.
func (l *Localizer) Dir() string {
	if base, _ := l.Tag().Base(); base.String() == "ar" {
		return "rtl"
	}
	return "ltr"
}
