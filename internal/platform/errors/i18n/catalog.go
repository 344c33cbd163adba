// Package i18n resolves user-facing error messages per locale.
package i18n

import (
	"bytes"
	"strings"
	"text/template"

	"golang.org/x/text/language"
)

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// BaseLocale is the locale used when no requested locale matches.
const BaseLocale = "en-US"

var supported = []language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
}

var matcher = language.NewMatcher(supported)

// catalogs is indexed like supported.
var catalogs = []*Catalog{
	NewCatalog(language.AmericanEnglish.String(), enUSMessages),
	NewCatalog(language.BrazilianPortuguese.String(), ptBRMessages),
}

// Catalog maps error codes to message templates for one locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

// NewCatalog creates a catalog for locale.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	return &Catalog{locale: locale, messages: messages}
}

// GetCatalog returns the catalog best matching an Accept-Language style
// locale list such as "pt-BR,pt;q=0.9,en;q=0.5". Unknown or empty input
// resolves to the en-US catalog.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		return catalogs[0]
	}
	tags, _, err := language.ParseAcceptLanguage(requested)
	if err != nil || len(tags) == 0 {
		return catalogs[0]
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return catalogs[0]
	}
	return catalogs[index]
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template for code with metadata.
// Falls back to the base catalog, then to the code itself.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		if tmpl, ok = catalogs[0].messages[code]; !ok {
			return code
		}
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}
