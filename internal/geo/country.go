// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package geo

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/unicode/norm"
)

const (
	// UnknownCountry is the sentinel country for anything that cannot be resolved.
	UnknownCountry = "Unknown country"

	// UnknownLocation is the sentinel label for an unresolved place.
	UnknownLocation = "Unknown location"

	// GlobeEmoji is shown in place of a flag when no region code is known.
	GlobeEmoji = "\U0001F30D"
)

// countryNameAliases fixes non-standard spellings before the English lookup.
var countryNameAliases = map[string]string{
	"usa":                      "United States",
	"u.s.a.":                   "United States",
	"united states of america": "United States",
	"uk":                       "United Kingdom",
	"uae":                      "United Arab Emirates",
}

// countryCodeNameAliases maps alternate spellings onto the English name whose
// code they should share. An alias is only registered when its canonical
// name resolves to a code.
var countryCodeNameAliases = map[string]string{
	"bolivia":            "Bolivia",
	"brunei darussalam":  "Brunei",
	"cape verde":         "Cabo Verde",
	"congo kinshasa":     "Congo - Kinshasa",
	"congo brazzaville":  "Congo - Brazzaville",
	"curacao":            "Curacao",
	"cote divoire":       "Cote d'Ivoire",
	"cote d ivoire":      "Cote d'Ivoire",
	"ivory coast":        "Cote d'Ivoire",
	"czech republic":     "Czechia",
	"falkland islands":   "Falkland Islands (Islas Malvinas)",
	"micronesia":         "Micronesia",
	"iran":               "Iran",
	"laos":               "Laos",
	"moldova":            "Moldova",
	"north korea":        "North Korea",
	"south korea":        "South Korea",
	"palestine":          "Palestine",
	"russia":             "Russia",
	"reunion":            "Reunion",
	"swaziland":          "Eswatini",
	"syria":              "Syria",
	"tanzania":           "Tanzania",
	"timor leste":        "Timor-Leste",
	"east timor":         "Timor-Leste",
	"turkey":             "Turkiye",
	"venezuela":          "Venezuela",
	"vietnam":            "Vietnam",
	"wallis and futuna":  "Wallis & Futuna",
}

var countryNameToCodeOverrides = map[string]string{
	"kosovo":       "XK",
	"vatican city": "VA",
}

var countryCodeAliases = map[string]string{
	"UK": "GB",
}

// LocaleHints lists the locales whose region display names are folded into
// the reverse index.
var LocaleHints = []string{
	"en", "es", "fr", "de", "it", "pt", "nl", "da", "sv", "no", "fi",
	"pl", "cs", "sk", "sl", "hr", "hu", "ro", "bg", "el", "tr",
	"ru", "uk", "sr", "mk", "sq", "hy", "ka", "az", "he", "ar", "fa",
	"hi", "bn", "ur", "th", "vi", "id", "ms", "zh", "ja", "ko",
}

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	nonAlnumRun    = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	regionCodeExpr = regexp.MustCompile(`^[A-Z]{2}$`)
)

// Normalizer resolves free-form country names and codes. It is immutable
// once built.
type Normalizer struct {
	englishByKey map[string]string
	codeByKey    map[string]string
}

// NewNormalizer builds the reverse indexes from the CLDR region names shipped
// with golang.org/x/text.
func NewNormalizer() *Normalizer {
	n := &Normalizer{
		englishByKey: make(map[string]string, 4096),
		codeByKey:    make(map[string]string, 512),
	}
	n.build()
	return n
}

type regionName struct {
	region  language.Region
	code    string
	english string
}

func allRegions() []regionName {
	english := display.English.Regions()
	out := make([]regionName, 0, 300)
	for i := 'A'; i <= 'Z'; i++ {
		for j := 'A'; j <= 'Z'; j++ {
			code := string([]rune{i, j})
			region, err := language.ParseRegion(code)
			if err != nil || region.String() != code {
				continue
			}
			// Deprecated codes such as FX, ZR and WK share an English name
			// with their replacement.
			if region.Canonicalize() != region {
				continue
			}
			name := english.Name(region)
			if name == "" || name == code {
				continue
			}
			out = append(out, regionName{region: region, code: code, english: name})
		}
	}
	return out
}

func (n *Normalizer) build() {
	regions := allRegions()

	for _, r := range regions {
		key := LookupKey(r.english)
		n.englishByKey[key] = r.english
		if _, taken := n.codeByKey[key]; !taken {
			n.codeByKey[key] = r.code
		}
	}

	for _, locale := range LocaleHints {
		tag, err := language.Parse(locale)
		if err != nil {
			continue
		}
		namer := display.Regions(tag)
		if namer == nil {
			continue
		}
		for _, r := range regions {
			localized := namer.Name(r.region)
			if localized == "" || localized == r.code {
				continue
			}
			if key := LookupKey(localized); key != "" {
				n.englishByKey[key] = r.english
			}
		}
	}

	for alias, canonical := range countryCodeNameAliases {
		if code, ok := n.codeByKey[LookupKey(canonical)]; ok {
			n.codeByKey[LookupKey(alias)] = code
		}
	}
	for name, code := range countryNameToCodeOverrides {
		n.codeByKey[LookupKey(name)] = code
	}
}

// LookupKey folds a name into its index key: compatibility-decomposed,
// combining marks stripped, "&" spelled out, runs of anything other than
// ASCII letters and digits collapsed to one space, lower-cased.
func LookupKey(value string) string {
	stripped := strings.Map(func(r rune) rune {
		if r >= 0x0300 && r <= 0x036f {
			return -1
		}
		return r
	}, norm.NFKD.String(value))
	stripped = strings.ReplaceAll(stripped, "&", " and ")
	stripped = nonAlnumRun.ReplaceAllString(stripped, " ")
	return strings.ToLower(strings.TrimSpace(stripped))
}

func collapseSpace(value string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(value), " ")
}

func isUnknownLabel(lower string) bool {
	return lower == "unknown location" || lower == "unknown country"
}

// EnglishName returns the canonical English name for any indexed spelling,
// or "" when the name is not recognized.
func (n *Normalizer) EnglishName(name string) string {
	key := LookupKey(name)
	if key == "" {
		return ""
	}
	return n.englishByKey[key]
}

// CountryName returns the canonical English country name for raw input.
// Unrecognized names pass through whitespace-collapsed; empty or placeholder
// input becomes UnknownCountry.
func (n *Normalizer) CountryName(raw string) string {
	value := collapseSpace(raw)
	if value == "" {
		return UnknownCountry
	}
	lower := strings.ToLower(value)
	if isUnknownLabel(lower) {
		return UnknownCountry
	}
	if alias, ok := countryNameAliases[lower]; ok {
		value = alias
	}
	if english := n.EnglishName(value); english != "" {
		return english
	}
	return value
}

// CodeFromName returns the region code for a country name, or "".
func (n *Normalizer) CodeFromName(name string) string {
	country := n.CountryName(name)
	if country == UnknownCountry {
		return ""
	}
	return NormalizeCountryCode(n.codeByKey[LookupKey(country)])
}

// NormalizeCountryCode upper-cases a code and applies known code aliases.
func NormalizeCountryCode(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if alias, ok := countryCodeAliases[c]; ok {
		return alias
	}
	return c
}

// ValidCountryCode reports whether code is a well-formed two-letter code
// after normalization.
func ValidCountryCode(code string) bool {
	return regionCodeExpr.MatchString(NormalizeCountryCode(code))
}

// CountryGroupKey returns a key under which entries for the same country
// group together regardless of whether they were resolved by name or code.
func (n *Normalizer) CountryGroupKey(country, code string) string {
	if c := NormalizeCountryCode(code); regionCodeExpr.MatchString(c) {
		return "cc:" + c
	}
	return "nm:" + strings.ToLower(n.CountryName(country))
}

// IsUnknownCountry reports whether a canonical country name is the sentinel.
func IsUnknownCountry(country string) bool {
	return country == "" || country == UnknownCountry
}

// FlagEmoji renders a region code as a pair of regional indicator symbols.
func FlagEmoji(code string) string {
	c := NormalizeCountryCode(code)
	if !regionCodeExpr.MatchString(c) {
		return GlobeEmoji
	}
	const regionalIndicatorOffset = 127397
	return string([]rune{rune(c[0]) + regionalIndicatorOffset, rune(c[1]) + regionalIndicatorOffset})
}

// ParseCountryFromLabel extracts the country from a "City, Country" label.
func ParseCountryFromLabel(label string) string {
	raw := strings.TrimSpace(label)
	if raw == "" || isUnknownLabel(strings.ToLower(raw)) {
		return UnknownCountry
	}
	if !strings.Contains(raw, ",") {
		return raw
	}
	parts := strings.Split(raw, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		if part := strings.TrimSpace(parts[i]); part != "" {
			return part
		}
	}
	return UnknownCountry
}

// FormatLabel joins a locality and a country into a display label.
func FormatLabel(locality, country string) string {
	switch {
	case locality != "" && country != "":
		return locality + ", " + country
	case country != "":
		return country
	case locality != "":
		return locality
	default:
		return UnknownLocation
	}
}
