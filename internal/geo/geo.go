// Package geo holds the fixed European country lookup tables used for
// country resolution, slug mapping, and flag glyphs. Tables are immutable
// package-level data, initialized once at process start.
package geo

import "strings"

// CountryNameByCode maps ISO 3166-1 alpha-2 codes to display names for
// every country the directory covers.
var CountryNameByCode = map[string]string{
	"DE": "Germany", "FR": "France", "IT": "Italy", "ES": "Spain",
	"NL": "Netherlands", "BE": "Belgium", "AT": "Austria", "CH": "Switzerland",
	"PL": "Poland", "CZ": "Czech Republic", "GB": "United Kingdom",
	"IE": "Ireland", "SE": "Sweden", "DK": "Denmark", "NO": "Norway",
	"FI": "Finland", "PT": "Portugal", "HU": "Hungary", "HR": "Croatia",
	"SI": "Slovenia", "LU": "Luxembourg", "SK": "Slovakia", "RO": "Romania",
	"BG": "Bulgaria", "GR": "Greece", "LT": "Lithuania", "LV": "Latvia",
	"EE": "Estonia",
}

// CountryCodeByName is the reverse of CountryNameByCode, plus the long
// official UK name some providers return.
var CountryCodeByName = func() map[string]string {
	m := make(map[string]string, len(CountryNameByCode)+1)
	for code, name := range CountryNameByCode {
		m[name] = code
	}
	m["United Kingdom of Great Britain and Northern Ireland"] = "GB"
	return m
}()

// CountrySlugByName maps display names to their canonical slugs. Countries
// absent here fall back to slugifying the name.
var CountrySlugByName = map[string]string{
	"Germany": "germany", "France": "france", "Italy": "italy", "Spain": "spain",
	"Netherlands": "netherlands", "Belgium": "belgium", "Austria": "austria",
	"Switzerland": "switzerland", "Poland": "poland", "Czech Republic": "czech-republic",
	"United Kingdom": "united-kingdom", "Ireland": "ireland", "Sweden": "sweden",
	"Denmark": "denmark", "Norway": "norway", "Finland": "finland", "Portugal": "portugal",
	"Hungary": "hungary", "Croatia": "croatia", "Slovenia": "slovenia",
	"Luxembourg": "luxembourg", "Slovakia": "slovakia",
}

// IsCountryName reports whether s equals a known country display name,
// case-insensitively.
func IsCountryName(s string) bool {
	for _, name := range CountryNameByCode {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// Resolve returns the canonical (name, code) pair for a raw country name
// and/or code. An explicit code present in the table wins over the name;
// any "United Kingdom..." variant collapses to the canonical short name.
// When neither resolves, the raw values pass through unchanged.
func Resolve(rawName, rawCode string) (name, code string) {
	name, code = rawName, rawCode

	if strings.Contains(name, "United Kingdom") {
		name = "United Kingdom"
	}

	if code != "" {
		if n, ok := CountryNameByCode[code]; ok {
			return n, code
		}
	}
	if c, ok := CountryCodeByName[name]; ok {
		if n, ok := CountryNameByCode[c]; ok {
			name = n
		}
		return name, c
	}
	return name, code
}

// FlagForCode returns the flag glyph for an ISO alpha-2 code by mapping
// each letter to its regional indicator symbol. Unknown input yields "".
func FlagForCode(code string) string {
	code = strings.ToUpper(code)
	if len(code) != 2 {
		return ""
	}
	out := make([]rune, 0, 2)
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
		out = append(out, 0x1F1E6+r-'A')
	}
	return string(out)
}
