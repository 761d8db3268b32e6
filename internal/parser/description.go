// Package parser extracts structured facts from free-text project
// descriptions: street address, borough, disturbed area, and new
// impervious area. Extraction is intentionally conservative; anything
// not matched is left unset and resolved downstream.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Description holds the facts extracted from a project description.
type Description struct {
	// Text is the original description.
	Text string

	// StreetAddress is the matched street address, empty if none found.
	StreetAddress string

	// Borough is the canonical borough name (e.g. "Staten Island"),
	// empty if none found.
	Borough string

	// DisturbedAreaSF is the disturbed soil area in square feet, nil if
	// the description gives no figure.
	DisturbedAreaSF *float64

	// FullSiteDisturbed is set when the description says the entire
	// site/lot/parcel is disturbed; the actual figure is the lot area,
	// known only after a parcel lookup.
	FullSiteDisturbed bool

	// NewImperviousSF is the new impervious area in square feet. A
	// nominal 1 is used when a new building is mentioned without a
	// figure; 0 means no new impervious area was indicated.
	NewImperviousSF float64
}

// Square footage figures like "12,000 SF" or "12000 sq ft".
var sfNumberPattern = regexp.MustCompile(`(?i)([\d,]+)\s*(?:sf|square\s*feet|sq\s*ft)`)

// Street addresses like "460 New Dorp Lane" or "116 3rd Avenue".
var addressPattern = regexp.MustCompile(
	`(?i)\b(\d+\s+[A-Za-z0-9.\-'\s]+?\s+(?:Street|St|Avenue|Ave|Boulevard|Blvd|Lane|Ln|Road|Rd|Drive|Dr))\b`,
)

// Borough mentions, with or without "in the borough of". Boundaries
// sit inside the alternation so the "S.I." shorthand, which ends on a
// non-word character, can still match.
var boroughPattern = regexp.MustCompile(
	`(?i)\b(?:in\s+(?:the\s+borough\s+of\s+)?)?(Bronx\b|Brooklyn\b|Queens\b|Manhattan\b|Staten\s+Island\b|S\.I\.|SI\b)`,
)

// Phrases that give an explicit disturbed-area figure.
var disturbPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)disturb(?:s|ed|ance|ing)?\s*(?:approximately|around|roughly)?\s*([\d,]+\s*(?:sf|square\s*feet|sq\s*ft))`),
	regexp.MustCompile(`(?i)soil\s+disturbance\s*(?:of)?\s*([\d,]+\s*(?:sf|square\s*feet))`),
}

// Phrases implying the entire site is disturbed.
var fullSitePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)disturb(?:ing|s|ed)?\s+(?:the\s+)?(?:entire|full)\s+(?:site|lot|parcel)`),
	regexp.MustCompile(`(?i)(?:entire|full)\s+(?:site|lot|parcel)\s+will\s+be\s+disturbed`),
	regexp.MustCompile(`(?i)full[-\s]?site`),
	regexp.MustCompile(`(?i)full[-\s]?lot`),
	regexp.MustCompile(`(?i)full[-\s]?parcel`),
	regexp.MustCompile(`(?i)full[-\s]depth\s+reconstruction`),
	regexp.MustCompile(`(?i)the\s+entire\s+.*\s+will\s+be\s+disturbed`),
}

// Phrases that give an explicit new-impervious figure.
var imperviousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)new\s+impervious\s+area\s*(?:of)?\s*([\d,]+\s*(?:sf|square\s*feet))`),
	regexp.MustCompile(`(?i)adding\s*([\d,]+\s*(?:sf|square\s*feet))\s+of\s+new\s+impervious`),
	regexp.MustCompile(`(?i)(?:propos(?:es|ing)\s*)?([\d,]+\s*(?:sf|square\s*feet))\s*(?:of)?\s*new\s+impervious`),
}

// Phrases implying a new building, and therefore some new impervious area.
var newBuildingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)new\s+building`),
	regexp.MustCompile(`(?i)construction\s+of\s+(?:a\s+)?new`),
	regexp.MustCompile(`(?i)construct(?:ing)?\s+.*\s+new\s+building`),
	regexp.MustCompile(`(?i)constructing\s+a\s+new`),
	regexp.MustCompile(`(?i)erect(?:ing)?\s+a\s+new`),
	regexp.MustCompile(`(?i)propos(?:es|ing)\s+(?:a\s+)?.*new\s+building`),
	regexp.MustCompile(`(?i)replace(?:s|d|ment)?\s+.*\s+with\s+a\s+new\s+building`),
	regexp.MustCompile(`(?i)new\s+\d+-story\s+building`),
	regexp.MustCompile(`(?i)new\s+structure`),
}

var titleCaser = cases.Title(language.AmericanEnglish)

// Parse extracts a Description from raw text.
func Parse(text string) Description {
	d := Description{Text: text}

	if m := addressPattern.FindStringSubmatch(text); m != nil {
		d.StreetAddress = strings.TrimSpace(m[1])
	}
	if m := boroughPattern.FindStringSubmatch(text); m != nil {
		d.Borough = CanonicalBorough(m[1])
	}

	// Explicit disturbance phrases win over bare figures.
	for _, pat := range disturbPatterns {
		if m := pat.FindStringSubmatch(text); m != nil {
			if v, ok := extractSquareFeet(m[1]); ok {
				d.DisturbedAreaSF = &v
			}
			break
		}
	}

	// A single square-footage figure with no other context is assumed
	// to be the disturbed area.
	if d.DisturbedAreaSF == nil {
		if all := sfNumberPattern.FindAllStringSubmatch(text, -1); len(all) == 1 {
			if v, ok := extractSquareFeet(all[0][1]); ok {
				d.DisturbedAreaSF = &v
			}
		}
	}

	if d.DisturbedAreaSF == nil {
		for _, pat := range fullSitePatterns {
			if pat.MatchString(text) {
				d.FullSiteDisturbed = true
				break
			}
		}
	}

	for _, pat := range imperviousPatterns {
		if m := pat.FindStringSubmatch(text); m != nil {
			if v, ok := extractSquareFeet(m[1]); ok {
				d.NewImperviousSF = v
			}
			break
		}
	}

	if d.NewImperviousSF == 0 {
		for _, pat := range newBuildingPatterns {
			if pat.MatchString(text) {
				d.NewImperviousSF = 1
				break
			}
		}
	}

	return d
}

// CanonicalBorough normalizes a matched borough token to its canonical
// name. "SI" and "S.I." are Staten Island shorthands.
func CanonicalBorough(s string) string {
	switch strings.ToUpper(strings.ReplaceAll(s, ".", "")) {
	case "SI":
		return "Staten Island"
	}
	// Collapse internal whitespace ("Staten   Island") and fix casing.
	fields := strings.Fields(s)
	return titleCaser.String(strings.Join(fields, " "))
}

var nonDigit = regexp.MustCompile(`[^\d]`)

// extractSquareFeet converts strings like "12,000 SF" to 12000.
func extractSquareFeet(s string) (float64, bool) {
	cleaned := nonDigit.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
