package detect

import (
	"context"
	"regexp"

	"github.com/nao1215/redactor/internal/model"
)

// patternRule binds a compiled expression to the category it detects.
type patternRule struct {
	category model.Category
	re       *regexp.Regexp
	// localPart makes the rule emit name tokens from capture group 1
	// instead of the whole match.
	localPart bool
}

// defaultRules is the fixed pattern table, in emission order.
// Horizontal whitespace only: no rule spans a line break.
var defaultRules = []patternRule{
	{
		category: model.CategoryNames,
		re:       regexp.MustCompile(`\b[A-Z][a-z]+(?:[ \t][A-Z][a-z]+)+\b`),
	},
	{
		category:  model.CategoryNames,
		re:        regexp.MustCompile(`(?i)\b([a-z]+(?:[._][a-z]+)+)@[\w.-]+\b`),
		localPart: true,
	},
	{
		category: model.CategoryPhones,
		re: regexp.MustCompile(
			`(?:\+\d{1,2}[ \t-])?(?:\(\d{3}\)[ \t]?|\b\d{3}[ \t.-]?)\d{3}[ \t.-]?\d{4}\b` +
				`|\+\d{10,12}\b`),
	},
	{
		category: model.CategoryDates,
		re: regexp.MustCompile(
			`(?i)\b(?:\d{1,2}[/-])?\d{1,2}[/-]\d{2,4}\b` +
				`|\b(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?` +
				`|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)[ \t]\d{1,2},?[ \t]\d{4}\b`),
	},
	{
		category: model.CategoryAddresses,
		re: regexp.MustCompile(
			`\b\d{1,5}[ \t]+(?:[A-Z][a-zA-Z]*[ \t]+){1,5}` +
				`(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Highway|Hwy` +
				`|Place|Pl|Square|Sq|Building|Bldg|Apartment|Apt|Suite|Ste)\b\.?`),
	},
}

// PatternDetector runs the regular expression table for names, dates,
// phone numbers and addresses.
//
// Rules are independent: a single piece of text may match several of them,
// and each match is a separate detection.
type PatternDetector struct {
	rules []patternRule
}

// NewPatternDetector creates a PatternDetector with the built-in rule table.
func NewPatternDetector() *PatternDetector {
	return &PatternDetector{rules: defaultRules}
}

// Name returns the detector name.
func (d *PatternDetector) Name() string {
	return NamePattern
}

// Detect runs every rule whose category is active.
func (d *PatternDetector) Detect(ctx context.Context, doc *model.Document, active model.CategorySet) ([]model.Detection, error) {
	text := doc.Text()
	var out []model.Detection
	for _, rule := range d.rules {
		if !active.Has(rule.category) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if rule.localPart {
			for _, m := range rule.re.FindAllStringSubmatchIndex(text, -1) {
				out = append(out, localPartNames(doc, m[2], text[m[2]:m[3]], NamePattern)...)
			}
			continue
		}

		for _, m := range rule.re.FindAllStringIndex(text, -1) {
			out = append(out, model.Detection{
				Span:     doc.SpanFromBytes(m[0], m[1]),
				Category: rule.category,
				Source:   NamePattern,
			})
		}
	}
	return out, nil
}
