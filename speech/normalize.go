// Package speech rewrites assistant text into a form that reads naturally
// when fed to a speech synthesizer: unit abbreviations are expanded, large
// numbers and decimals are verbalized, identifier-like tokens are redacted,
// and markdown markup is stripped.
package speech

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pass is a single rewrite stage. Passes run in pipeline order and each one
// observes the output of the previous, so the position of a pass is part of
// the contract: decimal verbalization must run after integer verbalization
// (one-decimal magnitudes like "1.5 million" are rewritten to "1 and a half
// million") and before nothing removes the digits it targets.
type Pass struct {
	Name  string
	apply func(string) string
}

// pipeline is the ordered rewrite sequence. Do not reorder.
var pipeline = []Pass{
	{"expand-units", expandUnits},
	{"verbalize-integers", verbalizeIntegers},
	{"verbalize-decimals", verbalizeDecimals},
	{"redact-identifiers", redactIdentifiers},
	{"strip-markdown", stripMarkdown},
	{"replace-chars", replaceChars},
}

// Normalize rewrites text for speech synthesis. It is a pure function: no
// state, no I/O, safe for concurrent use, and it never fails — unmatched
// patterns are no-ops. Every regular expression below is RE2, so matching is
// linear in the input even on adversarial text.
func Normalize(text string) string {
	for _, p := range pipeline {
		text = p.apply(text)
	}
	return text
}

// Passes returns the names of the rewrite stages in execution order.
func Passes() []string {
	names := make([]string, len(pipeline))
	for i, p := range pipeline {
		names[i] = p.Name
	}
	return names
}

// unitExpansions maps whole-word technical tokens to their spoken form.
// Earlier entries win: compound rates like MBps must be expanded before the
// bare storage units so "MB" never fires inside "MBps".
var unitExpansions = []struct {
	abbrev string
	spoken string
}{
	// Data rates
	{"MBps", "megabytes per second"},
	{"Mbps", "megabits per second"},
	{"GBps", "gigabytes per second"},
	{"Gbps", "gigabits per second"},
	{"KBps", "kilobytes per second"},
	{"Kbps", "kilobits per second"},
	{"KiB/s", "kilobytes per second"},
	{"Bytes/s", "bytes per second"},

	// Storage units
	{"MB", "megabytes"},
	{"GB", "gigabytes"},
	{"TB", "terabytes"},
	{"KB", "kilobytes"},
	{"PB", "petabytes"},

	// Power and frequency
	{"MHz", "megahertz"},
	{"GHz", "gigahertz"},
	{"kHz", "kilohertz"},
	{"mW", "milliwatts"},
	{"W", "watts"},
	{"kW", "kilowatts"},

	// Time units. "0 us" collapses to plain "0" so zero latencies don't
	// read as "zero microseconds".
	{"ms", "milliseconds"},
	{"0 us", "0"},
	{"us", "microseconds"},
	{"ns", "nanoseconds"},

	{"JSON", "jay son"},
	{"YAML", "yah ml"},
}

var unitPatterns = compileUnitPatterns()

func compileUnitPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(unitExpansions))
	for i, u := range unitExpansions {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(u.abbrev) + `\b`)
	}
	return patterns
}

func expandUnits(text string) string {
	for i, u := range unitExpansions {
		text = unitPatterns[i].ReplaceAllString(text, u.spoken)
	}
	return text
}

var integerRun = regexp.MustCompile(`\b\d{4,}\b`)

func verbalizeIntegers(text string) string {
	return integerRun.ReplaceAllStringFunc(text, func(match string) string {
		n, err := strconv.ParseInt(match, 10, 64)
		if err != nil {
			return match
		}
		return spellMagnitude(n, match)
	})
}

// spellMagnitude converts a 4+ digit integer to a magnitude phrase.
// Non-exact values get a one-decimal form ("1.5 million") that the decimal
// pass immediately rewrites ("1 and a half million").
func spellMagnitude(n int64, raw string) string {
	switch {
	case n >= 1_000_000_000:
		if n%1_000_000_000 == 0 {
			return fmt.Sprintf("%d billion", n/1_000_000_000)
		}
		return fmt.Sprintf("%.1f billion", float64(n)/1e9)
	case n >= 1_000_000:
		if n%1_000_000 == 0 {
			return fmt.Sprintf("%d million", n/1_000_000)
		}
		return fmt.Sprintf("%.1f million", float64(n)/1e6)
	case n >= 100_000:
		// Prefer clean thousands under a thousand of them, then exact
		// hundred-thousands, then one-decimal millions.
		if n%1000 == 0 && n/1000 < 1000 {
			return fmt.Sprintf("%d thousand", n/1000)
		}
		if n%100_000 == 0 {
			return fmt.Sprintf("%d hundred thousand", n/100_000)
		}
		return fmt.Sprintf("%.1f million", float64(n)/1e6)
	case n >= 1000:
		if n%1000 == 0 {
			return fmt.Sprintf("%d thousand", n/1000)
		}
		return fmt.Sprintf("%.1f thousand", float64(n)/1000)
	}
	return raw
}

var decimalRun = regexp.MustCompile(`\b\d*\.\d+\b`)

func verbalizeDecimals(text string) string {
	return decimalRun.ReplaceAllStringFunc(text, spellDecimal)
}

func spellDecimal(match string) string {
	intPart, fracPart, ok := strings.Cut(match, ".")
	if !ok {
		return match
	}
	whole := 0
	if intPart != "" {
		w, err := strconv.Atoi(intPart)
		if err != nil {
			return match
		}
		whole = w
	}

	switch len(fracPart) {
	case 1:
		digit := int(fracPart[0] - '0')
		if digit == 5 {
			if whole > 0 {
				return fmt.Sprintf("%d and a half", whole)
			}
			return "half"
		}
		if whole > 0 {
			return fmt.Sprintf("%d point %d", whole, digit)
		}
		return fmt.Sprintf("%d tenths", digit)

	case 2:
		frac, err := strconv.Atoi(fracPart)
		if err != nil {
			return match
		}
		switch {
		case frac == 0:
			if whole > 0 {
				return strconv.Itoa(whole)
			}
			return "zero"
		case frac < 10:
			// Leading zero is spoken: 1.05 reads "1 point zero 5".
			if whole > 0 {
				return fmt.Sprintf("%d point zero %d", whole, frac)
			}
			return fmt.Sprintf("%d hundredths", frac)
		default:
			if whole > 0 {
				return fmt.Sprintf("%d point %d", whole, frac)
			}
			return fmt.Sprintf("%d hundredths", frac)
		}

	default:
		if whole > 0 {
			return fmt.Sprintf("%d point %s", whole, fracPart)
		}
		return "point " + fracPart
	}
}

// redactions replace identifier-like tokens with short spoken placeholders.
// The sub-rule order is load-bearing: the 8+ hex-run rule fires before the
// 12+ one, so the longer threshold only catches runs the shorter rule could
// not match as a whole boundary-delimited word, and the sha256 rules rarely
// fire on pure hex because the hex-run rule has already rewritten the digits.
var redactions = []struct {
	name string
	re   *regexp.Regexp
	repl string
}{
	{"generated-suffix", regexp.MustCompile(`-[0-9a-f]{10}-[a-z0-9]{5}\b`), " with generated suffix"},
	{"hex-literal", regexp.MustCompile(`(?i)\b0x[0-9a-f]{6,}\b`), "-"},
	{"hex-run", regexp.MustCompile(`(?i)\b[0-9a-f]{8,}\b`), "-"},
	{"sha-hash", regexp.MustCompile(`(?i)\bsha256:[0-9a-f]{8,}\b`), "SHA hash"},
	{"container-id", regexp.MustCompile(`id: cri-o://\S+`), "container ID"},
	{"long-id", regexp.MustCompile(`(?i)\b[0-9a-f]{12,}\b`), "long ID"},
	{"doubled-id", regexp.MustCompile(`container ID\s+ID\b`), "container ID"},
	{"sha-digest", regexp.MustCompile(`@sha256:[0-9a-f]+`), " at SHA digest"},
	// Trailing "=" padding beyond the matched run stays in place; the word
	// boundary cannot sit after a consumed "=".
	{"base64-run", regexp.MustCompile(`\b[A-Za-z0-9+/]{20,}={0,2}\b`), "encoded value"},
}

func redactIdentifiers(text string) string {
	for _, r := range redactions {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return text
}

var asteriskRun = regexp.MustCompile(`\*+`)

func stripMarkdown(text string) string {
	return asteriskRun.ReplaceAllString(text, "")
}

// charReplacements are unconditional character-level substitutions, not
// word-boundary matches. Slashes and underscores become spaces so paths and
// snake_case read as separate words.
var charReplacements = []struct {
	old string
	new string
}{
	{"°C", " Celsius "},
	{"`", " "},
	{"/", " "},
	{"_", " "},
}

func replaceChars(text string) string {
	for _, r := range charReplacements {
		text = strings.ReplaceAll(text, r.old, r.new)
	}
	return text
}
