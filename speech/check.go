package speech

import (
	"fmt"
	"strings"
)

// verificationCases pin the behavior of every rewrite pass, including the
// interactions that depend on pass order. SelfCheck runs them at the user's
// request (vox --check) and the package tests run them on every build.
var verificationCases = []struct {
	in   string
	want string
}{
	// Data rates
	{"Transfer rate: 100 MBps", "Transfer rate: 100 megabytes per second"},
	{"Network speed: 1 Gbps", "Network speed: 1 gigabits per second"},
	{"Download: 50 Mbps", "Download: 50 megabits per second"},
	{"Bandwidth: 10 KBps", "Bandwidth: 10 kilobytes per second"},

	// Storage units
	{"File size: 500 MB", "File size: 500 megabytes"},
	{"Disk space: 2 TB", "Disk space: 2 terabytes"},
	{"Memory: 16 GB", "Memory: 16 gigabytes"},
	{"Cache: 256 KB", "Cache: 256 kilobytes"},
	{"Storage: 1 PB", "Storage: 1 petabytes"},

	// Power and frequency. Decimal verbalization runs before nothing splits
	// the unit, so 3.2 GHz reads "3 point 2 gigahertz".
	{"CPU: 3.2 GHz", "CPU: 3 point 2 gigahertz"},
	{"Clock: 800 MHz", "Clock: 800 megahertz"},
	{"Audio: 44 kHz", "Audio: 44 kilohertz"},
	{"Power: 65 W", "Power: 65 watts"},
	{"Consumption: 500 mW", "Consumption: 500 milliwatts"},
	{"Load: 2 kW", "Load: 2 kilowatts"},

	// Time units
	{"Latency: 50 ms", "Latency: 50 milliseconds"},
	{"Delay: 100 us", "Delay: 100 microseconds"},
	{"Response: 500 ns", "Response: 500 nanoseconds"},
	{"Zero latency: 0 us", "Zero latency: 0"},

	// File formats
	{"Config: JSON format", "Config: jay son format"},
	{"Manifest: YAML file", "Manifest: yah ml file"},

	// Integer verbalization
	{"Count: 1000", "Count: 1 thousand"},
	{"Items: 5000", "Items: 5 thousand"},
	{"Records: 1500000", "Records: 1 and a half million"},
	{"Entries: 2000000", "Entries: 2 million"},
	{"Total: 1000000000", "Total: 1 billion"},
	{"Size: 150000", "Size: 150 thousand"},
	{"Value: 2500000", "Value: 2 and a half million"},

	// Decimal verbalization
	{"Rate: 2.5", "Rate: 2 and a half"},
	{"Value: 0.5", "Value: half"},
	{"Score: 3.7", "Score: 3 point 7"},
	{"Percent: 0.25", "Percent: 25 hundredths"},
	{"Ratio: 1.05", "Ratio: 1 point zero 5"},
	{"Factor: 0.123", "Factor: point 123"},

	// Identifier redaction
	{"Pod: nginx-65bb5c54ff-gppzx", "Pod: nginx with generated suffix"},
	{"Address: 0x7fff5fbff8a0", "Address: -"},
	// Not hex (contains g and h), so no rule fires.
	{"Hash: sha256:abcd1234efgh5678", "Hash: sha256:abcd1234efgh5678"},
	// The 8+ hex-run rule rewrites the digest before the sha256 rules see it.
	{"Image: nginx@sha256:abc123def456", "Image: nginx@sha256:-"},
	// Padding "=" sits outside the matched base64 run.
	{"Token: YWJjZGVmZ2hpams1Njc4OTA=", "Token: encoded value="},
	{"Code: `example`", "Code:  example "},
	{"**Bold text**", "Bold text"},
	{"*Italic text*", "Italic text"},

	// Character substitutions
	{"Path: /usr/bin", "Path:  usr bin"},
}

// SelfCheck runs the full verification table and returns an error listing
// every case whose output differs from the expected form.
func SelfCheck() error {
	var failures []string
	for _, tc := range verificationCases {
		if got := Normalize(tc.in); got != tc.want {
			failures = append(failures, fmt.Sprintf("input %q: want %q, got %q", tc.in, tc.want, got))
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d of %d normalization checks failed:\n%s",
			len(failures), len(verificationCases), strings.Join(failures, "\n"))
	}
	return nil
}
