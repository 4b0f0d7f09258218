// Package tabular parses delimited subject tables whose dialect is not
// declared. A bounded prefix of the content is sniffed for the delimiter;
// callers fall back to tab-delimited when sniffing fails.
package tabular

import (
	"bytes"
	"errors"
	"fmt"
)

// SniffLimit is the maximum number of bytes a caller should sample for
// dialect detection.
const SniffLimit = 16 * 1024

// ErrDialectUnknown indicates no candidate delimiter fit the sample.
// Single-column content always produces this error.
var ErrDialectUnknown = errors.New("tabular dialect not recognized")

// Dialect describes how a tabular file is delimited.
type Dialect struct {
	Delimiter rune
}

// TabDialect is the fallback dialect assumed when sniffing fails.
var TabDialect = Dialect{Delimiter: '\t'}

// Name returns a human-readable delimiter name for log messages.
func (d Dialect) Name() string {
	switch d.Delimiter {
	case '\t':
		return "tab"
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '|':
		return "pipe"
	default:
		return fmt.Sprintf("%q", d.Delimiter)
	}
}

// Candidate delimiters in preference order. Tab leads because subject
// tables are nominally tab-separated.
var candidates = []rune{'\t', ',', ';', '|'}

// Sniff detects the delimiter from a content sample. Pass at most
// SniffLimit bytes; a sample of exactly SniffLimit bytes is assumed to be
// truncated mid-line and its final line is ignored.
//
// A delimiter qualifies when it appears in the header line and occurs the
// same number of times in every sampled line. Among qualifying delimiters
// the one with the highest per-line count wins; ties go to the candidate
// order above.
func Sniff(sample []byte) (Dialect, error) {
	lines := sampleLines(sample)
	if len(lines) == 0 {
		return Dialect{}, ErrDialectUnknown
	}

	best := rune(0)
	bestCount := 0
	for _, delim := range candidates {
		count := countRune(lines[0], delim)
		if count == 0 {
			continue
		}
		consistent := true
		for _, line := range lines[1:] {
			if countRune(line, delim) != count {
				consistent = false
				break
			}
		}
		if consistent && count > bestCount {
			best = delim
			bestCount = count
		}
	}

	if best == 0 {
		return Dialect{}, ErrDialectUnknown
	}
	return Dialect{Delimiter: best}, nil
}

func sampleLines(sample []byte) [][]byte {
	raw := bytes.Split(sample, []byte{'\n'})

	// A full-size sample was likely cut mid-line
	truncated := len(sample) >= SniffLimit
	if truncated && len(raw) > 1 {
		raw = raw[:len(raw)-1]
	}

	lines := make([][]byte, 0, len(raw))
	for _, line := range raw {
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) == 0 {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func countRune(line []byte, r rune) int {
	return bytes.Count(line, []byte(string(r)))
}
