package tle

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Parse reads 3-line NORAD TLE format from r and returns the element sets in
// input order. Each entry must decompose into a name line followed by the two
// element lines with their standard "1 "/"2 " markers. A line that breaks the
// framing is skipped with a warning and the scan resyncs on the next line;
// a trailing partial entry is likewise skipped. The skip count is returned so
// callers can report it.
//
// Empty input yields zero sets and no error: an empty batch is not a failure.
func Parse(r io.Reader, logger *slog.Logger) ([]ElementSet, int, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n\t ")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading TLE input: %w", err)
	}

	var (
		sets    []ElementSet
		skipped int
	)
	i := 0
	for i+2 < len(lines) {
		name := lines[i]
		line1 := lines[i+1]
		line2 := lines[i+2]

		if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
			logger.Warn("skipping malformed TLE entry", "line_index", i, "name", name)
			skipped++
			i++
			continue
		}

		sets = append(sets, ElementSet{
			Name:  strings.TrimSpace(name),
			Line1: line1,
			Line2: line2,
		})
		i += 3
	}

	// Leftover lines that cannot form a full name+line1+line2 entry.
	if rem := len(lines) - i; rem > 0 {
		logger.Warn("dropping incomplete trailing TLE entry", "leftover_lines", rem)
		skipped++
	}

	return sets, skipped, nil
}
