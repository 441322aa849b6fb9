package bundle

import (
	"bufio"
	"io"
	"strings"
)

// MergeRequirements concatenates two pip requirement lists. Blank lines are
// dropped and a line seen before is skipped, so the result keeps the order of
// first occurrence.
func MergeRequirements(a, b io.Reader) (string, error) {
	var (
		out  strings.Builder
		seen = make(map[string]struct{})
	)
	for _, r := range []io.Reader{a, b} {
		if r == nil {
			continue
		}
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if _, ok := seen[line]; ok {
				continue
			}
			seen[line] = struct{}{}
			out.WriteString(line)
			out.WriteByte('\n')
		}
		if err := scanner.Err(); err != nil {
			return "", err
		}
	}
	return out.String(), nil
}
