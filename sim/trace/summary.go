package trace

import (
	"fmt"
	"sort"
	"strings"
)

// Summary aggregates a trace by record kind.
type Summary struct {
	Counts map[Kind]int
}

// Summarize counts the records of each kind.
func Summarize(records []Record) Summary {
	s := Summary{Counts: make(map[Kind]int)}
	for _, r := range records {
		s.Counts[r.Kind]++
	}
	return s
}

// Total returns the number of summarized records.
func (s Summary) Total() int {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	return n
}

// String renders the summary as "kind=count" pairs in stable order.
func (s Summary) String() string {
	kinds := make([]string, 0, len(s.Counts))
	for k := range s.Counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, s.Counts[Kind(k)]))
	}
	return strings.Join(parts, " ")
}
