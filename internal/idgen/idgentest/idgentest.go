// Package idgentest provides identifier generators for tests.
package idgentest

import "fmt"

// Sequence hands out a fixed list of IDs in order, skipping any already
// taken. It panics when the list runs out.
type Sequence struct {
	IDs  []string
	next int
}

func (s *Sequence) Generate(_, _ string, exists func(string) bool) string {
	for s.next < len(s.IDs) {
		id := s.IDs[s.next]
		s.next++
		if exists == nil || !exists(id) {
			return id
		}
	}
	panic(fmt.Sprintf("idgentest: sequence of %d IDs exhausted", len(s.IDs)))
}
