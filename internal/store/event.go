package store

import "sync/atomic"

// sequence numbers journal rows across both tables, so a generation call
// and the rewrite outcome it fed sort together. The journal dies with the
// process, so the counter lives in memory rather than in a table.
type sequence struct {
	n atomic.Int64
}

// Next returns 1, 2, 3, ...
func (s *sequence) Next() int64 {
	return s.n.Add(1)
}
