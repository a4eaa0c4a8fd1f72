package testfixtures

import (
	"strconv"
	"sync/atomic"
)

// IDGenerator yields prefix-1, prefix-2, ... and is safe for concurrent use.
// The server takes it in place of random connection ids.
type IDGenerator struct {
	prefix  string
	counter atomic.Uint64
}

// NewIDGenerator uses "conn" when prefix is empty.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "conn"
	}
	return &IDGenerator{prefix: prefix}
}

func (g *IDGenerator) Next() string {
	return g.prefix + "-" + strconv.FormatUint(g.counter.Add(1), 10)
}

// NextFunc exposes Next for injection; a nil generator yields empty ids.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}
