package suspense

import "fmt"

// Mode selects when the content of a suspense boundary reaches the client.
type Mode int

const (
	// OutOfOrder sends the shell with fallbacks first and streams every
	// boundary as soon as it resolves, in completion order.
	OutOfOrder Mode = iota
	// InOrder flushes everything before a boundary, waits for it and writes
	// its content in place. Fallbacks are never sent.
	InOrder
	// Async holds the whole response until every boundary resolved, so head
	// metadata set by the page is part of the first byte.
	Async
)

func (m Mode) String() string {
	switch m {
	case OutOfOrder:
		return "out-of-order"
	case InOrder:
		return "in-order"
	case Async:
		return "async"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}
