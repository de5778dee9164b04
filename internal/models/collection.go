package models

// Edge wraps a single node in a collection response.
type Edge[T any] struct {
	Node T `json:"node"`
}

// Collection is the edges/node list container the data API returns for
// queries. There is no pagination behind it.
type Collection[T any] struct {
	Edges []Edge[T] `json:"edges"`
}

// Nodes unwraps the edges in order.
func (c Collection[T]) Nodes() []T {
	out := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		out = append(out, e.Node)
	}
	return out
}

// MutationResult is the payload of insert, update and delete mutations.
type MutationResult[T any] struct {
	AffectedCount int `json:"affectedCount"`
	Records       []T `json:"records"`
}

// First returns the first returned record, if any.
func (m MutationResult[T]) First() (T, bool) {
	var zero T
	if len(m.Records) == 0 {
		return zero, false
	}
	return m.Records[0], true
}
