package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"fintrack/internal/graphql"
)

// GraphQLCall is one recorded Do call.
type GraphQLCall struct {
	Operation string
	Vars      map[string]any
}

// GraphQLStub answers Do with canned data keyed by operation name. An
// operation with neither a response nor an error fails as a transport error.
type GraphQLStub struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []GraphQLCall
}

// NewGraphQLStub returns an empty stub.
func NewGraphQLStub() *GraphQLStub {
	return &GraphQLStub{responses: map[string]string{}, errs: map[string]error{}}
}

// Respond sets the data payload returned for the document's operation.
func (s *GraphQLStub) Respond(doc, data string) *GraphQLStub {
	s.mu.Lock()
	defer s.mu.Unlock()
	op := graphql.OperationName(doc)
	s.responses[op] = data
	delete(s.errs, op)
	return s
}

// Fail makes the document's operation return err.
func (s *GraphQLStub) Fail(doc string, err error) *GraphQLStub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[graphql.OperationName(doc)] = err
	return s
}

// Do implements services.GraphQLDoer.
func (s *GraphQLStub) Do(_ context.Context, query string, vars map[string]any, out any) error {
	op := graphql.OperationName(query)

	s.mu.Lock()
	s.calls = append(s.calls, GraphQLCall{Operation: op, Vars: vars})
	data, ok := s.responses[op]
	err := s.errs[op]
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no stubbed response for %s", graphql.ErrTransport, op)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(data), out)
}

// Calls returns the recorded calls to the document's operation.
func (s *GraphQLStub) Calls(doc string) []GraphQLCall {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := graphql.OperationName(doc)
	var out []GraphQLCall
	for _, c := range s.calls {
		if c.Operation == op {
			out = append(out, c)
		}
	}
	return out
}
