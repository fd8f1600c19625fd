// Package search evaluates Boolean queries in Reverse Polish Notation
// against an inverted index. Operands are sorted postings lists; AND, OR,
// and NOT are linear-time merges over them, never native set types.
package search

import (
	"log/slog"
	"strings"

	"github.com/keren-or1/inverted-index/internal/index"
	apperrors "github.com/keren-or1/inverted-index/pkg/errors"
)

// Query language operators. Any other token is a literal term.
const (
	opAnd = "AND"
	opOr  = "OR"
	opNot = "NOT"
)

// Evaluator runs RPN queries against a single Index. It holds no mutable
// state of its own, so independent queries may run concurrently as long
// as the index is not being written to.
type Evaluator struct {
	index  *index.Index
	logger *slog.Logger
}

// NewEvaluator creates an Evaluator bound to the given index.
func NewEvaluator(ix *index.Index) *Evaluator {
	return &Evaluator{
		index:  ix,
		logger: slog.Default().With("component", "boolean-evaluator"),
	}
}

// ProcessQuery evaluates a whitespace-separated RPN token sequence and
// returns the matching internal document IDs in sorted order.
//
// Term tokens push their postings list. AND and OR pop two operands and
// push the intersection or union. NOT pops one operand, complements it
// against the full document universe, and, when another operand remains
// on the stack, immediately intersects with it ("AND NOT"). A bare
// "term NOT" query therefore means all documents not containing term.
//
// Underflow, a non-singleton final stack, and an empty query all fail
// with ErrMalformedQuery.
func (e *Evaluator) ProcessQuery(query string) ([]int, error) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return nil, apperrors.New(apperrors.ErrMalformedQuery, 400, "empty query")
	}

	stack := make([][]int, 0, len(tokens))
	pop := func() []int {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top
	}

	for _, token := range tokens {
		switch token {
		case opAnd, opOr:
			if len(stack) < 2 {
				return nil, apperrors.Newf(apperrors.ErrMalformedQuery, 400, "operator %s needs two operands", token)
			}
			right := pop()
			left := pop()
			if token == opAnd {
				stack = append(stack, Intersect(left, right))
			} else {
				stack = append(stack, Union(left, right))
			}
		case opNot:
			if len(stack) < 1 {
				return nil, apperrors.New(apperrors.ErrMalformedQuery, 400, "operator NOT needs an operand")
			}
			negated := Complement(pop(), e.index.CollectionSize())
			if len(stack) > 0 {
				negated = Intersect(pop(), negated)
			}
			stack = append(stack, negated)
		default:
			stack = append(stack, e.index.Postings(token))
		}
	}

	if len(stack) != 1 {
		return nil, apperrors.Newf(apperrors.ErrMalformedQuery, 400, "%d values left on stack", len(stack))
	}
	return stack[0], nil
}

// Retrieve evaluates the query and translates the result to external
// document IDs, preserving the sorted internal-ID order.
func (e *Evaluator) Retrieve(query string) ([]string, error) {
	ids, err := e.ProcessQuery(query)
	if err != nil {
		return nil, err
	}
	docs, err := e.index.ExternalIDs(ids)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("query evaluated",
		"query", query,
		"hits", len(docs),
	)
	return docs, nil
}
