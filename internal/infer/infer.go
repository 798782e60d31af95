// Package infer is the Inference Engine: given a generic
// signature's type parameters, argument types, and an optional contextual
// type, it produces a substitution from each type parameter to a concrete
// type plus the set of parameters that could not be resolved.
package infer

import (
	"github.com/novalang/novac/internal/evaluator"
	"github.com/novalang/novac/internal/flags"
	"github.com/novalang/novac/internal/subtype"
	"github.com/novalang/novac/internal/types"
)

// Priority ranks a candidate's source position; higher wins when multiple
// priorities produced non-empty candidate sets.
type Priority int

const (
	PriorityDefault Priority = iota
	PriorityPropertyWise
	PriorityContravariant
	PriorityNaked
)

const maxConstrainDepth = 100

type candidate struct {
	typ      types.TypeId
	priority Priority
}

type variable struct {
	param types.TypeId
	lower []candidate // source positions flowing into the placeholder (covariant)
	upper []types.TypeId
}

// Context is the process-wide, stateless engine: one instance is shared
// across every inference Session, mirroring how internal/assign and
// internal/subtype wrap the shared Evaluator.
type Context struct {
	in   *types.Interner
	eval *evaluator.Evaluator
	sub  *subtype.Checker
}

func New(in *types.Interner, eval *evaluator.Evaluator, sub *subtype.Checker) *Context {
	return &Context{in: in, eval: eval, sub: sub}
}

// Session holds the fresh inference variables for one call-site's type
// parameters.
type Session struct {
	ctx          *Context
	order        []types.TypeId
	vars         map[types.TypeId]*variable
	placeholders map[types.TypeId]bool
	seen         map[types.TypeId]bool // containsPlaceholder memo per-session
}

func (c *Context) NewSession(typeParams []types.TypeId) *Session {
	s := &Session{
		ctx:          c,
		order:        append([]types.TypeId(nil), typeParams...),
		vars:         make(map[types.TypeId]*variable, len(typeParams)),
		placeholders: make(map[types.TypeId]bool, len(typeParams)),
	}
	for _, tp := range typeParams {
		s.vars[tp] = &variable{param: tp}
		s.placeholders[tp] = true
	}
	return s
}

// ConstrainTypes is the public entry point for stage 2, `constrain_types`
//.
func (s *Session) ConstrainTypes(source, target types.TypeId, priority Priority, f flags.Flags) {
	s.constrain(source, target, priority, f, 0)
}

func (s *Session) addLower(param, candidateType types.TypeId, priority Priority) {
	v := s.vars[param]
	v.lower = append(v.lower, candidate{typ: candidateType, priority: priority})
}

func (s *Session) addUpper(param, upperType types.TypeId) {
	v := s.vars[param]
	v.upper = append(v.upper, upperType)
}
