// Package comparator implements one pure comparison function per operator,
// dispatched through a registry keyed on the operator tag. New operators are
// added by registering new entries, not by extending a type hierarchy.
package comparator

import (
	"fmt"
	"sync"
	"time"

	"github.com/expr-lang/expr/vm"

	"github.com/stratumlabs/stratum/pkg/domain"
)

// Env carries the collaborators a comparator may consult. Comparators hold
// no state of their own; everything they need arrives through Env.
type Env struct {
	Now      time.Time
	Identity *domain.Identity
	Segments domain.SegmentProvider
	Holidays domain.HolidayProvider
}

// Func evaluates one operator against an attribute value and an operand.
// Data errors (unparsable dates, non-numeric values) yield (false, nil):
// untrusted attribute data degrades to a non-match, never an abort.
// A non-nil error means the condition itself is malformed.
type Func func(env *Env, value, operand any) (bool, error)

// Registry maps operators to their implementations. It is built once at
// engine setup and read concurrently afterwards.
type Registry struct {
	funcs map[domain.Operator]Func

	// programs caches compiled regex-match programs by expression source.
	programsMu sync.RWMutex
	programs   map[string]*vm.Program
}

// NewRegistry builds a registry with every built-in operator registered.
func NewRegistry() *Registry {
	r := &Registry{
		funcs:    make(map[domain.Operator]Func),
		programs: make(map[string]*vm.Program),
	}

	r.registerStringFamily()
	r.registerNumericFamily()
	r.registerDateFamily()
	r.registerVersionFamily()
	r.registerMembershipFamily()

	return r
}

// Register adds or replaces an operator implementation. The operator must
// carry metadata in the domain package; registering an operator without a
// spec is a configuration error.
func (r *Registry) Register(op domain.Operator, fn Func) error {
	if !op.Known() {
		return domain.NewConfigError("operator", fmt.Sprintf("operator %q has no metadata", op))
	}
	if fn == nil {
		return domain.NewConfigError("operator", fmt.Sprintf("nil comparator for operator %q", op))
	}
	r.funcs[op] = fn
	return nil
}

// Lookup returns the implementation for op.
func (r *Registry) Lookup(op domain.Operator) (Func, bool) {
	fn, ok := r.funcs[op]
	return fn, ok
}

func (r *Registry) register(op domain.Operator, fn Func) {
	r.funcs[op] = fn
}
