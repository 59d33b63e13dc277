package marshal

import (
	stderrors "errors"
	"reflect"
	"strconv"
	"sync"

	"github.com/dop251/goja"

	"github.com/wippyai/jsbridge/errors"
	"github.com/wippyai/jsbridge/host"
	"github.com/wippyai/jsbridge/shape"
)

const (
	// Pool limits to prevent memory bloat
	poolMaxSeen = 4096
	poolMaxPath = 64

	// maxDepth bounds recursion through values the identity table does not
	// cover, such as a map stored inside itself through an interface.
	maxDepth = 10000

	// pathKeep is how many segments of each end of the path a nesting
	// error reports.
	pathKeep = 4
)

// ptrKey identifies a pointee by address and type. Two pointers share a
// JS object only when both match: a struct and its first field have the
// same address.
type ptrKey struct {
	typ  reflect.Type
	addr uintptr
}

// state is the per-call context of one marshal or unmarshal operation.
type state struct {
	scope    *host.Scope
	compiler *shape.Compiler
	ctors    *Constructors
	seen     map[ptrKey]*goja.Object
	path     []string
	depth    int
	phase    errors.Phase
}

var statePool = sync.Pool{
	New: func() any {
		return &state{
			seen: make(map[ptrKey]*goja.Object),
			path: make([]string, 0, 8),
		}
	},
}

func getState(phase errors.Phase, scope *host.Scope, c *shape.Compiler, ctors *Constructors) *state {
	st := statePool.Get().(*state)
	st.phase = phase
	st.scope = scope
	st.compiler = c
	st.ctors = ctors
	return st
}

func putState(st *state) {
	if len(st.seen) > poolMaxSeen || cap(st.path) > poolMaxPath {
		return // reject oversized
	}
	clear(st.seen)
	st.path = st.path[:0]
	st.depth = 0
	st.scope = nil
	st.compiler = nil
	st.ctors = nil
	statePool.Put(st)
}

func (st *state) rt() *goja.Runtime { return st.scope.Runtime() }

func (st *state) push(seg string) { st.path = append(st.path, seg) }
func (st *state) pushIndex(i int) { st.path = append(st.path, "["+strconv.Itoa(i)+"]") }
func (st *state) pop()            { st.path = st.path[:len(st.path)-1] }

// where returns a copy of the current path for an error.
func (st *state) where() []string {
	if len(st.path) == 0 {
		return nil
	}
	return append([]string(nil), st.path...)
}

func (st *state) exception(err error) error {
	var structured *errors.Error
	if stderrors.As(err, &structured) {
		return err
	}
	return errors.Exception(st.phase, st.where(), err)
}

func (st *state) unexpected(s *shape.Shape, v goja.Value) *errors.Error {
	return errors.UnexpectedValue(st.phase, st.where(), s.String(), st.scope.TypeOf(v))
}

func (st *state) unsupported(s *shape.Shape, what string) *errors.Error {
	return errors.Unsupported(st.phase, st.where(), s.String(), what)
}

// enter guards one level of recursion; the caller must defer leave.
func (st *state) enter(s *shape.Shape) error {
	if st.depth >= maxDepth {
		err := st.reflectErr(s, "value nesting exceeds "+strconv.Itoa(maxDepth)+" levels")
		err.Path = elide(err.Path)
		return err
	}
	st.depth++
	return nil
}

func (st *state) leave() { st.depth-- }

// elide keeps the ends of a long path.
func elide(path []string) []string {
	if len(path) <= 2*pathKeep {
		return path
	}
	out := make([]string, 0, 2*pathKeep+1)
	out = append(out, path[:pathKeep]...)
	out = append(out, "[..."+strconv.Itoa(len(path)-2*pathKeep)+" more...]")
	return append(out, path[len(path)-pathKeep:]...)
}

func (st *state) reflectErr(s *shape.Shape, operation string) *errors.Error {
	return errors.Reflect(st.phase, st.where(), s.String(), operation)
}
