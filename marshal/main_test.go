package marshal

import (
	"reflect"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wippyai/jsbridge/shape"
	"github.com/wippyai/jsbridge/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// harness bundles a runtime with an isolated shape compiler so that union
// registrations do not leak between tests.
type harness struct {
	t        *testing.T
	rt       *goja.Runtime
	compiler *shape.Compiler
	m        *Marshaler
	u        *Unmarshaler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	c := shape.NewCompiler()
	return &harness{
		t:        t,
		rt:       goja.New(),
		compiler: c,
		m:        NewMarshalerWithCompiler(c),
		u:        NewUnmarshalerWithCompiler(c),
	}
}

func (h *harness) toJS(v any) goja.Value {
	h.t.Helper()
	out, err := h.m.ToJS(h.rt, v, nil)
	require.NoError(h.t, err)
	return out
}

func (h *harness) toJSWith(v any, ctors *Constructors) goja.Value {
	h.t.Helper()
	out, err := h.m.ToJS(h.rt, v, ctors)
	require.NoError(h.t, err)
	return out
}

func (h *harness) eval(src string) goja.Value {
	h.t.Helper()
	v, err := h.rt.RunString(src)
	require.NoError(h.t, err)
	return v
}

// check evaluates a boolean expression with v bound to the global "v".
func (h *harness) check(v goja.Value, expr string) bool {
	h.t.Helper()
	require.NoError(h.t, h.rt.Set("v", v))
	return h.eval(expr).ToBoolean()
}

func (h *harness) registerUnion(iface reflect.Type, def types.EnumDef) {
	h.t.Helper()
	require.NoError(h.t, h.compiler.RegisterUnion(iface, def))
}

func decode[T any](h *harness, v goja.Value) (T, error) {
	return Decode[T](h.u, h.rt, v)
}

func roundTrip[T any](h *harness, v T) T {
	h.t.Helper()
	out, err := decode[T](h, h.toJS(v))
	require.NoError(h.t, err)
	return out
}
