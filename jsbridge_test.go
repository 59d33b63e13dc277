package jsbridge_test

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/jsbridge"
	"github.com/wippyai/jsbridge/cursor"
	"github.com/wippyai/jsbridge/errors"
	"github.com/wippyai/jsbridge/marshal"
	"github.com/wippyai/jsbridge/types"
)

type point struct {
	X int32 `js:"x"`
	Y int32 `js:"y"`
}

type server struct {
	Name  string                    `js:"name"`
	Port  uint16                    `js:"port"`
	Tags  jsbridge.Set[string]      `js:"tags"`
	Proxy jsbridge.Optional[string] `js:"proxy"`
	Size  int64                     `js:"size"`
	Hops  []point                   `js:"hops"`
}

type shapeKind interface{ isShapeKind() }

type circle struct {
	Radius float64 `js:"radius"`
}

type square struct {
	Side float64 `js:"side"`
}

func (circle) isShapeKind() {}
func (square) isShapeKind() {}

func TestRoundTrip(t *testing.T) {
	rt := goja.New()
	in := server{
		Name:  "edge",
		Port:  8080,
		Tags:  jsbridge.NewSet("a", "b"),
		Proxy: jsbridge.Some("socks5://localhost"),
		Size:  1 << 40,
		Hops:  []point{{1, 2}, {3, 4}},
	}

	v, err := jsbridge.ToJS(rt, in)
	require.NoError(t, err)
	require.NoError(t, rt.Set("v", v))

	ok, err := rt.RunString(`v.port === 8080 && v.tags instanceof Set && typeof v.size === "bigint" && v.hops[1].y === 4`)
	require.NoError(t, err)
	assert.True(t, ok.ToBoolean())

	out, err := jsbridge.FromJS[server](rt, v)
	require.NoError(t, err)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Port, out.Port)
	assert.True(t, in.Tags.Equal(out.Tags))
	assert.Equal(t, in.Proxy, out.Proxy)
	assert.Equal(t, in.Size, out.Size)
	assert.Equal(t, in.Hops, out.Hops)
}

func TestFromJSError(t *testing.T) {
	rt := goja.New()
	v, err := rt.RunString(`({name: "x", port: 70000, tags: [], proxy: null, size: 1n, hops: []})`)
	require.NoError(t, err)

	_, err = jsbridge.FromJS[server](rt, v)
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindOverflow})

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"port"}, e.Path)
}

func TestUnion(t *testing.T) {
	require.NoError(t, jsbridge.RegisterUnion[shapeKind](jsbridge.EnumDef{
		Tag: "kind",
		Variants: []jsbridge.Variant{
			types.VariantOf[circle]("circle", 0),
			types.VariantOf[square]("square", 1),
		},
	}))

	rt := goja.New()
	v, err := jsbridge.ToJS(rt, []shapeKind{circle{Radius: 1}, square{Side: 2}})
	require.NoError(t, err)
	require.NoError(t, rt.Set("v", v))

	ok, err := rt.RunString(`v[0].kind === "circle" && v[1].kind === "square" && v[1].side === 2`)
	require.NoError(t, err)
	assert.True(t, ok.ToBoolean())

	out, err := jsbridge.FromJS[[]shapeKind](rt, v)
	require.NoError(t, err)
	assert.Equal(t, []shapeKind{circle{Radius: 1}, square{Side: 2}}, out)
}

func TestConstructors(t *testing.T) {
	rt := goja.New()
	_, err := rt.RunString(`class Point { norm() { return Math.abs(this.x) + Math.abs(this.y) } }`)
	require.NoError(t, err)

	ctors := jsbridge.NewConstructors()
	require.NoError(t, marshal.RegisterConstructor[point](ctors, rt.Get("Point")))

	v, err := jsbridge.ToJSWithConstructors(rt, point{X: -3, Y: 4}, ctors)
	require.NoError(t, err)
	require.NoError(t, rt.Set("p", v))

	res, err := rt.RunString(`p instanceof Point && p.norm()`)
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.ToInteger())
}

func TestFromJSPartial(t *testing.T) {
	rt := goja.New()
	p, err := jsbridge.NewPartial[point]()
	require.NoError(t, err)

	require.NoError(t, p.BeginField("y"))
	require.NoError(t, jsbridge.FromJSPartial(rt, rt.ToValue(5), p))
	require.NoError(t, p.End())
	assert.Equal(t, cursor.StateFieldInProgress, p.State())

	require.NoError(t, p.BeginField("x"))
	err = jsbridge.FromJSPartial(rt, rt.ToValue("nope"), p)
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindUnexpectedValue})

	require.NoError(t, jsbridge.FromJSPartial(rt, rt.ToValue(2), p))
	require.NoError(t, p.End())

	out, err := cursor.BuildAs[point](p)
	require.NoError(t, err)
	assert.Equal(t, point{X: 2, Y: 5}, out)
}
