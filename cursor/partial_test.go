package cursor

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/wippyai/jsbridge/errors"
	"github.com/wippyai/jsbridge/shape"
	"github.com/wippyai/jsbridge/types"
)

type buildRecord struct {
	Name  string
	Tags  []string
	Score types.Optional[int32]
	Next  *buildRecord
	Extra int32 `js:"extra,default"`
}

type buildConfig struct {
	Host string
	Port uint16
}

func (c *buildConfig) JSDefaults() {
	c.Host = "localhost"
	c.Port = 8080
}

type buildColor uint8

func (buildColor) JSEnum() types.EnumDef {
	return types.EnumDef{Variants: []types.Variant{
		types.Unit("Red", 0),
		types.Unit("Green", 1),
	}}
}

type buildMessage interface{ isBuildMessage() }

type buildQuit struct{}
type buildMove struct {
	X int32
	Y int32
}

func (buildQuit) isBuildMessage()  {}
func (*buildMove) isBuildMessage() {}

func compileFor[T any](t *testing.T, c *shape.Compiler) *shape.Shape {
	t.Helper()
	s, err := c.Compile(reflect.TypeFor[T]())
	require.NoError(t, err)
	return s
}

func requireKind(t *testing.T, err error, kind errors.Kind) {
	t.Helper()
	require.Error(t, err)
	var e *errors.Error
	require.True(t, stderrors.As(err, &e), "expected *errors.Error, got %T", err)
	assert.Equal(t, kind, e.Kind)
	assert.Equal(t, errors.PhaseBuild, e.Phase)
}

func TestPartialStruct(t *testing.T) {
	c := shape.NewCompiler()
	p := New(compileFor[buildRecord](t, c))

	require.NoError(t, p.BeginField("name"))
	assert.Equal(t, []string{"name"}, p.Path())
	require.NoError(t, p.Set("root"))
	require.NoError(t, p.End())

	require.NoError(t, p.BeginField("tags"))
	for _, tag := range []string{"a", "b"} {
		require.NoError(t, p.BeginListItem())
		require.NoError(t, p.Set(tag))
		require.NoError(t, p.End())
	}
	require.NoError(t, p.End())

	require.NoError(t, p.BeginField("score"))
	require.NoError(t, p.BeginSome())
	require.NoError(t, p.Set(int32(9)))
	require.NoError(t, p.End())
	require.NoError(t, p.End())

	require.NoError(t, p.BeginField("next"))
	require.NoError(t, p.BeginPointee())
	require.NoError(t, p.BeginField("name"))
	require.NoError(t, p.Set("child"))
	require.NoError(t, p.End())
	require.NoError(t, p.FillUnsetFromDefaults())
	assert.Equal(t, StateFieldInProgress, p.State(), "tags has no default")
	require.NoError(t, p.BeginField("tags"))
	require.NoError(t, p.End())
	require.NoError(t, p.FillUnsetFromDefaults())
	require.NoError(t, p.End())
	require.NoError(t, p.End())

	require.NoError(t, p.FillUnsetFromDefaults())
	rec, err := BuildAs[buildRecord](p)
	require.NoError(t, err)

	assert.Equal(t, "root", rec.Name)
	assert.Equal(t, []string{"a", "b"}, rec.Tags)
	assert.Equal(t, types.Some(int32(9)), rec.Score)
	require.NotNil(t, rec.Next)
	assert.Equal(t, "child", rec.Next.Name)
	assert.NotNil(t, rec.Next.Tags)
	assert.Empty(t, rec.Next.Tags)
	assert.Nil(t, rec.Next.Next)
	assert.False(t, rec.Next.Score.Has)
}

func TestPartialMissingFields(t *testing.T) {
	c := shape.NewCompiler()
	p := New(compileFor[buildRecord](t, c))

	require.NoError(t, p.FillUnsetFromDefaults())
	_, err := p.Build()
	requireKind(t, err, errors.KindFieldMissing)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), `"name"`)
	assert.Contains(t, errs[1].Error(), `"tags"`)
}

func TestPartialTypeDefaults(t *testing.T) {
	c := shape.NewCompiler()
	p := New(compileFor[buildConfig](t, c))

	require.NoError(t, p.BeginField("port"))
	require.NoError(t, p.Set(uint16(9000)))
	require.NoError(t, p.End())
	require.NoError(t, p.FillUnsetFromDefaults())

	cfg, err := BuildAs[buildConfig](p)
	require.NoError(t, err)
	assert.Equal(t, buildConfig{Host: "localhost", Port: 9000}, cfg)
}

func TestPartialMap(t *testing.T) {
	c := shape.NewCompiler()
	p := New(compileFor[map[string]int32](t, c))

	requireKind(t, p.BeginValue(), errors.KindReflect)

	require.NoError(t, p.BeginKey())
	require.NoError(t, p.Set("a"))
	require.NoError(t, p.End())
	requireKind(t, p.BeginKey(), errors.KindReflect)
	require.NoError(t, p.BeginValue())
	assert.Equal(t, []string{"[a]"}, p.Path())
	require.NoError(t, p.Set(int32(1)))
	require.NoError(t, p.End())

	m, err := BuildAs[map[string]int32](p)
	require.NoError(t, err)
	assert.Equal(t, map[string]int32{"a": 1}, m)
}

func TestPartialDanglingKey(t *testing.T) {
	c := shape.NewCompiler()
	p := New(compileFor[map[string]int32](t, c))

	require.NoError(t, p.BeginKey())
	require.NoError(t, p.Set("a"))
	require.NoError(t, p.End())

	_, err := p.Build()
	requireKind(t, err, errors.KindReflect)
}

func TestPartialEmptyContainers(t *testing.T) {
	c := shape.NewCompiler()

	list, err := BuildAs[[]int32](New(compileFor[[]int32](t, c)))
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	m, err := BuildAs[map[string]bool](New(compileFor[map[string]bool](t, c)))
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestPartialSets(t *testing.T) {
	c := shape.NewCompiler()

	p := New(compileFor[types.Set[string]](t, c))
	for _, v := range []string{"x", "y", "x"} {
		require.NoError(t, p.BeginSetItem())
		require.NoError(t, p.Set(v))
		require.NoError(t, p.End())
	}
	set, err := BuildAs[types.Set[string]](p)
	require.NoError(t, err)
	assert.True(t, set.Equal(types.NewSet("x", "y")))

	p = New(compileFor[map[int32]struct{}](t, c))
	require.NoError(t, p.BeginSetItem())
	require.NoError(t, p.Set(int32(4)))
	require.NoError(t, p.End())
	m, err := BuildAs[map[int32]struct{}](p)
	require.NoError(t, err)
	assert.Equal(t, map[int32]struct{}{4: {}}, m)
}

func TestPartialArray(t *testing.T) {
	c := shape.NewCompiler()

	p := New(compileFor[[2]int32](t, c))
	require.NoError(t, p.BeginListItem())
	require.NoError(t, p.Set(int32(1)))
	require.NoError(t, p.End())

	_, err := p.Build()
	requireKind(t, err, errors.KindReflect)

	require.NoError(t, p.BeginListItem())
	require.NoError(t, p.Set(int32(2)))
	require.NoError(t, p.End())
	requireKind(t, p.BeginListItem(), errors.KindOverflow)

	arr, err := BuildAs[[2]int32](p)
	require.NoError(t, err)
	assert.Equal(t, [2]int32{1, 2}, arr)
}

func TestPartialIntEnum(t *testing.T) {
	c := shape.NewCompiler()

	p := New(compileFor[buildColor](t, c))
	assert.Equal(t, StateSelectingVariant, p.State())
	requireKind(t, p.SelectVariantNamed("Blue"), errors.KindVariant)
	require.NoError(t, p.SelectVariantNamed("Green"))
	assert.Equal(t, "Green", p.Variant().Name)
	requireKind(t, p.SelectVariant(0), errors.KindReflect)

	color, err := BuildAs[buildColor](p)
	require.NoError(t, err)
	assert.Equal(t, buildColor(1), color)

	p = New(compileFor[buildColor](t, c))
	_, err = p.Build()
	requireKind(t, err, errors.KindReflect)
}

func TestPartialUnion(t *testing.T) {
	c := shape.NewCompiler()
	require.NoError(t, c.RegisterUnion(reflect.TypeFor[buildMessage](), types.EnumDef{
		Variants: []types.Variant{
			types.VariantOf[buildQuit]("Quit", 0),
			types.VariantOf[*buildMove]("Move", 1),
		},
	}))
	s := compileFor[buildMessage](t, c)

	p := New(s)
	requireKind(t, p.BeginField("x"), errors.KindReflect)
	require.NoError(t, p.SelectVariant(1))
	assert.Equal(t, 1, p.FieldIndex("y"))
	require.NoError(t, p.BeginField("x"))
	require.NoError(t, p.Set(int32(3)))
	require.NoError(t, p.End())

	_, err := p.Build()
	requireKind(t, err, errors.KindFieldMissing)

	require.NoError(t, p.BeginNthField(1))
	require.NoError(t, p.Set(int32(4)))
	require.NoError(t, p.End())

	msg, err := BuildAs[buildMessage](p)
	require.NoError(t, err)
	assert.Equal(t, &buildMove{X: 3, Y: 4}, msg)

	p = New(s)
	require.NoError(t, p.SelectVariantNamed("Quit"))
	msg, err = BuildAs[buildMessage](p)
	require.NoError(t, err)
	assert.Equal(t, buildQuit{}, msg)

	p = New(s)
	require.NoError(t, p.SetNone())
	msg, err = BuildAs[buildMessage](p)
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestPartialSetRules(t *testing.T) {
	c := shape.NewCompiler()

	type celsius float64
	p := New(compileFor[celsius](t, c))
	require.NoError(t, p.Set(21.5))
	v, err := BuildAs[celsius](p)
	require.NoError(t, err)
	assert.Equal(t, celsius(21.5), v)

	p = New(compileFor[int32](t, c))
	requireKind(t, p.Set("nope"), errors.KindReflect)
	requireKind(t, p.Set(int64(1)), errors.KindReflect)
	requireKind(t, p.SetNone(), errors.KindReflect)
	requireKind(t, p.BeginSome(), errors.KindReflect)
	requireKind(t, p.End(), errors.KindReflect)

	p = New(compileFor[any](t, c))
	require.NoError(t, p.Set(map[string]any{"k": 1.0}))
	dyn, err := BuildAs[any](p)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": 1.0}, dyn)
}

func TestPartialAbandon(t *testing.T) {
	c := shape.NewCompiler()
	p := New(compileFor[buildRecord](t, c))

	require.NoError(t, p.BeginField("name"))
	require.NoError(t, p.Set("gone"))
	require.NoError(t, p.End())

	p.Abandon()
	p.Abandon()
	assert.Equal(t, StateAbandoned, p.State())
	assert.Equal(t, 0, p.Depth())

	requireKind(t, p.BeginField("name"), errors.KindReflect)
	_, err := p.Build()
	requireKind(t, err, errors.KindReflect)
}

func TestPartialBuildTwice(t *testing.T) {
	c := shape.NewCompiler()
	p := New(compileFor[int32](t, c))
	require.NoError(t, p.Set(int32(1)))

	_, err := p.Build()
	require.NoError(t, err)
	_, err = p.Build()
	requireKind(t, err, errors.KindReflect)
}

func TestPartialOpenFrames(t *testing.T) {
	c := shape.NewCompiler()
	p := New(compileFor[buildConfig](t, c))
	require.NoError(t, p.BeginField("host"))

	_, err := p.Build()
	requireKind(t, err, errors.KindReflect)
	assert.Equal(t, 2, p.Depth())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "selecting_variant", StateSelectingVariant.String())
	assert.Equal(t, "unknown", State(99).String())
}
