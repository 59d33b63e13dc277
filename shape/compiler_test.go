package shape

import (
	"math/big"
	"net"
	"net/netip"
	"reflect"
	"testing"
	"unsafe"
	"weak"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/jsbridge/errors"
	"github.com/wippyai/jsbridge/types"
)

type plain struct {
	A       int32   `js:"a"`
	B       string  `js:"b"`
	C       float64 `js:"c"`
	Skipped int     `js:"-"`
	hidden  int
	Renamed bool
}

type pair struct {
	types.Tuple
	Key   string
	Value int32
}

type node struct {
	Value int32
	Next  *node
}

type level uint8

func (level) JSEnum() types.EnumDef {
	return types.EnumDef{
		Repr: types.ReprNumber,
		Variants: []types.Variant{
			types.Unit("Low", 1),
			types.Unit("High", 2),
		},
	}
}

type badLevel int8

func (badLevel) JSEnum() types.EnumDef {
	return types.EnumDef{Variants: []types.Variant{types.Unit("Big", 1000)}}
}

type shapeUnion interface{ isShape() }

type circle struct{ Radius float64 }
type square struct {
	types.Tuple
	Side float64
}
type empty struct{}

func (circle) isShape() {}
func (square) isShape() {}
func (empty) isShape() {}

type buffers struct {
	Bytes  []uint8   `js:"bytes,typed_array"`
	Fixed  [4]int32  `js:"fixed,typed_array"`
	Floats []float64 `js:",typed_array,default"`
	Plain  []uint16  `js:"plain,omitempty"`
}

type badBuffers struct {
	Names []string `js:"names,typed_array"`
}

func TestCompileScalars(t *testing.T) {
	c := NewCompiler()
	tests := []struct {
		goType reflect.Type
		want   ScalarType
	}{
		{reflect.TypeFor[bool](), ScalarBool},
		{reflect.TypeFor[int8](), ScalarInt8},
		{reflect.TypeFor[int16](), ScalarInt16},
		{reflect.TypeFor[int32](), ScalarInt32},
		{reflect.TypeFor[int64](), ScalarInt64},
		{reflect.TypeFor[int](), ScalarInt},
		{reflect.TypeFor[uint8](), ScalarUint8},
		{reflect.TypeFor[uint64](), ScalarUint64},
		{reflect.TypeFor[uintptr](), ScalarUintptr},
		{reflect.TypeFor[float32](), ScalarFloat32},
		{reflect.TypeFor[string](), ScalarString},
		{reflect.TypeFor[types.Char](), ScalarChar},
		{reflect.TypeFor[types.Int128](), ScalarInt128},
		{reflect.TypeFor[types.Uint128](), ScalarUint128},
		{reflect.TypeFor[*big.Int](), ScalarBigInt},
		{reflect.TypeFor[big.Int](), ScalarBigInt},
		{reflect.TypeFor[netip.Addr](), ScalarIPAddr},
		{reflect.TypeFor[netip.AddrPort](), ScalarAddrPort},
		{reflect.TypeFor[net.IP](), ScalarNetIP},
		{reflect.TypeFor[uuid.UUID](), ScalarUUID},
		{reflect.TypeFor[struct{}](), ScalarUnit},
		{reflect.TypeFor[empty](), ScalarUnit},
	}

	for _, tt := range tests {
		t.Run(tt.goType.String(), func(t *testing.T) {
			s, err := c.Compile(tt.goType)
			require.NoError(t, err)
			assert.Equal(t, KindScalar, s.Kind)
			assert.Equal(t, tt.want, s.Scalar)
			assert.False(t, s.WillMarshalAsObject())
		})
	}
}

func TestCompileStruct(t *testing.T) {
	c := NewCompiler()
	s, err := c.Compile(reflect.TypeFor[plain]())
	require.NoError(t, err)

	require.Equal(t, KindStruct, s.Kind)
	require.Len(t, s.Fields, 4)
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"a", "b", "c", "renamed"}, names)
	assert.Equal(t, "Renamed", s.Fields[3].GoName)
	assert.Equal(t, 5, s.Fields[3].Index)
	assert.Equal(t, 1, s.FieldIndex("b"))
	assert.Equal(t, -1, s.FieldIndex("Skipped"))
	assert.True(t, s.WillMarshalAsObject())
}

func TestCompileTuple(t *testing.T) {
	s, err := NewCompiler().Compile(reflect.TypeFor[pair]())
	require.NoError(t, err)

	assert.Equal(t, KindTuple, s.Kind)
	require.Len(t, s.Fields, 2)
	assert.Equal(t, "0", s.Fields[0].Name)
	assert.Equal(t, "1", s.Fields[1].Name)
	assert.Equal(t, ScalarInt32, s.Fields[1].Shape.Scalar)
}

func TestCompileRecursive(t *testing.T) {
	c := NewCompiler()
	s, err := c.Compile(reflect.TypeFor[node]())
	require.NoError(t, err)

	next := s.Fields[1].Shape
	assert.Equal(t, KindPointer, next.Kind)
	assert.Same(t, s, next.Elem)

	again, err := c.Compile(reflect.TypeFor[*node]())
	require.NoError(t, err)
	assert.Same(t, next, again)
	assert.True(t, again.WillMarshalAsObject())
}

func TestCompileContainers(t *testing.T) {
	c := NewCompiler()

	tests := []struct {
		goType reflect.Type
		kind   Kind
		object bool
	}{
		{reflect.TypeFor[[]int32](), KindList, true},
		{reflect.TypeFor[[3]string](), KindArray, true},
		{reflect.TypeFor[map[string]int32](), KindMap, true},
		{reflect.TypeFor[map[string]struct{}](), KindSet, true},
		{reflect.TypeFor[types.Set[int32]](), KindSet, true},
		{reflect.TypeFor[types.Optional[plain]](), KindOption, true},
		{reflect.TypeFor[types.Optional[int32]](), KindOption, false},
		{reflect.TypeFor[*int32](), KindPointer, false},
		{reflect.TypeFor[*plain](), KindPointer, true},
		{reflect.TypeFor[*types.Optional[int32]](), KindPointer, false},
		{reflect.TypeFor[weak.Pointer[plain]](), KindWeak, false},
		{reflect.TypeFor[unsafe.Pointer](), KindRawPointer, false},
		{reflect.TypeFor[func()](), KindFunc, false},
		{reflect.TypeFor[any](), KindDynamic, false},
		{reflect.TypeFor[chan int](), KindUnsupported, false},
		{reflect.TypeFor[complex128](), KindUnsupported, false},
	}

	for _, tt := range tests {
		t.Run(tt.goType.String(), func(t *testing.T) {
			s, err := c.Compile(tt.goType)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, s.Kind)
			assert.Equal(t, tt.object, s.WillMarshalAsObject())
		})
	}

	arr, err := c.Compile(reflect.TypeFor[[3]string]())
	require.NoError(t, err)
	assert.Equal(t, 3, arr.Len)

	set, err := c.Compile(reflect.TypeFor[map[string]struct{}]())
	require.NoError(t, err)
	assert.Equal(t, ScalarString, set.Elem.Scalar)
	assert.Nil(t, set.Key)
}

func TestCompileFieldFlags(t *testing.T) {
	s, err := NewCompiler().Compile(reflect.TypeFor[buffers]())
	require.NoError(t, err)

	assert.True(t, s.Fields[0].Has(FlagTypedArray))
	assert.True(t, s.Fields[1].Has(FlagTypedArray))
	assert.True(t, s.Fields[2].Has(FlagTypedArray))
	assert.True(t, s.Fields[2].Has(FlagDefault))
	assert.Equal(t, "floats", s.Fields[2].Name)
	assert.True(t, s.Fields[3].Has(FlagOmitEmpty))
	assert.False(t, s.Fields[3].Has(FlagTypedArray))

	var nilField *Field
	assert.False(t, nilField.Has(FlagTypedArray))

	_, err = NewCompiler().Compile(reflect.TypeFor[badBuffers]())
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseCompile, Kind: errors.KindReflect})
}

func TestCompileIntEnum(t *testing.T) {
	s, err := NewCompiler().Compile(reflect.TypeFor[level]())
	require.NoError(t, err)

	require.Equal(t, KindEnum, s.Kind)
	assert.True(t, s.IsUnitOnlyEnum())
	assert.False(t, s.WillMarshalAsObject())
	assert.Equal(t, types.ReprNumber, s.Enum.Repr)
	assert.Equal(t, "type", s.Enum.Tag)

	v, ok := s.Enum.ByDiscriminant(2)
	require.True(t, ok)
	assert.Equal(t, "High", v.Name)
	_, ok = s.Enum.ByName("Medium")
	assert.False(t, ok)

	_, err = NewCompiler().Compile(reflect.TypeFor[badLevel]())
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindOverflow})
}

func TestRegisterUnion(t *testing.T) {
	c := NewCompiler()
	iface := reflect.TypeFor[shapeUnion]()

	err := c.RegisterUnion(iface, types.EnumDef{
		Tag: "kind",
		Variants: []types.Variant{
			types.VariantOf[circle]("Circle", 0),
			types.VariantOf[square]("Square", 1),
			types.VariantOf[empty]("Empty", 2),
		},
	})
	require.NoError(t, err)

	s, err := c.Compile(iface)
	require.NoError(t, err)
	require.Equal(t, KindEnum, s.Kind)
	assert.True(t, s.Enum.Union)
	assert.Equal(t, "kind", s.Enum.Tag)
	assert.False(t, s.IsUnitOnlyEnum())
	assert.True(t, s.WillMarshalAsObject())

	circ, ok := s.Enum.ByType(reflect.TypeFor[circle]())
	require.True(t, ok)
	assert.Equal(t, VariantStruct, circ.Kind)
	assert.Equal(t, "radius", circ.Fields()[0].Name)

	sq, ok := s.Enum.ByName("Square")
	require.True(t, ok)
	assert.Equal(t, VariantTuple, sq.Kind)

	e, ok := s.Enum.ByDiscriminant(2)
	require.True(t, ok)
	assert.Equal(t, VariantUnit, e.Kind)
	assert.Empty(t, e.Fields())

	err = c.RegisterUnion(iface, types.EnumDef{Variants: []types.Variant{types.VariantOf[circle]("Circle", 0)}})
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseRegister, Kind: errors.KindReflect}, "already compiled")
}

func TestRegisterUnionRejects(t *testing.T) {
	c := NewCompiler()
	iface := reflect.TypeFor[shapeUnion]()

	tests := []struct {
		name   string
		goType reflect.Type
		def    types.EnumDef
	}{
		{"not an interface", reflect.TypeFor[circle](), types.EnumDef{Variants: []types.Variant{types.VariantOf[circle]("C", 0)}}},
		{"no variants", iface, types.EnumDef{}},
		{"untyped variant", iface, types.EnumDef{Variants: []types.Variant{types.Unit("C", 0)}}},
		{"not implementing", iface, types.EnumDef{Variants: []types.Variant{types.VariantOf[plain]("P", 0)}}},
		{"duplicate", iface, types.EnumDef{Variants: []types.Variant{
			types.VariantOf[circle]("C", 0),
			types.VariantOf[square]("C", 1),
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.RegisterUnion(tt.goType, tt.def)
			assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseRegister, Kind: errors.KindReflect})
		})
	}
}

func TestUnitOnlyUnion(t *testing.T) {
	c := NewCompiler()
	iface := reflect.TypeFor[shapeUnion]()
	require.NoError(t, c.RegisterUnion(iface, types.EnumDef{
		Variants: []types.Variant{types.VariantOf[empty]("Empty", 0)},
	}))

	s, err := c.Compile(iface)
	require.NoError(t, err)
	assert.True(t, s.IsUnitOnlyEnum())
	assert.False(t, s.WillMarshalAsObject())
}

func TestCompileNil(t *testing.T) {
	_, err := NewCompiler().Compile(nil)
	assert.Error(t, err)
}

func TestDefaulterDetection(t *testing.T) {
	s, err := NewCompiler().Compile(reflect.TypeFor[withDefaults]())
	require.NoError(t, err)
	assert.True(t, s.HasDefault)

	p, err := NewCompiler().Compile(reflect.TypeFor[plain]())
	require.NoError(t, err)
	assert.False(t, p.HasDefault)
}

type withDefaults struct {
	Port int32
}

func (w *withDefaults) JSDefaults() { w.Port = 8080 }

func TestOfUsesDefaultCompiler(t *testing.T) {
	s, err := Of[plain]()
	require.NoError(t, err)
	again, err := Default().Compile(reflect.TypeFor[plain]())
	require.NoError(t, err)
	assert.Same(t, s, again)
}
