package shape

import (
	"math/big"
	"net"
	"net/netip"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wippyai/jsbridge/errors"
	"github.com/wippyai/jsbridge/types"
)

// Compiler builds and caches shapes. It is safe for concurrent use.
type Compiler struct {
	cache  sync.Map // reflect.Type -> *Shape
	unions map[reflect.Type]types.EnumDef
	mu     sync.Mutex
}

// NewCompiler returns a compiler with an empty cache and no unions.
func NewCompiler() *Compiler {
	return &Compiler{
		unions: make(map[reflect.Type]types.EnumDef),
	}
}

var defaultCompiler = NewCompiler()

// Default returns the process-wide compiler used by the top-level API.
func Default() *Compiler {
	return defaultCompiler
}

// Of compiles T with the default compiler.
func Of[T any]() (*Shape, error) {
	return defaultCompiler.Compile(reflect.TypeFor[T]())
}

// RegisterUnion registers interface type I as a tagged union with the
// default compiler.
func RegisterUnion[I any](def types.EnumDef) error {
	return defaultCompiler.RegisterUnion(reflect.TypeFor[I](), def)
}

var (
	bigIntType    = reflect.TypeFor[big.Int]()
	bigIntPtrType = reflect.TypeFor[*big.Int]()
	addrType      = reflect.TypeFor[netip.Addr]()
	addrPortType  = reflect.TypeFor[netip.AddrPort]()
	netIPType     = reflect.TypeFor[net.IP]()
	uuidType      = reflect.TypeFor[uuid.UUID]()
	charType      = reflect.TypeFor[types.Char]()
	int128Type    = reflect.TypeFor[types.Int128]()
	uint128Type   = reflect.TypeFor[types.Uint128]()
	tupleType     = reflect.TypeFor[types.Tuple]()

	nullableType   = reflect.TypeFor[types.Nullable]()
	collectionType = reflect.TypeFor[types.Collection]()
	enumType       = reflect.TypeFor[types.Enum]()
	defaulterType  = reflect.TypeFor[types.Defaulter]()
)

var namedScalars = map[reflect.Type]ScalarType{
	bigIntType:    ScalarBigInt,
	bigIntPtrType: ScalarBigInt,
	addrType:      ScalarIPAddr,
	addrPortType:  ScalarAddrPort,
	netIPType:     ScalarNetIP,
	uuidType:      ScalarUUID,
	charType:      ScalarChar,
	int128Type:    ScalarInt128,
	uint128Type:   ScalarUint128,
}

var kindScalars = map[reflect.Kind]ScalarType{
	reflect.Bool:    ScalarBool,
	reflect.Int8:    ScalarInt8,
	reflect.Int16:   ScalarInt16,
	reflect.Int32:   ScalarInt32,
	reflect.Int64:   ScalarInt64,
	reflect.Int:     ScalarInt,
	reflect.Uint8:   ScalarUint8,
	reflect.Uint16:  ScalarUint16,
	reflect.Uint32:  ScalarUint32,
	reflect.Uint64:  ScalarUint64,
	reflect.Uint:    ScalarUint,
	reflect.Uintptr: ScalarUintptr,
	reflect.Float32: ScalarFloat32,
	reflect.Float64: ScalarFloat64,
	reflect.String:  ScalarString,
}

// Compile returns the shape of goType.
func (c *Compiler) Compile(goType reflect.Type) (*Shape, error) {
	if goType == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindReflect).
			Detail("Go type cannot be nil").
			Build()
	}

	if cached, ok := c.cache.Load(goType); ok {
		return cached.(*Shape), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	pending := make(map[reflect.Type]*Shape)
	s, err := c.compile(goType, nil, pending)
	if err != nil {
		return nil, err
	}

	for t, ps := range pending {
		c.cache.Store(t, ps)
	}
	Logger().Debug("compiled shape",
		zap.Stringer("type", goType),
		zap.Stringer("kind", s.Kind),
		zap.Int("new_shapes", len(pending)))
	return s, nil
}

// RegisterUnion declares iface, an interface type, as a tagged union whose
// variants are the concrete types listed in def. It must be called before
// iface is first compiled.
func (c *Compiler) RegisterUnion(iface reflect.Type, def types.EnumDef) error {
	if iface == nil || iface.Kind() != reflect.Interface {
		return errors.Reflect(errors.PhaseRegister, nil, typeName(iface), "unions must be interface types")
	}
	if len(def.Variants) == 0 {
		return errors.Reflect(errors.PhaseRegister, nil, iface.String(), "union has no variants")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.cache.Load(iface); ok {
		return errors.Reflect(errors.PhaseRegister, nil, iface.String(), "type was already compiled; register unions before first use")
	}

	names := make(map[string]bool, len(def.Variants))
	discs := make(map[int64]bool, len(def.Variants))
	for _, v := range def.Variants {
		if v.Type == nil {
			return errors.Reflect(errors.PhaseRegister, nil, iface.String(), "variant "+strconv.Quote(v.Name)+" has no type")
		}
		if !v.Type.Implements(iface) {
			return errors.Reflect(errors.PhaseRegister, nil, iface.String(), v.Type.String()+" does not implement the union interface")
		}
		payload := v.Type
		if payload.Kind() == reflect.Pointer {
			payload = payload.Elem()
		}
		if payload.Kind() != reflect.Struct {
			return errors.Reflect(errors.PhaseRegister, nil, iface.String(), "variant "+strconv.Quote(v.Name)+" must be a struct or pointer to struct")
		}
		if names[v.Name] || discs[v.Discriminant] {
			return errors.Reflect(errors.PhaseRegister, nil, iface.String(), "duplicate variant "+strconv.Quote(v.Name))
		}
		names[v.Name] = true
		discs[v.Discriminant] = true
	}

	c.unions[iface] = def
	Logger().Debug("registered union",
		zap.Stringer("type", iface),
		zap.Int("variants", len(def.Variants)),
		zap.String("tag", def.TagName()))
	return nil
}

func (c *Compiler) compile(goType reflect.Type, path []string, pending map[reflect.Type]*Shape) (*Shape, error) {
	if cached, ok := c.cache.Load(goType); ok {
		return cached.(*Shape), nil
	}
	if s, ok := pending[goType]; ok {
		return s, nil
	}

	s := &Shape{
		Type:       goType,
		HasDefault: goType.Kind() != reflect.Interface && reflect.PointerTo(goType).Implements(defaulterType),
	}
	pending[goType] = s

	if err := c.classify(s, path, pending); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Compiler) classify(s *Shape, path []string, pending map[reflect.Type]*Shape) error {
	goType := s.Type

	if st, ok := namedScalars[goType]; ok {
		s.Kind, s.Scalar = KindScalar, st
		return nil
	}
	if isWeakPointer(goType) {
		s.Kind = KindWeak
		return nil
	}
	if def, ok := c.unions[goType]; ok {
		return c.compileUnion(s, def, path, pending)
	}
	if k := goType.Kind(); k != reflect.Interface && k != reflect.Pointer {
		if goType.Implements(nullableType) {
			return c.compileWrapped(s, KindOption, nullableElem(goType), path, pending)
		}
		if goType.Implements(collectionType) {
			return c.compileWrapped(s, KindSet, collectionElem(goType), path, pending)
		}
		if goType.Implements(enumType) {
			return c.compileIntEnum(s, path)
		}
	}

	if st, ok := kindScalars[goType.Kind()]; ok {
		s.Kind, s.Scalar = KindScalar, st
		return nil
	}

	switch goType.Kind() {
	case reflect.Pointer:
		return c.compileWrapped(s, KindPointer, goType.Elem(), path, pending)
	case reflect.UnsafePointer:
		s.Kind = KindRawPointer
	case reflect.Func:
		s.Kind = KindFunc
	case reflect.Interface:
		s.Kind = KindDynamic
	case reflect.Slice:
		return c.compileWrapped(s, KindList, goType.Elem(), path, pending)
	case reflect.Array:
		s.Len = goType.Len()
		return c.compileWrapped(s, KindArray, goType.Elem(), path, pending)
	case reflect.Map:
		return c.compileMap(s, path, pending)
	case reflect.Struct:
		return c.compileStruct(s, path, pending)
	default:
		// chan, complex: compiled so that enclosing types still compile;
		// the engine rejects them when a value is actually visited.
		s.Kind = KindUnsupported
	}
	return nil
}

func (c *Compiler) compileWrapped(s *Shape, kind Kind, elem reflect.Type, path []string, pending map[reflect.Type]*Shape) error {
	s.Kind = kind
	es, err := c.compile(elem, path, pending)
	if err != nil {
		return err
	}
	s.Elem = es
	return nil
}

func (c *Compiler) compileMap(s *Shape, path []string, pending map[reflect.Type]*Shape) error {
	goType := s.Type
	ks, err := c.compile(goType.Key(), append(path, "<key>"), pending)
	if err != nil {
		return err
	}

	if isUnitStruct(goType.Elem()) {
		s.Kind = KindSet
		s.Elem = ks
		return nil
	}

	vs, err := c.compile(goType.Elem(), path, pending)
	if err != nil {
		return err
	}
	s.Kind = KindMap
	s.Key = ks
	s.Elem = vs
	return nil
}

func (c *Compiler) compileStruct(s *Shape, path []string, pending map[reflect.Type]*Shape) error {
	goType := s.Type
	if goType.NumField() == 0 {
		s.Kind, s.Scalar = KindScalar, ScalarUnit
		return nil
	}

	s.Kind = KindStruct
	if isTuple(goType) {
		s.Kind = KindTuple
	}

	fields := make([]Field, 0, goType.NumField())
	for i := 0; i < goType.NumField(); i++ {
		sf := goType.Field(i)
		if !sf.IsExported() || (sf.Anonymous && sf.Type == tupleType) {
			continue
		}

		name, flags, skip := parseTag(sf)
		if skip {
			continue
		}
		if s.Kind == KindTuple {
			name = strconv.Itoa(len(fields))
		}

		fieldPath := append(append([]string{}, path...), name)
		fs, err := c.compile(sf.Type, fieldPath, pending)
		if err != nil {
			return err
		}

		if flags&FlagTypedArray != 0 && !supportsTypedArray(fs) {
			return errors.Reflect(errors.PhaseCompile, fieldPath, sf.Type.String(),
				"typed_array requires a slice or array of fixed-width numbers")
		}

		fields = append(fields, Field{
			Shape:  fs,
			Name:   name,
			GoName: sf.Name,
			Index:  i,
			Flags:  flags,
		})
	}
	s.Fields = fields
	return nil
}

func (c *Compiler) compileIntEnum(s *Shape, path []string) error {
	goType := s.Type
	if !isInteger(goType.Kind()) {
		return errors.Reflect(errors.PhaseCompile, path, goType.String(), "types.Enum must be implemented by an integer type")
	}

	def := reflect.Zero(goType).Interface().(types.Enum).JSEnum()
	if len(def.Variants) == 0 {
		return errors.Reflect(errors.PhaseCompile, path, goType.String(), "enum has no variants")
	}

	probe := reflect.New(goType).Elem()
	variants := make([]Variant, 0, len(def.Variants))
	for _, v := range def.Variants {
		if v.Type != nil {
			return errors.Reflect(errors.PhaseCompile, path, goType.String(), "integer enums cannot carry payloads")
		}
		if overflowsInt(probe, v.Discriminant) {
			return errors.Overflow(errors.PhaseCompile, path, v.Discriminant, goType.String())
		}
		variants = append(variants, Variant{
			Name:         v.Name,
			Discriminant: v.Discriminant,
			Kind:         VariantUnit,
		})
	}

	s.Kind = KindEnum
	s.Enum = &EnumInfo{
		Tag:      def.TagName(),
		Repr:     def.Repr,
		Variants: variants,
	}
	return nil
}

func (c *Compiler) compileUnion(s *Shape, def types.EnumDef, path []string, pending map[reflect.Type]*Shape) error {
	s.Kind = KindEnum
	info := &EnumInfo{
		Tag:      def.TagName(),
		Repr:     def.Repr,
		Union:    true,
		Variants: make([]Variant, 0, len(def.Variants)),
	}
	s.Enum = info

	for _, v := range def.Variants {
		payload := v.Type
		indirect := payload.Kind() == reflect.Pointer
		if indirect {
			payload = payload.Elem()
		}

		variant := Variant{
			Type:         v.Type,
			Name:         v.Name,
			Discriminant: v.Discriminant,
			Indirect:     indirect,
		}
		if payload.NumField() > 0 {
			ps, err := c.compile(payload, append(append([]string{}, path...), v.Name), pending)
			if err != nil {
				return err
			}
			variant.Payload = ps
			variant.Kind = VariantStruct
			if ps.Kind == KindTuple {
				variant.Kind = VariantTuple
			}
		}
		info.Variants = append(info.Variants, variant)
	}
	return nil
}

// parseTag reads `js:"name,typed_array,default,omitempty"`.
func parseTag(sf reflect.StructField) (name string, flags Flag, skip bool) {
	tag := sf.Tag.Get("js")
	if tag == "-" {
		return "", 0, true
	}

	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = uncapitalize(sf.Name)
	}
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		switch opt {
		case "typed_array":
			flags |= FlagTypedArray
		case "default":
			flags |= FlagDefault
		case "omitempty":
			flags |= FlagOmitEmpty
		}
	}
	return name, flags, false
}

func uncapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

func supportsTypedArray(s *Shape) bool {
	if s.Kind != KindList && s.Kind != KindArray {
		return false
	}
	if s.Elem.Kind != KindScalar {
		return false
	}
	switch s.Elem.Scalar {
	case ScalarInt8, ScalarUint8, ScalarInt16, ScalarUint16,
		ScalarInt32, ScalarUint32, ScalarFloat32, ScalarFloat64:
		return true
	}
	return false
}

func isTuple(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type == tupleType {
			return true
		}
	}
	return false
}

func isUnitStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 0
}

func isWeakPointer(t reflect.Type) bool {
	return t.PkgPath() == "weak" && strings.HasPrefix(t.Name(), "Pointer[")
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func overflowsInt(probe reflect.Value, d int64) bool {
	switch probe.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return d < 0 || probe.OverflowUint(uint64(d))
	default:
		return probe.OverflowInt(d)
	}
}

func nullableElem(t reflect.Type) reflect.Type {
	return reflect.Zero(t).Interface().(types.Nullable).ElemType()
}

func collectionElem(t reflect.Type) reflect.Type {
	return reflect.Zero(t).Interface().(types.Collection).ElemType()
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
