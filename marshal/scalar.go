package marshal

import (
	"math"
	"math/big"
	"net"
	"net/netip"
	"reflect"
	"unicode/utf8"

	"github.com/dop251/goja"
	"github.com/google/uuid"

	"github.com/wippyai/jsbridge/cursor"
	"github.com/wippyai/jsbridge/errors"
	"github.com/wippyai/jsbridge/host"
	"github.com/wippyai/jsbridge/shape"
	"github.com/wippyai/jsbridge/types"
)

func (st *state) marshalScalar(p cursor.Peek) (goja.Value, error) {
	s, v := p.Shape(), p.Value()
	rt := st.rt()

	switch s.Scalar {
	case shape.ScalarBool:
		return rt.ToValue(v.Bool()), nil
	case shape.ScalarInt8, shape.ScalarInt16, shape.ScalarInt32:
		return rt.ToValue(v.Int()), nil
	case shape.ScalarUint8, shape.ScalarUint16, shape.ScalarUint32:
		return rt.ToValue(v.Uint()), nil

	// 64-bit integers are BigInt even when small, so the JS type does not
	// depend on the value.
	case shape.ScalarInt64, shape.ScalarInt:
		return rt.ToValue(big.NewInt(v.Int())), nil
	case shape.ScalarUint64, shape.ScalarUint, shape.ScalarUintptr:
		return rt.ToValue(new(big.Int).SetUint64(v.Uint())), nil
	case shape.ScalarInt128:
		neg, lo, hi := v.Interface().(types.Int128).Magnitude()
		return st.scope.FromWords(neg, lo, hi), nil
	case shape.ScalarUint128:
		lo, hi := v.Interface().(types.Uint128).Words()
		return st.scope.FromWords(false, lo, hi), nil
	case shape.ScalarBigInt:
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return goja.Null(), nil
			}
			return rt.ToValue(v.Interface().(*big.Int)), nil
		}
		b := v.Interface().(big.Int)
		return rt.ToValue(&b), nil

	case shape.ScalarFloat32, shape.ScalarFloat64:
		return rt.ToValue(v.Float()), nil

	case shape.ScalarString:
		return rt.ToValue(v.String()), nil
	case shape.ScalarChar:
		r := rune(v.Int())
		if !utf8.ValidRune(r) {
			return nil, errors.New(st.phase, errors.KindReflect).
				Path(st.where()...).
				GoType(s.String()).
				Value(int32(r)).
				Detail("%#x is not a Unicode scalar value", r).
				Build()
		}
		return rt.ToValue(string(r)), nil
	case shape.ScalarUnit:
		return goja.Null(), nil

	case shape.ScalarIPAddr:
		return rt.ToValue(v.Interface().(netip.Addr).String()), nil
	case shape.ScalarAddrPort:
		return rt.ToValue(v.Interface().(netip.AddrPort).String()), nil
	case shape.ScalarNetIP:
		if v.IsNil() {
			return goja.Null(), nil
		}
		return rt.ToValue(net.IP(v.Bytes()).String()), nil
	case shape.ScalarUUID:
		return rt.ToValue(v.Interface().(uuid.UUID).String()), nil
	}
	return nil, st.reflectErr(s, "unknown scalar type")
}

func (st *state) unmarshalScalar(v goja.Value, p *cursor.Partial) error {
	s := p.Shape()

	switch s.Scalar {
	case shape.ScalarBool:
		if !host.IsBool(v) {
			return st.unexpected(s, v)
		}
		return p.SetValue(reflect.ValueOf(v.ToBoolean()).Convert(s.Type))

	case shape.ScalarInt8, shape.ScalarInt16, shape.ScalarInt32, shape.ScalarInt64, shape.ScalarInt:
		n, err := st.integer(s, v)
		if err != nil {
			return err
		}
		probe := reflect.New(s.Type).Elem()
		if !n.IsInt64() || probe.OverflowInt(n.Int64()) {
			return errors.Overflow(st.phase, st.where(), n.String(), s.String())
		}
		probe.SetInt(n.Int64())
		return p.SetValue(probe)

	case shape.ScalarUint8, shape.ScalarUint16, shape.ScalarUint32, shape.ScalarUint64,
		shape.ScalarUint, shape.ScalarUintptr:
		n, err := st.integer(s, v)
		if err != nil {
			return err
		}
		probe := reflect.New(s.Type).Elem()
		if !n.IsUint64() || probe.OverflowUint(n.Uint64()) {
			return errors.Overflow(st.phase, st.where(), n.String(), s.String())
		}
		probe.SetUint(n.Uint64())
		return p.SetValue(probe)

	case shape.ScalarInt128:
		n, err := st.integer(s, v)
		if err != nil {
			return err
		}
		i, ok := types.Int128FromBig(n)
		if !ok {
			return errors.Overflow(st.phase, st.where(), n.String(), s.String())
		}
		return p.Set(i)

	case shape.ScalarUint128:
		n, err := st.integer(s, v)
		if err != nil {
			return err
		}
		u, ok := types.Uint128FromBig(n)
		if !ok {
			return errors.Overflow(st.phase, st.where(), n.String(), s.String())
		}
		return p.Set(u)

	case shape.ScalarBigInt:
		n, err := st.integer(s, v)
		if err != nil {
			return err
		}
		if s.Type.Kind() == reflect.Pointer {
			return p.Set(n)
		}
		return p.Set(*n)

	case shape.ScalarFloat32, shape.ScalarFloat64:
		var f float64
		switch {
		case goja.IsNumber(v):
			f = v.ToFloat()
		case goja.IsBigInt(v):
			b, _ := host.BigInt(v)
			f, _ = new(big.Float).SetInt(b).Float64()
		default:
			return st.unexpected(s, v)
		}
		probe := reflect.New(s.Type).Elem()
		probe.SetFloat(f)
		return p.SetValue(probe)

	case shape.ScalarString:
		if !goja.IsString(v) {
			return st.unexpected(s, v)
		}
		return p.SetValue(reflect.ValueOf(v.String()).Convert(s.Type))

	case shape.ScalarChar:
		if !goja.IsString(v) {
			return st.unexpected(s, v)
		}
		str := v.String()
		r, size := utf8.DecodeRuneInString(str)
		if size == 0 || size != len(str) || r == utf8.RuneError && size == 1 {
			return errors.New(st.phase, errors.KindReflect).
				Path(st.where()...).
				GoType(s.String()).
				JSType("string").
				Value(str).
				Detail("expected exactly one code point, got %d", utf8.RuneCountInString(str)).
				Build()
		}
		return p.Set(types.Char(r))

	case shape.ScalarUnit:
		if !host.IsNullish(v) {
			return st.unexpected(s, v)
		}
		return p.SetDefault()

	case shape.ScalarIPAddr:
		return st.parse(s, v, p, func(str string) (any, error) { return netip.ParseAddr(str) })
	case shape.ScalarAddrPort:
		return st.parse(s, v, p, func(str string) (any, error) { return netip.ParseAddrPort(str) })
	case shape.ScalarNetIP:
		if host.IsNullish(v) {
			return p.SetDefault()
		}
		return st.parse(s, v, p, func(str string) (any, error) {
			ip := net.ParseIP(str)
			if ip == nil {
				return nil, &net.ParseError{Type: "IP address", Text: str}
			}
			return ip, nil
		})
	case shape.ScalarUUID:
		return st.parse(s, v, p, func(str string) (any, error) { return uuid.Parse(str) })
	}
	return st.reflectErr(s, "unknown scalar type")
}

// integer reads an integral number or a BigInt.
func (st *state) integer(s *shape.Shape, v goja.Value) (*big.Int, error) {
	if b, ok := host.BigInt(v); ok {
		return b, nil
	}
	if !goja.IsNumber(v) {
		return nil, st.unexpected(s, v)
	}
	f := v.ToFloat()
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, errors.New(st.phase, errors.KindUnexpectedValue).
			Path(st.where()...).
			GoType(s.String()).
			JSType("number").
			Value(f).
			Detail("expected an integral number").
			Build()
	}
	if f >= math.MinInt64 && f < math.MaxInt64 {
		return big.NewInt(int64(f)), nil
	}
	b, _ := big.NewFloat(f).Int(nil)
	return b, nil
}

// parse reads a string and converts it with fn.
func (st *state) parse(s *shape.Shape, v goja.Value, p *cursor.Partial, fn func(string) (any, error)) error {
	if !goja.IsString(v) {
		return st.unexpected(s, v)
	}
	out, err := fn(v.String())
	if err != nil {
		return errors.New(st.phase, errors.KindUnexpectedValue).
			Path(st.where()...).
			GoType(s.String()).
			JSType("string").
			Value(v.String()).
			Cause(err).
			Build()
	}
	return p.Set(out)
}
