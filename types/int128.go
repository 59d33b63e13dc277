package types

import (
	"math"
	"math/big"
	"strconv"
)

// Uint128 is an unsigned 128-bit integer.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// Int128 is a signed 128-bit integer in two's complement.
type Int128 struct {
	Hi int64
	Lo uint64
}

var (
	MaxUint128 = Uint128{Hi: math.MaxUint64, Lo: math.MaxUint64}
	MaxInt128  = Int128{Hi: math.MaxInt64, Lo: math.MaxUint64}
	MinInt128  = Int128{Hi: math.MinInt64, Lo: 0}
)

// U128 widens v.
func U128(v uint64) Uint128 { return Uint128{Lo: v} }

// I128 widens v with sign extension.
func I128(v int64) Int128 {
	if v < 0 {
		return Int128{Hi: -1, Lo: uint64(v)}
	}
	return Int128{Lo: uint64(v)}
}

// Words returns the low and high 64-bit words.
func (u Uint128) Words() (lo, hi uint64) { return u.Lo, u.Hi }

// Big returns u as a big integer.
func (u Uint128) Big() *big.Int {
	return wordsToBig(false, u.Lo, u.Hi)
}

func (u Uint128) String() string { return u.Big().String() }

// Uint128FromBig converts b, reporting false when it is negative or wider
// than 128 bits.
func Uint128FromBig(b *big.Int) (Uint128, bool) {
	if b.Sign() < 0 || b.BitLen() > 128 {
		return Uint128{}, false
	}
	lo, hi := bigToWords(b)
	return Uint128{Hi: hi, Lo: lo}, true
}

// Negative reports whether i is below zero.
func (i Int128) Negative() bool { return i.Hi < 0 }

// Magnitude returns the sign and the absolute value as (lo, hi) words.
// MinInt128 has magnitude 2^127, which still fits the two unsigned words.
func (i Int128) Magnitude() (neg bool, lo, hi uint64) {
	lo, hi = i.Lo, uint64(i.Hi)
	if !i.Negative() {
		return false, lo, hi
	}
	lo = ^lo + 1
	hi = ^hi
	if lo == 0 {
		hi++
	}
	return true, lo, hi
}

// Int128FromMagnitude is the inverse of Magnitude. It reports false when the
// magnitude is out of range for the sign.
func Int128FromMagnitude(neg bool, lo, hi uint64) (Int128, bool) {
	const signBit = uint64(1) << 63
	if !neg {
		if hi >= signBit {
			return Int128{}, false
		}
		return Int128{Hi: int64(hi), Lo: lo}, true
	}
	if hi > signBit || (hi == signBit && lo != 0) {
		return Int128{}, false
	}
	lo = ^lo + 1
	hi = ^hi
	if lo == 0 {
		hi++
	}
	return Int128{Hi: int64(hi), Lo: lo}, true
}

// Big returns i as a big integer.
func (i Int128) Big() *big.Int {
	neg, lo, hi := i.Magnitude()
	return wordsToBig(neg, lo, hi)
}

func (i Int128) String() string { return i.Big().String() }

// Int128FromBig converts b, reporting false when it does not fit.
func Int128FromBig(b *big.Int) (Int128, bool) {
	if b.BitLen() > 128 {
		return Int128{}, false
	}
	lo, hi := bigToWords(new(big.Int).Abs(b))
	return Int128FromMagnitude(b.Sign() < 0, lo, hi)
}

func wordsToBig(neg bool, lo, hi uint64) *big.Int {
	b := new(big.Int).SetUint64(hi)
	b.Lsh(b, 64)
	b.Or(b, new(big.Int).SetUint64(lo))
	if neg {
		b.Neg(b)
	}
	return b
}

// bigToWords splits a non-negative value of at most 128 bits.
func bigToWords(b *big.Int) (lo, hi uint64) {
	mask := new(big.Int).SetUint64(math.MaxUint64)
	lo = new(big.Int).And(b, mask).Uint64()
	hi = new(big.Int).Rsh(b, 64).Uint64()
	return lo, hi
}

// ParseInt128 parses a base-10 integer.
func ParseInt128(s string) (Int128, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int128{}, &strconv.NumError{Func: "ParseInt128", Num: s, Err: strconv.ErrSyntax}
	}
	v, ok := Int128FromBig(b)
	if !ok {
		return Int128{}, &strconv.NumError{Func: "ParseInt128", Num: s, Err: strconv.ErrRange}
	}
	return v, nil
}

// ParseUint128 parses a base-10 unsigned integer.
func ParseUint128(s string) (Uint128, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Uint128{}, &strconv.NumError{Func: "ParseUint128", Num: s, Err: strconv.ErrSyntax}
	}
	v, ok := Uint128FromBig(b)
	if !ok {
		return Uint128{}, &strconv.NumError{Func: "ParseUint128", Num: s, Err: strconv.ErrRange}
	}
	return v, nil
}
