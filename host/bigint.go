package host

import (
	"math/big"
	"math/bits"

	"github.com/dop251/goja"
)

// FromWords builds a BigInt from a sign and little-endian 64-bit words.
func (s *Scope) FromWords(neg bool, words ...uint64) goja.Value {
	return s.rt.ToValue(WordsToBig(neg, words...))
}

// WordsToBig assembles a big integer from a sign and little-endian words.
func WordsToBig(neg bool, words ...uint64) *big.Int {
	b := new(big.Int)
	if bits.UintSize == 64 {
		ws := make([]big.Word, len(words))
		for i, w := range words {
			ws[i] = big.Word(w)
		}
		b.SetBits(ws)
	} else {
		for i := len(words) - 1; i >= 0; i-- {
			b.Lsh(b, 64)
			b.Or(b, new(big.Int).SetUint64(words[i]))
		}
	}
	if neg {
		b.Neg(b)
	}
	return b
}

// Words splits b into its sign and little-endian 64-bit magnitude words.
// Zero has no words.
func Words(b *big.Int) (neg bool, words []uint64) {
	mag := new(big.Int).Abs(b)
	mask := new(big.Int).SetUint64(^uint64(0))
	for mag.Sign() > 0 {
		words = append(words, new(big.Int).And(mag, mask).Uint64())
		mag.Rsh(mag, 64)
	}
	return b.Sign() < 0, words
}

// BigInt returns the value of v when it is a BigInt.
func BigInt(v goja.Value) (*big.Int, bool) {
	if !goja.IsBigInt(v) {
		return nil, false
	}
	b, ok := v.Export().(*big.Int)
	return b, ok
}
