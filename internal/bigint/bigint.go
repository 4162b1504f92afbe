// Copyright 2026 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bigint implements the unsigned arbitrary-precision arithmetic needed to compute RSA
// signatures.
//
// A Nat is stored as a little-endian sequence of 32-bit words. Every function in this package
// returns a canonical Nat (no high-order zero words, and zero is exactly one zero word), and none
// of them modify their arguments.
package bigint

import (
	"math/bits"
)

const (
	wordBits  = 32
	wordBytes = 4
	wordBase  = 1 << wordBits
	wordMask  = wordBase - 1
)

// Nat is an unsigned integer of arbitrary size. Word 0 is the least significant word.
type Nat []uint32

// FromBytes interprets b as a big-endian unsigned integer.
func FromBytes(b []byte) Nat {
	z := make(Nat, 0, (len(b)+wordBytes-1)/wordBytes)
	for i := len(b); i > 0; i -= wordBytes {
		start := i - wordBytes
		if start < 0 {
			start = 0
		}
		var w uint32
		for _, c := range b[start:i] {
			w = w<<8 | uint32(c)
		}
		z = append(z, w)
	}
	return z.norm()
}

// FromUint64 returns v as a Nat.
func FromUint64(v uint64) Nat {
	return Nat{uint32(v & wordMask), uint32(v >> wordBits)}.norm()
}

// Bytes returns the minimal big-endian encoding of x. Zero encodes as a single zero byte.
func (x Nat) Bytes() []byte {
	x = x.norm()
	buf := make([]byte, 0, len(x)*wordBytes)
	for i := len(x) - 1; i >= 0; i-- {
		w := x[i]
		buf = append(buf, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	}
	for len(buf) > 1 && buf[0] == 0 {
		buf = buf[1:]
	}
	return buf
}

// BitLen returns the number of significant bits in x. BitLen of zero is 0.
func (x Nat) BitLen() int {
	x = x.norm()
	top := len(x) - 1
	return top*wordBits + bits.Len32(x[top])
}

// IsZero reports whether x is zero.
func (x Nat) IsZero() bool {
	x = x.norm()
	return len(x) == 1 && x[0] == 0
}

// String returns x in hexadecimal, for diagnostics.
func (x Nat) String() string {
	const digits = "0123456789abcdef"
	b := x.Bytes()
	out := make([]byte, 0, 2+2*len(b))
	out = append(out, '0', 'x')
	for _, c := range b {
		out = append(out, digits[c>>4], digits[c&0x0f])
	}
	return string(out)
}

// norm returns x with its high-order zero words removed. The result shares storage with x and is
// never shorter than one word; a nil or empty x normalizes to a fresh zero.
func (x Nat) norm() Nat {
	n := len(x)
	for n > 1 && x[n-1] == 0 {
		n--
	}
	if n == 0 {
		return Nat{0}
	}
	return x[:n]
}

// Compare returns -1, 0 or +1 depending on whether a is less than, equal to or greater than b.
//
// Canonical values are ordered by word count first, then word by word from the most significant
// end.
func Compare(a, b Nat) int {
	a, b = a.norm(), b.norm()
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Sub returns a - b. It panics if a < b.
func Sub(a, b Nat) Nat {
	a, b = a.norm(), b.norm()
	if Compare(a, b) < 0 {
		panic("bigint: negative difference")
	}
	z := make(Nat, len(a))
	var borrow uint32
	for i := range a {
		var bi uint32
		if i < len(b) {
			bi = b[i]
		}
		z[i], borrow = bits.Sub32(a[i], bi, borrow)
	}
	return z.norm()
}

// Mul returns a * b, computed with schoolbook multiplication.
func Mul(a, b Nat) Nat {
	a, b = a.norm(), b.norm()
	z := make(Nat, len(a)+len(b))
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		var carry uint64
		for j, bj := range b {
			t := uint64(ai)*uint64(bj) + uint64(z[i+j]) + carry
			z[i+j] = uint32(t & wordMask)
			carry = t >> wordBits
		}
		z[i+len(b)] = uint32(carry)
	}
	return z.norm()
}

// Mod returns a mod m. It panics if m is zero.
//
// The remainder is computed with word-based long division (Knuth, TAOCP vol. 2, 4.3.1,
// algorithm D). Every loop has a bound fixed by the operand lengths, so Mod always terminates.
func Mod(a, m Nat) Nat {
	a, m = a.norm(), m.norm()
	if m.IsZero() {
		panic("bigint: division by zero")
	}
	if Compare(a, m) < 0 {
		return append(Nat(nil), a...)
	}
	if len(m) == 1 {
		return modWord(a, m[0])
	}
	return modLong(a, m)
}

// modWord divides by a single-word modulus.
func modWord(a Nat, d uint32) Nat {
	var r uint64
	for i := len(a) - 1; i >= 0; i-- {
		r = (r<<wordBits | uint64(a[i])) % uint64(d)
	}
	return Nat{uint32(r)}
}

// modLong computes a mod v for len(v) >= 2 and a >= v.
func modLong(a, v Nat) Nat {
	m, n := len(a), len(v)

	// D1: normalize so that the top word of the divisor has its high bit set. Go defines shifts
	// by the full word width as zero, which makes the s == 0 case fall out naturally.
	s := uint(bits.LeadingZeros32(v[n-1]))
	vn := make([]uint32, n)
	for i := n - 1; i > 0; i-- {
		vn[i] = v[i]<<s | v[i-1]>>(wordBits-s)
	}
	vn[0] = v[0] << s

	un := make([]uint32, m+1)
	un[m] = a[m-1] >> (wordBits - s)
	for i := m - 1; i > 0; i-- {
		un[i] = a[i]<<s | a[i-1]>>(wordBits-s)
	}
	un[0] = a[0] << s

	vTop, vNext := uint64(vn[n-1]), uint64(vn[n-2])
	for j := m - n; j >= 0; j-- {
		// D3: estimate the quotient digit from the top two words and correct it at most twice.
		num := uint64(un[j+n])<<wordBits | uint64(un[j+n-1])
		qhat := num / vTop
		rhat := num - qhat*vTop
		for qhat >= wordBase || qhat*vNext > (rhat<<wordBits)|uint64(un[j+n-2]) {
			qhat--
			rhat += vTop
			if rhat >= wordBase {
				break
			}
		}

		// D4: multiply and subtract.
		var borrow int64
		for i := 0; i < n; i++ {
			p := qhat * uint64(vn[i])
			t := int64(un[i+j]) - borrow - int64(p&wordMask)
			un[i+j] = uint32(t)
			borrow = int64(p>>wordBits) - (t >> wordBits)
		}
		t := int64(un[j+n]) - borrow
		un[j+n] = uint32(t)

		// D6: the estimate was one too large; add the divisor back.
		if t < 0 {
			var carry uint64
			for i := 0; i < n; i++ {
				sum := uint64(un[i+j]) + uint64(vn[i]) + carry
				un[i+j] = uint32(sum)
				carry = sum >> wordBits
			}
			un[j+n] += uint32(carry)
		}
	}

	// D8: unnormalize the remainder.
	r := make(Nat, n)
	for i := 0; i < n; i++ {
		r[i] = un[i]>>s | un[i+1]<<(wordBits-s)
	}
	return r.norm()
}

// ModPow returns base^exp mod m. It panics if m is zero.
//
// The exponent is scanned from its least significant bit upward. Set bits multiply the running
// result by the current power of the base; the power is squared after every bit whether or not
// the bit was set.
func ModPow(base, exp, m Nat) Nat {
	base, exp, m = base.norm(), exp.norm(), m.norm()
	result := Mod(Nat{1}, m)
	power := Mod(base, m)
	for _, w := range exp {
		for bit := 0; bit < wordBits; bit++ {
			if (w>>uint(bit))&1 == 1 {
				result = Mod(Mul(result, power), m)
			}
			power = Mod(Mul(power, power), m)
		}
	}
	return result
}
