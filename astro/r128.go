package astro

import (
	"math"
	"math/bits"
)

// r128 is a signed 64.64 fixed-point number: value = hi + lo/2^64, with the
// pair interpreted as a two's-complement 128-bit integer scaled by 2^-64.
// Floats and doubles can't span light-year distances while resolving
// sub-metre offsets; 128-bit fixed point can. One unit is one kilometre,
// giving a representable range of about ±9.2e18 km (just under a million
// light-years) at a resolution of 5.4e-20 km.
type r128 struct {
	hi int64
	lo uint64
}

const two64 = 18446744073709551616.0 // 2^64 as a float64

func r128FromFloat(x float64) r128 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return r128{}
	}
	f := math.Floor(x)
	frac := (x - f) * two64
	var lo uint64
	if frac >= two64 {
		lo = math.MaxUint64
	} else {
		lo = uint64(frac)
	}
	return r128{hi: int64(f), lo: lo}
}

func (a r128) toFloat() float64 {
	return float64(a.hi) + float64(a.lo)/two64
}

func (a r128) add(b r128) r128 {
	lo, carry := bits.Add64(a.lo, b.lo, 0)
	return r128{hi: a.hi + b.hi + int64(carry), lo: lo}
}

func (a r128) sub(b r128) r128 {
	lo, borrow := bits.Sub64(a.lo, b.lo, 0)
	return r128{hi: a.hi - b.hi - int64(borrow), lo: lo}
}
