// Package rng provides a Mersenne Twister generator whose output matches
// numpy's legacy RandomState for integer seeds, so that values generated here
// line up with the ones produced by the original Python service.
package rng

import "math"

const (
	stateLen  = 624
	shift     = 397
	matrixA   = 0x9908b0df
	upperMask = 0x80000000
	lowerMask = 0x7fffffff
)

// MT19937 is a 32-bit Mersenne Twister. It is not safe for concurrent use;
// allocate one per call site or guard it externally.
type MT19937 struct {
	key [stateLen]uint32
	pos int

	hasGauss bool
	gauss    float64
}

// New returns a generator seeded with seed.
func New(seed uint32) *MT19937 {
	m := &MT19937{}
	m.Seed(seed)
	return m
}

// Seed resets the generator state, including any cached gaussian.
func (m *MT19937) Seed(seed uint32) {
	for i := 0; i < stateLen; i++ {
		m.key[i] = seed
		seed = 1812433253*(seed^(seed>>30)) + uint32(i) + 1
	}
	m.pos = stateLen
	m.hasGauss = false
	m.gauss = 0
}

func (m *MT19937) generate() {
	var y uint32
	i := 0
	for ; i < stateLen-shift; i++ {
		y = (m.key[i] & upperMask) | (m.key[i+1] & lowerMask)
		m.key[i] = m.key[i+shift] ^ (y >> 1) ^ (-(y & 1) & matrixA)
	}
	for ; i < stateLen-1; i++ {
		y = (m.key[i] & upperMask) | (m.key[i+1] & lowerMask)
		m.key[i] = m.key[i+shift-stateLen] ^ (y >> 1) ^ (-(y & 1) & matrixA)
	}
	y = (m.key[stateLen-1] & upperMask) | (m.key[0] & lowerMask)
	m.key[stateLen-1] = m.key[shift-1] ^ (y >> 1) ^ (-(y & 1) & matrixA)
	m.pos = 0
}

// Uint32 returns the next tempered 32-bit output.
func (m *MT19937) Uint32() uint32 {
	if m.pos >= stateLen {
		m.generate()
	}
	y := m.key[m.pos]
	m.pos++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// Float64 returns a double in [0, 1) with 53 bits of randomness.
func (m *MT19937) Float64() float64 {
	a := m.Uint32() >> 5
	b := m.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) / 9007199254740992.0
}

// Uniform returns a value in [low, high).
func (m *MT19937) Uniform(low, high float64) float64 {
	return low + (high-low)*m.Float64()
}

// NormFloat64 returns a standard normal deviate using the polar method.
// Each pair of accepted uniforms yields two deviates; the second is cached
// for the next call.
func (m *MT19937) NormFloat64() float64 {
	if m.hasGauss {
		m.hasGauss = false
		return m.gauss
	}

	var x1, x2, r2 float64
	for {
		x1 = 2.0*m.Float64() - 1.0
		x2 = 2.0*m.Float64() - 1.0
		r2 = x1*x1 + x2*x2
		if r2 < 1.0 && r2 != 0.0 {
			break
		}
	}

	f := math.Sqrt(-2.0 * math.Log(r2) / r2)
	m.gauss = f * x1
	m.hasGauss = true
	return f * x2
}

// Normals fills a new slice of length n with standard normal deviates.
func (m *MT19937) Normals(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = m.NormFloat64()
	}
	return out
}
