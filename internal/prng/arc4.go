// Package prng is a string-seeded pseudo-random source whose output matches
// the ARC4-based "seedrandom" generator used by the card editor, so a
// pattern seed saved in a settings profile looks the same wherever it is
// rendered.
//
// A Source is not safe for concurrent use. Each pattern generation owns its
// own Source.
package prng

import "unicode/utf16"

const (
	width        = 256
	mask         = width - 1
	chunks       = 6
	startDenom   = 281474976710656.0  // 256^6
	significance = 4503599627370496.0 // 2^52
	overflow     = 9007199254740992.0 // 2^53
)

// Source produces a deterministic stream of float64 values in [0, 1).
type Source struct {
	s    [width]byte
	i, j byte
}

// New seeds a Source from a string. The same string always produces the
// same stream.
func New(seed string) *Source {
	src := &Source{}
	src.init(mixKey(seed))
	return src
}

// mixKey folds the UTF-16 code units of seed into a key of at most 256
// bytes.
func mixKey(seed string) []byte {
	units := utf16.Encode([]rune(seed))
	var key []byte
	smear := 0
	for j, u := range units {
		idx := j & mask
		if idx >= len(key) {
			key = append(key, 0)
		}
		smear ^= int(key[idx]) * 19
		key[idx] = byte(mask & (smear + int(u)))
	}
	return key
}

func (src *Source) init(key []byte) {
	if len(key) == 0 {
		key = []byte{0}
	}
	for i := 0; i < width; i++ {
		src.s[i] = byte(i)
	}
	j := 0
	for i := 0; i < width; i++ {
		t := src.s[i]
		j = mask & (j + int(key[i%len(key)]) + int(t))
		src.s[i] = src.s[j]
		src.s[j] = t
	}
	// Discard the first 256 bytes of keystream.
	src.next(width)
}

// next returns the next count keystream bytes as a big-endian integer.
func (src *Source) next(count int) uint64 {
	var r uint64
	i, j := src.i, src.j
	for ; count > 0; count-- {
		i++
		t := src.s[i]
		j += t
		src.s[i] = src.s[j]
		src.s[j] = t
		r = r*width + uint64(src.s[src.s[i]+t])
	}
	src.i, src.j = i, j
	return r
}

// Float64 returns the next value in [0, 1) with 52 bits of randomness.
func (src *Source) Float64() float64 {
	n := float64(src.next(chunks))
	d := startDenom
	var x uint64
	for n < significance {
		n = (n + float64(x)) * width
		d *= width
		x = src.next(1)
	}
	for n >= overflow {
		n /= 2
		d /= 2
		x >>= 1
	}
	return (n + float64(x)) / d
}
