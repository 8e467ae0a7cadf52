package xorcrack

import "math/bits"

// HammingDistance returns the number of differing bits between a and b.
// Unequal lengths add one unit of distance per unmatched byte.
func HammingDistance(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	d := 0
	for i := 0; i < n; i++ {
		d += bits.OnesCount8(a[i] ^ b[i])
	}
	if len(a) > len(b) {
		d += len(a) - len(b)
	} else {
		d += len(b) - len(a)
	}
	return d
}
