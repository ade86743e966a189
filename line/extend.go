package line

// SignExtended reports whether v, read as a 64-bit two's complement value,
// survives truncation to the given number of bits followed by sign extension.
func SignExtended(v uint64, bits uint) bool {
	if bits >= 64 {
		return true
	}
	maxVal := uint64(1)<<(bits-1) - 1
	minVal := ^maxVal

	return v <= maxVal || v >= minVal
}

// ZeroExtended reports whether v fits in the given number of unsigned bits.
func ZeroExtended(v uint64, bits uint) bool {
	if bits >= 64 {
		return true
	}

	return v <= uint64(1)<<bits-1
}
