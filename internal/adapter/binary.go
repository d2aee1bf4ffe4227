package adapter

import "unicode/utf8"

// sniffLen bounds how much of a file is inspected when deciding whether
// its content is binary.
const sniffLen = 8000

// IsBinary reports whether the provided byte sample appears to contain
// binary data. Invalid UTF-8 or a NUL byte counts as binary.
func IsBinary(sample []byte) bool {
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}

	if len(sample) == 0 {
		return false
	}

	if !utf8.Valid(sample) {
		return true
	}

	for _, b := range sample {
		if b == 0 {
			return true
		}
	}

	return false
}
