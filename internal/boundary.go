package internal

import (
	"bufio"
	"bytes"
	"io"
)

// boundaryPart is repeated boundaryPartCount times to separate the executable, the TOC and the attachment payloads.
var boundaryPart = []byte{'#', 15, 1, 12, 1, '#'}

// boundaryPartCount defines how often boundaryPart is repeated.
// This ensures that the pattern does not appear by accident within the executable.
const boundaryPartCount = 4

// boundary is "boundaryPart" repeated "boundaryPartCount" times
var boundary = bytes.Repeat(boundaryPart, boundaryPartCount)

// BoundarySize is the size of the complete boundary pattern.
var BoundarySize = len(boundary)

// IsBoundary checks if the given byte slice equals the boundary.
func IsBoundary(data []byte) bool {
	return bytes.Equal(boundary, data)
}

// WriteBoundary writes the boundary pattern.
func WriteBoundary(w io.Writer) error {
	_, err := w.Write(boundary)
	return err
}

// SeekBoundary reads from the reader until the end of the next boundary.
// Returns the number of bytes that were consumed (including the pattern itself),
// or -1 if there is no further boundary.
func SeekBoundary(in io.ReadSeeker) int64 {
	return SeekPattern(in, boundary)
}

// SeekPattern reads from the reader until the search pattern was found.
// Afterwards the reader is positioned on the first byte following the pattern.
// Returns the number of bytes that were consumed (including the pattern itself),
// or -1 if the pattern was not found.
func SeekPattern(in io.ReadSeeker, pattern []byte) int64 {
	start, err := in.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	r := bufio.NewReader(in)

	fallback := prefixTable(pattern)
	var offset int64
	matched := 0 // #bytes of the pattern we already found
	for matched < len(pattern) {
		b, err := r.ReadByte()
		if err != nil { // not found
			return -1
		}
		offset++
		for matched > 0 && pattern[matched] != b {
			matched = fallback[matched-1]
		}
		if pattern[matched] == b {
			matched++
		}
	}

	// bufio read ahead; reposition the underlying reader
	_, _ = in.Seek(start+offset, io.SeekStart)
	return offset
}

// prefixTable returns, for every prefix of pattern, the length of its longest proper prefix that is also a suffix.
// A partial match that fails can therefore resume without rereading input.
func prefixTable(pattern []byte) []int {
	table := make([]int, len(pattern))
	k := 0
	for i := 1; i < len(pattern); i++ {
		for k > 0 && pattern[k] != pattern[i] {
			k = table[k-1]
		}
		if pattern[k] == pattern[i] {
			k++
		}
		table[i] = k
	}
	return table
}
