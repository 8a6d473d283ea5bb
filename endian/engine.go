// Package endian provides the byte order engine used by the dta codec.
//
// The dta file format stores a three-letter byte-order marker in its header.
// This codec handles little-endian ("LSF") files only and always writes LSF;
// big-endian ("MSF") files are rejected during header validation.
package endian

import "encoding/binary"

// Byte-order markers as they appear in the <byteorder> header section.
const (
	MarkerLSF = "LSF" // least-significant byte first (little-endian)
	MarkerMSF = "MSF" // most-significant byte first (big-endian), rejected
)

// Engine combines ByteOrder and AppendByteOrder from encoding/binary into a
// single interface for byte order operations. binary.LittleEndian satisfies
// it, so the engine interoperates with any code built on the standard
// library interfaces.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Little returns the little-endian engine every dta section uses.
func Little() Engine {
	return binary.LittleEndian
}
