package bloom

import "encoding/binary"

func readI32BE(b []byte) int32     { return int32(binary.BigEndian.Uint32(b)) }
func writeI32BE(b []byte, v int32) { binary.BigEndian.PutUint32(b, uint32(v)) }

// bitsetBytes returns ceil(vectorSize/8).
func bitsetBytes(vectorSize int) int {
	return (vectorSize + 7) / 8
}
