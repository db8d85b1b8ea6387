// Package crc16 owns the 16-bit integrity checksum of the stream wire
// contract: polynomial 0x1021 with a 0x1D0F preset (CRC-16/AUG-CCITT).
package crc16

const (
	polynomial uint16 = 0x1021
	preset     uint16 = 0x1D0F
)

// table is built once at startup and read-only afterwards.
var table [256]uint16

func init() {
	for i := range table {
		var crc uint16
		c := uint16(i) << 8
		for j := 0; j < 8; j++ {
			if (crc^c)&0x8000 != 0 {
				crc = crc<<1 ^ polynomial
			} else {
				crc <<= 1
			}
			c <<= 1
		}
		table[i] = crc
	}
}

// Checksum folds data one byte at a time through the lookup table and
// returns the final register value. It is pure: identical input always
// yields identical output.
func Checksum(data []byte) uint16 {
	crc := preset
	for _, b := range data {
		crc = crc<<8 ^ table[byte(crc>>8)^b]
	}
	return crc
}
