package line

import (
	"encoding/binary"
	"unsafe"
)

// ByteOrder combines ByteOrder and AppendByteOrder from encoding/binary. It is
// satisfied by binary.LittleEndian and binary.BigEndian.
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// NativeOrder reports the byte order of the host.
func NativeOrder() ByteOrder {
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// LittleEndian returns the little-endian order used by x86 trace dumps.
// It is the default for every Line.
func LittleEndian() ByteOrder {
	return binary.LittleEndian
}

// BigEndian returns the big-endian order.
func BigEndian() ByteOrder {
	return binary.BigEndian
}
