package proto

// Length prefix classes. The first byte's leading bits select the class:
//
//	0xxxxxxx                                  1 byte,  7 bits
//	10xxxxxx xxxxxxxx                         2 bytes, 14 bits
//	110xxxxx xxxxxxxx xxxxxxxx                3 bytes, 21 bits
//	1110xxxx xxxxxxxx xxxxxxxx xxxxxxxx       4 bytes, 28 bits
//	1111xxxx xxxxxxxx xxxxxxxx xxxxxxxx xxxxxxxx  5 bytes, 35 bits used
const (
	max1 = 0x7F
	max2 = 0x3FFF
	max3 = 0x1FFFFF
	max4 = 0xFFFFFFF

	// 2^32, used to split the 5 byte class without shifting past 32 bits.
	word32 = 0x100000000
)

// LengthSize returns the number of bytes EncodeLength produces for n,
// or 0 if n is out of range.
func LengthSize(n int64) int {
	switch {
	case n < 0:
		return 0
	case n <= max1:
		return 1
	case n <= max2:
		return 2
	case n <= max3:
		return 3
	case n <= max4:
		return 4
	case n <= MaxLength:
		return 5
	default:
		return 0
	}
}

// EncodeLength returns the minimal length prefix for n.
func EncodeLength(n int64) ([]byte, error) {
	return AppendLength(make([]byte, 0, MaxLengthSize), n)
}

// AppendLength appends the minimal length prefix for n to dst.
// On error dst is returned unchanged.
func AppendLength(dst []byte, n int64) ([]byte, error) {
	switch LengthSize(n) {
	case 1:
		return append(dst, byte(n)), nil
	case 2:
		return append(dst, byte(n>>8)|0x80, byte(n)), nil
	case 3:
		return append(dst, byte(n>>16)|0xC0, byte(n>>8), byte(n)), nil
	case 4:
		return append(dst, byte(n>>24)|0xE0, byte(n>>16), byte(n>>8), byte(n)), nil
	case 5:
		hi := n / word32
		lo := uint32(n % word32)
		return append(dst, byte(hi)|0xF0, byte(lo>>24), byte(lo>>16), byte(lo>>8), byte(lo)), nil
	default:
		return dst, &RangeError{Value: n}
	}
}

// lengthClass returns the prefix size announced by the first byte b.
func lengthClass(b byte) (int, error) {
	switch {
	case b&0x80 == 0x00:
		return 1, nil
	case b&0xC0 == 0x80:
		return 2, nil
	case b&0xE0 == 0xC0:
		return 3, nil
	case b&0xF0 == 0xE0:
		return 4, nil
	case b&0xF8 == 0xF0:
		return 5, nil
	default:
		// 0xF8 and above would put bits past MaxLength; RouterOS reserves
		// them as control bytes.
		return 0, &FormatError{Message: "invalid length prefix byte 0x" + hexByte(b)}
	}
}

// DecodeLength decodes the length prefix starting at b[offset].
// It returns the length and the number of prefix bytes consumed.
func DecodeLength(b []byte, offset int) (int64, int, error) {
	if offset < 0 || offset >= len(b) {
		return 0, 0, &TruncatedError{What: "length", Need: 1, Have: 0}
	}

	size, err := lengthClass(b[offset])
	if err != nil {
		return 0, 0, err
	}

	avail := len(b) - offset
	if avail < size {
		return 0, 0, &TruncatedError{What: "length", Need: int64(size), Have: int64(avail)}
	}

	p := b[offset : offset+size]
	var n int64
	switch size {
	case 1:
		n = int64(p[0])
	case 2:
		n = int64(p[0]&0x3F)<<8 | int64(p[1])
	case 3:
		n = int64(p[0]&0x1F)<<16 | int64(p[1])<<8 | int64(p[2])
	case 4:
		n = int64(p[0]&0x0F)<<24 | int64(p[1])<<16 | int64(p[2])<<8 | int64(p[3])
	case 5:
		lo := uint32(p[1])<<24 | uint32(p[2])<<16 | uint32(p[3])<<8 | uint32(p[4])
		n = int64(p[0]&0x07)*word32 + int64(lo)
	}

	return n, size, nil
}

const hexDigits = "0123456789ABCDEF"

func hexByte(b byte) string {
	return string([]byte{hexDigits[b>>4], hexDigits[b&0x0F]})
}
