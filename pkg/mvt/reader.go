package mvt

import "encoding/binary"

// Protobuf wire types.
const (
	wireVarint  = 0
	wireFixed64 = 1
	wireBytes   = 2
	wireFixed32 = 5
)

// reader walks a protobuf message buffer. base is the absolute offset of the
// buffer within the original tile payload, so nested readers report fault
// offsets relative to the whole tile.
type reader struct {
	buf  []byte
	pos  int
	base int
}

func (r *reader) offset() int { return r.base + r.pos }

func (r *reader) done() bool { return r.pos >= len(r.buf) }

// varint reads one base-128 variable-length integer.
func (r *reader) varint() (uint64, error) {
	start := r.offset()
	var v uint64
	var shift uint
	for {
		if r.pos >= len(r.buf) {
			return 0, formatErrf(start, "truncated varint")
		}
		if shift > 63 {
			return 0, formatErrf(start, "varint overflows 64 bits")
		}
		b := r.buf[r.pos]
		r.pos++
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, nil
		}
		shift += 7
	}
}

// tag reads one field key and splits it into field number and wire type.
func (r *reader) tag() (field int, wire int, err error) {
	start := r.offset()
	key, err := r.varint()
	if err != nil {
		return 0, 0, err
	}
	field = int(key >> 3)
	if field == 0 {
		return 0, 0, formatErrf(start, "field number 0 is invalid")
	}
	return field, int(key & 0x7), nil
}

// bytes reads one length-delimited field and returns its payload together
// with the payload's absolute offset.
func (r *reader) bytes() ([]byte, int, error) {
	start := r.offset()
	n, err := r.varint()
	if err != nil {
		return nil, 0, err
	}
	if n > uint64(len(r.buf)-r.pos) {
		return nil, 0, formatErrf(start, "length %d exceeds remaining %d bytes", n, len(r.buf)-r.pos)
	}
	payload := r.buf[r.pos : r.pos+int(n)]
	at := r.offset()
	r.pos += int(n)
	return payload, at, nil
}

func (r *reader) fixed32() (uint32, error) {
	if len(r.buf)-r.pos < 4 {
		return 0, formatErrf(r.offset(), "truncated 32-bit field")
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) fixed64() (uint64, error) {
	if len(r.buf)-r.pos < 8 {
		return 0, formatErrf(r.offset(), "truncated 64-bit field")
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// skip discards one field payload of the given wire type.
func (r *reader) skip(wire int) error {
	switch wire {
	case wireVarint:
		_, err := r.varint()
		return err
	case wireFixed64:
		_, err := r.fixed64()
		return err
	case wireBytes:
		_, _, err := r.bytes()
		return err
	case wireFixed32:
		_, err := r.fixed32()
		return err
	default:
		return formatErrf(r.offset(), "unsupported wire type %d", wire)
	}
}

// zigzag decodes a sint64 zigzag-encoded varint payload.
func zigzag(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}
