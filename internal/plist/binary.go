package plist

import (
	"encoding/binary"
	"unicode/utf16"
)

// decodeBinary parses a bplist00 document. Dictionary key order is taken
// from the on-disk key reference order, so binary and XML inputs behave the
// same with respect to ordering.
func decodeBinary(data []byte) (Value, error) {
	const trailerLen = 32
	if len(data) < 8+trailerLen {
		return nil, parseErrf("binary", "truncated document (%d bytes)", len(data))
	}
	trailer := data[len(data)-trailerLen:]
	offsetIntSize := int(trailer[6])
	objectRefSize := int(trailer[7])
	numObjects := binary.BigEndian.Uint64(trailer[8:16])
	topObject := binary.BigEndian.Uint64(trailer[16:24])
	offsetTableStart := binary.BigEndian.Uint64(trailer[24:32])

	if offsetIntSize < 1 || offsetIntSize > 8 || objectRefSize < 1 || objectRefSize > 8 {
		return nil, parseErrf("binary", "invalid trailer sizes (offset %d, ref %d)", offsetIntSize, objectRefSize)
	}
	if numObjects == 0 || topObject >= numObjects {
		return nil, parseErrf("binary", "invalid object table (count %d, top %d)", numObjects, topObject)
	}
	// Bound numObjects by the space actually available for the offset table
	// before multiplying, so a huge count cannot wrap the end computation.
	body := uint64(len(data) - trailerLen)
	if offsetTableStart < 8 || offsetTableStart > body ||
		numObjects > (body-offsetTableStart)/uint64(offsetIntSize) {
		return nil, parseErrf("binary", "offset table out of bounds")
	}

	offsets := make([]uint64, numObjects)
	for i := uint64(0); i < numObjects; i++ {
		start := offsetTableStart + i*uint64(offsetIntSize)
		offsets[i] = readSizedInt(data[start : start+uint64(offsetIntSize)])
	}

	p := &binaryParser{data: data[:len(data)-trailerLen], offsets: offsets, refSize: objectRefSize}
	return p.object(topObject, 0)
}

type binaryParser struct {
	data    []byte
	offsets []uint64
	refSize int
}

// maxBinaryDepth bounds recursion so reference cycles cannot hang the parser.
const maxBinaryDepth = 512

func (p *binaryParser) object(ref uint64, depth int) (Value, error) {
	if depth > maxBinaryDepth {
		return nil, parseErrf("binary", "object nesting too deep (possible reference cycle)")
	}
	if ref >= uint64(len(p.offsets)) {
		return nil, parseErrf("binary", "object reference %d out of range", ref)
	}
	pos := p.offsets[ref]
	if pos >= uint64(len(p.data)) {
		return nil, parseErrf("binary", "object offset %d out of bounds", pos)
	}
	marker := p.data[pos]
	nibble := uint64(marker & 0x0F)
	body := pos + 1

	switch marker >> 4 {
	case 0x0:
		switch marker {
		case 0x08:
			return Bool(false), nil
		case 0x09:
			return Bool(true), nil
		}
		return nil, parseErrf("binary", "unsupported singleton marker 0x%02x", marker)
	case 0x1:
		width := uint64(1) << nibble
		if width > 8 {
			return nil, parseErrf("binary", "unsupported %d-byte integer", width)
		}
		if body+width > uint64(len(p.data)) {
			return nil, parseErrf("binary", "truncated integer object")
		}
		return Integer(int64(readSizedInt(p.data[body : body+width]))), nil
	case 0x4:
		raw, err := p.sizedBytes(body, nibble, 1)
		if err != nil {
			return nil, err
		}
		out := make(Data, len(raw))
		copy(out, raw)
		return out, nil
	case 0x5:
		raw, err := p.sizedBytes(body, nibble, 1)
		if err != nil {
			return nil, err
		}
		return String(raw), nil
	case 0x6:
		raw, err := p.sizedBytes(body, nibble, 2)
		if err != nil {
			return nil, err
		}
		units := make([]uint16, len(raw)/2)
		for i := range units {
			units[i] = binary.BigEndian.Uint16(raw[i*2:])
		}
		return String(utf16.Decode(units)), nil
	case 0xA:
		count, refsStart, err := p.count(body, nibble)
		if err != nil {
			return nil, err
		}
		if count > uint64(len(p.data))/uint64(p.refSize) {
			return nil, parseErrf("binary", "array length %d exceeds document size", count)
		}
		arr := make(Array, 0, count)
		for i := uint64(0); i < count; i++ {
			childRef, err := p.ref(refsStart + i*uint64(p.refSize))
			if err != nil {
				return nil, err
			}
			child, err := p.object(childRef, depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, child)
		}
		return arr, nil
	case 0xD:
		count, refsStart, err := p.count(body, nibble)
		if err != nil {
			return nil, err
		}
		if count > uint64(len(p.data))/uint64(2*p.refSize) {
			return nil, parseErrf("binary", "dict length %d exceeds document size", count)
		}
		d := NewDict()
		for i := uint64(0); i < count; i++ {
			keyRef, err := p.ref(refsStart + i*uint64(p.refSize))
			if err != nil {
				return nil, err
			}
			valRef, err := p.ref(refsStart + (count+i)*uint64(p.refSize))
			if err != nil {
				return nil, err
			}
			keyVal, err := p.object(keyRef, depth+1)
			if err != nil {
				return nil, err
			}
			key, ok := keyVal.(String)
			if !ok {
				return nil, parseErrf("binary", "dict key is %s, want string", TypeName(keyVal))
			}
			if d.Has(string(key)) {
				return nil, parseErrf("binary", "duplicate key %q in dict", string(key))
			}
			val, err := p.object(valRef, depth+1)
			if err != nil {
				return nil, err
			}
			d.Set(string(key), val)
		}
		return d, nil
	default:
		// real, date, uid and set markers fall outside the supported leaf set.
		return nil, parseErrf("binary", "unsupported object marker 0x%02x", marker)
	}
}

// count resolves the element count for a marker whose low nibble is either
// the count itself or 0xF followed by an integer object.
func (p *binaryParser) count(body, nibble uint64) (count, next uint64, err error) {
	if nibble != 0xF {
		return nibble, body, nil
	}
	if body >= uint64(len(p.data)) {
		return 0, 0, parseErrf("binary", "truncated length marker")
	}
	marker := p.data[body]
	if marker>>4 != 0x1 {
		return 0, 0, parseErrf("binary", "invalid length marker 0x%02x", marker)
	}
	width := uint64(1) << (marker & 0x0F)
	if width > 8 || body+1+width > uint64(len(p.data)) {
		return 0, 0, parseErrf("binary", "truncated length integer")
	}
	return readSizedInt(p.data[body+1 : body+1+width]), body + 1 + width, nil
}

func (p *binaryParser) sizedBytes(body, nibble, unit uint64) ([]byte, error) {
	count, start, err := p.count(body, nibble)
	if err != nil {
		return nil, err
	}
	if count > uint64(len(p.data))/unit {
		return nil, parseErrf("binary", "truncated object body")
	}
	end := start + count*unit
	if end > uint64(len(p.data)) || end < start {
		return nil, parseErrf("binary", "truncated object body")
	}
	return p.data[start:end], nil
}

func (p *binaryParser) ref(pos uint64) (uint64, error) {
	end := pos + uint64(p.refSize)
	if end > uint64(len(p.data)) {
		return 0, parseErrf("binary", "truncated object reference")
	}
	return readSizedInt(p.data[pos:end]), nil
}

func readSizedInt(b []byte) uint64 {
	var n uint64
	for _, c := range b {
		n = n<<8 | uint64(c)
	}
	return n
}
