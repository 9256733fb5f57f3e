package wasm

import "bytes"

// writeULEB128 appends v to buf using unsigned LEB128 encoding (§4.6
// "section sizes and unsigned indices use LEB128 unsigned encoding").
func writeULEB128(buf *bytes.Buffer, v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

// writeSLEB128 appends v to buf using signed LEB128 encoding (§4.6 "signed
// constants use LEB128 signed encoding").
func writeSLEB128(buf *bytes.Buffer, v int64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		done := (v == 0 && !signBitSet) || (v == -1 && signBitSet)
		if !done {
			b |= 0x80
		}
		buf.WriteByte(b)
		if done {
			return
		}
	}
}

// writeName writes a length-prefixed UTF-8 string (§4.6 "their UTF-8 bytes
// prefixed by the byte length").
func writeName(buf *bytes.Buffer, s string) {
	writeULEB128(buf, uint64(len(s)))
	buf.WriteString(s)
}
