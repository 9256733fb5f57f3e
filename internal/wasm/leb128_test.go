package wasm

import (
	"bytes"
	"testing"
)

func TestWriteULEB128(t *testing.T) {
	cases := []struct {
		in   uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		writeULEB128(&buf, c.in)
		if !bytes.Equal(buf.Bytes(), c.want) {
			t.Errorf("writeULEB128(%d) = % x, want % x", c.in, buf.Bytes(), c.want)
		}
	}
}

func TestWriteSLEB128(t *testing.T) {
	cases := []struct {
		in   int64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{-1, []byte{0x7f}},
		{63, []byte{0x3f}},
		{64, []byte{0xc0, 0x00}},
		{-64, []byte{0x40}},
		{-65, []byte{0xbf, 0x7f}},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		writeSLEB128(&buf, c.in)
		if !bytes.Equal(buf.Bytes(), c.want) {
			t.Errorf("writeSLEB128(%d) = % x, want % x", c.in, buf.Bytes(), c.want)
		}
	}
}

func TestWriteName(t *testing.T) {
	var buf bytes.Buffer
	writeName(&buf, "main")
	want := []byte{0x04, 'm', 'a', 'i', 'n'}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("writeName = % x, want % x", buf.Bytes(), want)
	}
}
