package cpu

import (
	"bytes"
	"encoding/binary"
	"testing"
)

var asdf = []byte("asdf")

func TestSimMem(t *testing.T) {
	sim := NewSim(32, []int{1, 2})
	if err := sim.MemMap(0x1000, 0x1000, PROT_READ|PROT_WRITE); err != nil {
		t.Fatal(err, "MemMap() failed")
	}
	if err := sim.MemMap(0x1800, 0x1000, PROT_READ); err == nil {
		t.Fatal("overlapping MemMap() succeeded")
	}
	if err := sim.MemMap(0x3000, 0x1000, PROT_READ); err != nil {
		t.Fatal(err, "second MemMap() failed")
	}
	if err := sim.MemWrite(0x1ffe, asdf); err == nil {
		t.Error("write across mapping end succeeded")
	}
	if err := sim.MemWrite(0x500, asdf); err == nil {
		t.Error("write below mapped memory succeeded")
	}
	for _, addr := range []uint64{0x1000, 0x1ffc, 0x3000} {
		if err := sim.MemWrite(addr, asdf); err != nil {
			t.Fatalf("MemWrite(%#x) failed: %v", addr, err)
		}
		if tmp, err := sim.MemRead(addr, uint64(len(asdf))); err != nil {
			t.Fatalf("MemRead(%#x) failed: %v", addr, err)
		} else if !bytes.Equal(tmp, asdf) {
			t.Fatalf("MemRead(%#x) returned %q", addr, tmp)
		}
	}
}

func TestSimRange(t *testing.T) {
	sim := NewSim(16, nil)
	if err := sim.MemMap(0xf000, 0x1000, PROT_ALL); err != nil {
		t.Fatal(err, "MemMap() at top of range failed")
	}
	if err := sim.MemMap(0x10000, 0x1000, PROT_ALL); err == nil {
		t.Fatal("mapped memory outside range")
	}
}

func TestPackUint(t *testing.T) {
	for _, size := range []int{1, 2, 4, 8} {
		buf, err := PackUint(binary.BigEndian, size, nil, 0x42)
		if err != nil {
			t.Fatal(err)
		}
		if len(buf) != size || buf[size-1] != 0x42 {
			t.Fatalf("PackUint(%d) = %x", size, buf)
		}
		n, err := UnpackUint(binary.BigEndian, size, buf)
		if err != nil {
			t.Fatal(err)
		} else if n != 0x42 {
			t.Fatalf("UnpackUint(%d) = %#x", size, n)
		}
	}
	if _, err := PackUint(binary.LittleEndian, 3, nil, 1); err == nil {
		t.Fatal("PackUint accepted size 3")
	}
	if _, err := PackUint(binary.LittleEndian, 8, make([]byte, 4), 1); err == nil {
		t.Fatal("PackUint accepted short buffer")
	}
}

func TestSimWrap(t *testing.T) {
	sim := NewSim(64, nil)
	if err := sim.MemMap(0xffff_ffff_ffff_f000, 0x2000, PROT_ALL); err == nil {
		t.Fatal("MemMap() across the top of memory succeeded")
	}
	if err := sim.MemMap(0xffff_ffff_ffff_f000, 0x1000, PROT_ALL); err == nil {
		t.Fatal("MemMap() ending at 2^64 succeeded")
	}
	if err := sim.MemMap(0xffff_ffff_ffff_e000, 0x1000, PROT_ALL); err != nil {
		t.Fatal(err, "MemMap() below the top page failed")
	}
	if _, err := sim.MemRead(0xffff_ffff_ffff_e000, 0x2001); err == nil {
		t.Fatal("MemRead() past the mapping succeeded")
	}
	if err := sim.MemReadInto(make([]byte, 4), ^uint64(0)-1); err == nil {
		t.Fatal("MemReadInto() wrapping past 2^64 succeeded")
	}
	if _, err := sim.MemRead(0xffff_ffff_ffff_e000, 0x1000); err != nil {
		t.Fatal(err, "MemRead() of the whole mapping failed")
	}
}
