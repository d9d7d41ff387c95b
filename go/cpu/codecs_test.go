package cpu

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"

	"github.com/EtchProject/qiling/go/models"
)

func TestCapstrX86(t *testing.T) {
	cfg, err := ResolveDis(models.ARCH_X8664, models.ENDIAN_EL, 0)
	if err != nil {
		t.Fatal(err)
	}
	dis := NewCapstr(cfg)
	mem := []byte{0x90, 0xc3}
	for i := 0; i < 2; i++ {
		ins, err := dis.Dis(mem, 0x1000)
		if err != nil {
			t.Fatal(err)
		}
		if len(ins) != 2 || ins[0].Mnemonic() != "nop" || ins[1].Mnemonic() != "ret" {
			t.Fatalf("unexpected disassembly: %v", ins)
		}
		if ins[1].Addr() != 0x1001 {
			t.Fatalf("second instruction at %#x", ins[1].Addr())
		}
	}
}

func TestKeystoneX86(t *testing.T) {
	cfg, err := ResolveAsm(models.ARCH_X86, models.ENDIAN_EL, 0)
	if err != nil {
		t.Fatal(err)
	}
	asm := NewKeystone(cfg)
	defer asm.Close()
	out, err := asm.Asm("nop", 0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, []byte{0x90}) {
		t.Fatalf("Asm(nop) = %x", out)
	}
}

func TestCodecsThumbSwitch(t *testing.T) {
	codecs, err := NewCodecs(false)
	if err != nil {
		t.Fatal(err)
	}
	defer codecs.Close()

	armAsm, err := codecs.Asm(models.ARCH_ARM, models.ENDIAN_EL, 0)
	if err != nil {
		t.Fatal(err)
	}
	thumbAsm, err := codecs.Asm(models.ARCH_ARM, models.ENDIAN_EL, CPSR_T)
	if err != nil {
		t.Fatal(err)
	}
	if armAsm == thumbAsm {
		t.Fatal("thumb state reused the ARM assembler")
	}
	armCode, err := armAsm.Asm("nop", 0)
	if err != nil {
		t.Fatal(err)
	}
	thumbCode, err := thumbAsm.Asm("nop", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(armCode) != 4 || len(thumbCode) != 2 {
		t.Fatalf("arm nop %x, thumb nop %x", armCode, thumbCode)
	}

	// same state, same engine
	again, err := codecs.Asm(models.ARCH_ARM, models.ENDIAN_EB, CPSR_T)
	if err != nil {
		t.Fatal(err)
	}
	if again != thumbAsm {
		t.Fatal("equal configs returned different assemblers")
	}

	armDis, err := codecs.Dis(models.ARCH_ARM, models.ENDIAN_EL, 0)
	if err != nil {
		t.Fatal(err)
	}
	thumbDis, err := codecs.Dis(models.ARCH_ARM, models.ENDIAN_EL, CPSR_T)
	if err != nil {
		t.Fatal(err)
	}
	if armDis.(*Capstr).Mode == thumbDis.(*Capstr).Mode {
		t.Fatal("thumb state resolved to the ARM disassembler mode")
	}
}

func TestCodecsUnsupported(t *testing.T) {
	codecs, err := NewCodecs(true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := codecs.Dis(0, models.ENDIAN_EL, 0); errors.Cause(err) != models.ErrUnsupportedArch {
		t.Fatalf("Dis(0) returned %v", err)
	}
	if _, err := codecs.Asm(42, models.ENDIAN_EL, 0); errors.Cause(err) != models.ErrUnsupportedArch {
		t.Fatalf("Asm(42) returned %v", err)
	}
	// the native decoders have no MIPS support
	if _, err := codecs.Dis(models.ARCH_MIPS, models.ENDIAN_EB, 0); errors.Cause(err) != models.ErrUnsupportedArch {
		t.Fatalf("native Dis(mips) returned %v", err)
	}
}

func TestNativeDis(t *testing.T) {
	tests := []struct {
		arch     models.ArchType
		mem      []byte
		mnemonic []string
	}{
		{models.ARCH_X8664, []byte{0x90, 0xc3}, []string{"nop", "ret"}},
		{models.ARCH_X86, []byte{0xb8, 0x01, 0x00, 0x00, 0x00}, []string{"mov"}},
		{models.ARCH_A8086, []byte{0xb8, 0x01, 0x00, 0x90}, []string{"mov", "nop"}},
		{models.ARCH_ARM64, []byte{0x1f, 0x20, 0x03, 0xd5}, []string{"nop"}},
		{models.ARCH_ARM, []byte{0x01, 0x00, 0xa0, 0xe1}, []string{"mov"}},
	}
	for _, tt := range tests {
		cfg, err := ResolveDis(tt.arch, models.ENDIAN_EL, 0)
		if err != nil {
			t.Fatal(err)
		}
		dis, err := NewNativeDis(cfg)
		if err != nil {
			t.Fatalf("NewNativeDis(%s) failed: %v", tt.arch, err)
		}
		ins, err := dis.Dis(tt.mem, 0x400000)
		if err != nil {
			t.Fatalf("%s: %v", tt.arch, err)
		}
		if len(ins) != len(tt.mnemonic) {
			t.Fatalf("%s: decoded %d instructions, want %d", tt.arch, len(ins), len(tt.mnemonic))
		}
		var size int
		for i, in := range ins {
			if in.Mnemonic() != tt.mnemonic[i] {
				t.Errorf("%s: instruction %d is %q, want %q", tt.arch, i, in.Mnemonic(), tt.mnemonic[i])
			}
			if in.Addr() != 0x400000+uint64(size) {
				t.Errorf("%s: instruction %d at %#x", tt.arch, i, in.Addr())
			}
			size += len(in.Bytes())
		}
	}
}

func TestNativeThumbUnsupported(t *testing.T) {
	cfg, _ := ResolveDis(models.ARCH_ARM, models.ENDIAN_EL, CPSR_T)
	if _, err := NewNativeDis(cfg); errors.Cause(err) != models.ErrUnsupportedArch {
		t.Fatalf("NewNativeDis(thumb) returned %v", err)
	}
}

func TestCapstrClose(t *testing.T) {
	cfg, err := ResolveDis(models.ARCH_X86, models.ENDIAN_EL, 0)
	if err != nil {
		t.Fatal(err)
	}
	dis := NewCapstr(cfg)
	if err := dis.Close(); err != nil {
		t.Fatal(err, "Close() of an unopened engine failed")
	}
	if _, err := dis.Dis([]byte{0x90}, 0); err != nil {
		t.Fatal(err)
	}
	if err := dis.Close(); err != nil {
		t.Fatal(err)
	}
	if dis.cs != nil {
		t.Fatal("Close() kept the capstone handle")
	}
	// reopens on demand
	if ins, err := dis.Dis([]byte{0xc3}, 0); err != nil || len(ins) != 1 {
		t.Fatalf("Dis() after Close() = %v, %v", ins, err)
	}
	dis.Close()
}

func TestCodecsCloseReleasesCapstr(t *testing.T) {
	codecs, err := NewCodecs(false)
	if err != nil {
		t.Fatal(err)
	}
	d, err := codecs.Dis(models.ARCH_X8664, models.ENDIAN_EL, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Dis([]byte{0x90}, 0x1000); err != nil {
		t.Fatal(err)
	}
	codecs.Close()
	if d.(*Capstr).cs != nil {
		t.Fatal("pool Close() left the capstone engine open")
	}
}
