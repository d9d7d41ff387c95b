package cpu

import (
	"strings"

	cs "github.com/lunixbochs/capstr"
	"github.com/pkg/errors"
	"golang.org/x/arch/arm/armasm"
	"golang.org/x/arch/arm64/arm64asm"
	"golang.org/x/arch/x86/x86asm"

	"github.com/EtchProject/qiling/go/models"
)

type nativeIns struct {
	addr     uint64
	bytes    []byte
	mnemonic string
	opStr    string
}

func (n *nativeIns) Addr() uint64     { return n.addr }
func (n *nativeIns) Bytes() []byte    { return n.bytes }
func (n *nativeIns) Mnemonic() string { return n.mnemonic }
func (n *nativeIns) OpStr() string    { return n.opStr }

func newNativeIns(addr uint64, mem []byte, text string) *nativeIns {
	text = strings.TrimSpace(text)
	ins := &nativeIns{addr: addr, bytes: mem}
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		ins.mnemonic = strings.ToLower(text[:i])
		ins.opStr = strings.TrimSpace(text[i+1:])
	} else {
		ins.mnemonic = strings.ToLower(text)
	}
	return ins
}

// NativeDis disassembles with the pure Go decoders from golang.org/x/arch.
// It covers x86 (16/32/64 bit), ARM64 and ARM in ARM state.
type NativeDis struct {
	DisConfig
}

func NewNativeDis(cfg DisConfig) (*NativeDis, error) {
	if _, err := nativeDecoder(cfg); err != nil {
		return nil, err
	}
	return &NativeDis{DisConfig: cfg}, nil
}

type decodeFunc func(mem []byte, pc uint64) (text string, size int, err error)

func nativeDecoder(cfg DisConfig) (decodeFunc, error) {
	switch cfg.Arch {
	case cs.ARCH_X86:
		var bits int
		switch cfg.Mode {
		case cs.MODE_16:
			bits = 16
		case cs.MODE_32:
			bits = 32
		case cs.MODE_64:
			bits = 64
		default:
			return nil, errors.Wrapf(models.ErrUnsupportedArch, "native x86 mode %d", cfg.Mode)
		}
		return func(mem []byte, pc uint64) (string, int, error) {
			inst, err := x86asm.Decode(mem, bits)
			if err != nil {
				return "", 0, err
			}
			return x86asm.IntelSyntax(inst, pc, nil), inst.Len, nil
		}, nil
	case cs.ARCH_ARM64:
		return func(mem []byte, pc uint64) (string, int, error) {
			inst, err := arm64asm.Decode(mem)
			if err != nil {
				return "", 0, err
			}
			return arm64asm.GNUSyntax(inst), 4, nil
		}, nil
	case cs.ARCH_ARM:
		if cfg.Mode != cs.MODE_ARM {
			return nil, errors.Wrap(models.ErrUnsupportedArch, "native decoder has no thumb support")
		}
		return func(mem []byte, pc uint64) (string, int, error) {
			inst, err := armasm.Decode(mem, armasm.ModeARM)
			if err != nil {
				return "", 0, err
			}
			return armasm.GNUSyntax(inst), inst.Len, nil
		}, nil
	}
	return nil, errors.Wrapf(models.ErrUnsupportedArch, "no native decoder for capstone arch %d", cfg.Arch)
}

// Dis decodes until mem runs out or an invalid instruction is hit.
func (n *NativeDis) Dis(mem []byte, addr uint64) ([]models.Ins, error) {
	decode, err := nativeDecoder(n.DisConfig)
	if err != nil {
		return nil, err
	}
	var ret []models.Ins
	for off := 0; off < len(mem); {
		pc := addr + uint64(off)
		text, size, err := decode(mem[off:], pc)
		if err != nil || size <= 0 || off+size > len(mem) {
			if len(ret) == 0 {
				return nil, errors.Errorf("native disassembly failed at 0x%x: %v", pc, err)
			}
			break
		}
		ret = append(ret, newNativeIns(pc, mem[off:off+size], text))
		off += size
	}
	return ret, nil
}
