package cpu

import (
	ks "github.com/keystone-engine/keystone/bindings/go/keystone"
	cs "github.com/lunixbochs/capstr"
	"github.com/pkg/errors"

	"github.com/EtchProject/qiling/go/models"
)

// CPSR_T is the ARM status register bit that selects Thumb state.
const CPSR_T = 1 << 5

func ThumbMode(cpsr uint64) bool {
	return cpsr&CPSR_T != 0
}

// DisConfig is a capstone engine selection.
type DisConfig struct {
	Arch, Mode int
}

// AsmConfig is a keystone engine selection.
type AsmConfig struct {
	Arch ks.Architecture
	Mode ks.Mode
}

// ResolveDis picks the disassembler for arch. status is the live value of the
// arch's status register and only matters for ARM, where it selects Thumb.
// The result depends on CPU state, so it must be resolved again for each use.
func ResolveDis(arch models.ArchType, endian models.Endian, status uint64) (DisConfig, error) {
	switch arch {
	case models.ARCH_ARM:
		// big-endian ARM decodes with the same mode as little-endian
		mode := cs.MODE_ARM
		if ThumbMode(status) {
			mode = cs.MODE_THUMB
		}
		return DisConfig{Arch: cs.ARCH_ARM, Mode: mode}, nil
	case models.ARCH_ARM_THUMB:
		return DisConfig{Arch: cs.ARCH_ARM, Mode: cs.MODE_THUMB}, nil
	case models.ARCH_X86:
		return DisConfig{Arch: cs.ARCH_X86, Mode: cs.MODE_32}, nil
	case models.ARCH_X8664:
		return DisConfig{Arch: cs.ARCH_X86, Mode: cs.MODE_64}, nil
	case models.ARCH_ARM64:
		return DisConfig{Arch: cs.ARCH_ARM64, Mode: cs.MODE_ARM}, nil
	case models.ARCH_A8086:
		return DisConfig{Arch: cs.ARCH_X86, Mode: cs.MODE_16}, nil
	case models.ARCH_MIPS:
		if endian == models.ENDIAN_EB {
			return DisConfig{Arch: cs.ARCH_MIPS, Mode: cs.MODE_MIPS32 + cs.MODE_BIG_ENDIAN}, nil
		}
		return DisConfig{Arch: cs.ARCH_MIPS, Mode: cs.MODE_MIPS32 + cs.MODE_LITTLE_ENDIAN}, nil
	}
	return DisConfig{}, errors.Wrapf(models.ErrUnsupportedArch, "no disassembler for %s", arch)
}

// ResolveAsm is the assembler counterpart of ResolveDis.
func ResolveAsm(arch models.ArchType, endian models.Endian, status uint64) (AsmConfig, error) {
	switch arch {
	case models.ARCH_ARM:
		mode := ks.MODE_ARM
		if ThumbMode(status) {
			mode = ks.MODE_THUMB
		}
		return AsmConfig{Arch: ks.ARCH_ARM, Mode: mode}, nil
	case models.ARCH_ARM_THUMB:
		return AsmConfig{Arch: ks.ARCH_ARM, Mode: ks.MODE_THUMB}, nil
	case models.ARCH_X86:
		return AsmConfig{Arch: ks.ARCH_X86, Mode: ks.MODE_32}, nil
	case models.ARCH_X8664:
		return AsmConfig{Arch: ks.ARCH_X86, Mode: ks.MODE_64}, nil
	case models.ARCH_ARM64:
		return AsmConfig{Arch: ks.ARCH_ARM64, Mode: ks.MODE_LITTLE_ENDIAN}, nil
	case models.ARCH_A8086:
		return AsmConfig{Arch: ks.ARCH_X86, Mode: ks.MODE_16}, nil
	case models.ARCH_MIPS:
		if endian == models.ENDIAN_EB {
			return AsmConfig{Arch: ks.ARCH_MIPS, Mode: ks.MODE_MIPS32 + ks.MODE_BIG_ENDIAN}, nil
		}
		return AsmConfig{Arch: ks.ARCH_MIPS, Mode: ks.MODE_MIPS32 + ks.MODE_LITTLE_ENDIAN}, nil
	}
	return AsmConfig{}, errors.Wrapf(models.ErrUnsupportedArch, "no assembler for %s", arch)
}
