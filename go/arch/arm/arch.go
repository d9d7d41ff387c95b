package arm

import (
	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"

	"github.com/EtchProject/qiling/go/cpu/unicorn"
	"github.com/EtchProject/qiling/go/models"
)

var regs = map[string]int{
	"r0":   uc.ARM_REG_R0,
	"r1":   uc.ARM_REG_R1,
	"r2":   uc.ARM_REG_R2,
	"r3":   uc.ARM_REG_R3,
	"r4":   uc.ARM_REG_R4,
	"r5":   uc.ARM_REG_R5,
	"r6":   uc.ARM_REG_R6,
	"r7":   uc.ARM_REG_R7,
	"r8":   uc.ARM_REG_R8,
	"r9":   uc.ARM_REG_R9,
	"r10":  uc.ARM_REG_R10,
	"r11":  uc.ARM_REG_R11,
	"r12":  uc.ARM_REG_R12,
	"sp":   uc.ARM_REG_SP,
	"lr":   uc.ARM_REG_LR,
	"pc":   uc.ARM_REG_PC,
	"cpsr": uc.ARM_REG_CPSR,
}

var Arch = &models.Arch{
	Type: models.ARCH_ARM,
	Name: "arm",
	Bits: 32,

	Cpu:   &unicorn.Builder{Arch: uc.ARCH_ARM, Mode: uc.MODE_ARM},
	CpuEB: &unicorn.Builder{Arch: uc.ARCH_ARM, Mode: uc.MODE_ARM + uc.MODE_BIG_ENDIAN},

	PC:         uc.ARM_REG_PC,
	SP:         uc.ARM_REG_SP,
	Status:     uc.ARM_REG_CPSR,
	StatusName: "cpsr",
	Regs:       regs,
}

// ThumbArch starts in Thumb state and stays there.
var ThumbArch = &models.Arch{
	Type: models.ARCH_ARM_THUMB,
	Name: "arm_thumb",
	Bits: 32,

	Cpu:   &unicorn.Builder{Arch: uc.ARCH_ARM, Mode: uc.MODE_THUMB},
	CpuEB: &unicorn.Builder{Arch: uc.ARCH_ARM, Mode: uc.MODE_THUMB + uc.MODE_BIG_ENDIAN},

	PC:         uc.ARM_REG_PC,
	SP:         uc.ARM_REG_SP,
	Status:     uc.ARM_REG_CPSR,
	StatusName: "cpsr",
	Regs:       regs,
}
