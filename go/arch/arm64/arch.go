package arm64

import (
	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"

	"github.com/EtchProject/qiling/go/cpu/unicorn"
	"github.com/EtchProject/qiling/go/models"
)

var Arch = &models.Arch{
	Type: models.ARCH_ARM64,
	Name: "arm64",
	Bits: 64,

	Cpu: &unicorn.Builder{Arch: uc.ARCH_ARM64, Mode: uc.MODE_ARM},

	PC:         uc.ARM64_REG_PC,
	SP:         uc.ARM64_REG_SP,
	Status:     uc.ARM64_REG_NZCV,
	StatusName: "nzcv",
	Regs: map[string]int{
		"x0":  uc.ARM64_REG_X0,
		"x1":  uc.ARM64_REG_X1,
		"x2":  uc.ARM64_REG_X2,
		"x3":  uc.ARM64_REG_X3,
		"x4":  uc.ARM64_REG_X4,
		"x5":  uc.ARM64_REG_X5,
		"x6":  uc.ARM64_REG_X6,
		"x7":  uc.ARM64_REG_X7,
		"x8":  uc.ARM64_REG_X8,
		"x9":  uc.ARM64_REG_X9,
		"x10": uc.ARM64_REG_X10,
		"x11": uc.ARM64_REG_X11,
		"x12": uc.ARM64_REG_X12,
		"x13": uc.ARM64_REG_X13,
		"x14": uc.ARM64_REG_X14,
		"x15": uc.ARM64_REG_X15,
		"x16": uc.ARM64_REG_X16,
		"x17": uc.ARM64_REG_X17,
		"x18": uc.ARM64_REG_X18,
		"x19": uc.ARM64_REG_X19,
		"x20": uc.ARM64_REG_X20,
		"x21": uc.ARM64_REG_X21,
		"x22": uc.ARM64_REG_X22,
		"x23": uc.ARM64_REG_X23,
		"x24": uc.ARM64_REG_X24,
		"x25": uc.ARM64_REG_X25,
		"x26": uc.ARM64_REG_X26,
		"x27": uc.ARM64_REG_X27,
		"x28": uc.ARM64_REG_X28,
		"fp":  uc.ARM64_REG_FP,
		"lr":  uc.ARM64_REG_LR,
		"sp":  uc.ARM64_REG_SP,
		"pc":  uc.ARM64_REG_PC,
	},
}
