package x86_16

import (
	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"

	"github.com/EtchProject/qiling/go/cpu/unicorn"
	"github.com/EtchProject/qiling/go/models"
)

var Arch = &models.Arch{
	Type: models.ARCH_A8086,
	Name: "8086",
	Bits: 16,

	Cpu: &unicorn.Builder{Arch: uc.ARCH_X86, Mode: uc.MODE_16},

	PC:         uc.X86_REG_IP,
	SP:         uc.X86_REG_SP,
	Status:     uc.X86_REG_EFLAGS,
	StatusName: "flags",
	Regs: map[string]int{
		"ip": uc.X86_REG_IP,
		"sp": uc.X86_REG_SP,
		"bp": uc.X86_REG_BP,
		"ax": uc.X86_REG_AX,
		"bx": uc.X86_REG_BX,
		"cx": uc.X86_REG_CX,
		"dx": uc.X86_REG_DX,
		"si": uc.X86_REG_SI,
		"di": uc.X86_REG_DI,

		"flags": uc.X86_REG_EFLAGS,

		"cs": uc.X86_REG_CS,
		"ds": uc.X86_REG_DS,
		"es": uc.X86_REG_ES,
		"ss": uc.X86_REG_SS,
	},
}
