package x86_64

import (
	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"

	"github.com/EtchProject/qiling/go/cpu/unicorn"
	"github.com/EtchProject/qiling/go/models"
)

var Arch = &models.Arch{
	Type: models.ARCH_X8664,
	Name: "x8664",
	Bits: 64,

	Cpu: &unicorn.Builder{Arch: uc.ARCH_X86, Mode: uc.MODE_64},

	PC:         uc.X86_REG_RIP,
	SP:         uc.X86_REG_RSP,
	Status:     uc.X86_REG_EFLAGS,
	StatusName: "eflags",
	Regs: map[string]int{
		"rax":    uc.X86_REG_RAX,
		"rbx":    uc.X86_REG_RBX,
		"rcx":    uc.X86_REG_RCX,
		"rdx":    uc.X86_REG_RDX,
		"rsi":    uc.X86_REG_RSI,
		"rdi":    uc.X86_REG_RDI,
		"rbp":    uc.X86_REG_RBP,
		"rsp":    uc.X86_REG_RSP,
		"r8":     uc.X86_REG_R8,
		"r9":     uc.X86_REG_R9,
		"r10":    uc.X86_REG_R10,
		"r11":    uc.X86_REG_R11,
		"r12":    uc.X86_REG_R12,
		"r13":    uc.X86_REG_R13,
		"r14":    uc.X86_REG_R14,
		"r15":    uc.X86_REG_R15,
		"rip":    uc.X86_REG_RIP,
		"eflags": uc.X86_REG_EFLAGS,
	},
}
