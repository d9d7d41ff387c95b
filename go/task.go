package qiling

import (
	"encoding/binary"

	"github.com/pkg/errors"

	qcpu "github.com/EtchProject/qiling/go/cpu"
	"github.com/EtchProject/qiling/go/models"
	"github.com/EtchProject/qiling/go/models/cpu"
)

// Task binds a CPU to its architecture. It reads registers for the rest of the
// core and forwards stack operations to the stack pointer.
type Task struct {
	cpu.Cpu

	arch   *models.Arch
	endian models.Endian
	Bsz    int
	order  binary.ByteOrder
	codecs *qcpu.Codecs
}

func NewTask(c cpu.Cpu, arch *models.Arch, endian models.Endian, codecs *qcpu.Codecs) *Task {
	return &Task{
		Cpu:    c,
		arch:   arch,
		endian: endian,
		Bsz:    arch.Bits / 8,
		order:  endian.ByteOrder(),
		codecs: codecs,
	}
}

func (t *Task) Arch() *models.Arch {
	return t.arch
}

func (t *Task) Endian() models.Endian {
	return t.endian
}

func (t *Task) Bits() uint {
	return uint(t.arch.Bits)
}

func (t *Task) ByteOrder() binary.ByteOrder {
	return t.order
}

func (t *Task) RegRead(enum int) (uint64, error) {
	val, err := t.Cpu.RegRead(enum)
	return val, errors.Wrap(err, "t.RegRead() failed")
}

func (t *Task) RegWrite(enum int, val uint64) error {
	err := t.Cpu.RegWrite(enum, val)
	return errors.Wrap(err, "t.RegWrite() failed")
}

func (t *Task) PC() (uint64, error) {
	return t.RegRead(t.arch.PC)
}

// StatusReg reads the register that steers codec selection. Arches without
// one report 0.
func (t *Task) StatusReg() (uint64, error) {
	if t.arch.Status == 0 {
		return 0, nil
	}
	return t.RegRead(t.arch.Status)
}

func (t *Task) RegDump() ([]models.RegVal, error) {
	return t.arch.RegDump(t.Cpu)
}

func (t *Task) PackAddr(buf []byte, n uint64) ([]byte, error) {
	return cpu.PackUint(t.order, t.Bsz, buf, n)
}

func (t *Task) UnpackAddr(buf []byte) (uint64, error) {
	return cpu.UnpackUint(t.order, t.Bsz, buf)
}

func (t *Task) PopBytes(p []byte) error {
	sp, err := t.RegRead(t.arch.SP)
	if err != nil {
		return err
	}
	if err := t.MemReadInto(p, sp); err != nil {
		return errors.Wrap(err, "t.PopBytes() failed")
	}
	return t.RegWrite(t.arch.SP, sp+uint64(len(p)))
}

func (t *Task) PushBytes(p []byte) (uint64, error) {
	sp, err := t.RegRead(t.arch.SP)
	if err != nil {
		return 0, err
	}
	sp -= uint64(len(p))
	if err := t.MemWrite(sp, p); err != nil {
		return 0, errors.Wrap(err, "t.PushBytes() failed")
	}
	return sp, t.RegWrite(t.arch.SP, sp)
}

// Push writes one word below the stack pointer and returns the new stack pointer.
func (t *Task) Push(n uint64) (uint64, error) {
	var tmp [8]byte
	buf, err := t.PackAddr(tmp[:], n)
	if err != nil {
		return 0, err
	}
	return t.PushBytes(buf)
}

func (t *Task) Pop() (uint64, error) {
	var buf [8]byte
	if err := t.PopBytes(buf[:t.Bsz]); err != nil {
		return 0, err
	}
	return t.UnpackAddr(buf[:t.Bsz])
}

// StackRead reads the word at sp+offset without moving the stack pointer.
func (t *Task) StackRead(offset int64) (uint64, error) {
	sp, err := t.RegRead(t.arch.SP)
	if err != nil {
		return 0, err
	}
	var buf [8]byte
	if err := t.MemReadInto(buf[:t.Bsz], sp+uint64(offset)); err != nil {
		return 0, errors.Wrap(err, "t.StackRead() failed")
	}
	return t.UnpackAddr(buf[:t.Bsz])
}

// StackWrite writes the word at sp+offset without moving the stack pointer.
func (t *Task) StackWrite(offset int64, val uint64) error {
	sp, err := t.RegRead(t.arch.SP)
	if err != nil {
		return err
	}
	var tmp [8]byte
	buf, err := t.PackAddr(tmp[:], val)
	if err != nil {
		return err
	}
	return errors.Wrap(t.MemWrite(sp+uint64(offset), buf), "t.StackWrite() failed")
}

// Disassembler resolves a disassembler for the CPU's current state.
func (t *Task) Disassembler() (qcpu.Disassembler, error) {
	status, err := t.StatusReg()
	if err != nil {
		return nil, err
	}
	return t.codecs.Dis(t.arch.Type, t.endian, status)
}

// Assembler resolves an assembler for the CPU's current state.
func (t *Task) Assembler() (qcpu.Assembler, error) {
	status, err := t.StatusReg()
	if err != nil {
		return nil, err
	}
	return t.codecs.Asm(t.arch.Type, t.endian, status)
}

func (t *Task) Dis(addr, size uint64) ([]models.Ins, error) {
	mem, err := t.MemRead(addr, size)
	if err != nil {
		return nil, errors.Wrap(err, "t.Dis() failed")
	}
	dis, err := t.Disassembler()
	if err != nil {
		return nil, err
	}
	return dis.Dis(mem, addr)
}

func (t *Task) Asm(asm string, addr uint64) ([]byte, error) {
	a, err := t.Assembler()
	if err != nil {
		return nil, err
	}
	return a.Asm(asm, addr)
}
