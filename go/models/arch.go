package models

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/lunixbochs/fvbommel-util/sortorder"
	"github.com/pkg/errors"

	"github.com/EtchProject/qiling/go/models/cpu"
)

// ArchType is the closed set of CPU targets the core knows how to configure.
type ArchType int

const (
	ARCH_ARM ArchType = iota + 1
	ARCH_ARM_THUMB
	ARCH_X86
	ARCH_X8664
	ARCH_ARM64
	ARCH_A8086
	ARCH_MIPS
)

// AllArches lists every supported ArchType in declaration order.
var AllArches = []ArchType{
	ARCH_ARM, ARCH_ARM_THUMB, ARCH_X86, ARCH_X8664, ARCH_ARM64, ARCH_A8086, ARCH_MIPS,
}

var archNames = map[ArchType]string{
	ARCH_ARM:       "arm",
	ARCH_ARM_THUMB: "arm_thumb",
	ARCH_X86:       "x86",
	ARCH_X8664:     "x8664",
	ARCH_ARM64:     "arm64",
	ARCH_A8086:     "8086",
	ARCH_MIPS:      "mips",
}

var archAliases = map[string]ArchType{
	"x86_64": ARCH_X8664,
	"amd64":  ARCH_X8664,
	"x86_16": ARCH_A8086,
	"a8086":  ARCH_A8086,
	"thumb":  ARCH_ARM_THUMB,
	"mips32": ARCH_MIPS,
}

func (a ArchType) String() string {
	if name, ok := archNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ArchType(%d)", int(a))
}

// Valid reports whether a is a member of the supported set.
func (a ArchType) Valid() bool {
	_, ok := archNames[a]
	return ok
}

func ParseArch(name string) (ArchType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range archNames {
		if n == name {
			return a, nil
		}
	}
	if a, ok := archAliases[name]; ok {
		return a, nil
	}
	return 0, errors.Wrapf(ErrUnsupportedArch, "arch %q", name)
}

// MarshalYAML and UnmarshalYAML let ArchType appear by name in config files.
func (a ArchType) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

func (a *ArchType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseArch(name)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

type Endian int

const (
	ENDIAN_EL Endian = iota
	ENDIAN_EB
)

func (e Endian) String() string {
	if e == ENDIAN_EB {
		return "big"
	}
	return "little"
}

func (e Endian) ByteOrder() binary.ByteOrder {
	if e == ENDIAN_EB {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func ParseEndian(name string) (Endian, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "el", "le", "little":
		return ENDIAN_EL, nil
	case "eb", "be", "big":
		return ENDIAN_EB, nil
	}
	return 0, errors.Errorf("unknown endianness %q", name)
}

func (e Endian) MarshalYAML() (interface{}, error) {
	return e.String(), nil
}

func (e *Endian) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseEndian(name)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

type Reg struct {
	Enum int
	Name string
}

type RegVal struct {
	Reg
	Val uint64
}

type regList []Reg

func (r regList) Len() int           { return len(r) }
func (r regList) Swap(i, j int)      { r[i], r[j] = r[j], r[i] }
func (r regList) Less(i, j int) bool { return sortorder.NaturalLess(r[i].Name, r[j].Name) }

// Arch describes how to build and inspect a CPU for one ArchType.
type Arch struct {
	Type ArchType
	Name string
	Bits int

	Cpu cpu.Builder
	// nil when the arch has no big-endian variant
	CpuEB cpu.Builder

	PC, SP int
	// Status is the register consulted when resolving codecs (0 if none)
	Status     int
	StatusName string
	Regs       map[string]int

	// sorted for RegDump
	regList regList
}

func (a *Arch) NewCpu(endian Endian) (cpu.Cpu, error) {
	b := a.Cpu
	if endian == ENDIAN_EB {
		if a.CpuEB == nil {
			return nil, errors.Errorf("%s has no big-endian mode", a.Name)
		}
		b = a.CpuEB
	}
	return b.New()
}

// RegEnums lists every register enum the arch names, including PC, SP and Status.
func (a *Arch) RegEnums() []int {
	seen := map[int]bool{}
	var enums []int
	add := func(e int) {
		if e != 0 && !seen[e] {
			seen[e] = true
			enums = append(enums, e)
		}
	}
	add(a.PC)
	add(a.SP)
	add(a.Status)
	for _, e := range a.Regs {
		add(e)
	}
	sort.Ints(enums)
	return enums
}

// NewSim builds an in-memory CPU holding this arch's registers.
func (a *Arch) NewSim() *cpu.Sim {
	return cpu.NewSim(uint(a.Bits), a.RegEnums())
}

func (a *Arch) RegDump(c cpu.Cpu) ([]RegVal, error) {
	if a.regList == nil {
		rl := make(regList, 0, len(a.Regs))
		for name, enum := range a.Regs {
			rl = append(rl, Reg{enum, name})
		}
		sort.Sort(rl)
		a.regList = rl
	}
	ret := make([]RegVal, len(a.regList))
	for i, r := range a.regList {
		val, err := c.RegRead(r.Enum)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", r.Name)
		}
		ret[i] = RegVal{r, val}
	}
	return ret, nil
}

func (a *Arch) String() string {
	return fmt.Sprintf("<Arch %s>", a.Name)
}
