package cpu

import (
	"sort"

	"github.com/pkg/errors"
)

type region struct {
	addr uint64
	prot int
	data []byte
}

func (r *region) end() uint64 { return r.addr + uint64(len(r.data)) }

// Sim is an in-memory Cpu with no execution engine. It backs sessions that only
// need register and memory state, such as offline disassembly and tests.
type Sim struct {
	*Regs
	mask    uint64
	regions []*region
}

func NewSim(bits uint, enums []int) *Sim {
	return &Sim{
		Regs: NewRegs(bits, enums),
		mask: ^uint64(0) >> (64 - bits),
	}
}

func (s *Sim) MemMap(addr, size uint64, prot int) error {
	if size == 0 {
		return errors.New("zero-length mapping")
	}
	// region ends must stay representable
	if addr+size <= addr {
		return errors.Errorf("mapping 0x%x (size 0x%x) wraps around", addr, size)
	}
	if (addr+size-1)&s.mask != addr+size-1 {
		return errors.New("region outside memory range")
	}
	for _, r := range s.regions {
		if addr < r.end() && r.addr < addr+size {
			return errors.Errorf("mapping 0x%x-0x%x overlaps 0x%x-0x%x", addr, addr+size, r.addr, r.end())
		}
	}
	s.regions = append(s.regions, &region{addr: addr, prot: prot, data: make([]byte, size)})
	sort.Slice(s.regions, func(i, j int) bool { return s.regions[i].addr < s.regions[j].addr })
	return nil
}

func (s *Sim) find(addr, size uint64) (*region, error) {
	if addr+size < addr {
		return nil, errors.Errorf("memory access at 0x%x (size %d) wraps around", addr, size)
	}
	i := sort.Search(len(s.regions), func(i int) bool { return s.regions[i].end() > addr })
	if i < len(s.regions) {
		r := s.regions[i]
		if addr >= r.addr && addr+size <= r.end() {
			return r, nil
		}
	}
	return nil, errors.Errorf("unmapped memory access at 0x%x (size %d)", addr, size)
}

func (s *Sim) MemReadInto(p []byte, addr uint64) error {
	r, err := s.find(addr, uint64(len(p)))
	if err != nil {
		return err
	}
	copy(p, r.data[addr-r.addr:])
	return nil
}

func (s *Sim) MemRead(addr, size uint64) ([]byte, error) {
	p := make([]byte, size)
	if err := s.MemReadInto(p, addr); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Sim) MemWrite(addr uint64, p []byte) error {
	r, err := s.find(addr, uint64(len(p)))
	if err != nil {
		return err
	}
	copy(r.data[addr-r.addr:], p)
	return nil
}

func (s *Sim) Close() error {
	s.regions = nil
	return nil
}
