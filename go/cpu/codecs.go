package cpu

import (
	"io"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/EtchProject/qiling/go/models"
)

type Disassembler interface {
	Dis(mem []byte, addr uint64) ([]models.Ins, error)
}

type Assembler interface {
	Asm(asm string, addr uint64) ([]byte, error)
}

// engines kept open per pool, per direction
const codecPoolSize = 16

// Codecs hands out disassemblers and assemblers for the current CPU state.
// Engines are pooled by their resolved config, so an ARM/Thumb switch picks a
// different engine instead of reusing the previous mode's.
type Codecs struct {
	// use golang.org/x/arch decoders instead of capstone
	Native bool

	dis *lru.Cache
	asm *lru.Cache
}

func closeEvicted(key, value interface{}) {
	if c, ok := value.(io.Closer); ok {
		c.Close()
	}
}

func NewCodecs(native bool) (*Codecs, error) {
	dis, err := lru.NewWithEvict(codecPoolSize, closeEvicted)
	if err != nil {
		return nil, errors.Wrap(err, "lru.NewWithEvict() failed")
	}
	asm, err := lru.NewWithEvict(codecPoolSize, closeEvicted)
	if err != nil {
		return nil, errors.Wrap(err, "lru.NewWithEvict() failed")
	}
	return &Codecs{Native: native, dis: dis, asm: asm}, nil
}

func (c *Codecs) Dis(arch models.ArchType, endian models.Endian, status uint64) (Disassembler, error) {
	cfg, err := ResolveDis(arch, endian, status)
	if err != nil {
		return nil, err
	}
	key := struct {
		DisConfig
		native bool
	}{cfg, c.Native}
	if v, ok := c.dis.Get(key); ok {
		return v.(Disassembler), nil
	}
	var d Disassembler
	if c.Native {
		if d, err = NewNativeDis(cfg); err != nil {
			return nil, err
		}
	} else {
		d = NewCapstr(cfg)
	}
	c.dis.Add(key, d)
	return d, nil
}

func (c *Codecs) Asm(arch models.ArchType, endian models.Endian, status uint64) (Assembler, error) {
	cfg, err := ResolveAsm(arch, endian, status)
	if err != nil {
		return nil, err
	}
	if v, ok := c.asm.Get(cfg); ok {
		return v.(Assembler), nil
	}
	k := NewKeystone(cfg)
	c.asm.Add(cfg, k)
	return k, nil
}

// Close releases every pooled engine.
func (c *Codecs) Close() {
	c.dis.Purge()
	c.asm.Purge()
}
