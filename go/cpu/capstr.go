package cpu

import (
	"bytes"

	lru "github.com/hashicorp/golang-lru"
	cs "github.com/lunixbochs/capstr"
	"github.com/pkg/errors"

	"github.com/EtchProject/qiling/go/models"
)

// instructions remembered per engine
const discacheSize = 4096

type discacheEntry struct {
	mem []byte
	dis []models.Ins
}

// discache remembers decoded instructions by address. An entry only hits if
// the bytes at that address are unchanged.
type discache struct {
	cache *lru.Cache
}

func (d *discache) Get(addr uint64, mem []byte) []models.Ins {
	if v, ok := d.cache.Get(addr); ok {
		ent := v.(*discacheEntry)
		if bytes.Equal(mem, ent.mem) {
			return ent.dis
		}
	}
	return nil
}

func (d *discache) Put(addr uint64, mem []byte, dis []models.Ins) {
	d.cache.Add(addr, &discacheEntry{mem: append([]byte(nil), mem...), dis: dis})
}

// Capstr is a capstone disassembler fixed to one DisConfig.
type Capstr struct {
	DisConfig

	cs *cs.Engine
	dc discache
}

func NewCapstr(cfg DisConfig) *Capstr {
	return &Capstr{DisConfig: cfg}
}

func (c *Capstr) Open() error {
	engine, err := cs.New(c.Arch, c.Mode)
	if err != nil {
		return errors.Wrap(err, "cs.New() failed")
	}
	cache, err := lru.New(discacheSize)
	if err != nil {
		return errors.Wrap(err, "lru.New() failed")
	}
	c.cs = engine
	c.dc.cache = cache
	return nil
}

func (c *Capstr) Dis(mem []byte, addr uint64) ([]models.Ins, error) {
	if c.cs == nil {
		if err := c.Open(); err != nil {
			return nil, err
		}
	}
	if dis := c.dc.Get(addr, mem); dis != nil {
		return dis, nil
	}
	dis, err := c.cs.Dis(mem, addr, 0)
	if err != nil {
		return nil, errors.Wrap(err, "capstone disassembly failed")
	}
	ret := make([]models.Ins, len(dis))
	for i, v := range dis {
		ret[i] = v
	}
	c.dc.Put(addr, mem, ret)
	return ret, nil
}

// Close releases the capstone handle. The engine reopens on the next Dis.
func (c *Capstr) Close() error {
	if c.cs == nil {
		return nil
	}
	var err error
	switch e := interface{}(c.cs).(type) {
	case interface{ Close() error }:
		err = e.Close()
	case interface{ Close() }:
		e.Close()
	}
	c.cs = nil
	if c.dc.cache != nil {
		c.dc.cache.Purge()
	}
	return errors.Wrap(err, "capstone close failed")
}
