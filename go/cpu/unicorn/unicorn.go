package unicorn

import (
	"github.com/pkg/errors"
	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"

	"github.com/EtchProject/qiling/go/models/cpu"
)

type Builder struct {
	Arch, Mode int
}

func (b *Builder) New() (cpu.Cpu, error) {
	u, err := uc.NewUnicorn(b.Arch, b.Mode)
	if err != nil {
		return nil, errors.Wrap(err, "NewUnicorn() failed")
	}
	return &UnicornCpu{u}, nil
}

// UnicornCpu adapts a unicorn engine to cpu.Cpu.
type UnicornCpu struct {
	uc.Unicorn
}

func (u *UnicornCpu) Backend() interface{} {
	return u.Unicorn
}

func (u *UnicornCpu) MemMap(addr, size uint64, prot int) error {
	return u.Unicorn.MemMapProt(addr, size, prot)
}

func (u *UnicornCpu) ContextSave(reuse interface{}) (interface{}, error) {
	if reuse == nil {
		return u.Unicorn.ContextSave(nil)
	}
	ctx, ok := reuse.(uc.Context)
	if !ok {
		return nil, errors.New("incorrect context type")
	}
	return u.Unicorn.ContextSave(ctx)
}

func (u *UnicornCpu) ContextRestore(ctx interface{}) error {
	c, ok := ctx.(uc.Context)
	if !ok {
		return errors.New("incorrect context type")
	}
	return u.Unicorn.ContextRestore(c)
}
