package cpu

// This interface abstracts the minimum functionality the emulator core requires from a CPU backend.
type Cpu interface {
	// memory mapping
	MemMap(addr, size uint64, prot int) error

	// memory IO
	MemRead(addr, size uint64) ([]byte, error)
	MemReadInto(p []byte, addr uint64) error
	MemWrite(addr uint64, p []byte) error

	// register IO
	RegRead(reg int) (uint64, error)
	RegWrite(reg int, val uint64) error

	// save/restore entire CPU state
	ContextSave(reuse interface{}) (interface{}, error)
	ContextRestore(ctx interface{}) error

	// cleanup
	Close() error
}

// Builder constructs a fresh Cpu for an architecture.
type Builder interface {
	New() (Cpu, error)
}
