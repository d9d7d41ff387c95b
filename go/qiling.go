package qiling

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/pkg/errors"

	"github.com/EtchProject/qiling/go/arch"
	qcpu "github.com/EtchProject/qiling/go/cpu"
	"github.com/EtchProject/qiling/go/models"
	"github.com/EtchProject/qiling/go/models/cpu"
	"github.com/EtchProject/qiling/go/output"
)

// descriptor slots per table
const fdTableSize = 256

// Qiling is an emulation session: one CPU plus the utilities built around it.
type Qiling struct {
	*Task

	Config *models.Config
	Fs     *models.FsMapper
	Fds    *models.FileDes
	Out    *output.Sink

	codecs  *qcpu.Codecs
	status  *models.StatusDiff
	thread  *Thread
	threads []*Thread
	mainFds models.FileDesState
	closers []io.Closer
}

// New starts a session for cfg. A nil cpu builds the arch's unicorn backend.
func New(cfg *models.Config, c cpu.Cpu) (*Qiling, error) {
	a, err := arch.GetArch(cfg.Arch)
	if err != nil {
		return nil, err
	}
	if c == nil {
		if c, err = a.NewCpu(cfg.Endian); err != nil {
			return nil, err
		}
	}
	codecs, err := qcpu.NewCodecs(cfg.Disassembler == "native")
	if err != nil {
		return nil, err
	}
	q := &Qiling{
		Task:   NewTask(c, a, cfg.Endian, codecs),
		Config: cfg,
		Fs:     models.NewFsMapper(cfg.Rootfs, cfg.FsMap),
		Fds:    models.NewFileDes(fdTableSize),
		codecs: codecs,
	}
	q.status = &models.StatusDiff{Regs: q.Task}
	q.Fds.Set(0, os.Stdin)
	q.Fds.Set(1, os.Stdout)
	q.Fds.Set(2, os.Stderr)

	q.Out = &output.Sink{Config: cfg, Regs: q.Task}
	if err := q.setupLog(); err != nil {
		q.Close()
		return nil, err
	}
	return q, nil
}

// setupLog builds the global destination: stderr while the console is on,
// plus the log file if one is configured.
func (q *Qiling) setupLog() error {
	var writers []io.Writer
	if console, _ := q.Config.Console.(bool); console {
		writers = append(writers, colorable.NewColorableStderr())
		q.Out.Color = q.Config.Color
	}
	if q.Config.LogFile != "" {
		f, err := os.OpenFile(q.Config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return errors.Wrap(err, "failed to open log")
		}
		q.closers = append(q.closers, f)
		writers = append(writers, f)
	}
	switch len(writers) {
	case 0:
	case 1:
		q.Out.Log = output.NewLogger(writers[0])
	default:
		// colors would end up in the file
		q.Out.Color = false
		q.Out.Log = output.NewLogger(io.MultiWriter(writers...))
	}
	return nil
}

// trace destination for the current thread; nil when running the main context
func (q *Qiling) outThread() output.Thread {
	if q.thread == nil {
		return nil
	}
	return q.thread
}

// Nprint prints unconditionally to the current destination.
func (q *Qiling) Nprint(args ...interface{}) error {
	return q.Out.Print(q.outThread(), args...)
}

// Dprint prints when level is enabled by the configured verbose level.
func (q *Qiling) Dprint(level int, args ...interface{}) error {
	return q.Out.Debug(q.outThread(), level, args...)
}

// DumpRegs prints the registers changed since the last dump, at D_DRPT.
func (q *Qiling) DumpRegs() error {
	changes, err := q.status.Changes(true)
	if err != nil {
		return err
	}
	if changes.Count() == 0 {
		return nil
	}
	return q.Dprint(output.D_DRPT, "\n"+changes.String(q.Out.Color))
}

func (q *Qiling) AddFsMapper(guest, host string) {
	q.Fs.Add(guest, host)
}

// DisasAt disassembles size bytes at addr using the CPU's current mode.
func (q *Qiling) DisasAt(addr, size uint64, showBytes bool) (string, error) {
	ins, err := q.Dis(addr, size)
	if err != nil {
		return "", err
	}
	return FormatIns(ins, showBytes), nil
}

func (q *Qiling) Close() error {
	var errs []error
	for _, th := range q.threads {
		if err := th.close(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range q.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	q.closers = nil
	q.codecs.Close()
	if err := q.Task.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Wrapf(errs[0], "%d errors while closing", len(errs))
	}
	return nil
}
