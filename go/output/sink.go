package output

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mgutz/ansi"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/EtchProject/qiling/go/models"
)

// verbose levels for Sink.Debug
const (
	D_INFO = 1
	D_PROT = 2
	D_CTNT = 3
	D_RPRT = 4
	// from here on each line is prefixed with the program counter
	D_DRPT = 5

	D_MAX = 99
)

// Thread is a logical (emulated) thread that may carry its own destination.
type Thread interface {
	Logger() *logrus.Logger
}

// PCReader supplies the current program counter.
type PCReader interface {
	PC() (uint64, error)
}

type PrintOpt struct {
	Sep string
	End string
}

var DefaultPrintOpt = PrintOpt{Sep: " "}

// Sink prints diagnostics for an emulation session. It holds no state of its
// own: the config, the current thread and the registers are read on every call.
type Sink struct {
	Config *models.Config
	// global destination; nil drops output
	Log *logrus.Logger
	// may be nil, in which case the pc prefix reads 0x0
	Regs PCReader
	// colors the pc prefix when the destination is a terminal
	Color bool
}

// Route picks the destination for one line: the thread's own logger while
// multithreading, otherwise the global one. Without a global destination
// nothing is printed, thread loggers included.
func Route(cfg *models.Config, global *logrus.Logger, th Thread) *logrus.Logger {
	if global == nil {
		return nil
	}
	if cfg.MultiThread && th != nil {
		if l := th.Logger(); l != nil {
			return l
		}
	}
	return global
}

// NormalizeVerbose converts a configured verbose value to a level.
func NormalizeVerbose(raw interface{}) (int, error) {
	var v int64
	switch n := raw.(type) {
	case nil:
		return 0, errors.Wrap(models.ErrInvalidVerbose, "verbose is not set")
	case bool:
		if n {
			v = 1
		}
	case int:
		v = int64(n)
	case int8:
		v = int64(n)
	case int16:
		v = int64(n)
	case int32:
		v = int64(n)
	case int64:
		v = n
	case uint:
		v = int64(n)
	case uint8:
		v = int64(n)
	case uint16:
		v = int64(n)
	case uint32:
		v = int64(n)
	case uint64:
		if n > D_MAX {
			return 0, errors.Wrapf(models.ErrInvalidVerbose, "verbose %d above %d", n, D_MAX)
		}
		v = int64(n)
	case float32:
		return verboseFloat(float64(n))
	case float64:
		return verboseFloat(n)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, errors.Wrapf(models.ErrInvalidVerbose, "verbose must be an integer, got %q", n)
		}
		v = i
	default:
		return 0, errors.Wrapf(models.ErrInvalidVerbose, "verbose must be an integer, got %T", raw)
	}
	if v < 0 {
		return 0, errors.Wrapf(models.ErrInvalidVerbose, "negative verbose %d", v)
	}
	if v > D_MAX {
		return 0, errors.Wrapf(models.ErrInvalidVerbose, "verbose %d above %d", v, D_MAX)
	}
	return int(v), nil
}

// floats are range checked before truncating
func verboseFloat(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Wrapf(models.ErrInvalidVerbose, "verbose %v is not a number", f)
	}
	if f < 0 || f > D_MAX {
		return 0, errors.Wrapf(models.ErrInvalidVerbose, "verbose %v outside 0-%d", f, D_MAX)
	}
	return int(f), nil
}

// Verbose returns the effective verbose level, validated against the output mode.
func (s *Sink) Verbose() (int, error) {
	verbose, err := NormalizeVerbose(s.Config.Verbose)
	if err != nil {
		return 0, err
	}
	if verbose > 1 && !s.Config.Output.Debuggable() {
		return 0, errors.Wrapf(models.ErrInvalidVerbose, "verbose %d requires debug or dump output, not %s", verbose, s.Config.Output)
	}
	if s.Config.Output == models.OUTPUT_DUMP {
		verbose = D_MAX
	}
	return verbose, nil
}

func (s *Sink) checkConsole() error {
	if _, ok := s.Config.Console.(bool); !ok {
		return errors.Wrapf(models.ErrInvalidOutput, "got %T", s.Config.Console)
	}
	return nil
}

func formatLine(opt PrintOpt, args []interface{}) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	return strings.Join(parts, opt.Sep) + opt.End
}

func (s *Sink) Print(th Thread, args ...interface{}) error {
	return s.PrintOpt(th, DefaultPrintOpt, args...)
}

// PrintOpt writes one line unconditionally. Without a destination it does nothing.
func (s *Sink) PrintOpt(th Thread, opt PrintOpt, args ...interface{}) error {
	if err := s.checkConsole(); err != nil {
		return err
	}
	if log := Route(s.Config, s.Log, th); log != nil {
		log.Info(formatLine(opt, args))
	}
	return nil
}

func (s *Sink) Debug(th Thread, level int, args ...interface{}) error {
	return s.DebugOpt(th, DefaultPrintOpt, level, args...)
}

// DebugOpt prints when level is within the verbose level and the output mode
// allows debugging. A bad verbose level is always an error; the console
// setting is only checked for lines that are actually emitted.
func (s *Sink) DebugOpt(th Thread, opt PrintOpt, level int, args ...interface{}) error {
	verbose, err := s.Verbose()
	if err != nil {
		return err
	}
	if level > verbose || !s.Config.Output.Debuggable() {
		return nil
	}
	if err := s.checkConsole(); err != nil {
		return err
	}
	log := Route(s.Config, s.Log, th)
	if log == nil {
		return nil
	}
	if verbose >= D_DRPT {
		args = append([]interface{}{s.pcPrefix(log)}, args...)
	}
	log.Info(formatLine(opt, args))
	return nil
}

// a pc that cannot be read is reported as 0
func (s *Sink) pcPrefix(log *logrus.Logger) string {
	var pc uint64
	if s.Regs != nil {
		if val, err := s.Regs.PC(); err == nil {
			pc = val
		}
	}
	prefix := fmt.Sprintf("0x%x:", pc)
	if s.Color && isTerminal(log.Out) {
		prefix = ansi.Color(prefix, "cyan")
	}
	return prefix
}
