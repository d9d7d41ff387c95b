package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mgutz/ansi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	qiling "github.com/EtchProject/qiling/go"
	"github.com/EtchProject/qiling/go/arch"
	"github.com/EtchProject/qiling/go/models"
	"github.com/EtchProject/qiling/go/models/cpu"
)

const pageSize = 0x1000

// Options are the flags shared by every subcommand. String and numeric
// flags only override the config file when given explicitly.
type Options struct {
	ConfigPath string
	Arch       string
	Endian     string
	Output     string
	Verbose    int
	Status     uint64
	Addr       uint64
	Native     bool
}

func NewRootCmd() *cobra.Command {
	opts := &Options{}
	root := &cobra.Command{
		Use:           "qltool",
		Short:         "Disassemble and assemble code the way the emulator sees it.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default: qiling/config.yml in the user config dir)")
	flags.StringVarP(&opts.Arch, "arch", "a", "", "architecture: arm, arm_thumb, x86, x8664, arm64, 8086, mips")
	flags.StringVarP(&opts.Endian, "endian", "e", "", "endianness: little or big")
	flags.StringVar(&opts.Output, "output", "", "output mode: off, default, disasm, debug, dump")
	flags.IntVarP(&opts.Verbose, "verbose", "v", 1, "verbose level")
	flags.Uint64Var(&opts.Status, "status", 0, "status register value (cpsr bit 5 selects thumb on arm)")
	flags.Uint64Var(&opts.Addr, "addr", pageSize, "load address")
	flags.BoolVar(&opts.Native, "native", false, "use the pure Go disassembler")

	root.AddCommand(newDisasmCmd(opts), newAsmCmd(opts), newConfigCmd(opts))
	return root
}

// Config loads the config file and applies the flags the user set.
func (o *Options) Config(flags *pflag.FlagSet) (*models.Config, error) {
	var cfg *models.Config
	var err error
	if o.ConfigPath != "" {
		cfg, err = models.LoadConfig(o.ConfigPath)
	} else {
		cfg, _, err = models.FindConfig()
	}
	if err != nil {
		return nil, err
	}
	if flags.Changed("arch") {
		if cfg.Arch, err = models.ParseArch(o.Arch); err != nil {
			return nil, err
		}
	}
	if flags.Changed("endian") {
		if cfg.Endian, err = models.ParseEndian(o.Endian); err != nil {
			return nil, err
		}
	}
	if flags.Changed("output") {
		if cfg.Output, err = models.ParseOutput(o.Output); err != nil {
			return nil, err
		}
	}
	if flags.Changed("verbose") {
		cfg.Verbose = o.Verbose
	}
	if o.Native {
		cfg.Disassembler = "native"
	}
	return cfg, nil
}

// Session builds an emulation session over an in-memory CPU with code
// loaded at the requested address and the status register preset.
func (o *Options) Session(cfg *models.Config, code []byte) (*qiling.Qiling, error) {
	a, err := arch.GetArch(cfg.Arch)
	if err != nil {
		return nil, err
	}
	sim := a.NewSim()
	base := o.Addr &^ (pageSize - 1)
	end := o.Addr + uint64(len(code))
	size := (end - base + pageSize - 1) &^ (pageSize - 1)
	if size == 0 {
		size = pageSize
	}
	if err := sim.MemMap(base, size, cpu.PROT_ALL); err != nil {
		return nil, err
	}
	if err := sim.MemWrite(o.Addr, code); err != nil {
		return nil, err
	}
	if err := sim.RegWrite(a.PC, o.Addr); err != nil {
		return nil, err
	}
	if a.Status != 0 {
		if err := sim.RegWrite(a.Status, o.Status); err != nil {
			return nil, err
		}
	} else if o.Status != 0 {
		return nil, errors.Errorf("%s has no status register", a.Name)
	}
	return qiling.New(cfg, sim)
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// PrintError prints an error, and a stacktrace if available.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", ansi.Color("Error:", "red+b"), err)
	if err, ok := err.(stackTracer); ok {
		printStack(w, err.StackTrace())
	}
}

func printStack(w io.Writer, trace errors.StackTrace) {
	var frames [][2]string
	width := 0
	for _, f := range trace {
		fileline := fmt.Sprintf("%s:%d", f, f)
		method := fmt.Sprintf("%n", f)
		frames = append(frames, [2]string{fileline, method})
		if len(fileline) > width {
			width = len(fileline)
		}
		if method == "main" {
			break
		}
	}
	for _, f := range frames {
		pad := strings.Repeat(" ", width-len(f[0]))
		fmt.Fprintf(w, "  %s%s | %s()\n", f[0], pad, f[1])
	}
}

// Main runs qltool with args and returns the process exit code.
func Main(args []string) int {
	root := NewRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		PrintError(colorable.NewColorableStderr(), err)
		return 1
	}
	return 0
}

func readInput(arg string, stdin io.Reader) ([]byte, error) {
	if arg != "-" {
		return []byte(arg), nil
	}
	data, err := io.ReadAll(stdin)
	return data, errors.Wrap(err, "failed to read stdin")
}
