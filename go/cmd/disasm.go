package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	qcpu "github.com/EtchProject/qiling/go/cpu"
	"github.com/EtchProject/qiling/go/output"
)

func decodeHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	code, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode hex")
	}
	return code, nil
}

func newDisasmCmd(opts *Options) *cobra.Command {
	var showBytes bool
	cmd := &cobra.Command{
		Use:   "disasm <hex|->",
		Short: "Disassemble hex encoded machine code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Config(cmd.Flags())
			if err != nil {
				return err
			}
			input, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			code, err := decodeHex(string(input))
			if err != nil {
				return err
			}
			q, err := opts.Session(cfg, code)
			if err != nil {
				return err
			}
			defer q.Close()

			status, err := q.StatusReg()
			if err != nil {
				return err
			}
			dc, err := qcpu.ResolveDis(q.Arch().Type, q.Endian(), status)
			if err != nil {
				return err
			}
			err = q.Dprint(output.D_INFO, "disassembling", len(code), "bytes for", q.Arch().Name,
				fmt.Sprintf("(arch %d, mode %#x)", dc.Arch, dc.Mode))
			if err != nil {
				return err
			}
			if err := q.DumpRegs(); err != nil {
				return err
			}
			out, err := q.DisasAt(opts.Addr, uint64(len(code)), showBytes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showBytes, "bytes", "b", true, "show instruction bytes")
	return cmd
}

func newAsmCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "asm <source|->",
		Short: "Assemble source, printing the machine code as hex",
		Long:  "Assemble source, printing the machine code as hex. Statements are separated by newlines or ';'.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Config(cmd.Flags())
			if err != nil {
				return err
			}
			src := []byte(strings.Join(args, " "))
			if len(args) == 1 {
				if src, err = readInput(args[0], cmd.InOrStdin()); err != nil {
					return err
				}
			}
			q, err := opts.Session(cfg, nil)
			if err != nil {
				return err
			}
			defer q.Close()

			code, err := q.Asm(string(src), opts.Addr)
			if err != nil {
				return err
			}
			if err := q.Dprint(output.D_INFO, "assembled", len(code), "bytes"); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(code))
			return nil
		},
	}
}

func newConfigCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Config(cmd.Flags())
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
