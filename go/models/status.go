package models

import (
	"fmt"
	"strings"

	"github.com/mgutz/ansi"
)

// RegDumper is anything with a register snapshot, usually a session's Task.
type RegDumper interface {
	RegDump() ([]RegVal, error)
	Bits() uint
}

// StatusDiff tracks register values between successive dumps.
type StatusDiff struct {
	Regs    RegDumper
	oldRegs map[int]uint64
}

var chSame = ansi.ColorCode("default:default")
var chNew = ansi.ColorCode("default+bu:default")

func colorPad(s, color string, pad int) string {
	length := len(s)
	s = color + s + ansi.Reset
	if length < pad {
		s = strings.Repeat(" ", pad-length) + s
	}
	return s
}

// ChangeMask is a run of hex digits that either all changed or all stayed.
type ChangeMask struct {
	Old, New string
	Changed  bool
}

type Change struct {
	Old, New uint64
	Enum     int
	Name     string
}

func (c *Change) Changed() bool {
	return c.Old != c.New
}

// Mask splits the hex rendering of the new value into changed and unchanged runs.
func (c *Change) Mask(digits int) []ChangeMask {
	hexFmt := fmt.Sprintf("%%0%dx", digits)
	s1, s2 := fmt.Sprintf(hexFmt, c.New), fmt.Sprintf(hexFmt, c.Old)
	if len(s2) < len(s1) {
		s2 = strings.Repeat("0", len(s1)-len(s2)) + s2
	}
	var masks []ChangeMask
	pos := 0
	for i := 1; i <= len(s1); i++ {
		if i == len(s1) || (s1[i] != s2[i]) != (s1[pos] != s2[pos]) {
			masks = append(masks, ChangeMask{
				New:     s1[pos:i],
				Old:     s2[pos:i],
				Changed: s1[pos] != s2[pos],
			})
			pos = i
		}
	}
	return masks
}

func (c *Change) String(digits int, color bool) string {
	hexFmt := fmt.Sprintf("%%0%dx", digits)
	if !c.Changed() {
		return fmt.Sprintf(" %6s 0x"+hexFmt, c.Name, c.New)
	}
	if !color {
		return fmt.Sprintf("+%6s 0x"+hexFmt, c.Name, c.New)
	}
	out := []string{fmt.Sprintf(" %s 0x", colorPad(c.Name, chNew, 6))}
	for _, mask := range c.Mask(digits) {
		col := chSame
		if mask.Changed {
			col = chNew
		}
		out = append(out, col+mask.New)
	}
	out = append(out, ansi.Reset)
	return strings.Join(out, "")
}

type Changes struct {
	// hex digits per value
	Digits  int
	Changes []*Change
}

// String lays the registers out column-major, four to a row.
func (cs *Changes) String(color bool) string {
	const cols = 4
	var lines []string
	rows := (len(cs.Changes) + cols - 1) / cols
	for i := 0; i < rows; i++ {
		var row []string
		for j := 0; j < cols; j++ {
			if k := j*rows + i; k < len(cs.Changes) {
				row = append(row, cs.Changes[k].String(cs.Digits, color))
			}
		}
		lines = append(lines, strings.Join(row, " "))
	}
	return strings.Join(lines, "\n")
}

func (cs *Changes) Count() int {
	ret := 0
	for _, c := range cs.Changes {
		if c.Changed() {
			ret++
		}
	}
	return ret
}

func (cs *Changes) Find(enum int) *Change {
	for _, c := range cs.Changes {
		if c.Enum == enum {
			return c
		}
	}
	return nil
}

// Changes snapshots the registers and compares them with the previous call.
// The first call compares against zero.
func (s *StatusDiff) Changes(onlyChanged bool) (*Changes, error) {
	regs, err := s.Regs.RegDump()
	if err != nil {
		return nil, err
	}
	cs := make([]*Change, 0, len(regs))
	for _, reg := range regs {
		change := &Change{Old: s.oldRegs[reg.Enum], New: reg.Val, Enum: reg.Enum, Name: reg.Name}
		if !onlyChanged || change.Changed() {
			cs = append(cs, change)
		}
	}
	s.oldRegs = make(map[int]uint64, len(regs))
	for _, r := range regs {
		s.oldRegs[r.Enum] = r.Val
	}
	return &Changes{Digits: int(s.Regs.Bits() / 4), Changes: cs}, nil
}
