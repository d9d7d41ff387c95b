package qiling

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/EtchProject/qiling/go/models"
)

// FormatIns renders instructions one per line, optionally with their bytes
// right-aligned to the widest instruction.
func FormatIns(ins []models.Ins, showBytes bool) string {
	var width int
	if showBytes {
		for _, in := range ins {
			if len(in.Bytes()) > width {
				width = len(in.Bytes())
			}
		}
	}
	out := make([]string, 0, len(ins))
	for _, in := range ins {
		line := fmt.Sprintf("0x%x:", in.Addr())
		if showBytes {
			pad := strings.Repeat(" ", (width-len(in.Bytes()))*2)
			line += " " + pad + hex.EncodeToString(in.Bytes())
		}
		line += " " + in.Mnemonic()
		if op := in.OpStr(); op != "" {
			line += " " + op
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
