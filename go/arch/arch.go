package arch

import (
	"github.com/pkg/errors"

	"github.com/EtchProject/qiling/go/arch/arm"
	"github.com/EtchProject/qiling/go/arch/arm64"
	"github.com/EtchProject/qiling/go/arch/mips"
	"github.com/EtchProject/qiling/go/arch/x86"
	"github.com/EtchProject/qiling/go/arch/x86_16"
	"github.com/EtchProject/qiling/go/arch/x86_64"
	"github.com/EtchProject/qiling/go/models"
)

func GetArch(t models.ArchType) (*models.Arch, error) {
	switch t {
	case models.ARCH_ARM:
		return arm.Arch, nil
	case models.ARCH_ARM_THUMB:
		return arm.ThumbArch, nil
	case models.ARCH_X86:
		return x86.Arch, nil
	case models.ARCH_X8664:
		return x86_64.Arch, nil
	case models.ARCH_ARM64:
		return arm64.Arch, nil
	case models.ARCH_A8086:
		return x86_16.Arch, nil
	case models.ARCH_MIPS:
		return mips.Arch, nil
	}
	return nil, errors.Wrapf(models.ErrUnsupportedArch, "arch %s", t)
}
