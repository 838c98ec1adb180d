// Package imagefile answers one question about an object file on disk: where
// is the reserved metadata section, and how big is it. It understands ELF,
// Mach-O (thin and fat), and PE/COFF images through the standard debug
// packages and reports link-time bounds; translating those to runtime
// addresses is the caller's business.
package imagefile

import (
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
)

// Fixed identity of the metadata section, one spelling per object format.
const (
	MachOSegment = "__TEXT"
	MachOSection = "__conform"
	ELFSection   = "conformances"
	PESection    = ".conform"
)

// Format identifies the object-file container of an inspected image.
type Format string

const (
	FormatELF   Format = "elf"
	FormatMachO Format = "macho"
	FormatPE    Format = "pe"
)

// ErrUnknownFormat reports a file whose magic matches none of the supported
// object formats.
var ErrUnknownFormat = errors.New("imagefile: unrecognized object format")

// Names selects the per-format section identifiers to look for. The zero
// value is not useful; start from DefaultNames.
type Names struct {
	MachOSegment string
	MachOSection string
	ELF          string
	PE           string
}

// DefaultNames returns the fixed section identity this runtime emits under.
func DefaultNames() Names {
	return Names{
		MachOSegment: MachOSegment,
		MachOSection: MachOSection,
		ELF:          ELFSection,
		PE:           PESection,
	}
}

// Info is the result of inspecting one image.
type Info struct {
	Format Format
	// Addr is the section's link-time virtual address, Size its byte length.
	// Both are zero and Found is false when the section is absent; absence
	// is not an error.
	Addr  uint64
	Size  uint64
	Found bool
}

// Inspect opens the image at path and looks up the metadata section using the
// default names.
func Inspect(path string) (Info, error) {
	return InspectNames(path, DefaultNames())
}

// InspectNames is Inspect with caller-chosen section names.
func InspectNames(path string, names Names) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("imagefile: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := inspectReader(f, names)
	if err != nil {
		return Info{}, fmt.Errorf("imagefile: inspect %s: %w", path, err)
	}
	return info, nil
}

func inspectReader(r io.ReaderAt, names Names) (Info, error) {
	var magic [4]byte
	if _, err := r.ReadAt(magic[:], 0); err != nil {
		return Info{}, fmt.Errorf("read magic: %w", err)
	}

	switch {
	case magic == [4]byte{0x7f, 'E', 'L', 'F'}:
		return inspectELF(r, names.ELF)
	case isMachOMagic(magic):
		return inspectMachO(r, names.MachOSegment, names.MachOSection)
	case magic[0] == 'M' && magic[1] == 'Z':
		return inspectPE(r, names.PE)
	default:
		// debug/pe also accepts bare COFF objects with no DOS stub.
		if info, err := inspectPE(r, names.PE); err == nil {
			return info, nil
		}
		return Info{}, ErrUnknownFormat
	}
}

func isMachOMagic(magic [4]byte) bool {
	le := binary.LittleEndian.Uint32(magic[:])
	be := binary.BigEndian.Uint32(magic[:])
	switch le {
	case macho.Magic32, macho.Magic64:
		return true
	}
	switch be {
	case macho.Magic32, macho.Magic64, macho.MagicFat:
		return true
	}
	return false
}

func inspectELF(r io.ReaderAt, section string) (Info, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return Info{}, fmt.Errorf("parse elf: %w", err)
	}
	defer f.Close()

	info := Info{Format: FormatELF}
	if s := f.Section(section); s != nil {
		info.Addr = s.Addr
		info.Size = s.Size
		info.Found = true
	}
	return info, nil
}

func inspectMachO(r io.ReaderAt, segment, section string) (Info, error) {
	f, closeFile, err := openMachO(r)
	if err != nil {
		return Info{}, err
	}
	defer closeFile()

	info := Info{Format: FormatMachO}
	for _, s := range f.Sections {
		if s.Seg == segment && s.Name == section {
			info.Addr = s.Addr
			info.Size = s.Size
			info.Found = true
			break
		}
	}
	return info, nil
}

// openMachO handles both thin and fat images. For fat images it prefers the
// slice matching the host architecture and otherwise falls back to the first
// slice, the same selection the in-memory loader applies.
func openMachO(r io.ReaderAt) (*macho.File, func(), error) {
	if fat, err := macho.NewFatFile(r); err == nil {
		if len(fat.Arches) == 0 {
			fat.Close()
			return nil, nil, errors.New("fat mach-o with no architectures")
		}
		pick := fat.Arches[0].File
		if want, ok := hostMachOCPU(); ok {
			for _, arch := range fat.Arches {
				if arch.Cpu == want {
					pick = arch.File
					break
				}
			}
		}
		return pick, func() { fat.Close() }, nil
	}

	f, err := macho.NewFile(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse mach-o: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func hostMachOCPU() (macho.Cpu, bool) {
	switch runtime.GOARCH {
	case "amd64":
		return macho.CpuAmd64, true
	case "arm64":
		return macho.CpuArm64, true
	case "386":
		return macho.Cpu386, true
	default:
		return 0, false
	}
}

func inspectPE(r io.ReaderAt, section string) (Info, error) {
	f, err := pe.NewFile(r)
	if err != nil {
		return Info{}, fmt.Errorf("parse pe: %w", err)
	}
	defer f.Close()

	info := Info{Format: FormatPE}
	if s := f.Section(section); s != nil {
		info.Addr = uint64(s.VirtualAddress)
		// Object files leave VirtualSize zero and carry the byte count in
		// SizeOfRawData, which debug/pe exposes as Size.
		info.Size = uint64(s.VirtualSize)
		if info.Size == 0 {
			info.Size = uint64(s.Size)
		}
		info.Found = true
	}
	return info, nil
}
