//go:build darwin

package imagehook

import (
	"unsafe"

	"github.com/sliverarmory/imagehook/imagefile"
)

const (
	machMagic64 = 0xfeedfacf
	lcSegment64 = 0x19
)

type machHeader64 struct {
	Magic      uint32
	CPUType    uint32
	CPUSubtype uint32
	FileType   uint32
	NCmds      uint32
	SizeOfCmds uint32
	Flags      uint32
	Reserved   uint32
}

type loadCommand struct {
	Cmd     uint32
	CmdSize uint32
}

type segmentCommand64 struct {
	Cmd      uint32
	CmdSize  uint32
	SegName  [16]byte
	VMAddr   uint64
	VMSize   uint64
	FileOff  uint64
	FileSize uint64
	MaxProt  uint32
	InitProt uint32
	NSects   uint32
	Flags    uint32
}

type section64 struct {
	SectName  [16]byte
	SegName   [16]byte
	Addr      uint64
	Size      uint64
	Offset    uint32
	Align     uint32
	RelOff    uint32
	NReloc    uint32
	Flags     uint32
	Reserved1 uint32
	Reserved2 uint32
	Reserved3 uint32
}

// machImageSection walks the load commands of a mapped Mach-O image looking
// for the metadata section inside its fixed segment. The first section with
// the right name wins; the section addresses recorded in the header are
// link-time values, so the loader's slide is added before reporting. A module
// without the section reports its own base with length 0.
func machImageSection(base, slide uintptr) Section {
	mh := (*machHeader64)(unsafe.Pointer(base))
	if mh.Magic != machMagic64 {
		return Section{Base: base, Length: 0}
	}

	lc := base + unsafe.Sizeof(machHeader64{})
	for i := uint32(0); i < mh.NCmds; i++ {
		cmd := (*loadCommand)(unsafe.Pointer(lc))
		if cmd.Cmd == lcSegment64 {
			seg := (*segmentCommand64)(unsafe.Pointer(lc))
			if fixedCString(seg.SegName[:]) == imagefile.MachOSegment {
				sect := lc + unsafe.Sizeof(segmentCommand64{})
				for j := uint32(0); j < seg.NSects; j++ {
					s := (*section64)(unsafe.Pointer(sect + uintptr(j)*unsafe.Sizeof(section64{})))
					if fixedCString(s.SectName[:]) == imagefile.MachOSection {
						return Section{
							Base:   uintptr(s.Addr) + slide,
							Length: uintptr(s.Size),
						}
					}
				}
			}
		}
		lc += uintptr(cmd.CmdSize)
	}
	return Section{Base: base, Length: 0}
}
