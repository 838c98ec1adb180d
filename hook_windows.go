//go:build windows

package imagehook

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/sliverarmory/imagehook/imagefile"
)

// loadImagesOS walks the modules currently mapped into the process, once.
// Windows offers no supported notify-on-load callback, so this is the same
// eager one-shot emulation the other static platforms use, widened from the
// running image to every module the loader reports at setup time.
func loadImagesOS() {
	process := windows.CurrentProcess()

	modules := make([]windows.Handle, 128)
	var needed uint32
	for {
		cb := uint32(len(modules)) * uint32(unsafe.Sizeof(modules[0]))
		if err := windows.EnumProcessModules(process, &modules[0], cb, &needed); err != nil {
			return
		}
		if needed <= cb {
			modules = modules[:needed/uint32(unsafe.Sizeof(modules[0]))]
			break
		}
		modules = make([]windows.Handle, needed/uint32(unsafe.Sizeof(modules[0]))+16)
	}

	for _, mod := range modules {
		var info windows.ModuleInfo
		if err := windows.GetModuleInformation(process, mod, &info, uint32(unsafe.Sizeof(info))); err != nil {
			continue
		}
		deliver(peImageSection(info.BaseOfDll))
	}
}

const (
	imageDOSSignature = 0x5a4d     // MZ
	imageNTSignature  = 0x00004550 // PE\0\0
)

type imageDOSHeader struct {
	Magic    uint16
	_        [58]byte
	NewExeAt int32
}

type imageFileHeader struct {
	Machine              uint16
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      uint16
}

type imageSectionHeader struct {
	Name                 [8]byte
	VirtualSize          uint32
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32
	PointerToRelocations uint32
	PointerToLinenumbers uint32
	NumberOfRelocations  uint16
	NumberOfLinenumbers  uint16
	Characteristics      uint32
}

// peImageSection walks the in-memory PE headers of a loaded module. Section
// names in a linked image are at most eight bytes, so the grouped .conform$A
// object sections all land here under the plain image section name. A module
// without the section reports its base with length 0.
func peImageSection(base uintptr) Section {
	dos := (*imageDOSHeader)(unsafe.Pointer(base))
	if dos.Magic != imageDOSSignature || dos.NewExeAt <= 0 {
		return Section{Base: base, Length: 0}
	}

	nt := base + uintptr(dos.NewExeAt)
	if *(*uint32)(unsafe.Pointer(nt)) != imageNTSignature {
		return Section{Base: base, Length: 0}
	}

	file := (*imageFileHeader)(unsafe.Pointer(nt + 4))
	sect := nt + 4 + unsafe.Sizeof(imageFileHeader{}) + uintptr(file.SizeOfOptionalHeader)
	for i := uint16(0); i < file.NumberOfSections; i++ {
		s := (*imageSectionHeader)(unsafe.Pointer(sect + uintptr(i)*unsafe.Sizeof(imageSectionHeader{})))
		if fixedCString(s.Name[:]) == imagefile.PESection {
			length := s.VirtualSize
			if length == 0 {
				length = s.SizeOfRawData
			}
			return Section{
				Base:   base + uintptr(s.VirtualAddress),
				Length: uintptr(length),
			}
		}
	}
	return Section{Base: base, Length: 0}
}
