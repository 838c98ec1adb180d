//go:build linux && cgo

package conformtest

/*
// One 16-byte record in the conformances section, so the linker's
// __start_conformances/__stop_conformances symbols bracket real data.
__attribute__((__used__, __section__("conformances"), __aligned__(1)))
static const char conformtest_records[16] = {
    0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
    0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10,
};
*/
import "C"
