// Package conformtest contributes a fixed record to the conformances section
// when built into an ELF binary with cgo, so tests can pin the
// boundary-symbol length arithmetic against known data. Nothing outside
// the test binaries links it.
package conformtest

// RecordBytes is the size of the record records_linux_cgo.go contributes.
const RecordBytes = 16
