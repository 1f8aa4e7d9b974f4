package snapshot

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/leengari/secindex/internal/domain/key"
	"github.com/leengari/secindex/internal/domain/spec"
)

// ===========================================================================
// SNAPSHOT FILE FORMAT
// ===========================================================================
//
// Snapshot File Structure:
// ┌─────────────────────────────────────────────────────────────────────────┐
// │ File Header (fixed 32 bytes)                                            │
// ├─────────────────────────────────────────────────────────────────────────┤
// │ Property 1: [Type (1)] [NameLen (2)] [Name]                             │
// │ ...                                                                     │
// ├─────────────────────────────────────────────────────────────────────────┤
// │ Entry 1: [IDLen (4)] [ID] [Value 1] ... [Value N]                       │
// │ ...                                                                     │
// ├─────────────────────────────────────────────────────────────────────────┤
// │ CRC32 (4) of every byte above                                           │
// └─────────────────────────────────────────────────────────────────────────┘
//
// A value is [Kind (1)] followed by its payload:
//   NULL                      no payload
//   STRING                    [Len (4)] [bytes]
//   INT32, INT64, TIME        int64 (8)
//   UINT                      uint64 (8)
//   BOOL                      uint8 (1)
//   FLOAT, DOUBLE             IEEE 754 float64 bits (8)
//
// Entries are written in key order, so loading replays them in order.
// All multi-byte integers are little-endian.
//
// ===========================================================================

// ByteOrder is the byte order used for encoding snapshot data
var ByteOrder = binary.LittleEndian

// Magic identifies a snapshot file (ASCII: "SECIDXSN")
var Magic = [8]byte{'S', 'E', 'C', 'I', 'D', 'X', 'S', 'N'}

// Version is the current snapshot format version
const Version uint16 = 1

// File header layout:
// ┌──────────┬────────────┬──────────┬─────────┬─────────────┬─────────┬──────────────┬──────────────┐
// │ Magic(8) │ Version(2) │ Flags(1) │ Pad(1)  │ NumProps(2) │ Pad(2)  │ CreatedAt(8) │ EntryCount(8)│
// └──────────┴────────────┴──────────┴─────────┴─────────────┴─────────┴──────────────┴──────────────┘
// Offsets:  0          8           10        11          12           14          16             24
const HeaderSize = 32

// TrailerSize is the CRC32 at the end of the file
const TrailerSize = 4

// ===========================================================================
// SAFETY LIMITS
// ===========================================================================

// MaxFieldSize bounds a single id or string value, so a corrupted length
// cannot trigger a huge allocation
const MaxFieldSize = 16 * 1024 * 1024

// WriteBufferSize is the size of the bufio.Writer buffer (32KB)
const WriteBufferSize = 32 * 1024

var (
	// ErrCorrupt is returned for structurally invalid snapshot files
	ErrCorrupt = errors.New("snapshot is corrupt")
	// ErrChecksum is returned when the trailer does not match the contents
	ErrChecksum = errors.New("snapshot checksum mismatch")
)

// Snapshot is a decoded snapshot file
type Snapshot struct {
	Spec      *spec.Spec
	CreatedAt time.Time
	Entries   []Entry
}

// Entry is one (id, key) pair in key order
type Entry struct {
	ID  string
	Key key.MultiKey
}
