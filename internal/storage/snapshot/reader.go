package snapshot

import (
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"
	"time"

	"github.com/leengari/secindex/internal/domain/changeset"
	"github.com/leengari/secindex/internal/domain/key"
	"github.com/leengari/secindex/internal/domain/spec"
	"github.com/leengari/secindex/internal/domain/value"
	"github.com/leengari/secindex/internal/index"
)

// decoder reads fixed-width fields from an in-memory snapshot
type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) next(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.off+n > len(d.buf) {
		d.err = fmt.Errorf("%w: truncated at offset %d", ErrCorrupt, d.off)
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u8() uint8 {
	if b := d.next(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *decoder) u16() uint16 {
	if b := d.next(2); b != nil {
		return ByteOrder.Uint16(b)
	}
	return 0
}

func (d *decoder) u32() uint32 {
	if b := d.next(4); b != nil {
		return ByteOrder.Uint32(b)
	}
	return 0
}

func (d *decoder) u64() uint64 {
	if b := d.next(8); b != nil {
		return ByteOrder.Uint64(b)
	}
	return 0
}

func (d *decoder) str() string {
	n := d.u32()
	if n > MaxFieldSize {
		if d.err == nil {
			d.err = fmt.Errorf("%w: field length %d at offset %d", ErrCorrupt, n, d.off-4)
		}
		return ""
	}
	return string(d.next(int(n)))
}

func (d *decoder) value() value.Value {
	k := value.Kind(d.u8())
	switch k {
	case value.KindNull:
		return value.Null()
	case value.KindString:
		return value.String(d.str())
	case value.KindInt32:
		return value.Int32(int32(d.u64()))
	case value.KindInt64:
		return value.Int64(int64(d.u64()))
	case value.KindTime:
		return value.Unix(int64(d.u64()))
	case value.KindUint:
		return value.Uint(d.u64())
	case value.KindBool:
		return value.Bool(d.u8() != 0)
	case value.KindFloat:
		return value.Float(float32(math.Float64frombits(d.u64())))
	case value.KindDouble:
		return value.Double(math.Float64frombits(d.u64()))
	}
	if d.err == nil {
		d.err = fmt.Errorf("%w: unknown value kind %d at offset %d", ErrCorrupt, k, d.off-1)
	}
	return value.Null()
}

// Decode verifies the checksum of a complete snapshot and decodes it
func Decode(data []byte) (*Snapshot, error) {
	if len(data) < HeaderSize+TrailerSize {
		return nil, fmt.Errorf("%w: file too short (%d bytes)", ErrCorrupt, len(data))
	}

	body := data[:len(data)-TrailerSize]
	want := ByteOrder.Uint32(data[len(body):])
	if got := crc32.ChecksumIEEE(body); got != want {
		return nil, fmt.Errorf("%w: expected %08x, got %08x", ErrChecksum, want, got)
	}

	d := &decoder{buf: body}

	var magic [8]byte
	copy(magic[:], d.next(8))
	if magic != Magic {
		return nil, fmt.Errorf("%w: invalid magic %q", ErrCorrupt, magic[:])
	}
	if v := d.u16(); v != Version {
		return nil, fmt.Errorf("unsupported snapshot version: expected %d, got %d", Version, v)
	}
	flags := spec.Flags(d.u8()) & spec.Unique
	d.u8()
	numProps := int(d.u16())
	d.u16()
	createdAt := time.Unix(int64(d.u64()), 0).UTC()
	count := d.u64()

	props := make([]spec.Property, numProps)
	for i := range props {
		props[i].Type = value.Kind(d.u8())
		props[i].Name = string(d.next(int(d.u16())))
	}
	if d.err != nil {
		return nil, d.err
	}

	sp, err := spec.New(flags, props...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	// every entry takes at least IDLen plus one kind byte per column
	if count > uint64(len(body)-d.off)/uint64(4+numProps) {
		return nil, fmt.Errorf("%w: entry count %d does not fit in file", ErrCorrupt, count)
	}

	snap := &Snapshot{Spec: sp, CreatedAt: createdAt, Entries: make([]Entry, 0, count)}
	for i := uint64(0); i < count; i++ {
		e := Entry{ID: d.str(), Key: make(key.MultiKey, numProps)}
		for c := range e.Key {
			e.Key[c] = d.value()
		}
		if d.err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, d.err)
		}
		snap.Entries = append(snap.Entries, e)
	}

	if d.off != len(body) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(body)-d.off)
	}
	return snap, nil
}

// Read decodes a snapshot from r
func Read(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Decode(data)
}

// ReadFile decodes the snapshot stored at path
func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Decode(data)
}

// Restore rebuilds an index by replaying every entry as an Add
func (s *Snapshot) Restore() (*index.CompoundIndex, error) {
	ix := index.New(s.Spec)
	cs := changeset.New()
	for _, e := range s.Entries {
		cs.Append(changeset.AddChange(e.ID, e.Key...))
	}
	if err := ix.Apply(cs); err != nil {
		ix.Free()
		return nil, fmt.Errorf("failed to restore snapshot: %w", err)
	}
	return ix, nil
}

// Load reads the snapshot at path and rebuilds its index
func Load(path string) (*index.CompoundIndex, error) {
	snap, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return snap.Restore()
}
