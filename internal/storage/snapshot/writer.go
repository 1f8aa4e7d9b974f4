package snapshot

import (
	"bufio"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/leengari/secindex/internal/domain/key"
	"github.com/leengari/secindex/internal/domain/spec"
	"github.com/leengari/secindex/internal/domain/value"
	"github.com/leengari/secindex/internal/index"
)

// encoder writes fixed-width fields and remembers the first error
type encoder struct {
	w   io.Writer
	buf [8]byte
	err error
}

func (e *encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(p)
}

func (e *encoder) u8(v uint8) {
	e.buf[0] = v
	e.write(e.buf[:1])
}

func (e *encoder) u16(v uint16) {
	ByteOrder.PutUint16(e.buf[:2], v)
	e.write(e.buf[:2])
}

func (e *encoder) u32(v uint32) {
	ByteOrder.PutUint32(e.buf[:4], v)
	e.write(e.buf[:4])
}

func (e *encoder) u64(v uint64) {
	ByteOrder.PutUint64(e.buf[:8], v)
	e.write(e.buf[:8])
}

func (e *encoder) str(s string) {
	if len(s) > MaxFieldSize {
		if e.err == nil {
			e.err = fmt.Errorf("field of %d bytes exceeds snapshot limit", len(s))
		}
		return
	}
	e.u32(uint32(len(s)))
	e.write([]byte(s))
}

func (e *encoder) header(sp *spec.Spec, count int, createdAt time.Time) {
	e.write(Magic[:])
	e.u16(Version)
	e.u8(uint8(sp.Flags() & spec.Unique))
	e.u8(0)
	e.u16(uint16(sp.NumProps()))
	e.u16(0)
	e.u64(uint64(createdAt.Unix()))
	e.u64(uint64(count))

	for _, p := range sp.Properties() {
		e.u8(uint8(p.Type))
		e.u16(uint16(len(p.Name)))
		e.write([]byte(p.Name))
	}
}

func (e *encoder) value(v value.Value) {
	e.u8(uint8(v.Kind()))
	switch v.Kind() {
	case value.KindNull:
	case value.KindString:
		e.str(v.AsString())
	case value.KindInt32, value.KindInt64, value.KindTime:
		e.u64(uint64(v.AsInt()))
	case value.KindUint:
		e.u64(v.AsUint())
	case value.KindBool:
		if v.AsBool() {
			e.u8(1)
		} else {
			e.u8(0)
		}
	case value.KindFloat, value.KindDouble:
		e.u64(math.Float64bits(v.AsFloat()))
	default:
		if e.err == nil {
			e.err = fmt.Errorf("cannot store %s value", v.Kind())
		}
	}
}

func (e *encoder) entry(id string, k key.MultiKey) {
	e.str(id)
	for _, v := range k {
		e.value(v)
	}
}

// Write streams the spec and every (id, key) pair of ix to w, followed by
// a CRC32 of the written bytes
func Write(w io.Writer, ix *index.CompoundIndex) error {
	sp := ix.Spec()
	if sp == nil {
		return index.ErrClosed
	}

	crc := crc32.NewIEEE()
	bw := bufio.NewWriterSize(io.MultiWriter(w, crc), WriteBufferSize)
	enc := &encoder{w: bw}

	enc.header(sp, ix.Len(), time.Now())
	ix.Traverse(func(id string, k key.MultiKey) bool {
		enc.entry(id, k)
		return enc.err == nil
	})
	if enc.err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", enc.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}

	var trailer [TrailerSize]byte
	ByteOrder.PutUint32(trailer[:], crc.Sum32())
	if _, err := w.Write(trailer[:]); err != nil {
		return fmt.Errorf("failed to write snapshot checksum: %w", err)
	}
	return nil
}

// Save writes ix to path atomically: the snapshot goes to a temporary file
// in the same directory, is fsynced and then renamed over path
func Save(path string, ix *index.CompoundIndex) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, ix); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to fsync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to install snapshot: %w", err)
	}
	return nil
}
