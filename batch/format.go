package batch

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

const (
	// Magic identifies annotation batch files (ASCII: "GAB1").
	Magic uint32 = 0x47414231

	// FormatVersion is the current batch file format version.
	FormatVersion uint32 = 1

	// headerSize is the size of the file header in bytes.
	headerSize = 32

	// blockHeaderSize frames each column block:
	// [RawLen uint32][CompLen uint32][CRC32 uint32]. CompLen == 0 means the
	// payload is stored raw.
	blockHeaderSize = 12
)

var (
	// ErrInvalidMagic is returned when a file has an invalid magic number.
	ErrInvalidMagic = errors.New("batch: invalid magic number")

	// ErrInvalidVersion is returned when a file has an unsupported version.
	ErrInvalidVersion = errors.New("batch: unsupported format version")

	// ErrCorrupted is returned when a file fails checksum validation.
	ErrCorrupted = errors.New("batch: file corrupted (checksum mismatch)")

	// ErrSchemaMismatch is returned when batch files with different schemas
	// are combined.
	ErrSchemaMismatch = errors.New("batch: schema mismatch")
)

// EncodingError is returned when a column cannot be serialized.
type EncodingError struct {
	Field string
	Msg   string
}

func (e *EncodingError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("batch: encoding: %s", e.Msg)
	}
	return fmt.Sprintf("batch: encode column %q: %s", e.Field, e.Msg)
}

// fileHeader is the 32-byte header at the start of batch files.
//
// All multi-byte fields are little-endian.
type fileHeader struct {
	Magic       uint32 // 0x47414231 ("GAB1")
	Version     uint32 // Format version (currently 1)
	Compression uint32 // Codec for all column blocks
	NumChunks   uint32 // Number of column chunks
	SchemaLen   uint32 // Length of the schema block in bytes
	Checksum    uint32 // CRC32 of the first 20 header bytes
	// 8 reserved bytes pad the header to 32 bytes.
}

func (h *fileHeader) writeTo(w io.Writer) error {
	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	binary.LittleEndian.PutUint32(buf[8:12], h.Compression)
	binary.LittleEndian.PutUint32(buf[12:16], h.NumChunks)
	binary.LittleEndian.PutUint32(buf[16:20], h.SchemaLen)

	h.Checksum = crc32.ChecksumIEEE(buf[:20])
	binary.LittleEndian.PutUint32(buf[20:24], h.Checksum)
	// Reserved bytes remain zero

	_, err := w.Write(buf)
	return err
}

func (h *fileHeader) readFrom(r io.Reader) error {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}

	h.Magic = binary.LittleEndian.Uint32(buf[0:4])
	h.Version = binary.LittleEndian.Uint32(buf[4:8])
	h.Compression = binary.LittleEndian.Uint32(buf[8:12])
	h.NumChunks = binary.LittleEndian.Uint32(buf[12:16])
	h.SchemaLen = binary.LittleEndian.Uint32(buf[16:20])
	h.Checksum = binary.LittleEndian.Uint32(buf[20:24])

	if h.Magic != Magic {
		return ErrInvalidMagic
	}
	if h.Version > FormatVersion {
		return ErrInvalidVersion
	}
	if h.Checksum != crc32.ChecksumIEEE(buf[:20]) {
		return ErrCorrupted
	}
	return nil
}

// encodeSchema serializes a schema block: a uint16 field count followed by
// one (uint16 name length, name bytes, type byte, nullable byte) per field.
func encodeSchema(s Schema) []byte {
	size := 2
	for _, f := range s {
		size += 2 + len(f.Name) + 2
	}
	buf := make([]byte, 0, size)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(s)))
	for _, f := range s {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(f.Name)))
		buf = append(buf, f.Name...)
		buf = append(buf, byte(f.Type))
		if f.Nullable {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}
	return buf
}

func decodeSchema(buf []byte) (Schema, error) {
	if len(buf) < 2 {
		return nil, ErrCorrupted
	}
	n := int(binary.LittleEndian.Uint16(buf[0:2]))
	buf = buf[2:]

	schema := make(Schema, 0, n)
	for i := 0; i < n; i++ {
		if len(buf) < 2 {
			return nil, ErrCorrupted
		}
		nameLen := int(binary.LittleEndian.Uint16(buf[0:2]))
		buf = buf[2:]
		if len(buf) < nameLen+2 {
			return nil, ErrCorrupted
		}
		f := Field{
			Name:     string(buf[:nameLen]),
			Type:     Type(buf[nameLen]),
			Nullable: buf[nameLen+1] == 1,
		}
		if f.Type != TypeString && f.Type != TypeInt16 {
			return nil, fmt.Errorf("batch: unknown field type %d for %q", f.Type, f.Name)
		}
		buf = buf[nameLen+2:]
		schema = append(schema, f)
	}
	if len(buf) != 0 {
		return nil, ErrCorrupted
	}
	return schema, nil
}
