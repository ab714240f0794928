package batch

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// Write serializes finalized column sets to w as one batch file: header,
// schema block, then one column chunk per set in append order.
func Write(w io.Writer, schema Schema, sets []*ColumnSet, codec Compression) error {
	if !codec.valid() {
		return fmt.Errorf("batch: unknown compression codec %d", codec)
	}
	if len(schema) == 0 {
		return &EncodingError{Msg: "empty schema"}
	}

	schemaBuf := encodeSchema(schema)
	hdr := fileHeader{
		Magic:       Magic,
		Version:     FormatVersion,
		Compression: uint32(codec),
		NumChunks:   uint32(len(sets)),
		SchemaLen:   uint32(len(schemaBuf)),
	}
	if err := hdr.writeTo(w); err != nil {
		return err
	}
	if _, err := w.Write(schemaBuf); err != nil {
		return err
	}

	for _, cs := range sets {
		if err := writeChunk(w, schema, cs, codec); err != nil {
			return err
		}
	}
	return nil
}

func writeChunk(w io.Writer, schema Schema, cs *ColumnSet, codec Compression) error {
	if len(cs.Columns) != len(schema) {
		return &EncodingError{
			Msg: fmt.Sprintf("chunk has %d columns, schema has %d", len(cs.Columns), len(schema)),
		}
	}

	var rowCount [4]byte
	binary.LittleEndian.PutUint32(rowCount[:], uint32(cs.NumRows()))
	if _, err := w.Write(rowCount[:]); err != nil {
		return err
	}

	for i, f := range schema {
		payload, err := encodeColumn(f, cs.Columns[i])
		if err != nil {
			return err
		}
		if err := writeBlock(w, payload, codec); err != nil {
			return err
		}
	}
	return nil
}

// writeBlock frames one column payload: [RawLen][CompLen][CRC32][data].
// The CRC covers the stored bytes, compressed or raw.
func writeBlock(w io.Writer, payload []byte, codec Compression) error {
	stored, compressed, err := compress(payload, codec)
	if err != nil {
		return err
	}

	var hdr [blockHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(payload)))
	if compressed {
		binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(stored)))
	}
	binary.LittleEndian.PutUint32(hdr[8:12], crc32.ChecksumIEEE(stored))

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err = w.Write(stored)
	return err
}

func encodeColumn(f Field, col Column) ([]byte, error) {
	switch f.Type {
	case TypeInt16:
		c, ok := col.(*Int16Column)
		if !ok {
			return nil, &EncodingError{Field: f.Name, Msg: "column is not int16"}
		}
		buf := make([]byte, 0, 2*len(c.Values))
		for _, v := range c.Values {
			buf = binary.LittleEndian.AppendUint16(buf, uint16(v))
		}
		return buf, nil

	case TypeString:
		c, ok := col.(*StringColumn)
		if !ok {
			return nil, &EncodingError{Field: f.Name, Msg: "column is not string"}
		}
		return encodeStringColumn(f, c)

	default:
		return nil, &EncodingError{Field: f.Name, Msg: fmt.Sprintf("unknown type %d", f.Type)}
	}
}

// encodeStringColumn lays out an optional validity bitmap, uint32 offsets
// (one more than the row count), then the concatenated value bytes.
func encodeStringColumn(f Field, c *StringColumn) ([]byte, error) {
	n := len(c.Values)

	size := 4 * (n + 1)
	if f.Nullable {
		size += (n + 7) / 8
	}
	var total int
	for _, v := range c.Values {
		total += len(v)
	}
	buf := make([]byte, 0, size+total)

	if f.Nullable {
		bitmap := make([]byte, (n+7)/8)
		for i := 0; i < n; i++ {
			if !c.IsNull(i) {
				bitmap[i/8] |= 1 << (i % 8)
			}
		}
		buf = append(buf, bitmap...)
	} else if c.Valid != nil {
		for i := range c.Valid {
			if !c.Valid[i] {
				return nil, &EncodingError{Field: f.Name, Msg: "null value in non-nullable column"}
			}
		}
	}

	var off uint32
	buf = binary.LittleEndian.AppendUint32(buf, 0)
	for i, v := range c.Values {
		if !c.IsNull(i) {
			off += uint32(len(v))
		}
		buf = binary.LittleEndian.AppendUint32(buf, off)
	}
	for i, v := range c.Values {
		if !c.IsNull(i) {
			buf = append(buf, v...)
		}
	}
	return buf, nil
}
