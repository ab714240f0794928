package batch

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// Read decodes one batch file from r. All chunks are concatenated into a
// single in-memory table in append order.
func Read(r io.Reader) (*Table, error) {
	var hdr fileHeader
	if err := hdr.readFrom(r); err != nil {
		return nil, err
	}

	codec := Compression(hdr.Compression)
	if !codec.valid() {
		return nil, fmt.Errorf("batch: unknown compression codec %d", hdr.Compression)
	}

	schemaBuf := make([]byte, hdr.SchemaLen)
	if _, err := io.ReadFull(r, schemaBuf); err != nil {
		return nil, err
	}
	schema, err := decodeSchema(schemaBuf)
	if err != nil {
		return nil, err
	}

	t := emptyTable(schema)
	for i := uint32(0); i < hdr.NumChunks; i++ {
		if err := readChunk(r, t, codec); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func readChunk(r io.Reader, t *Table, codec Compression) error {
	var rowBuf [4]byte
	if _, err := io.ReadFull(r, rowBuf[:]); err != nil {
		return err
	}
	rows := int(binary.LittleEndian.Uint32(rowBuf[:]))

	for i, f := range t.Schema {
		payload, err := readBlock(r, codec)
		if err != nil {
			return err
		}
		if err := decodeColumn(f, payload, rows, t.Cols[i]); err != nil {
			return err
		}
	}
	return nil
}

func readBlock(r io.Reader, codec Compression) ([]byte, error) {
	var hdr [blockHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	rawLen := binary.LittleEndian.Uint32(hdr[0:4])
	compLen := binary.LittleEndian.Uint32(hdr[4:8])
	sum := binary.LittleEndian.Uint32(hdr[8:12])

	storedLen := rawLen
	if compLen > 0 {
		storedLen = compLen
	}
	stored := make([]byte, storedLen)
	if _, err := io.ReadFull(r, stored); err != nil {
		return nil, err
	}
	if crc32.ChecksumIEEE(stored) != sum {
		return nil, ErrCorrupted
	}
	if compLen == 0 {
		return stored, nil
	}
	return decompress(stored, rawLen, codec)
}

func decodeColumn(f Field, payload []byte, rows int, dst Column) error {
	switch f.Type {
	case TypeInt16:
		c := dst.(*Int16Column)
		if len(payload) != 2*rows {
			return ErrCorrupted
		}
		for i := 0; i < rows; i++ {
			c.Values = append(c.Values, int16(binary.LittleEndian.Uint16(payload[2*i:])))
		}
		return nil

	case TypeString:
		col, err := decodeStringColumn(f, payload, rows)
		if err != nil {
			return err
		}
		dst.(*StringColumn).appendAll(col)
		return nil

	default:
		return fmt.Errorf("batch: unknown field type %d for %q", f.Type, f.Name)
	}
}

func decodeStringColumn(f Field, payload []byte, rows int) (*StringColumn, error) {
	var bitmap []byte
	if f.Nullable {
		bitmapLen := (rows + 7) / 8
		if len(payload) < bitmapLen {
			return nil, ErrCorrupted
		}
		bitmap = payload[:bitmapLen]
		payload = payload[bitmapLen:]
	}

	offsetsLen := 4 * (rows + 1)
	if len(payload) < offsetsLen {
		return nil, ErrCorrupted
	}
	offsets := make([]uint32, rows+1)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(payload[4*i:])
	}
	data := payload[offsetsLen:]
	if offsets[0] != 0 || offsets[rows] != uint32(len(data)) {
		return nil, ErrCorrupted
	}

	col := &StringColumn{Values: make([]string, 0, rows)}
	if bitmap != nil {
		col.Valid = make([]bool, 0, rows)
	}
	for i := 0; i < rows; i++ {
		if offsets[i] > offsets[i+1] {
			return nil, ErrCorrupted
		}
		col.Values = append(col.Values, string(data[offsets[i]:offsets[i+1]]))
		if bitmap != nil {
			col.Valid = append(col.Valid, bitmap[i/8]&(1<<(i%8)) != 0)
		}
	}
	return col, nil
}

// Table is a set of columns sharing one schema, owned by the caller.
type Table struct {
	Schema Schema
	Cols   []Column
}

func emptyTable(schema Schema) *Table {
	cols := make([]Column, len(schema))
	for i, f := range schema {
		switch f.Type {
		case TypeInt16:
			cols[i] = &Int16Column{}
		default:
			cols[i] = &StringColumn{}
		}
	}
	return &Table{Schema: schema, Cols: cols}
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int {
	if len(t.Cols) == 0 {
		return 0
	}
	return t.Cols[0].Len()
}

// Strings returns the named string column.
func (t *Table) Strings(name string) (*StringColumn, error) {
	i := t.Schema.index(name)
	if i < 0 {
		return nil, fmt.Errorf("batch: no column %q", name)
	}
	c, ok := t.Cols[i].(*StringColumn)
	if !ok {
		return nil, fmt.Errorf("batch: column %q is not a string column", name)
	}
	return c, nil
}

// Int16s returns the named int16 column.
func (t *Table) Int16s(name string) (*Int16Column, error) {
	i := t.Schema.index(name)
	if i < 0 {
		return nil, fmt.Errorf("batch: no column %q", name)
	}
	c, ok := t.Cols[i].(*Int16Column)
	if !ok {
		return nil, fmt.Errorf("batch: column %q is not an int16 column", name)
	}
	return c, nil
}

// Concat vertically concatenates tables into one. All tables must share an
// identical schema; a mismatch is fatal. Nil and schema-less tables are
// skipped. Concatenating nothing yields an empty table.
func Concat(tables []*Table) (*Table, error) {
	var out *Table
	for _, t := range tables {
		if t == nil || len(t.Schema) == 0 {
			continue
		}
		if out == nil {
			out = emptyTable(t.Schema)
		} else if !out.Schema.Equal(t.Schema) {
			return nil, fmt.Errorf("%w: %v vs %v", ErrSchemaMismatch, out.Schema, t.Schema)
		}
		for i := range out.Cols {
			switch dst := out.Cols[i].(type) {
			case *Int16Column:
				dst.appendAll(t.Cols[i].(*Int16Column))
			case *StringColumn:
				dst.appendAll(t.Cols[i].(*StringColumn))
			}
		}
	}
	if out == nil {
		return &Table{}, nil
	}
	return out, nil
}
