package batch

import "fmt"

// Type is the logical type of a column.
type Type uint8

const (
	// TypeString is a variable-length UTF-8 string column.
	TypeString Type = 1
	// TypeInt16 is a signed 16-bit integer column.
	TypeInt16 Type = 2
)

// String returns a human-readable name for the type.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "String"
	case TypeInt16:
		return "Int16"
	default:
		return "Unknown"
	}
}

// Field describes one column of a schema.
type Field struct {
	Name     string
	Type     Type
	Nullable bool
}

// Schema is an ordered list of fields.
type Schema []Field

// Equal reports whether two schemas are identical field for field.
func (s Schema) Equal(o Schema) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

func (s Schema) index(name string) int {
	for i := range s {
		if s[i].Name == name {
			return i
		}
	}
	return -1
}

// Column is one immutable column of values.
type Column interface {
	Len() int
}

// StringColumn holds string values with an optional validity mask.
// A nil Valid slice means every value is present.
type StringColumn struct {
	Values []string
	Valid  []bool
}

// Len returns the number of rows in the column.
func (c *StringColumn) Len() int { return len(c.Values) }

// IsNull reports whether the value at i is null.
func (c *StringColumn) IsNull(i int) bool {
	return c.Valid != nil && !c.Valid[i]
}

// Value returns the value at i and whether it is present.
func (c *StringColumn) Value(i int) (string, bool) {
	if c.IsNull(i) {
		return "", false
	}
	return c.Values[i], true
}

func (c *StringColumn) appendAll(o *StringColumn) {
	if o.Valid != nil && c.Valid == nil {
		c.Valid = make([]bool, len(c.Values), len(c.Values)+len(o.Values))
		for i := range c.Valid {
			c.Valid[i] = true
		}
	}
	c.Values = append(c.Values, o.Values...)
	if c.Valid != nil {
		if o.Valid != nil {
			c.Valid = append(c.Valid, o.Valid...)
		} else {
			for range o.Values {
				c.Valid = append(c.Valid, true)
			}
		}
	}
}

// Int16Column holds signed 16-bit integer values.
type Int16Column struct {
	Values []int16
}

// Len returns the number of rows in the column.
func (c *Int16Column) Len() int { return len(c.Values) }

func (c *Int16Column) appendAll(o *Int16Column) {
	c.Values = append(c.Values, o.Values...)
}

// ColumnSet is one immutable flushed batch: one column per schema field, all
// of equal length.
type ColumnSet struct {
	Columns []Column
	rows    int
}

// NewColumnSet validates that all columns have the same length and wraps
// them into a ColumnSet.
func NewColumnSet(cols []Column) (*ColumnSet, error) {
	if len(cols) == 0 {
		return nil, &EncodingError{Msg: "column set has no columns"}
	}
	rows := cols[0].Len()
	for i, c := range cols {
		if c.Len() != rows {
			return nil, &EncodingError{
				Msg: fmt.Sprintf("column %d has %d rows, want %d", i, c.Len(), rows),
			}
		}
	}
	return &ColumnSet{Columns: cols, rows: rows}, nil
}

// NumRows returns the number of rows in the set.
func (cs *ColumnSet) NumRows() int { return cs.rows }
