// Package protocol implements the fixed-width binary records exchanged with
// the order management server.
//
// Every record is described once by a Layout: an ordered table of fields with
// their kind and byte width. Packing and unpacking are driven by that table
// only, so offsets never appear in the codec code itself.
package protocol


import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"oms-loadtest/util"
)


type FieldKind uint8

const (
	FIELD_INT32    FieldKind = 0
	FIELD_BYTE     FieldKind = 1
	FIELD_TEXT     FieldKind = 2
	FIELD_PADDING  FieldKind = 3
)

func (this FieldKind) String() string {
	switch this {
	case FIELD_INT32: return "int32"
	case FIELD_BYTE: return "byte"
	case FIELD_TEXT: return "text"
	case FIELD_PADDING: return "padding"
	default: return fmt.Sprintf("kind(%d)", uint8(this))
	}
}


type Field struct {
	Name     string
	Kind     FieldKind
	Width    int

	// Text only: left-justify the value with spaces to this many
	// characters before it is encoded. Zero disables justification.
	Justify  int
}

func Int32(name string) Field {
	return Field{ Name: name, Kind: FIELD_INT32, Width: 4 }
}

func Byte(name string) Field {
	return Field{ Name: name, Kind: FIELD_BYTE, Width: 1 }
}

func Text(name string, width int) Field {
	return Field{ Name: name, Kind: FIELD_TEXT, Width: width }
}

func JustifiedText(name string, width, justify int) Field {
	return Field{ Name: name, Kind: FIELD_TEXT, Width: width,
		Justify: justify }
}

func Padding(width int) Field {
	return Field{ Kind: FIELD_PADDING, Width: width }
}


// A Record maps field names to values: int32 for FIELD_INT32, byte for
// FIELD_BYTE and string for FIELD_TEXT.
//
type Record map[string]interface{}


type Layout struct {
	name     string
	fields   []Field
	offsets  map[string]int
	size     int
}

func NewLayout(name string, fields ...Field) *Layout {
	var this Layout
	var field Field

	this.name = name
	this.fields = fields
	this.offsets = make(map[string]int)

	for _, field = range fields {
		if field.Width <= 0 {
			panic(fmt.Errorf("layout %s: field '%s' has width %d",
				name, field.Name, field.Width))
		}

		if field.Kind != FIELD_PADDING {
			this.offsets[field.Name] = this.size
		}

		this.size += field.Width
	}

	return &this
}

func (this *Layout) Name() string {
	return this.name
}

func (this *Layout) Size() int {
	return this.size
}

func (this *Layout) Offset(name string) (int, bool) {
	var offset int
	var ok bool

	offset, ok = this.offsets[name]

	return offset, ok
}

func (this *Layout) Fields() []Field {
	return this.fields
}

func (this *Layout) Pack(record Record) ([]byte, error) {
	var buf bytes.Buffer
	var out util.MonadOutput
	var field Field
	var value interface{}
	var ok bool

	buf.Grow(this.size)
	out = util.NewMonadOutputWriter(&buf)

	for _, field = range this.fields {
		if field.Kind == FIELD_PADDING {
			out = out.WritePadding(field.Width)
			continue
		}

		value, ok = record[field.Name]
		if !ok {
			return nil, fmt.Errorf("layout %s: missing field '%s'",
				this.name, field.Name)
		}

		switch field.Kind {
		case FIELD_INT32:
			var v int32

			v, ok = value.(int32)
			if ok {
				out = out.WriteInt32(v)
			}
		case FIELD_BYTE:
			var v byte

			v, ok = value.(byte)
			if ok {
				out = out.WriteUint8(v)
			}
		case FIELD_TEXT:
			var v string

			v, ok = value.(string)
			if ok {
				out = out.WriteFixed(fitText(v, field.Width,
					field.Justify), field.Width)
			}
		}

		if !ok {
			return nil, fmt.Errorf("layout %s: field '%s' expects " +
				"%s, got %T", this.name, field.Name, field.Kind,
				value)
		}
	}

	if out.Error() != nil {
		return nil, fmt.Errorf("layout %s: %w", this.name, out.Error())
	}

	return buf.Bytes(), nil
}

func (this *Layout) Unpack(data []byte) (Record, error) {
	var in util.MonadInput
	var record Record
	var field Field
	var text []byte
	var num int32
	var b uint8

	if len(data) != this.size {
		return nil, &DecodeError{
			Layout: this.name,
			Expected: this.size,
			Actual: len(data),
		}
	}

	in = util.NewMonadInputReader(data)
	record = make(Record, len(this.offsets))

	for _, field = range this.fields {
		switch field.Kind {
		case FIELD_PADDING:
			in = in.Skip(field.Width)
		case FIELD_INT32:
			in = in.ReadInt32(&num)
			record[field.Name] = num
		case FIELD_BYTE:
			in = in.ReadUint8(&b)
			record[field.Name] = b
		case FIELD_TEXT:
			in = in.ReadFixed(&text, field.Width)
			if !utf8.Valid(text) {
				return nil, &DecodeError{
					Layout: this.name,
					Expected: this.size,
					Actual: len(data),
					Err: fmt.Errorf("field '%s' is not " +
						"valid UTF-8", field.Name),
				}
			}
			record[field.Name] = string(text)
		}
	}

	if in.Error() != nil {
		return nil, &DecodeError{
			Layout: this.name,
			Expected: this.size,
			Actual: len(data),
			Err: in.Error(),
		}
	}

	return record, nil
}

// Encode `value` as UTF-8, justify it with spaces when `justify` is set and
// cut it to at most `width` bytes without splitting a character.
//
func fitText(value string, width, justify int) []byte {
	var encoded []byte
	var count, cut int

	if justify > 0 {
		count = utf8.RuneCountInString(value)
		if count < justify {
			value += strings.Repeat(" ", justify - count)
		}
	}

	encoded = []byte(value)
	if len(encoded) <= width {
		return encoded
	}

	cut = width
	for cut > 0 && !utf8.RuneStart(encoded[cut]) {
		cut -= 1
	}

	return encoded[:cut]
}
