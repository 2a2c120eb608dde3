package util


import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	bin "github.com/gagliardetto/binary"
)


type MonadOutput interface {
	WriteUint8(uint8) MonadOutput
	WriteInt32(int32) MonadOutput

	WriteBytes([]byte) MonadOutput

	// Write `val` in exactly `width` bytes, filling the tail with NUL
	// bytes. Longer values are an error.
	//
	WriteFixed(val []byte, width int) MonadOutput

	WritePadding(int) MonadOutput

	Trust()
	Error() error
}


type monadOutputWriter struct {
	inner  *bin.Encoder
	order  binary.ByteOrder
}

func NewMonadOutputWriter(dest io.Writer) *monadOutputWriter {
	return &monadOutputWriter{
		inner: bin.NewBinEncoder(dest),
		order: binary.LittleEndian,
	}
}

func (this *monadOutputWriter) SetOrder(order binary.ByteOrder) *monadOutputWriter {
	this.order = order
	return this
}

func (this *monadOutputWriter) WriteUint8(val uint8) MonadOutput {
	var err error = this.inner.WriteBytes([]byte{ val }, false)

	if err != nil {
		return NewMonadError(err)
	}

	return this
}

func (this *monadOutputWriter) WriteInt32(val int32) MonadOutput {
	var err error = this.inner.WriteInt32(val, this.order)

	if err != nil {
		return NewMonadError(err)
	}

	return this
}

func (this *monadOutputWriter) WriteBytes(val []byte) MonadOutput {
	var err error = this.inner.WriteBytes(val, false)

	if err != nil {
		return NewMonadError(err)
	}

	return this
}

func (this *monadOutputWriter) WriteFixed(val []byte, width int) MonadOutput {
	var err error

	if len(val) > width {
		return NewMonadError(fmt.Errorf("value of %d bytes does not " +
			"fit in %d bytes", len(val), width))
	}

	err = this.inner.WriteBytes(val, false)
	if err != nil {
		return NewMonadError(err)
	}

	return this.WritePadding(width - len(val))
}

func (this *monadOutputWriter) WritePadding(n int) MonadOutput {
	var err error

	if n < 0 {
		return NewMonadError(fmt.Errorf("negative padding %d", n))
	} else if n == 0 {
		return this
	}

	err = this.inner.WriteBytes(make([]byte, n), false)
	if err != nil {
		return NewMonadError(err)
	}

	return this
}

func (this *monadOutputWriter) Trust() {
}

func (this *monadOutputWriter) Error() error {
	return nil
}


type MonadInput interface {
	ReadUint8(*uint8) MonadInput
	ReadInt32(*int32) MonadInput

	ReadBytes(*[]byte, int) MonadInput

	// Read `width` bytes and strip the trailing NUL bytes.
	//
	ReadFixed(*[]byte, int) MonadInput

	Skip(int) MonadInput

	Trust()
	Error() error
}


type monadInputReader struct {
	inner  *bin.Decoder
	order  binary.ByteOrder
}

func NewMonadInputReader(src []byte) *monadInputReader {
	return &monadInputReader{
		inner: bin.NewBinDecoder(src),
		order: binary.LittleEndian,
	}
}

func (this *monadInputReader) SetOrder(order binary.ByteOrder) *monadInputReader {
	this.order = order
	return this
}

func (this *monadInputReader) Remaining() int {
	return this.inner.Remaining()
}

func (this *monadInputReader) ReadUint8(ptr *uint8) MonadInput {
	var val []byte
	var err error

	val, err = this.inner.ReadNBytes(1)
	if err != nil {
		return NewMonadError(err)
	}

	*ptr = val[0]

	return this
}

func (this *monadInputReader) ReadInt32(ptr *int32) MonadInput {
	var val int32
	var err error

	val, err = this.inner.ReadInt32(this.order)
	if err != nil {
		return NewMonadError(err)
	}

	*ptr = val

	return this
}

func (this *monadInputReader) ReadBytes(ptr *[]byte, n int) MonadInput {
	var val []byte
	var err error

	val, err = this.inner.ReadNBytes(n)
	if err != nil {
		return NewMonadError(err)
	}

	*ptr = append((*ptr)[:0], val...)

	return this
}

func (this *monadInputReader) ReadFixed(ptr *[]byte, width int) MonadInput {
	var val []byte
	var err error

	val, err = this.inner.ReadNBytes(width)
	if err != nil {
		return NewMonadError(err)
	}

	*ptr = append((*ptr)[:0], bytes.TrimRight(val, "\x00")...)

	return this
}

func (this *monadInputReader) Skip(n int) MonadInput {
	var err error

	if n < 0 {
		return NewMonadError(fmt.Errorf("negative skip %d", n))
	}

	_, err = this.inner.ReadNBytes(n)
	if err != nil {
		return NewMonadError(err)
	}

	return this
}

func (this *monadInputReader) Trust() {
}

func (this *monadInputReader) Error() error {
	return nil
}


type monadError struct {
	inner  error
}

func NewMonadError(err error) *monadError {
	return &monadError{
		inner: err,
	}
}

func (this *monadError) WriteUint8(uint8) MonadOutput {
	return this
}

func (this *monadError) WriteInt32(int32) MonadOutput {
	return this
}

func (this *monadError) WriteBytes([]byte) MonadOutput {
	return this
}

func (this *monadError) WriteFixed([]byte, int) MonadOutput {
	return this
}

func (this *monadError) WritePadding(int) MonadOutput {
	return this
}

func (this *monadError) ReadUint8(*uint8) MonadInput {
	return this
}

func (this *monadError) ReadInt32(*int32) MonadInput {
	return this
}

func (this *monadError) ReadBytes(*[]byte, int) MonadInput {
	return this
}

func (this *monadError) ReadFixed(*[]byte, int) MonadInput {
	return this
}

func (this *monadError) Skip(int) MonadInput {
	return this
}

func (this *monadError) Trust() {
	panic(this.inner)
}

func (this *monadError) Error() error {
	return this.inner
}
