package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// DecodeError marks failures produced while reading a record from bytes.
type DecodeError interface {
	DecodeError()
}

type DecodeErrorImpl struct{}

func (DecodeErrorImpl) DecodeError() {}

// IsDecodeError reports whether any error in err's chain is a decode failure.
func IsDecodeError(err error) bool {
	var de DecodeError
	return errors.As(err, &de)
}

// EncodeError marks failures produced while writing a record to bytes.
type EncodeError interface {
	EncodeError()
}

type EncodeErrorImpl struct{}

func (EncodeErrorImpl) EncodeError() {}

// IsEncodeError reports whether any error in err's chain is an encode failure.
func IsEncodeError(err error) bool {
	var ee EncodeError
	return errors.As(err, &ee)
}

// UnexpectedEOF reports that the source ended before a field was complete.
type UnexpectedEOF struct {
	DecodeErrorImpl
	message string
}

func NewUnexpectedEOF(expected, found int) *UnexpectedEOF {
	return &UnexpectedEOF{
		message: fmt.Sprintf("unexpected end of data, expected at least %d bytes, found %d", expected, found),
	}
}

func (a UnexpectedEOF) Error() string {
	return a.message
}

func (a UnexpectedEOF) Extend(message string) error {
	return &UnexpectedEOF{message: fmtExtend(a, message)}
}

func (a UnexpectedEOF) Is(target error) bool {
	switch target.(type) {
	case UnexpectedEOF, *UnexpectedEOF:
		return true
	default:
		return false
	}
}

// TrailingBytes reports unread bytes left after an exact-length decode.
type TrailingBytes struct {
	DecodeErrorImpl
	message string
	count   int
}

func NewTrailingBytes(count int) *TrailingBytes {
	return &TrailingBytes{
		message: fmt.Sprintf("%d trailing bytes after the last field", count),
		count:   count,
	}
}

func (a TrailingBytes) Error() string {
	return a.message
}

// Count returns the number of unread bytes.
func (a TrailingBytes) Count() int {
	return a.count
}

func (a TrailingBytes) Extend(message string) error {
	return &TrailingBytes{message: fmtExtend(a, message), count: a.count}
}

func (a TrailingBytes) Is(target error) bool {
	switch target.(type) {
	case TrailingBytes, *TrailingBytes:
		return true
	default:
		return false
	}
}

// UnknownFlagBits reports bits of a bitmask field that have no entry in the flag table.
type UnknownFlagBits struct {
	DecodeErrorImpl
	message string
	bits    uint64
}

func NewUnknownFlagBits(table string, bits uint64) *UnknownFlagBits {
	return &UnknownFlagBits{
		message: fmt.Sprintf("unknown bits 0x%x in %s", bits, table),
		bits:    bits,
	}
}

func (a UnknownFlagBits) Error() string {
	return a.message
}

// Bits returns the offending bits.
func (a UnknownFlagBits) Bits() uint64 {
	return a.bits
}

func (a UnknownFlagBits) Extend(message string) error {
	return &UnknownFlagBits{message: fmtExtend(a, message), bits: a.bits}
}

func (a UnknownFlagBits) Is(target error) bool {
	switch target.(type) {
	case UnknownFlagBits, *UnknownFlagBits:
		return true
	default:
		return false
	}
}

// SizeMismatch reports a size prefix that differs from the number of bytes the record
// actually occupies.
type SizeMismatch struct {
	DecodeErrorImpl
	message  string
	declared uint64
	actual   int
}

func NewSizeMismatch(declared uint64, actual int) *SizeMismatch {
	return &SizeMismatch{
		message:  fmt.Sprintf("declared size %d differs from record size %d", declared, actual),
		declared: declared,
		actual:   actual,
	}
}

func (a SizeMismatch) Error() string {
	return a.message
}

// Declared returns the value of the size prefix.
func (a SizeMismatch) Declared() uint64 {
	return a.declared
}

// Actual returns the number of bytes the record occupies.
func (a SizeMismatch) Actual() int {
	return a.actual
}

func (a SizeMismatch) Extend(message string) error {
	return &SizeMismatch{message: fmtExtend(a, message), declared: a.declared, actual: a.actual}
}

func (a SizeMismatch) Is(target error) bool {
	switch target.(type) {
	case SizeMismatch, *SizeMismatch:
		return true
	default:
		return false
	}
}

// CountOverflow reports an array too long for the width of its count field.
type CountOverflow struct {
	EncodeErrorImpl
	message string
}

func NewCountOverflow(length int, width int) *CountOverflow {
	return &CountOverflow{
		message: fmt.Sprintf("array length %d does not fit into %d-byte count", length, width),
	}
}

func (a CountOverflow) Error() string {
	return a.message
}

func (a CountOverflow) Extend(message string) error {
	return &CountOverflow{message: fmtExtend(a, message)}
}

func (a CountOverflow) Is(target error) bool {
	switch target.(type) {
	case CountOverflow, *CountOverflow:
		return true
	default:
		return false
	}
}

// InvalidRecord reports a record that cannot be encoded as it is: missing or
// superfluous fields, values of a wrong kind or values wider than the field.
type InvalidRecord struct {
	EncodeErrorImpl
	message string
}

func NewInvalidRecord(message string) *InvalidRecord {
	return &InvalidRecord{message: message}
}

func (a InvalidRecord) Error() string {
	return a.message
}

func (a InvalidRecord) Extend(message string) error {
	return NewInvalidRecord(fmtExtend(a, message))
}

func (a InvalidRecord) Is(target error) bool {
	switch target.(type) {
	case InvalidRecord, *InvalidRecord:
		return true
	default:
		return false
	}
}

// InvalidSchema reports an inconsistent schema definition.
type InvalidSchema struct {
	message string
}

func NewInvalidSchema(message string) *InvalidSchema {
	return &InvalidSchema{message: message}
}

func (a InvalidSchema) Error() string {
	return a.message
}

func (a InvalidSchema) Extend(message string) error {
	return NewInvalidSchema(fmtExtend(a, message))
}

func (a InvalidSchema) Is(target error) bool {
	switch target.(type) {
	case InvalidSchema, *InvalidSchema:
		return true
	default:
		return false
	}
}
