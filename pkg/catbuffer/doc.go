// Package catbuffer implements a schema-driven codec for catbuffer records: fixed-layout,
// little-endian binary structures made of plain integers, opaque fixed-size values,
// bitmask flag sets, element counts, size prefixes, reserved padding and counted arrays.
//
// A Schema is declared once per record type and is immutable. Decode reads a Record from
// bytes in schema order, Encode writes it back and SizeOf computes the encoded length
// without materializing it. Count fields are never stored in a Record, they are derived
// from the length of the array they describe. A size prefix is derived from the encoded
// length of its record and checked against it on decode. Reserved fields are skipped on
// decode and written as zeros.
//
// The codec keeps no state between calls and never retains the input slice, so it is safe
// to decode and encode independent buffers from many goroutines.
package catbuffer
