// Package container reads and rewrites section archives: a run of
// sections, each a 6-byte little-endian header followed by a gzip payload.
//
// Header layout:
//
//	[0:2] compressed payload size
//	[2:4] uncompressed size
//	[4:6] section ID
package container

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// HeaderSize is the length of a section header.
const HeaderSize = 6

// MaxSize is the largest size a header field can carry.
const MaxSize = 0xFFFF

// Container errors.
var (
	ErrTruncated    = errors.New("section truncated")
	ErrTooLarge     = errors.New("section exceeds header size limit")
	ErrSizeMismatch = errors.New("decompressed size does not match header")
	ErrNoSection    = errors.New("section not found")
)

// Header is the fixed prefix of every section.
type Header struct {
	CompressedSize   uint16
	UncompressedSize uint16
	SectionID        uint16
}

// ParseHeader decodes the header at the start of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d header bytes", ErrTruncated, len(b))
	}
	return Header{
		CompressedSize:   binary.LittleEndian.Uint16(b[0:]),
		UncompressedSize: binary.LittleEndian.Uint16(b[2:]),
		SectionID:        binary.LittleEndian.Uint16(b[4:]),
	}, nil
}

// Encode returns the 6 header bytes.
func (h Header) Encode() []byte {
	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint16(b[0:], h.CompressedSize)
	binary.LittleEndian.PutUint16(b[2:], h.UncompressedSize)
	binary.LittleEndian.PutUint16(b[4:], h.SectionID)
	return b
}

// Section is one header plus its compressed payload.
type Section struct {
	Header  Header
	Payload []byte
}

// ReadSection parses the section at the start of b and returns it along
// with the number of bytes it occupies. The payload aliases b.
func ReadSection(b []byte) (*Section, int, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, 0, err
	}
	end := HeaderSize + int(h.CompressedSize)
	if end > len(b) {
		return nil, 0, fmt.Errorf("%w: section %d declares %d payload bytes, %d present",
			ErrTruncated, h.SectionID, h.CompressedSize, len(b)-HeaderSize)
	}
	return &Section{Header: h, Payload: b[HeaderSize:end]}, end, nil
}

// Decompress inflates the payload and checks it against the declared
// uncompressed size.
func (s *Section) Decompress() ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(s.Payload))
	if err != nil {
		return nil, fmt.Errorf("section %d: %w", s.Header.SectionID, err)
	}
	defer zr.Close()

	plain, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("section %d: inflating: %w", s.Header.SectionID, err)
	}
	if len(plain) != int(s.Header.UncompressedSize) {
		return nil, fmt.Errorf("%w: section %d has %d bytes, header says %d",
			ErrSizeMismatch, s.Header.SectionID, len(plain), s.Header.UncompressedSize)
	}
	return plain, nil
}

// Compress builds a section holding plain under the given ID.
func Compress(id uint16, plain []byte) (*Section, error) {
	if len(plain) > MaxSize {
		return nil, fmt.Errorf("%w: %d plain bytes", ErrTooLarge, len(plain))
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(plain); err != nil {
		return nil, fmt.Errorf("deflating: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("deflating: %w", err)
	}
	if buf.Len() > MaxSize {
		return nil, fmt.Errorf("%w: %d compressed bytes", ErrTooLarge, buf.Len())
	}

	return &Section{
		Header: Header{
			CompressedSize:   uint16(buf.Len()),
			UncompressedSize: uint16(len(plain)),
			SectionID:        id,
		},
		Payload: buf.Bytes(),
	}, nil
}

// Bytes returns the header followed by the payload.
func (s *Section) Bytes() []byte {
	out := make([]byte, 0, HeaderSize+len(s.Payload))
	out = append(out, s.Header.Encode()...)
	return append(out, s.Payload...)
}

// Repack decompresses section using its declared sizes, compresses the
// plain bytes again and returns the section with a rewritten header. The
// section ID is kept.
func Repack(section []byte) ([]byte, error) {
	s, _, err := ReadSection(section)
	if err != nil {
		return nil, err
	}
	plain, err := s.Decompress()
	if err != nil {
		return nil, err
	}
	out, err := Compress(s.Header.SectionID, plain)
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Archive is an in-memory sequence of sections.
type Archive struct {
	sections []*Section
}

// Parse splits data into sections. A zero-filled tail is treated as padding.
func Parse(data []byte) (*Archive, error) {
	a := &Archive{}
	for off := 0; off < len(data); {
		if isPadding(data[off:]) {
			break
		}
		s, n, err := ReadSection(data[off:])
		if err != nil {
			return nil, fmt.Errorf("offset %#x: %w", off, err)
		}
		a.sections = append(a.sections, s)
		off += n
	}
	return a, nil
}

// Open reads and parses an archive file.
func Open(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	a, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

func isPadding(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// Len returns the number of sections.
func (a *Archive) Len() int {
	return len(a.sections)
}

// List returns the section headers in archive order.
func (a *Archive) List() []Header {
	out := make([]Header, len(a.sections))
	for i, s := range a.sections {
		out[i] = s.Header
	}
	return out
}

// Read returns the decompressed bytes of section i.
func (a *Archive) Read(i int) ([]byte, error) {
	if i < 0 || i >= len(a.sections) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrNoSection, i, len(a.sections))
	}
	return a.sections[i].Decompress()
}

// Replace recompresses plain into section i, keeping its ID.
func (a *Archive) Replace(i int, plain []byte) error {
	if i < 0 || i >= len(a.sections) {
		return fmt.Errorf("%w: index %d of %d", ErrNoSection, i, len(a.sections))
	}
	s, err := Compress(a.sections[i].Header.SectionID, plain)
	if err != nil {
		return fmt.Errorf("section %d: %w", i, err)
	}
	a.sections[i] = s
	return nil
}

// Repack recompresses section i in place with a rewritten header.
func (a *Archive) Repack(i int) error {
	if i < 0 || i >= len(a.sections) {
		return fmt.Errorf("%w: index %d of %d", ErrNoSection, i, len(a.sections))
	}
	raw, err := Repack(a.sections[i].Bytes())
	if err != nil {
		return fmt.Errorf("section %d: %w", i, err)
	}
	s, _, err := ReadSection(raw)
	if err != nil {
		return err
	}
	a.sections[i] = s
	return nil
}

// Append adds a section holding plain under the given ID.
func (a *Archive) Append(id uint16, plain []byte) error {
	s, err := Compress(id, plain)
	if err != nil {
		return err
	}
	a.sections = append(a.sections, s)
	return nil
}

// Bytes serializes every section back to back.
func (a *Archive) Bytes() []byte {
	var buf bytes.Buffer
	for _, s := range a.sections {
		buf.Write(s.Header.Encode())
		buf.Write(s.Payload)
	}
	return buf.Bytes()
}

// WriteFile writes the archive to path.
func (a *Archive) WriteFile(path string) error {
	return os.WriteFile(path, a.Bytes(), 0644)
}
