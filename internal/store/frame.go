package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/sipri/internal/catalog"
)

// Format constants.
const (
	magic                = "SIPRI\x00"
	formatVersion uint16 = 1
	headerSize           = len(magic) + 2 + 1
	maxPayload           = 64 << 10
)

var (
	// ErrUnknownFormat reports a file that is not a record file of the
	// expected kind and version.
	ErrUnknownFormat = errors.New("unknown record file format")

	// errTruncated marks a frame cut short by a crash or partial copy.
	errTruncated = errors.New("truncated frame")

	// errCorrupt marks a frame whose length or checksum is invalid.
	errCorrupt = errors.New("corrupt frame")
)

// Kind identifies what a record file holds.
type Kind byte

const (
	KindProduct Kind = 1
	KindConfig  Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindProduct:
		return "products"
	case KindConfig:
		return "config"
	default:
		return fmt.Sprintf("Kind(%d)", byte(k))
	}
}

// ParseKind accepts "products" or "config".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "products", "product":
		return KindProduct, nil
	case "config":
		return KindConfig, nil
	}
	return 0, fmt.Errorf("unknown record kind %q (want products or config)", s)
}

func (k Kind) domain() string {
	if k == KindConfig {
		return catalog.DomainConfig
	}
	return catalog.DomainProduct
}

func writeHeader(w io.Writer, kind Kind) error {
	var hdr [headerSize]byte
	copy(hdr[:], magic)
	binary.BigEndian.PutUint16(hdr[len(magic):], formatVersion)
	hdr[headerSize-1] = byte(kind)
	_, err := w.Write(hdr[:])
	return err
}

// readHeader returns errTruncated for a file shorter than a header and
// ErrUnknownFormat for a header that does not match.
func readHeader(r io.Reader, kind Kind) error {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return errTruncated
		}
		return err
	}
	if string(hdr[:len(magic)]) != magic {
		return fmt.Errorf("%w: bad magic", ErrUnknownFormat)
	}
	if v := binary.BigEndian.Uint16(hdr[len(magic):]); v != formatVersion {
		return fmt.Errorf("%w: version %d", ErrUnknownFormat, v)
	}
	if got := Kind(hdr[headerSize-1]); got != kind {
		return fmt.Errorf("%w: holds %s, want %s", ErrUnknownFormat, got, kind)
	}
	return nil
}

func writeFrame(w io.Writer, domain string, payload []byte) error {
	if len(payload) > maxPayload {
		return fmt.Errorf("payload of %d bytes: %w", len(payload), catalog.ErrRecordTooLarge)
	}
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(payload)))
	sum := catalog.Checksum(domain, payload)
	for _, b := range [][]byte{n[:], payload, sum[:]} {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// readFrame returns the next payload, io.EOF at a clean end of stream,
// errTruncated for a short frame and errCorrupt for a bad length or checksum.
func readFrame(r io.Reader, domain string) ([]byte, error) {
	var n [4]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errTruncated
		}
		return nil, err
	}

	size := binary.BigEndian.Uint32(n[:])
	if size > maxPayload {
		return nil, fmt.Errorf("%w: length %d", errCorrupt, size)
	}

	buf := make([]byte, int(size)+catalog.ChecksumSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errTruncated
		}
		return nil, err
	}

	payload, sum := buf[:size], buf[size:]
	want := catalog.Checksum(domain, payload)
	if !bytes.Equal(sum, want[:]) {
		return nil, fmt.Errorf("%w: checksum mismatch", errCorrupt)
	}
	return payload, nil
}
