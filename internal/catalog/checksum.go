package catalog

import (
	"crypto/sha256"
)

// Domain prefixes for record checksums.
// Version suffix enables future algorithm migration.
const (
	DomainProduct = "sipri/product/v1"
	DomainConfig  = "sipri/config/v1"
)

// ChecksumSize is the length in bytes of a record checksum.
const ChecksumSize = sha256.Size

// Checksum computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity, so a
// config payload can never validate as a product frame.
func Checksum(domain string, data []byte) [ChecksumSize]byte {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	var sum [ChecksumSize]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
