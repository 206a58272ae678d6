// Package store persists the product collection and the config singleton to
// flat record files with crash-safe replacement.
//
// Each kind of record lives in three files inside the data directory:
//
//	products.dat  primary, read at startup
//	products.tmp  scratch file for an in-progress save
//	products.bak  the primary as it was before the last successful rotation
//
// and the same for config.dat.
//
// # File format
//
//	header: "SIPRI\x00" | uint16 BE format version | kind byte
//	frame:  uint32 BE payload length | payload | SHA-256 checksum
//
// Payloads are canonical JSON (see catalog.MarshalCanonical). Checksums use
// domain separation per record kind, so a config frame never validates as a
// product frame.
//
// # Save protocol
//
//  1. Write every frame to the temp file, flush, fsync, close. Any failure
//     removes the temp file; the primary is untouched.
//  2. If a primary exists: remove the stale backup, rename primary to backup.
//  3. Rename temp to primary. On failure, restore the backup rotated in step 2.
//
// A crash at any point leaves either the old or the new primary in place, or
// (between steps 2 and 3) a backup that `sipri restore` promotes. The
// directory itself is not fsynced, so a power loss may still lose the last
// rename.
//
// # Load
//
// Loading stops without error at a short frame, an oversized length, a
// checksum mismatch or an undecodable payload and keeps every record read
// before it. A header with the wrong magic, version or kind is
// ErrUnknownFormat.
package store
