package store

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/roach88/sipri/internal/catalog"
)

// ErrNoBackup reports a restore with no backup file to promote.
var ErrNoBackup = errors.New("no backup file")

// Store reads and writes the record files of one data directory.
//
// Store is not safe for concurrent use, and two processes must not save to
// the same directory at once.
type Store struct {
	dir    string
	logger *zap.Logger

	// Filesystem hooks, replaced in tests to inject failures.
	rename func(oldpath, newpath string) error
	remove func(name string) error
}

// New returns a store rooted at dir. A nil logger discards output.
func New(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		dir:    dir,
		logger: logger,
		rename: os.Rename,
		remove: os.Remove,
	}
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

type fileSet struct {
	primary, temp, backup string
}

func (s *Store) files(kind Kind) fileSet {
	base := filepath.Join(s.dir, kind.String())
	return fileSet{
		primary: base + ".dat",
		temp:    base + ".tmp",
		backup:  base + ".bak",
	}
}

// codec binds a record kind to its payload encoding and per-file limit.
type codec[T any] struct {
	kind   Kind
	limit  int
	encode func(T) ([]byte, error)
	decode func([]byte) (T, error)
}

var (
	productCodec = codec[catalog.Product]{
		kind:   KindProduct,
		limit:  catalog.MaxProducts,
		encode: catalog.EncodeProduct,
		decode: catalog.DecodeProduct,
	}
	configCodec = codec[catalog.Config]{
		kind:   KindConfig,
		limit:  1,
		encode: catalog.EncodeConfig,
		decode: catalog.DecodeConfig,
	}
)

// LoadProducts reads the product file. found is false when the file does not
// exist, which callers treat as a first run.
func (s *Store) LoadProducts() ([]catalog.Product, bool, error) {
	return loadRecords(s, productCodec)
}

// SaveProducts replaces the product file with products.
func (s *Store) SaveProducts(products []catalog.Product) error {
	if len(products) > catalog.MaxProducts {
		return fmt.Errorf("save products: %d records: %w", len(products), catalog.ErrCapacity)
	}
	return saveRecords(s, productCodec, products)
}

// LoadConfig reads the config file. found is false when no valid config
// record could be read; the zero Config is returned in that case.
func (s *Store) LoadConfig() (catalog.Config, bool, error) {
	configs, _, err := loadRecords(s, configCodec)
	if err != nil || len(configs) == 0 {
		return catalog.Config{}, false, err
	}
	cfg := configs[0]
	if err := cfg.Validate(); err != nil {
		s.logger.Warn("ignoring invalid config record", zap.Error(err))
		return catalog.Config{}, false, nil
	}
	return cfg, true, nil
}

// SaveConfig replaces the config file with cfg.
func (s *Store) SaveConfig(cfg catalog.Config) error {
	return saveRecords(s, configCodec, []catalog.Config{cfg})
}

// Orphaned reports a backup of kind with no primary beside it, the state a
// save leaves behind when it stops between rotating the backup and renaming
// the new file into place. Saving in that state would eventually rotate the
// backup away, so callers should restore first.
func (s *Store) Orphaned(kind Kind) bool {
	files := s.files(kind)
	if _, err := os.Stat(files.primary); !errors.Is(err, fs.ErrNotExist) {
		return false
	}
	_, err := os.Stat(files.backup)
	return err == nil
}

// RestoreBackup promotes the backup of kind to primary with the same
// protocol as a save. The replaced primary becomes the new backup, so a
// second restore undoes the first.
func (s *Store) RestoreBackup(kind Kind) error {
	files := s.files(kind)

	data, err := os.ReadFile(files.backup)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("restore %s: %w", kind, ErrNoBackup)
	}
	if err != nil {
		return fmt.Errorf("restore %s: %w", kind, err)
	}

	if err := readHeader(bytes.NewReader(data), kind); err != nil && !errors.Is(err, errTruncated) {
		return fmt.Errorf("restore %s: %w", kind, err)
	}

	if err := writeFileSynced(files.temp, data); err != nil {
		s.remove(files.temp)
		return fmt.Errorf("restore %s: %w", kind, err)
	}
	if err := s.promote(files, kind); err != nil {
		return fmt.Errorf("restore %s: %w", kind, err)
	}
	return nil
}

func loadRecords[T any](s *Store, c codec[T]) ([]T, bool, error) {
	path := s.files(c.kind).primary

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", c.kind, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	if err := readHeader(r, c.kind); err != nil {
		if errors.Is(err, errTruncated) {
			s.logger.Warn("record file has no complete header", zap.String("path", path))
			return []T{}, true, nil
		}
		return nil, false, fmt.Errorf("load %s: %w", c.kind, err)
	}

	out := []T{}
	domain := c.kind.domain()
	for len(out) < c.limit {
		payload, err := readFrame(r, domain)
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, errTruncated) || errors.Is(err, errCorrupt) {
			s.logger.Warn("stopping at damaged record",
				zap.String("path", path),
				zap.Int("record", len(out)+1),
				zap.Error(err))
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("load %s: record %d: %w", c.kind, len(out)+1, err)
		}

		v, err := c.decode(payload)
		if err != nil {
			s.logger.Warn("stopping at undecodable record",
				zap.String("path", path),
				zap.Int("record", len(out)+1),
				zap.Error(err))
			break
		}
		out = append(out, v)
	}
	return out, true, nil
}

func saveRecords[T any](s *Store, c codec[T], items []T) error {
	files := s.files(c.kind)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("save %s: %w", c.kind, err)
	}
	if err := writeTemp(files.temp, c, items); err != nil {
		s.remove(files.temp)
		return fmt.Errorf("save %s: %w", c.kind, err)
	}
	if err := s.promote(files, c.kind); err != nil {
		return fmt.Errorf("save %s: %w", c.kind, err)
	}
	return nil
}

// writeTemp writes a complete record file to path and syncs it.
func writeTemp[T any](path string, c codec[T], items []T) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	w := bufio.NewWriter(f)
	err = writeHeader(w, c.kind)
	domain := c.kind.domain()
	for i := 0; err == nil && i < len(items); i++ {
		var payload []byte
		payload, err = c.encode(items[i])
		if err != nil {
			err = fmt.Errorf("record %d: %w", i+1, err)
			break
		}
		err = writeFrame(w, domain, payload)
	}
	if err == nil {
		err = w.Flush()
	}
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func writeFileSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// promote rotates the primary to backup and moves the temp file into place.
// The temp file never survives a call.
func (s *Store) promote(files fileSet, kind Kind) error {
	rotated := false

	_, err := os.Stat(files.primary)
	switch {
	case err == nil:
		if err := s.remove(files.backup); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("could not remove stale backup", zap.String("path", files.backup), zap.Error(err))
		}
		if err := s.rename(files.primary, files.backup); err != nil {
			s.logger.Error("backup rotation failed, primary left in place",
				zap.Stringer("kind", kind), zap.Error(err))
			s.remove(files.temp)
			return fmt.Errorf("rotate backup: %w", err)
		}
		rotated = true
	case !errors.Is(err, fs.ErrNotExist):
		s.remove(files.temp)
		return fmt.Errorf("stat primary: %w", err)
	}

	if err := s.rename(files.temp, files.primary); err != nil {
		s.logger.Error("replacing primary failed",
			zap.Stringer("kind", kind), zap.Bool("restoring_backup", rotated), zap.Error(err))
		if rotated {
			if rerr := s.rename(files.backup, files.primary); rerr != nil {
				s.logger.Error("restoring backup failed; run `sipri restore`",
					zap.Stringer("kind", kind), zap.Error(rerr))
			}
		}
		s.remove(files.temp)
		return fmt.Errorf("replace primary: %w", err)
	}
	return nil
}
