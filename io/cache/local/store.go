// Copyright 2026 BlueBoxy Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package local provides a cache store that keeps entries as files in a
// directory, so cached results survive process restarts.
package local

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/blueboxy/remotecall/internal/logging"
	"github.com/blueboxy/remotecall/models"
	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

const (
	// fileExt is the extension of entry files.
	fileExt = ".rce"
	// tmpPattern is the pattern of files being written.
	tmpPattern = ".tmp-*"
	// magic identifies the entry file format.
	magic = "RCE1"

	flagCompressed byte = 1

	// maxKeyLen bounds the key length read from a file header.
	maxKeyLen = 64 * 1024
)

var errBadFormat = errors.New("bad cache entry file format")

// meta describes a stored entry without its value.
type meta struct {
	file      string
	writtenAt time.Time
	ttl       time.Duration
	size      int64
}

// Store is a directory-backed cache store. An in-memory index of the
// directory is built when the store is opened.
type Store struct {
	mu     sync.RWMutex
	dir    string
	index  map[string]*meta
	byFile map[string]string
	size   int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	logger *slog.Logger
}

// Opt is a functional option that allows configuring the [Store].
type Opt func(*Store)

// WithLogger sets the logger for the [Store].
func WithLogger(logger *slog.Logger) Opt {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore opens the store in dir, creating the directory if needed.
// Unreadable entry files are removed.
func NewStore(dir string, opts ...Opt) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory is empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	s := &Store{
		dir:     dir,
		index:   make(map[string]*meta),
		byFile:  make(map[string]string),
		encoder: enc,
		decoder: dec,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = logging.WithStore(s.logger, logging.StoreTypeLocal).With(slog.String("dir", dir))

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// load builds the index from the files in the directory.
func (s *Store) load() error {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory %s: %w", s.dir, err)
	}

	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), fileExt) {
			continue
		}

		path := filepath.Join(s.dir, de.Name())

		entry, err := readEntryFile(path, s.decoder, true)
		if err != nil {
			s.logger.Warn("removing unreadable cache file",
				slog.String("file", de.Name()),
				slog.Any("error", err),
			)

			_ = os.Remove(path)

			continue
		}

		info, err := de.Info()
		if err != nil {
			continue
		}

		s.indexEntry(entry, de.Name(), info.Size())
	}

	s.logger.Debug("cache loaded", slog.Int("entries", len(s.index)))

	return nil
}

// fileName returns the entry file name for key.
func fileName(key string) string {
	return strconv.FormatUint(xxhash.Sum64String(key), 16) + fileExt
}

func (s *Store) indexEntry(entry *models.CacheEntry, file string, size int64) {
	if prevKey, ok := s.byFile[file]; ok && prevKey != entry.Key {
		s.unindex(prevKey)
	}

	if prev, ok := s.index[entry.Key]; ok {
		s.size -= prev.size
	}

	s.index[entry.Key] = &meta{
		file:      file,
		writtenAt: entry.WrittenAt,
		ttl:       entry.TTL,
		size:      size,
	}
	s.byFile[file] = entry.Key
	s.size += size
}

func (s *Store) unindex(key string) *meta {
	m, ok := s.index[key]
	if !ok {
		return nil
	}

	s.size -= m.size
	delete(s.index, key)
	delete(s.byFile, m.file)

	return m
}

// Get reads the entry stored for key, expired or not. A file that cannot be
// read is removed and reported as a miss.
func (s *Store) Get(key string) (*models.CacheEntry, bool) {
	s.mu.RLock()
	m, ok := s.index[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	path := filepath.Join(s.dir, m.file)

	entry, err := readEntryFile(path, s.decoder, false)
	if err == nil && entry.Key != key {
		err = fmt.Errorf("file %s holds key %q", m.file, entry.Key)
	}

	if errors.Is(err, fs.ErrNotExist) {
		// Removed by a concurrent Delete.
		return nil, false
	}

	if err != nil {
		s.logger.Error("failed to read cache entry",
			slog.String("key", key),
			slog.Any("error", err),
		)

		_ = s.Delete(key)

		return nil, false
	}

	return entry, true
}

// Set writes entry to its file, replacing any previous entry for the same key.
func (s *Store) Set(entry *models.CacheEntry) error {
	if entry == nil {
		return fmt.Errorf("cache entry is nil")
	}

	data := encodeEntry(entry, s.encoder)
	file := fileName(entry.Key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(filepath.Join(s.dir, file), data); err != nil {
		return fmt.Errorf("failed to write cache entry %q: %w", entry.Key, err)
	}

	s.indexEntry(entry, file, int64(len(data)))

	return nil
}

// Delete removes the entry for key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteLocked(key)
}

func (s *Store) deleteLocked(key string) error {
	m := s.unindex(key)
	if m == nil {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, m.file))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove cache entry %q: %w", key, err)
	}

	return nil
}

// Clear removes all entries.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error

	for key := range s.index {
		if err := s.deleteLocked(key); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Prune removes entries that are no longer valid at now and returns their number.
func (s *Store) Prune(now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		removed int
		errs    []error
	)

	for key, m := range s.index {
		if now.Sub(m.writtenAt) < m.ttl {
			continue
		}

		if err := s.deleteLocked(key); err != nil {
			errs = append(errs, err)
			continue
		}

		removed++
	}

	return removed, errors.Join(errs...)
}

// Stats returns the number of entries and their size on disk.
func (s *Store) Stats() models.CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.CacheStats{
		Entries:    len(s.index),
		ApproxSize: s.size,
	}
}

// encodeEntry serializes entry: magic, flags, key length, key, written at,
// ttl, value. The value is compressed when that makes it smaller.
func encodeEntry(entry *models.CacheEntry, enc *zstd.Encoder) []byte {
	var flags byte

	value := entry.Value
	if compressed := enc.EncodeAll(entry.Value, nil); len(compressed) < len(value) {
		value = compressed
		flags |= flagCompressed
	}

	buf := bytes.NewBuffer(make([]byte, 0, len(magic)+1+4+len(entry.Key)+16+len(value)))
	buf.WriteString(magic)
	buf.WriteByte(flags)
	_ = binary.Write(buf, binary.BigEndian, uint32(len(entry.Key)))
	buf.WriteString(entry.Key)
	_ = binary.Write(buf, binary.BigEndian, entry.WrittenAt.UnixNano())
	_ = binary.Write(buf, binary.BigEndian, int64(entry.TTL))
	buf.Write(value)

	return buf.Bytes()
}

// readEntryFile reads and decodes an entry file. If headerOnly is set, the
// value is not read.
func readEntryFile(path string, dec *zstd.Decoder, headerOnly bool) (*models.CacheEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decodeEntry(f, dec, headerOnly)
}

func decodeEntry(r io.Reader, dec *zstd.Decoder, headerOnly bool) (*models.CacheEntry, error) {
	header := make([]byte, len(magic)+1)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadFormat, err)
	}

	if string(header[:len(magic)]) != magic {
		return nil, fmt.Errorf("%w: magic mismatch", errBadFormat)
	}

	flags := header[len(magic)]

	var keyLen uint32
	if err := binary.Read(r, binary.BigEndian, &keyLen); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadFormat, err)
	}

	if keyLen == 0 || keyLen > maxKeyLen {
		return nil, fmt.Errorf("%w: key length %d", errBadFormat, keyLen)
	}

	key := make([]byte, keyLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadFormat, err)
	}

	var writtenAt, ttl int64
	if err := binary.Read(r, binary.BigEndian, &writtenAt); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadFormat, err)
	}

	if err := binary.Read(r, binary.BigEndian, &ttl); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadFormat, err)
	}

	entry := &models.CacheEntry{
		Key:       string(key),
		WrittenAt: time.Unix(0, writtenAt),
		TTL:       time.Duration(ttl),
	}

	if headerOnly {
		return entry, nil
	}

	value, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if flags&flagCompressed != 0 {
		value, err = dec.DecodeAll(value, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress value: %w", err)
		}
	}

	entry.Value = value

	return entry, nil
}

// writeFileAtomic writes data to path by writing to a temp file in the same
// directory and renaming it into place.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), tmpPattern)
	if err != nil {
		return err
	}

	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	tmpPath = ""

	return nil
}
