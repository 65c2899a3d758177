package sqlite

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"github.com/ValentinKolb/sqKV/lib/db"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/xxh3"
	"io"
)

// --------------------------------------------------------------------------
// Dump format
// --------------------------------------------------------------------------

// A dump starts with an uncompressed header (magic + version) followed by a zstd
// stream of records. Each record is
//
//	tag (1 byte) | key length (uint32) | key | value length (uint32) | value
//
// The stream ends with tagEnd and the xxh3 checksum (uint64) of all record bytes.
// All integers are little endian.
const (
	magicNum    = "SQKVDUMP"
	dumpVersion = 1

	tagEnd    uint8 = 0
	tagString uint8 = 1
	tagSet    uint8 = 2

	maxFieldLen = 512 * 1024 * 1024
)

type dumpRecord struct {
	tag   uint8
	key   string
	value []byte
}

// --------------------------------------------------------------------------
// SQLDB Interface Implementation - Persistence
// --------------------------------------------------------------------------

// Save writes all string entries and set members to w
func (s *sqliteImpl) Save(w io.Writer) error {
	if !s.IsOpen() {
		return db.ErrClosed
	}

	bw := bufio.NewWriterSize(w, 1024*1024) // 1 MB buffer

	// Write file header
	if _, err := bw.WriteString(magicNum); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint8(dumpVersion)); err != nil {
		return err
	}

	enc, err := zstd.NewWriter(bw, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	// records are hashed uncompressed
	hasher := xxh3.New()
	out := io.MultiWriter(enc, hasher)

	count := 0
	for _, table := range []struct {
		tag   uint8
		query string
	}{
		{tagString, `SELECT key, val FROM string ORDER BY key`},
		{tagSet, `SELECT key, val FROM sets ORDER BY key, id`},
	} {
		n, err := s.dumpTable(out, table.tag, table.query)
		if err != nil {
			_ = enc.Close()
			return err
		}
		count += n
	}

	// end marker and checksum are not part of the hash
	if err := binary.Write(enc, binary.LittleEndian, tagEnd); err != nil {
		_ = enc.Close()
		return err
	}
	if err := binary.Write(enc, binary.LittleEndian, hasher.Sum64()); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	Logger.Infof("saved %d records from %s", count, s.opts.Path)
	return bw.Flush()
}

// dumpTable streams every (key, val) row of a query as records with the given tag
func (s *sqliteImpl) dumpTable(w io.Writer, tag uint8, query string) (int, error) {
	rows, err := s.conn.Query(query)
	if err != nil {
		return 0, fmt.Errorf("sqlite: dump: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return count, fmt.Errorf("sqlite: dump: %w", err)
		}
		if err := writeRecord(w, dumpRecord{tag: tag, key: key, value: value}); err != nil {
			return count, err
		}
		count++
	}
	return count, rows.Err()
}

func writeRecord(w io.Writer, rec dumpRecord) error {
	if err := binary.Write(w, binary.LittleEndian, rec.tag); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(rec.key))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, rec.key); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(rec.value))); err != nil {
		return err
	}
	_, err := w.Write(rec.value)
	return err
}

// Load replaces the contents of both tables with the dump read from r.
// The whole dump is verified before the database is touched.
func (s *sqliteImpl) Load(r io.Reader) error {
	if !s.IsOpen() {
		return db.ErrClosed
	}

	records, err := readDump(r)
	if err != nil {
		return err
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("sqlite: load: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM string`); err != nil {
		return fmt.Errorf("sqlite: load: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM sets`); err != nil {
		return fmt.Errorf("sqlite: load: %w", err)
	}

	insertString, err := tx.Prepare(`INSERT OR REPLACE INTO string (key, val) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: load: %w", err)
	}
	defer insertString.Close()

	insertSet, err := tx.Prepare(`INSERT INTO sets (key, val) SELECT ?1, ?2 WHERE NOT EXISTS (SELECT 1 FROM sets WHERE key = ?1 AND val = ?2)`)
	if err != nil {
		return fmt.Errorf("sqlite: load: %w", err)
	}
	defer insertSet.Close()

	for _, rec := range records {
		switch rec.tag {
		case tagString:
			_, err = insertString.Exec(rec.key, rec.value)
		case tagSet:
			_, err = insertSet.Exec(rec.key, rec.value)
		}
		if err != nil {
			return fmt.Errorf("sqlite: load: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: load: %w", err)
	}

	Logger.Infof("loaded %d records into %s", len(records), s.opts.Path)
	return nil
}

// readDump decodes and verifies a complete dump
func readDump(r io.Reader) ([]dumpRecord, error) {
	br := bufio.NewReaderSize(r, 1024*1024) // 1 MB buffer

	// Read and verify magic number
	magicBytes := make([]byte, len(magicNum))
	if _, err := io.ReadFull(br, magicBytes); err != nil {
		return nil, err
	}
	if string(magicBytes) != magicNum {
		return nil, fmt.Errorf("invalid file format: magic number mismatch")
	}

	// Read and verify version
	var version uint8
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if int(version) != dumpVersion {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", version, dumpVersion)
	}

	dec, err := zstd.NewReader(br)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	hasher := xxh3.New()
	hashed := io.TeeReader(dec, hasher)

	var records []dumpRecord
	for {
		var tag uint8
		if err := binary.Read(dec, binary.LittleEndian, &tag); err != nil {
			return nil, fmt.Errorf("truncated dump: %w", err)
		}
		if tag == tagEnd {
			break
		}
		if tag != tagString && tag != tagSet {
			return nil, fmt.Errorf("invalid record tag %d", tag)
		}
		_, _ = hasher.Write([]byte{tag})

		key, err := readField(hashed)
		if err != nil {
			return nil, err
		}
		value, err := readField(hashed)
		if err != nil {
			return nil, err
		}
		records = append(records, dumpRecord{tag: tag, key: string(key), value: value})
	}

	var checksum uint64
	if err := binary.Read(dec, binary.LittleEndian, &checksum); err != nil {
		return nil, fmt.Errorf("truncated dump: %w", err)
	}
	if checksum != hasher.Sum64() {
		return nil, fmt.Errorf("checksum mismatch: dump is corrupt")
	}
	return records, nil
}

func readField(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("truncated dump: %w", err)
	}
	if n > maxFieldLen {
		return nil, fmt.Errorf("record field too large (%d bytes)", n)
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("truncated dump: %w", err)
	}
	return data, nil
}
