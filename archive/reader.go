// Package archive reads account records out of zstd-compressed tar snapshot
// archives.
//
// A snapshot archive is a .tar.zst stream whose member files ending in
// ".account" each hold one fixed-layout account record: a 96-byte header
// followed by the account payload. The Reader streams the archive forward
// only, decompressing on the fly, so arbitrarily large snapshots are parsed
// in constant memory.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/slonana-labs/limcode/endian"
	"github.com/slonana-labs/limcode/internal/pool"
)

// Account record header layout, all integers little-endian:
//
//	[0:32)  pubkey
//	[32:40) lamports
//	[40:48) payload byte length
//	[48:80) owner
//	[80]    executable flag
//	[88:96) rent epoch
//	[96:)   payload
const headerSize = 96

// Account is one account record parsed from a snapshot archive.
type Account struct {
	Pubkey     [32]byte
	Lamports   uint64
	Owner      [32]byte
	Executable bool
	RentEpoch  uint64
	// Data is the account payload. It is owned by the caller and remains
	// valid after the Reader advances.
	Data []byte
}

// ErrShortRecord is returned by ParseAccount when the record is smaller than
// the fixed header.
var ErrShortRecord = errors.New("archive: account record shorter than header")

// Reader streams account records from a zstd-compressed tar archive.
//
// Reader is forward-only: each call to Next consumes the underlying stream up
// to and including the returned record. Entries that are not account records
// (version files, manifests, directories) are skipped. Reader is not safe for
// concurrent use.
type Reader struct {
	zr  *zstd.Decoder
	tr  *tar.Reader
	buf *pool.ByteBuffer
}

// NewReader wraps r, which must produce a zstd-compressed tar stream.
// Close must be called to release the decompressor.
func NewReader(r io.Reader) (*Reader, error) {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("archive: open zstd stream: %w", err)
	}

	return &Reader{
		zr:  zr,
		tr:  tar.NewReader(zr),
		buf: pool.GetRecordBuffer(),
	}, nil
}

// Next returns the next account record, or io.EOF when the archive is
// exhausted. Records too short to hold the fixed header are skipped, matching
// the tolerant behavior expected of snapshot consumers.
func (r *Reader) Next() (Account, error) {
	for {
		hdr, err := r.tr.Next()
		if err != nil {
			return Account{}, err
		}
		if hdr.Typeflag != tar.TypeReg || !strings.HasSuffix(hdr.Name, ".account") {
			continue
		}

		r.buf.SetLength(0)
		r.buf.ExtendOrGrow(int(hdr.Size))
		record := r.buf.Bytes()
		if _, err := io.ReadFull(r.tr, record); err != nil {
			return Account{}, fmt.Errorf("archive: read %s: %w", hdr.Name, err)
		}

		acc, err := ParseAccount(record)
		if err != nil {
			continue
		}

		return acc, nil
	}
}

// ReadAll drains the archive and returns every account record.
func (r *Reader) ReadAll() ([]Account, error) {
	var accounts []Account
	for {
		acc, err := r.Next()
		if errors.Is(err, io.EOF) {
			return accounts, nil
		}
		if err != nil {
			return accounts, err
		}
		accounts = append(accounts, acc)
	}
}

// Close releases the decompressor and the pooled record buffer. The Reader
// must not be used afterwards.
func (r *Reader) Close() {
	r.zr.Close()
	if r.buf != nil {
		pool.PutRecordBuffer(r.buf)
		r.buf = nil
	}
}

// ParseAccount parses one raw account record.
//
// The payload length field is clamped against the record size: a record whose
// declared length overruns the available bytes yields an empty payload rather
// than an error, since truncated trailing records occur in real archives.
func ParseAccount(record []byte) (Account, error) {
	if len(record) < headerSize {
		return Account{}, ErrShortRecord
	}

	le := endian.Little()
	var acc Account
	copy(acc.Pubkey[:], record[0:32])
	acc.Lamports = le.Uint64(record[32:40])
	dataLen := int(le.Uint64(record[40:48]))
	copy(acc.Owner[:], record[48:80])
	acc.Executable = record[80] != 0
	acc.RentEpoch = le.Uint64(record[88:96])

	if dataLen > 0 && len(record) >= headerSize+dataLen {
		acc.Data = make([]byte, dataLen)
		copy(acc.Data, record[headerSize:headerSize+dataLen])
	}

	return acc, nil
}
