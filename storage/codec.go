package storage

import (
	"bytes"
	"compress/gzip"
	"compress/lzw"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/staxeio/staxe-go/production"
)

// Compression selects how record snapshots are compressed at rest.
type Compression int32

const (
	CompressNone Compression = iota
	CompressLZW
	CompressGZIP
)

// maxRecordSize bounds a decompressed snapshot.
var maxRecordSize = 64 << 20

func (c Compression) String() string {
	switch c {
	case CompressNone:
		return "none"
	case CompressLZW:
		return "lzw"
	case CompressGZIP:
		return "gzip"
	}
	return fmt.Sprintf("compression(%d)", int32(c))
}

// encodeRecord serializes rec as one scheme byte followed by the compressed
// gob encoding.
func encodeRecord(rec *production.Record, scheme Compression) ([]byte, error) {
	if rec == nil {
		return nil, ErrNilRecord
	}
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(rec); err != nil {
		return nil, fmt.Errorf("storage: encode record %d: %w", rec.Production.ID, err)
	}
	body, err := compress(raw.Bytes(), scheme)
	if err != nil {
		return nil, err
	}
	return append([]byte{byte(scheme)}, body...), nil
}

func decodeRecord(data []byte) (*production.Record, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty value", ErrCorruptRecord)
	}
	raw, err := decompress(data[1:], Compression(data[0]))
	if err != nil {
		return nil, err
	}
	var rec production.Record
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return &rec, nil
}

func compress(data []byte, scheme Compression) ([]byte, error) {
	switch scheme {
	case CompressNone:
		return data, nil
	case CompressLZW:
		var buf bytes.Buffer
		w := lzw.NewWriter(&buf, lzw.LSB, 8)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressGZIP:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, scheme)
}

func decompress(data []byte, scheme Compression) ([]byte, error) {
	var r io.Reader
	switch scheme {
	case CompressNone:
		return data, nil
	case CompressLZW:
		lr := lzw.NewReader(bytes.NewReader(data), lzw.LSB, 8)
		defer lr.Close()
		r = lr
	case CompressGZIP:
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
		}
		defer gr.Close()
		r = gr
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, scheme)
	}
	out, err := io.ReadAll(io.LimitReader(r, int64(maxRecordSize)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if len(out) > maxRecordSize {
		return nil, ErrDecompressedTooLarge
	}
	return out, nil
}
