package index

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring"
	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/vexsearch/fieldmap/internal/document"
	"github.com/vexsearch/fieldmap/internal/schema"
	"github.com/vexsearch/fieldmap/internal/value"
	"github.com/vexsearch/fieldmap/internal/version"
)

var (
	ErrSnapshotFormat   = errors.New("invalid index snapshot")
	ErrSnapshotChecksum = errors.New("index snapshot checksum mismatch")
)

var snapshotMagic = [4]byte{'F', 'M', 'I', 'X'}

const snapshotHeaderSize = 24

// Snapshot serializes the index.
//
// Format:
//   - 4 bytes magic "FMIX"
//   - 4 bytes format version
//   - 8 bytes xxhash64 of the compressed body
//   - 8 bytes compressed body length
//   - zstd-compressed body
//
// The body holds, in order: document keys, the live bitmap, term postings,
// numeric values, sort values and stored values. Maps are written in sorted
// key order so equal indexes produce equal snapshots.
func (idx *Index) Snapshot() ([]byte, error) {
	idx.mu.RLock()
	body, err := idx.encodeBody()
	idx.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	compressed, err := compress(body)
	if err != nil {
		return nil, fmt.Errorf("failed to compress snapshot: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(snapshotHeaderSize + len(compressed))
	buf.Write(snapshotMagic[:])
	writeUint32(&buf, uint32(version.SnapshotFormatVersionCurrent))
	writeUint64(&buf, xxhash.Sum64(compressed))
	writeUint64(&buf, uint64(len(compressed)))
	buf.Write(compressed)
	return buf.Bytes(), nil
}

func (idx *Index) encodeBody() ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, uint32(len(idx.ids)))
	for _, id := range idx.ids {
		if err := writeString(&buf, id.Key()); err != nil {
			return nil, err
		}
	}
	if err := writeBitmap(&buf, idx.live); err != nil {
		return nil, err
	}

	fields := sortedKeys(idx.terms)
	writeUint32(&buf, uint32(len(fields)))
	for _, field := range fields {
		if err := writeString(&buf, field); err != nil {
			return nil, err
		}
		terms := sortedKeys(idx.terms[field])
		writeUint32(&buf, uint32(len(terms)))
		for _, term := range terms {
			if err := writeString(&buf, term); err != nil {
				return nil, err
			}
			if err := writeBitmap(&buf, idx.terms[field][term]); err != nil {
				return nil, err
			}
		}
	}

	fields = sortedKeys(idx.numbers)
	writeUint32(&buf, uint32(len(fields)))
	for _, field := range fields {
		if err := writeString(&buf, field); err != nil {
			return nil, err
		}
		perDoc := idx.numbers[field]
		docs := sortedDocs(perDoc)
		writeUint32(&buf, uint32(len(docs)))
		for _, doc := range docs {
			writeUint32(&buf, doc)
			writeUint32(&buf, uint32(len(perDoc[doc])))
			for _, n := range perDoc[doc] {
				writeUint64(&buf, math.Float64bits(n))
			}
		}
	}

	fields = sortedKeys(idx.sorts)
	writeUint32(&buf, uint32(len(fields)))
	for _, field := range fields {
		if err := writeString(&buf, field); err != nil {
			return nil, err
		}
		perDoc := idx.sorts[field]
		docs := sortedDocs(perDoc)
		writeUint32(&buf, uint32(len(docs)))
		for _, doc := range docs {
			writeUint32(&buf, doc)
			if err := writeBytesWithLen(&buf, value.Encode(perDoc[doc])); err != nil {
				return nil, err
			}
		}
	}

	docs := sortedDocs(idx.stored)
	writeUint32(&buf, uint32(len(docs)))
	for _, doc := range docs {
		writeUint32(&buf, doc)
		names := sortedKeys(idx.stored[doc])
		writeUint32(&buf, uint32(len(names)))
		for _, name := range names {
			if err := writeString(&buf, name); err != nil {
				return nil, err
			}
			vals := idx.stored[doc][name]
			if err := writeBytesWithLen(&buf, value.Encode(value.Array(vals...))); err != nil {
				return nil, err
			}
		}
	}

	return buf.Bytes(), nil
}

// LoadSnapshot restores an index written by Snapshot. s must be the schema
// the index was built with.
func LoadSnapshot(data []byte, s *schema.Schema) (*Index, error) {
	if len(data) < snapshotHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrSnapshotFormat, len(data))
	}
	if !bytes.Equal(data[:4], snapshotMagic[:]) {
		return nil, fmt.Errorf("%w: bad magic", ErrSnapshotFormat)
	}
	if err := version.CheckSnapshotVersion(int(binary.LittleEndian.Uint32(data[4:8]))); err != nil {
		return nil, err
	}
	checksum := binary.LittleEndian.Uint64(data[8:16])
	size := binary.LittleEndian.Uint64(data[16:24])
	compressed := data[snapshotHeaderSize:]
	if uint64(len(compressed)) != size {
		return nil, fmt.Errorf("%w: body is %d bytes, header says %d", ErrSnapshotFormat, len(compressed), size)
	}
	if xxhash.Sum64(compressed) != checksum {
		return nil, ErrSnapshotChecksum
	}

	body, err := decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotFormat, err)
	}
	idx := New(s)
	if err := idx.decodeBody(bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotFormat, err)
	}
	return idx, nil
}

func (idx *Index) decodeBody(r *bytes.Reader) error {
	count, err := readUint32(r)
	if err != nil {
		return err
	}
	idx.ids = make([]document.ID, 0, min(int(count), r.Len()))
	for i := uint32(0); i < count; i++ {
		key, err := readString(r)
		if err != nil {
			return err
		}
		id, err := document.ParseIDKey(key)
		if err != nil {
			return err
		}
		idx.ids = append(idx.ids, id)
	}
	if idx.live, err = readBitmap(r); err != nil {
		return err
	}
	it := idx.live.Iterator()
	for it.HasNext() {
		doc := it.Next()
		if doc >= count {
			return fmt.Errorf("live doc %d out of range", doc)
		}
		idx.docs[idx.ids[doc].Key()] = doc
	}

	fieldCount, err := readUint32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < fieldCount; i++ {
		field, err := readString(r)
		if err != nil {
			return err
		}
		termCount, err := readUint32(r)
		if err != nil {
			return err
		}
		byTerm := make(map[string]*roaring.Bitmap, min(int(termCount), r.Len()))
		for j := uint32(0); j < termCount; j++ {
			term, err := readString(r)
			if err != nil {
				return err
			}
			bm, err := readBitmap(r)
			if err != nil {
				return err
			}
			byTerm[term] = bm
			docs := bm.Iterator()
			for docs.HasNext() {
				doc := docs.Next()
				idx.byDoc[doc] = append(idx.byDoc[doc], posting{field: field, term: term})
			}
		}
		idx.terms[field] = byTerm
	}

	if fieldCount, err = readUint32(r); err != nil {
		return err
	}
	for i := uint32(0); i < fieldCount; i++ {
		field, err := readString(r)
		if err != nil {
			return err
		}
		docCount, err := readUint32(r)
		if err != nil {
			return err
		}
		perDoc := make(map[uint32][]float64, min(int(docCount), r.Len()))
		for j := uint32(0); j < docCount; j++ {
			doc, err := readUint32(r)
			if err != nil {
				return err
			}
			n, err := readUint32(r)
			if err != nil {
				return err
			}
			if int64(n)*8 > int64(r.Len()) {
				return fmt.Errorf("numeric values of %q truncated", field)
			}
			vals := make([]float64, n)
			for k := range vals {
				bits, err := readUint64(r)
				if err != nil {
					return err
				}
				vals[k] = math.Float64frombits(bits)
			}
			perDoc[doc] = vals
		}
		idx.numbers[field] = perDoc
	}

	if fieldCount, err = readUint32(r); err != nil {
		return err
	}
	for i := uint32(0); i < fieldCount; i++ {
		field, err := readString(r)
		if err != nil {
			return err
		}
		docCount, err := readUint32(r)
		if err != nil {
			return err
		}
		perDoc := make(map[uint32]value.Value, min(int(docCount), r.Len()))
		for j := uint32(0); j < docCount; j++ {
			doc, err := readUint32(r)
			if err != nil {
				return err
			}
			v, err := readValue(r)
			if err != nil {
				return err
			}
			perDoc[doc] = v
		}
		idx.sorts[field] = perDoc
	}

	docCount, err := readUint32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < docCount; i++ {
		doc, err := readUint32(r)
		if err != nil {
			return err
		}
		nameCount, err := readUint32(r)
		if err != nil {
			return err
		}
		fieldsOf := make(map[string][]value.Value, min(int(nameCount), r.Len()))
		for j := uint32(0); j < nameCount; j++ {
			name, err := readString(r)
			if err != nil {
				return err
			}
			v, err := readValue(r)
			if err != nil {
				return err
			}
			vals, ok := v.AsArray()
			if !ok {
				return fmt.Errorf("stored values of %q are %s, want array", name, v.Kind())
			}
			fieldsOf[name] = vals
		}
		idx.stored[doc] = fieldsOf
	}

	if r.Len() != 0 {
		return fmt.Errorf("%d trailing bytes", r.Len())
	}
	return nil
}

func compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderLowmem(true),
		zstd.WithDecoderMaxWindow(32*1024*1024),
		zstd.WithDecoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedDocs[V any](m map[uint32]V) []uint32 {
	docs := make([]uint32, 0, len(m))
	for d := range m {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i] < docs[j] })
	return docs
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var scratch [8]byte
	binary.LittleEndian.PutUint64(scratch[:], v)
	buf.Write(scratch[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var scratch [4]byte
	binary.LittleEndian.PutUint32(scratch[:], v)
	buf.Write(scratch[:])
}

func writeBytesWithLen(buf *bytes.Buffer, data []byte) error {
	if len(data) > math.MaxUint32 {
		return fmt.Errorf("snapshot entry too large: %d", len(data))
	}
	writeUint32(buf, uint32(len(data)))
	buf.Write(data)
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	return writeBytesWithLen(buf, []byte(s))
}

func writeBitmap(buf *bytes.Buffer, bm *roaring.Bitmap) error {
	data, err := bm.ToBytes()
	if err != nil {
		return fmt.Errorf("failed to serialize bitmap: %w", err)
	}
	return writeBytesWithLen(buf, data)
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func readBytesWithLen(r *bytes.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if int64(n) > int64(r.Len()) {
		return nil, fmt.Errorf("entry of %d bytes exceeds remaining %d", n, r.Len())
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

func readString(r *bytes.Reader) (string, error) {
	data, err := readBytesWithLen(r)
	return string(data), err
}

func readBitmap(r *bytes.Reader) (*roaring.Bitmap, error) {
	data, err := readBytesWithLen(r)
	if err != nil {
		return nil, err
	}
	bm := roaring.New()
	if err := bm.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("failed to read bitmap: %w", err)
	}
	return bm, nil
}

func readValue(r *bytes.Reader) (value.Value, error) {
	data, err := readBytesWithLen(r)
	if err != nil {
		return value.Value{}, err
	}
	return value.Decode(data)
}
