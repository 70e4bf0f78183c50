package bundle

import (
	"bytes"
	"fmt"
	"io"

	"github.com/citizenbob/land-estimator-sub001/codec"
	"github.com/klauspost/compress/gzip"
)

// Decoder turns raw fetched bytes into a validated IndexBundle.
//
// Published files are gzip-compressed JSON; uncompressed JSON is also
// accepted so development-mode fixtures can be served as-is.
type Decoder struct {
	codec codec.Codec
}

// NewDecoder creates a Decoder. If c is nil, codec.Default is used.
func NewDecoder(c codec.Codec) *Decoder {
	if c == nil {
		c = codec.Default
	}
	return &Decoder{codec: c}
}

// Decode decompresses and parses data, then validates the invariants.
// Decompression and parse failures are ErrCorrupt; structural problems
// are ErrSchemaMismatch.
func (d *Decoder) Decode(data []byte) (*IndexBundle, error) {
	payload, err := decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	var b IndexBundle
	if err := d.codec.Unmarshal(payload, &b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Encode is the inverse of Decode: marshal and gzip-compress. Used by
// mirror-population tooling and tests.
func (d *Decoder) Encode(b *IndexBundle) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	payload, err := d.codec.Marshal(b)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	if !isGzip(data) {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}
