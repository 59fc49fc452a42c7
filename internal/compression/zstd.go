// Package compression provides the zstd codec used for persisted index
// snapshots.
package compression

import (
	"github.com/klauspost/compress/zstd"
)

// Codec compresses index snapshots before they hit disk. Encode falls
// back to the raw bytes when compression would not help, and Decode
// accepts both forms, so snapshots written by older builds stay readable.
type Codec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewCodec() (*Codec, error) {
	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}

	return &Codec{encoder: encoder, decoder: decoder}, nil
}

func (c *Codec) Encode(data []byte) []byte {
	if len(data) < 128 {
		return data
	}

	compressed := c.encoder.EncodeAll(data, make([]byte, 0, len(data)))

	if len(compressed) >= len(data) {
		return data
	}

	return compressed
}

func (c *Codec) Decode(data []byte) []byte {
	decompressed, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return data
	}

	return decompressed
}

func (c *Codec) Close() error {
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
	return nil
}
