package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/Unholster/eventsourcing/es"
)

// ZstdCompressor implements Transform using zstd. It keeps a single
// reusable encoder and decoder; both are safe for concurrent use per
// the klauspost/compress documentation.
type ZstdCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder

	closeOnce sync.Once
}

// NewZstdCompressor builds a compressor at the given level. Passing a
// zero level selects the library's default.
func NewZstdCompressor(level zstd.EncoderLevel) (*ZstdCompressor, error) {
	if level == 0 {
		level = zstd.SpeedDefault
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("codec: creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("codec: creating zstd decoder: %w", err)
	}
	return &ZstdCompressor{encoder: enc, decoder: dec}, nil
}

func (z *ZstdCompressor) Encode(data []byte) ([]byte, error) {
	return z.encoder.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func (z *ZstdCompressor) Decode(data []byte) ([]byte, error) {
	out, err := z.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, &es.IntegrityError{Reason: "zstd decompression failed", Err: err}
	}
	return out, nil
}

// Close releases the decoder's background goroutines. Safe to call
// more than once.
func (z *ZstdCompressor) Close() {
	z.closeOnce.Do(func() {
		z.encoder.Close()
		z.decoder.Close()
	})
}
