// Package codec provides the compression and encryption stages that
// sit between the transcoder's byte form and the recorder's stored
// bytes. Stages compose via the Transform interface in a fixed order:
// encode, then compress, then encrypt on write; decrypt, then
// decompress, then decode on read. Decrypting before decompressing
// bounds the cost of a corrupted or hostile payload to the cipher's
// own overhead instead of an unbounded decompression bomb.
package codec

// Transform is one stage of the write/read pipeline. Encode is called
// on write in pipeline order; Decode is called on read in the reverse
// order.
type Transform interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// Identity is a no-op Transform, used when compression or encryption
// is configured off.
type Identity struct{}

func (Identity) Encode(data []byte) ([]byte, error) { return data, nil }
func (Identity) Decode(data []byte) ([]byte, error) { return data, nil }

// Pipeline chains a compressor and a cipher around the transcoder's
// wire bytes. Either stage may be Identity{}.
type Pipeline struct {
	Compressor Transform
	Cipher     Transform
}

// NewPipeline returns a Pipeline. A nil compressor or cipher is
// treated as Identity{}.
func NewPipeline(compressor, cipher Transform) *Pipeline {
	if compressor == nil {
		compressor = Identity{}
	}
	if cipher == nil {
		cipher = Identity{}
	}
	return &Pipeline{Compressor: compressor, Cipher: cipher}
}

// Encode runs compress then encrypt, in that fixed order.
func (p *Pipeline) Encode(data []byte) ([]byte, error) {
	compressed, err := p.Compressor.Encode(data)
	if err != nil {
		return nil, err
	}
	return p.Cipher.Encode(compressed)
}

// Decode runs decrypt then decompress, the reverse of Encode.
func (p *Pipeline) Decode(data []byte) ([]byte, error) {
	decrypted, err := p.Cipher.Decode(data)
	if err != nil {
		return nil, err
	}
	return p.Compressor.Decode(decrypted)
}
