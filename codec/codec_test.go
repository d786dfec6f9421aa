package codec_test

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/Unholster/eventsourcing/codec"
)

func TestIdentity_RoundTrip(t *testing.T) {
	var tr codec.Identity
	data := []byte("hello world")

	encoded, err := tr.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := tr.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("got %q, want %q", decoded, data)
	}
}

func TestZstdCompressor_RoundTrip(t *testing.T) {
	comp, err := codec.NewZstdCompressor(zstd.SpeedDefault)
	if err != nil {
		t.Fatalf("NewZstdCompressor: %v", err)
	}
	defer comp.Close()

	data := bytes.Repeat([]byte("event payload "), 200)
	encoded, err := comp.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(encoded) >= len(data) {
		t.Errorf("expected compression to shrink a repetitive payload: got %d bytes from %d", len(encoded), len(data))
	}
	decoded, err := comp.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("decoded payload does not match original")
	}
}

func TestZstdCompressor_Decode_CorruptData(t *testing.T) {
	comp, err := codec.NewZstdCompressor(zstd.SpeedDefault)
	if err != nil {
		t.Fatalf("NewZstdCompressor: %v", err)
	}
	defer comp.Close()

	_, err = comp.Decode([]byte("not a valid zstd frame"))
	if err == nil {
		t.Fatal("expected an error decoding garbage input")
	}
}

func TestChaCha20Poly1305Cipher_RoundTrip(t *testing.T) {
	key, err := codec.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	cipher, err := codec.NewChaCha20Poly1305Cipher(key)
	if err != nil {
		t.Fatalf("NewChaCha20Poly1305Cipher: %v", err)
	}

	data := []byte("sensitive event state")
	encoded, err := cipher.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if bytes.Equal(encoded, data) {
		t.Error("ciphertext must not equal plaintext")
	}
	decoded, err := cipher.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("got %q, want %q", decoded, data)
	}
}

func TestChaCha20Poly1305Cipher_Decode_TamperedCiphertext(t *testing.T) {
	key, err := codec.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	cipher, err := codec.NewChaCha20Poly1305Cipher(key)
	if err != nil {
		t.Fatalf("NewChaCha20Poly1305Cipher: %v", err)
	}

	encoded, err := cipher.Encode([]byte("sensitive event state"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	encoded[len(encoded)-1] ^= 0xFF

	if _, err := cipher.Decode(encoded); err == nil {
		t.Fatal("expected an authentication failure on tampered ciphertext")
	}
}

func TestChaCha20Poly1305Cipher_Decode_TooShort(t *testing.T) {
	key, err := codec.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	cipher, err := codec.NewChaCha20Poly1305Cipher(key)
	if err != nil {
		t.Fatalf("NewChaCha20Poly1305Cipher: %v", err)
	}

	if _, err := cipher.Decode([]byte("short")); err == nil {
		t.Fatal("expected an error for input shorter than nonce+tag")
	}
}

func TestPipeline_RoundTrip(t *testing.T) {
	comp, err := codec.NewZstdCompressor(zstd.SpeedDefault)
	if err != nil {
		t.Fatalf("NewZstdCompressor: %v", err)
	}
	defer comp.Close()

	key, err := codec.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	cipher, err := codec.NewChaCha20Poly1305Cipher(key)
	if err != nil {
		t.Fatalf("NewChaCha20Poly1305Cipher: %v", err)
	}

	pipeline := codec.NewPipeline(comp, cipher)
	data := bytes.Repeat([]byte("compress then encrypt "), 50)

	encoded, err := pipeline.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := pipeline.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("pipeline round trip did not reproduce the original payload")
	}
}

func TestPipeline_NilStagesDefaultToIdentity(t *testing.T) {
	pipeline := codec.NewPipeline(nil, nil)
	data := []byte("passthrough")

	encoded, err := pipeline.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(encoded, data) {
		t.Errorf("expected identity passthrough, got %q", encoded)
	}
}
