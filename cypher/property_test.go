package cypher

import (
	"context"
	"net/http"
	"testing"

	"github.com/micahhausler/cypher-client/cypher/cyphertest"
	"pgregory.net/rapid"
)

func TestEncryptReturnsBodyUnmodified(t *testing.T) {
	srv, svc := cyphertest.NewServer(t)
	client := NewClient(srv.URL)

	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.String().Draw(rt, "text")
		publicKey := rapid.String().Draw(rt, "publicKey")
		body := rapid.SliceOfN(rapid.Byte(), 1, 512).Draw(rt, "body")
		svc.Stub(http.MethodPost, encryptPath, http.StatusOK, body)

		got, err := client.Encrypt(context.Background(), text, publicKey)
		if err != nil {
			rt.Fatalf("encrypt: %v", err)
		}
		if string(got) != string(body) {
			rt.Fatalf("body changed: got %x, want %x", got, body)
		}

		req, _ := svc.LastRequest()
		if len(req.Parts) != 2 {
			rt.Fatalf("got %d parts, want 2", len(req.Parts))
		}
		if p := req.Parts[0]; p.Name != "text" || p.FileName != "" || string(p.Content) != text {
			rt.Fatalf("bad text part: %+v", p)
		}
		if p := req.Parts[1]; p.Name != "pemKey" || p.FileName != "public_key.pem" || string(p.Content) != publicKey {
			rt.Fatalf("bad pemKey part: %+v", p)
		}
	})
}

func TestDecryptSendsCiphertextUnmodified(t *testing.T) {
	srv, svc := cyphertest.NewServer(t)
	svc.Stub(http.MethodPost, decryptPath, http.StatusOK, []byte(`{"text": "ok"}`))
	client := NewClient(srv.URL)

	rapid.Check(t, func(rt *rapid.T) {
		ciphertext := rapid.SliceOf(rapid.Byte()).Draw(rt, "ciphertext")
		privateKey := rapid.String().Draw(rt, "privateKey")

		got, err := client.Decrypt(context.Background(), ciphertext, privateKey)
		if err != nil {
			rt.Fatalf("decrypt: %v", err)
		}
		if got != "ok" {
			rt.Fatalf("got %q", got)
		}

		req, _ := svc.LastRequest()
		enc, ok := req.Part("encryptedData")
		if !ok || enc.FileName != "encrypted_data.bin" || string(enc.Content) != string(ciphertext) {
			rt.Fatalf("bad encryptedData part: %+v", enc)
		}
		key, ok := req.Part("pemKey")
		if !ok || key.FileName != "private_key.pem" || string(key.Content) != privateKey {
			rt.Fatalf("bad pemKey part: %+v", key)
		}
	})
}
