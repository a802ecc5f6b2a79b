// Package cyphertest provides an in-memory stand-in for the elliptic cypher
// service, for tests of code built on the cypher client.
package cyphertest

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Part is one multipart part received by the service.
type Part struct {
	Name     string
	FileName string
	Content  []byte
}

// Request is a request received by the service.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Parts  []Part
}

// Part returns the first part named name.
func (r Request) Part(name string) (Part, bool) {
	for _, p := range r.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return Part{}, false
}

// envelope is the fake ciphertext: the plaintext tagged with the public key
// it was "encrypted" for, base64 encoded like the real service's output.
type envelope struct {
	PublicKey string `json:"public_key"`
	Text      string `json:"text"`
}

// Service fakes the cypher service routes. The zero value is not usable;
// use NewService.
type Service struct {
	mux *http.ServeMux

	mu       sync.Mutex
	requests []Request
	stubs    map[string]stub
}

type stub struct {
	status int
	body   []byte
}

func NewService() *Service {
	s := &Service{mux: http.NewServeMux(), stubs: map[string]stub{}}
	s.mux.HandleFunc("GET /api/health/ping", s.ping)
	s.mux.HandleFunc("GET /api/cypher/elliptic/keys", s.keys)
	s.mux.HandleFunc("POST /api/cypher/elliptic/encrypt", s.encrypt)
	s.mux.HandleFunc("POST /api/cypher/elliptic/decrypt", s.decrypt)
	return s
}

// NewServer starts a Service behind an httptest.Server. The server is closed
// with t's cleanup.
func NewServer(t interface{ Cleanup(func()) }) (*httptest.Server, *Service) {
	s := NewService()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return srv, s
}

// Stub makes the service answer method and path with status and body
// instead of running the fake handler. Requests are still recorded.
func (s *Service) Stub(method, path string, status int, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs[method+" "+path] = stub{status: status, body: body}
}

// Requests returns every request received so far.
func (s *Service) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request.
func (s *Service) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := Request{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone()}
	if mr, err := r.MultipartReader(); err == nil {
		for {
			p, err := mr.NextPart()
			if err != nil {
				break
			}
			content, _ := io.ReadAll(p)
			req.Parts = append(req.Parts, Part{Name: p.FormName(), FileName: p.FileName(), Content: content})
		}
	}
	s.mu.Lock()
	s.requests = append(s.requests, req)
	st, stubbed := s.stubs[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	if stubbed {
		w.WriteHeader(st.status)
		w.Write(st.body)
		return
	}
	s.mux.ServeHTTP(w, r.WithContext(withRequest(r.Context(), req)))
}

func (s *Service) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) keys(w http.ResponseWriter, r *http.Request) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "generating keys error")
		return
	}
	privDER, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encoding keys error")
		return
	}
	public, err := publicPEM(&priv.PublicKey)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encoding keys error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"private": string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: privDER})),
		"public":  public,
	})
}

func (s *Service) encrypt(w http.ResponseWriter, r *http.Request) {
	req := requestFrom(r.Context())
	text, ok := req.Part("text")
	if !ok || len(text.Content) == 0 {
		writeError(w, http.StatusBadRequest, "text is empty")
		return
	}
	key, ok := req.Part("pemKey")
	if !ok {
		writeError(w, http.StatusBadRequest, "PEM key is required")
		return
	}
	block, _ := pem.Decode(key.Content)
	if block == nil {
		writeError(w, http.StatusBadRequest, "provide valid key")
		return
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, "provide valid key")
		return
	}
	ecPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		writeError(w, http.StatusBadRequest, "provide valid key")
		return
	}
	public, err := publicPEM(ecPub)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encryption error")
		return
	}

	data, err := json.Marshal(envelope{PublicKey: public, Text: string(text.Content)})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encryption error")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(base64.StdEncoding.EncodeToString(data)))
}

func (s *Service) decrypt(w http.ResponseWriter, r *http.Request) {
	req := requestFrom(r.Context())
	key, ok := req.Part("pemKey")
	if !ok {
		writeError(w, http.StatusBadRequest, "PEM key is required")
		return
	}
	encrypted, ok := req.Part("encryptedData")
	if !ok {
		writeError(w, http.StatusBadRequest, "Encrypted data is required")
		return
	}
	block, _ := pem.Decode(key.Content)
	if block == nil {
		writeError(w, http.StatusBadRequest, "provide valid key")
		return
	}
	priv, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, "provide valid key")
		return
	}
	public, err := publicPEM(&priv.PublicKey)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "decryption error")
		return
	}

	raw, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(encrypted.Content)))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "decryption error")
		return
	}
	env := envelope{}
	if err := json.Unmarshal(raw, &env); err != nil || env.PublicKey != public {
		writeError(w, http.StatusInternalServerError, "decryption error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": env.Text})
}

func publicPEM(pub *ecdsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
