// Package cypher is a client for the elliptic cypher service. The service
// generates key pairs, encrypts and decrypts; the client only moves key
// material and payloads over HTTP and never inspects them.
package cypher

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/micahhausler/cypher-client/transport"
	"github.com/pkg/errors"
)

const (
	keysPath    = "/api/cypher/elliptic/keys"
	encryptPath = "/api/cypher/elliptic/encrypt"
	decryptPath = "/api/cypher/elliptic/decrypt"
	pingPath    = "/api/health/ping"
)

// Multipart part names and filenames expected by the service.
const (
	textField          = "text"
	pemKeyField        = "pemKey"
	encryptedDataField = "encryptedData"

	publicKeyFilename     = "public_key.pem"
	privateKeyFilename    = "private_key.pem"
	encryptedDataFilename = "encrypted_data.bin"
)

// Keys is a key pair produced by the service.
type Keys struct {
	Private string `json:"private"`
	Public  string `json:"public"`
}

// Client talks to a single cypher service. It holds no mutable state and
// is safe for concurrent use.
type Client struct {
	baseURL string
	hc      *http.Client
	logger  *slog.Logger
	headers http.Header
}

// NewClient returns a client for the service at baseURL, e.g.
// "http://localhost". Operation paths are appended to baseURL as-is.
func NewClient(baseURL string, opts ...Option) *Client {
	o := &options{
		logger:  slog.Default(),
		headers: http.Header{},
	}
	for _, opt := range opts {
		opt(o)
	}

	c := &Client{
		baseURL: baseURL,
		hc:      o.httpClient(),
		logger:  o.logger,
		headers: o.headers,
	}
	rt := c.hc.Transport
	if len(c.headers) > 0 {
		rt = transport.NewTransportWithFallbackHeaders(rt, c.headers)
	}
	rt = transport.NewLoggingTransport(rt, c.logger)
	c.hc.Transport = transport.NewRequestIDTransport(rt)
	return c
}

// BaseURL returns the base URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateKeys asks the service for a new key pair.
func (c *Client) CreateKeys(ctx context.Context) (*Keys, error) {
	const op = "create keys"
	out, err := c.do(ctx, op, http.MethodGet, keysPath, "", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Private *string `json:"private"`
		Public  *string `json:"public"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, &ShapeError{Op: op, Err: errors.Wrap(err, "decode response")}
	}
	if resp.Private == nil {
		return nil, missingField(op, "private")
	}
	if resp.Public == nil {
		return nil, missingField(op, "public")
	}
	return &Keys{Private: *resp.Private, Public: *resp.Public}, nil
}

// Encrypt sends text and a PEM public key to the service and returns the
// ciphertext exactly as the service wrote it.
func (c *Client) Encrypt(ctx context.Context, text, publicKey string) ([]byte, error) {
	const op = "encrypt"
	body, contentType, err := encodeForm(
		formPart{name: textField, content: []byte(text)},
		formPart{name: pemKeyField, filename: publicKeyFilename, content: []byte(publicKey)},
	)
	if err != nil {
		return nil, errors.Wrap(err, "cypher: encrypt: encode form")
	}
	return c.do(ctx, op, http.MethodPost, encryptPath, contentType, body)
}

// Decrypt sends ciphertext and a PEM private key to the service and returns
// the decrypted text.
func (c *Client) Decrypt(ctx context.Context, encrypted []byte, privateKey string) (string, error) {
	const op = "decrypt"
	body, contentType, err := encodeForm(
		formPart{name: pemKeyField, filename: privateKeyFilename, content: []byte(privateKey)},
		formPart{name: encryptedDataField, filename: encryptedDataFilename, content: encrypted},
	)
	if err != nil {
		return "", errors.Wrap(err, "cypher: decrypt: encode form")
	}
	out, err := c.do(ctx, op, http.MethodPost, decryptPath, contentType, body)
	if err != nil {
		return "", err
	}

	var resp struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		return "", &ShapeError{Op: op, Err: errors.Wrap(err, "decode response")}
	}
	if resp.Text == nil {
		return "", missingField(op, "text")
	}
	return *resp.Text, nil
}

// Ping checks the service health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, "ping", http.MethodGet, pingPath, "", nil)
	return err
}

// do sends one request and returns the full response body of a 2xx
// response. Transport and body read errors are returned unmodified.
func (c *Client) do(ctx context.Context, op, method, path, contentType string, body *bytes.Buffer) ([]byte, error) {
	url := c.baseURL + path

	var r io.Reader
	if body != nil {
		r = body
	}
	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("cypher request failed", "op", op, "status", resp.Status, "response", string(out))
		return nil, newHTTPError(op, method, url, resp.StatusCode, resp.Status, out)
	}
	return out, nil
}
