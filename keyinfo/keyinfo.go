// Package keyinfo summarizes PEM key material for display. It never
// validates keys on behalf of the cypher client.
package keyinfo

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
)

const (
	KindPublic  = "public"
	KindPrivate = "private"
)

// ErrNoPEM is returned when the input holds no PEM block.
var ErrNoPEM = errors.New("no PEM block found")

// Info describes a single key.
type Info struct {
	Kind      string
	PEMType   string
	Algorithm string
	Curve     string
	BitSize   int
	// Fingerprint is the OpenSSH SHA256 fingerprint of the public half.
	Fingerprint string
}

func (i *Info) String() string {
	s := fmt.Sprintf("%s %s key", i.Algorithm, i.Kind)
	if i.Curve != "" {
		s += " on " + i.Curve
	}
	s += fmt.Sprintf(" (%d bits)", i.BitSize)
	if i.Fingerprint != "" {
		s += " " + i.Fingerprint
	}
	return s
}

// Describe parses the first PEM block of pemText.
func Describe(pemText string) (*Info, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, ErrNoPEM
	}

	var (
		info = &Info{PEMType: block.Type}
		pub  crypto.PublicKey
	)
	switch block.Type {
	case "PUBLIC KEY", "ECDSA PUBLIC KEY", "EC PUBLIC KEY":
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "parse public key")
		}
		info.Kind = KindPublic
		pub = key
	case "EC PRIVATE KEY":
		key, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "parse ec private key")
		}
		info.Kind = KindPrivate
		pub = &key.PublicKey
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "parse pkcs8 private key")
		}
		info.Kind = KindPrivate
		pub, err = publicOf(key)
		if err != nil {
			return nil, err
		}
	default:
		key, err := ssh.ParseRawPrivateKey([]byte(pemText))
		if err != nil {
			return nil, errors.Wrapf(err, "unsupported PEM type %q", block.Type)
		}
		info.Kind = KindPrivate
		pub, err = publicOf(key)
		if err != nil {
			return nil, err
		}
	}

	switch k := pub.(type) {
	case *ecdsa.PublicKey:
		info.Algorithm = "ecdsa"
		info.Curve = k.Curve.Params().Name
		info.BitSize = k.Curve.Params().BitSize
	case *rsa.PublicKey:
		info.Algorithm = "rsa"
		info.BitSize = k.N.BitLen()
	case ed25519.PublicKey:
		info.Algorithm = "ed25519"
		info.BitSize = 256
	default:
		return nil, errors.Errorf("unsupported key type: %T", pub)
	}

	// P-224 and other curves have no SSH encoding; leave the fingerprint empty.
	if sshPub, err := ssh.NewPublicKey(pub); err == nil {
		info.Fingerprint = ssh.FingerprintSHA256(sshPub)
	}
	return info, nil
}

func publicOf(key any) (crypto.PublicKey, error) {
	switch k := key.(type) {
	case *ecdsa.PrivateKey:
		return &k.PublicKey, nil
	case *rsa.PrivateKey:
		return &k.PublicKey, nil
	case ed25519.PrivateKey:
		return k.Public(), nil
	case *ed25519.PrivateKey:
		return k.Public(), nil
	default:
		return nil, errors.Errorf("unsupported key type: %T", key)
	}
}
