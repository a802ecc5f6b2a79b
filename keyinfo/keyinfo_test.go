package keyinfo

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func TestDescribe(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	sshPub, err := ssh.NewPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	wantFingerprint := ssh.FingerprintSHA256(sshPub)

	cases := []struct {
		name     string
		pemText  func() string
		wantKind string
		wantErr  bool
	}{
		{
			name: "pkix public key",
			pemText: func() string {
				der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
				require.NoError(t, err)
				return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
			},
			wantKind: KindPublic,
		},
		{
			name: "sec1 private key",
			pemText: func() string {
				der, err := x509.MarshalECPrivateKey(priv)
				require.NoError(t, err)
				return string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}))
			},
			wantKind: KindPrivate,
		},
		{
			name: "pkcs8 private key",
			pemText: func() string {
				der, err := x509.MarshalPKCS8PrivateKey(priv)
				require.NoError(t, err)
				return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
			},
			wantKind: KindPrivate,
		},
		{
			name: "openssh private key",
			pemText: func() string {
				block, err := ssh.MarshalPrivateKey(priv, "")
				require.NoError(t, err)
				return string(pem.EncodeToMemory(block))
			},
			wantKind: KindPrivate,
		},
		{
			name:    "not pem",
			pemText: func() string { return "hello" },
			wantErr: true,
		},
		{
			name: "corrupt public key",
			pemText: func() string {
				return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: []byte{1, 2, 3}}))
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info, err := Describe(tc.pemText())
			if tc.wantErr {
				assert.Error(t, err)
				assert.Nil(t, info)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, info.Kind)
			assert.Equal(t, "ecdsa", info.Algorithm)
			assert.Equal(t, "P-256", info.Curve)
			assert.Equal(t, 256, info.BitSize)
			assert.Equal(t, wantFingerprint, info.Fingerprint)
			assert.Contains(t, info.String(), "ecdsa "+tc.wantKind+" key on P-256 (256 bits)")
		})
	}
}

func TestDescribeNoPEM(t *testing.T) {
	_, err := Describe("")
	assert.ErrorIs(t, err, ErrNoPEM)
}
