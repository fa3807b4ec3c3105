package grpc

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDial_Plaintext(t *testing.T) {
	t.Parallel()

	conn, err := Dial("127.0.0.1:0", ClientTLS{})
	require.NoError(t, err)
	assert.NoError(t, conn.Close())
}

func TestDial_MissingClientCertificate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := Dial("127.0.0.1:0", ClientTLS{
		CertFile: filepath.Join(dir, "client.crt"),
		KeyFile:  filepath.Join(dir, "client.key"),
		CAFile:   filepath.Join(dir, "ca.crt"),
	})
	assert.Error(t, err)
}
