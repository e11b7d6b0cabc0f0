package dbsfigures

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDataType(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input []byte
		want  DataType
	}{
		{"gzip", []byte{0x1f, 0x8b, 0x08, 0x00}, DataTypeGzip},
		{"zip", []byte{0x50, 0x4b, 0x03, 0x04, 0x0a}, DataTypeZip},
		{"xz", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00}, DataTypeXZ},
		{"Z", []byte{0x1f, 0x9d, 0x90}, DataTypeZ},
		{"bzip2", []byte("BZh91AY"), DataTypeBZip2},
		{"text", []byte("a,b\n1,2\n"), DataTypeNoCompression},
		{"short", []byte("a"), DataTypeNoCompression},
		{"empty", nil, DataTypeNoCompression},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectDataType(bytes.NewReader(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOpenMaybeCompressed(t *testing.T) {
	dir := t.TempDir()
	content := "Time,RZAV\n0,1\n"

	plain := filepath.Join(dir, "plain.csv")
	require.NoError(t, os.WriteFile(plain, []byte(content), 0o644))

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	gz := filepath.Join(dir, "packed.csv.gz")
	require.NoError(t, os.WriteFile(gz, buf.Bytes(), 0o644))

	for _, path := range []string{plain, gz} {
		rc, err := OpenMaybeCompressed(path)
		require.NoError(t, err)
		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, content, string(got), path)
	}

	_, err = OpenMaybeCompressed(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestDetermineDelimiterBytes(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		want    rune
	}{
		{"comma", "Stim Level,freezes\n0,80\n75,10\n", ','},
		{"tab", "Stim Level\tfreezes\n0\t80\n", '\t'},
		{"semicolon", "a;b;c\n1;2;3\n4;5;6\n", ';'},
		{"single column", "freezes\n1\n2\n", ','},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetermineDelimiterBytes([]byte(tc.content)))
		})
	}
}

func TestExpandHome(t *testing.T) {
	usr, err := user.Current()
	require.NoError(t, err)

	assert.Equal(t, usr.HomeDir, ExpandHome("~"))
	assert.Equal(t, filepath.Join(usr.HomeDir, "figures"), ExpandHome("~/figures"))
	assert.Equal(t, "~user/figures", ExpandHome("~user/figures"))
	assert.Equal(t, "/tmp/figures", ExpandHome("/tmp/figures"))
	assert.Equal(t, "", ExpandHome(""))
}
