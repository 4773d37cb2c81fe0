package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oy3o/nbt"
	"github.com/oy3o/nbt/compress"
)

func levelTree() nbt.Compound {
	return nbt.NewCompoundBuilder().
		PutInt("level", 5).
		PutString("name", "World").
		PutByteArray("seed", []byte{1, 2}).
		Build()
}

// writeInput stores root in dir, encoded in f and wrapped in c.
func writeInput(t *testing.T, f nbt.Format, c compress.Compression, name string, roots ...nbt.Tag) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := compress.NewWriter(&buf, c)
	require.NoError(t, err)
	enc, err := nbt.NewEncoder(w, f, nil)
	require.NoError(t, err)
	for _, root := range roots {
		require.NoError(t, enc.Encode(name, root))
	}
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "input.dat")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func runDump(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(""), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestDumpSNBT(t *testing.T) {
	for _, c := range []compress.Compression{compress.None, compress.Gzip, compress.Zlib, compress.Zstd, compress.LZ4} {
		t.Run(c.String(), func(t *testing.T) {
			path := writeInput(t, nbt.Java, c, "Data", levelTree())
			out, _, err := runDump(t, path)
			require.NoError(t, err)
			assert.Equal(t, `"Data": {level: 5, name: "World", seed: [B; 1b, 2b]}`+"\n", out)
		})
	}
}

func TestDumpJSON(t *testing.T) {
	path := writeInput(t, nbt.Bedrock, compress.None, "", levelTree())
	out, _, err := runDump(t, "--format", "bedrock", "-o", "json", path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"level\": 5,\n  \"name\": \"World\",\n  \"seed\": \"AQI=\"\n}\n", out)
}

func TestDumpYAML(t *testing.T) {
	path := writeInput(t, nbt.Java, compress.Gzip, "Data", levelTree())
	out, _, err := runDump(t, "-o", "yaml", path)
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 5, doc["Data"]["level"])
	assert.Equal(t, "World", doc["Data"]["name"])
}

func TestDumpCBOR(t *testing.T) {
	path := writeInput(t, nbt.Java, compress.None, "", levelTree())
	out, _, err := runDump(t, "-o", "cbor", path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, cbor.Unmarshal([]byte(out), &doc))
	assert.Equal(t, uint64(5), doc["level"])
	assert.Equal(t, []byte{1, 2}, doc["seed"])
}

func TestDumpReencode(t *testing.T) {
	path := writeInput(t, nbt.Java, compress.Gzip, "Data", levelTree())
	out, _, err := runDump(t, "-o", "nbt", "--to-format", "bedrock", path)
	require.NoError(t, err)

	want, err := nbt.MarshalBedrock("Data", levelTree())
	require.NoError(t, err)
	assert.Equal(t, want, []byte(out))

	out, _, err = runDump(t, "-o", "nbt", "--to-compression", "zlib", path)
	require.NoError(t, err)
	r, err := compress.NewReader(strings.NewReader(out), compress.Zlib)
	require.NoError(t, err)
	doc := nbt.Document{}
	_, err = doc.ReadFrom(r)
	require.NoError(t, err)
	assert.True(t, nbt.Equal(levelTree(), doc.Root))
}

func TestDumpAll(t *testing.T) {
	path := writeInput(t, nbt.Network, compress.None, "", nbt.Int(1), nbt.String("two"), levelTree())

	out, stderr, err := runDump(t, "-f", "network", "--all", "--debug", path)
	require.NoError(t, err)
	assert.Equal(t, "1\n\"two\"\n{level: 5, name: \"World\", seed: [B; 1b, 2b]}\n", out)
	assert.Contains(t, stderr, "decoded root")

	out, _, err = runDump(t, "-f", "network", path)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out, "without --all only the first root is printed")
}

func TestDumpLimits(t *testing.T) {
	deep := nbt.EmptyCompound().With("a", nbt.EmptyCompound().With("b", nbt.EmptyCompound()))
	path := writeInput(t, nbt.Java, compress.None, "", deep)

	_, _, err := runDump(t, "--max-depth", "2", path)
	assert.ErrorIs(t, err, nbt.ErrDepthExceeded)

	limits := filepath.Join(t.TempDir(), "limits.yaml")
	require.NoError(t, os.WriteFile(limits, []byte("max_depth: 2\n"), 0o644))
	_, _, err = runDump(t, "--limits", limits, path)
	assert.ErrorIs(t, err, nbt.ErrDepthExceeded)

	_, _, err = runDump(t, "--limits", limits, "--max-depth", "3", path)
	assert.NoError(t, err, "the flag overrides the file")

	require.NoError(t, os.WriteFile(limits, []byte("depth: 2\n"), 0o644))
	_, _, err = runDump(t, "--limits", limits, path)
	assert.ErrorContains(t, err, "limits.yaml")
}

func TestDumpErrors(t *testing.T) {
	path := writeInput(t, nbt.Java, compress.None, "", levelTree())

	_, _, err := runDump(t, "-o", "xml", path)
	assert.ErrorContains(t, err, `unknown output "xml"`)

	_, _, err = runDump(t, "-f", "pocket", path)
	assert.ErrorContains(t, err, "unknown format")

	_, _, err = runDump(t, "-c", "brotli", path)
	assert.ErrorIs(t, err, compress.ErrUnknownCompression)

	_, _, err = runDump(t, path, path)
	assert.ErrorContains(t, err, "at most one input file")

	_, _, err = runDump(t, filepath.Join(t.TempDir(), "missing.dat"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	var stdout, stderr bytes.Buffer
	err = run(nil, strings.NewReader(""), &stdout, &stderr)
	assert.ErrorIs(t, err, nbt.ErrUnexpectedEOF, "empty stdin holds no document")

	_, _, err = runDump(t, "--help")
	assert.NoError(t, err)
}

func TestDumpStdin(t *testing.T) {
	data, err := nbt.MarshalJava("", nbt.Long(9))
	require.NoError(t, err)
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-"}, bytes.NewReader(data), &stdout, &stderr))
	assert.Equal(t, "9L\n", stdout.String())
}

type failingWriter struct{}

var errClosedPipe = errors.New("closed pipe")

func (failingWriter) Write([]byte) (int, error) { return 0, errClosedPipe }

func TestDumpReportsWriteFailure(t *testing.T) {
	path := writeInput(t, nbt.Java, compress.None, "Data", levelTree())
	var stderr bytes.Buffer
	err := run([]string{path}, strings.NewReader(""), failingWriter{}, &stderr)
	assert.ErrorIs(t, err, errClosedPipe)
}
