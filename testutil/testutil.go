package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	random "github.com/jbenet/go-random"
	"github.com/stretchr/testify/require"
)

var seedSeq int64

// RandomBytes returns a byte array of the given size with random values.
func RandomBytes(n int64) []byte {
	data := new(bytes.Buffer)
	_ = random.WritePseudoRandomBytes(n, data, seedSeq)
	seedSeq++
	return data.Bytes()
}

// RandomInputs returns count random fuzz inputs of the given size.
func RandomInputs(count int, size int64) [][]byte {
	inputs := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		inputs = append(inputs, RandomBytes(size))
	}
	return inputs
}

// WriteCorpus writes inputs into a fresh directory, one file each, and
// returns the directory.
func WriteCorpus(t testing.TB, inputs [][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for i, input := range inputs {
		name := filepath.Join(dir, "input-"+strconv.Itoa(i))
		require.NoError(t, os.WriteFile(name, input, 0o644))
	}
	return dir
}
