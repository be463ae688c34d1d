package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSinkWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exports", "out.csv")

	cols := []Column{{ID: "id", Title: "ID"}, {ID: "name", Title: "Full Name"}}
	rows := []Row{
		{"id": "1", "name": "Ann Lee"},
		{"id": "2", "name": "with, comma"},
	}

	sink := NewFileSink()
	require.NoError(t, sink.Write(path, cols, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID,Full Name\n1,Ann Lee\n2,\"with, comma\"\n", string(data))
}

func TestFileSinkOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	cols := []Column{{ID: "id", Title: "ID"}}

	sink := NewFileSink()
	require.NoError(t, sink.Write(path, cols, []Row{{"id": "1"}, {"id": "2"}}))
	require.NoError(t, sink.Write(path, cols, []Row{{"id": "3"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID\n3\n", string(data))
}

func TestFileSinkEmptyRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	sink := NewFileSink()
	require.NoError(t, sink.Write(path, []Column{{ID: "a", Title: "A"}}, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A\n", string(data))
}
