package artifact

import (
	"path/filepath"
	"testing"

	"github.com/hupe1980/agentcrew/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]core.DocumentStore {
	return map[string]core.DocumentStore{
		"memory": NewInMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "docs")),
	}
}

func TestDocumentStore_SaveGetIsolation(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			data := []byte("hello")
			require.NoError(t, store.Save("a.md", data))
			data[0] = 'H'

			out, err := store.Get("a.md")
			require.NoError(t, err)
			assert.Equal(t, "hello", string(out))

			out[0] = 'x'
			out2, _ := store.Get("a.md")
			assert.Equal(t, "hello", string(out2))

			require.NoError(t, store.Save("a.md", []byte("v2")))
			out3, _ := store.Get("a.md")
			assert.Equal(t, "v2", string(out3))
		})
	}
}

func TestDocumentStore_ListAndDelete(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			names, err := store.List()
			require.NoError(t, err)
			assert.Empty(t, names)

			require.NoError(t, store.Save("b.md", []byte("1")))
			require.NoError(t, store.Save("a.md", []byte("2")))

			names, err = store.List()
			require.NoError(t, err)
			assert.Equal(t, []string{"a.md", "b.md"}, names)

			require.NoError(t, store.Delete("a.md"))
			assert.ErrorIs(t, store.Delete("a.md"), ErrNotFound)

			_, err = store.Get("a.md")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFileStore_RejectsEscapingNames(t *testing.T) {
	store := NewFileStore(t.TempDir())
	for _, name := range []string{"", "../x.md", "/etc/passwd", "a/../../x"} {
		assert.ErrorIs(t, store.Save(name, []byte("x")), ErrInvalidName, name)
	}
	require.NoError(t, store.Save("guides/setup.md", []byte("ok")))
	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"guides/setup.md"}, names)
}

func TestFileStore_SkipsBookkeepingFiles(t *testing.T) {
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.Save("_references.json", []byte("{}")))
	require.NoError(t, store.Save("index.md", []byte("# Index")))

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"index.md"}, names)
}
