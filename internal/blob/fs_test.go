package blob

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStoreUpload(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	obj, err := store.Upload(context.Background(), []byte("%PDF"), "doc.pdf", "resumes")
	require.NoError(t, err)
	assert.Equal(t, int64(4), obj.SizeBytes)

	data, err := os.ReadFile(obj.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
}

func TestFSStorePresignLink(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	obj, err := store.Upload(context.Background(), []byte("x"), "doc.pdf", "cover_letters")
	require.NoError(t, err)

	url, err := store.PresignLink(context.Background(), obj.Path, 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "file://"), url)
	assert.True(t, strings.HasSuffix(url, "doc.pdf"), url)
}

func TestNewFSStoreEmptyDir(t *testing.T) {
	_, err := NewFSStore("")
	assert.Error(t, err)
}
