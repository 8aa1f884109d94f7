package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, members map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, body := range members {
		mw, err := w.Create(name)
		require.NoError(t, err)
		_, err = mw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestLoadPlainJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"mapping":{}}]`), 0o644))

	data, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"mapping":{}}]`, string(data))
}

func TestLoadZipMember(t *testing.T) {
	path := writeZip(t, map[string]string{
		"readme.txt":         "ignore me",
		"conversations.json": `[{"chat_messages":[]}]`,
	})

	data, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"chat_messages":[]}]`, string(data))
}

func TestLoadZipNestedCaseInsensitive(t *testing.T) {
	path := writeZip(t, map[string]string{
		"export/Conversations.JSON": `[]`,
	})

	data, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestLoadZipMissingMember(t *testing.T) {
	path := writeZip(t, map[string]string{
		"chats.json": `[]`,
		"users.json": `[]`,
	})

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conversations.json not found")
	assert.Contains(t, err.Error(), "chats.json", "error lists the members it did find")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
