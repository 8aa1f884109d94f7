// Package archive loads raw export documents from the file shapes the
// export tools produce: a zip containing a conversations.json member,
// or a bare JSON file.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// conversationsMember matches the archive member holding the export,
// case-insensitively, anywhere in the zip tree.
const conversationsMember = "conversations.json"

// Load reads the raw export JSON for a path. Zip files are searched
// for their conversations.json member; anything else is read directly
// and left for format detection to accept or reject.
func Load(filePath string) ([]byte, error) {
	if strings.EqualFold(path.Ext(filePath), ".zip") {
		return loadZip(filePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}
	return data, nil
}

func loadZip(filePath string) ([]byte, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", filePath, err)
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
		if !strings.EqualFold(path.Base(f.Name), conversationsMember) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open zip member %s: %w", f.Name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read zip member %s: %w", f.Name, err)
		}
		return data, nil
	}

	return nil, fmt.Errorf("%s not found in %s (members: %s)",
		conversationsMember, filePath, strings.Join(names, ", "))
}
