// Package open launches the user's editor or pager on an export
// artifact.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// File opens an exported file in $EDITOR (falling back to less).
func File(filePath string) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	var cmd *exec.Cmd
	switch {
	case strings.Contains(editor, "code"):
		cmd = exec.Command(editor, "--wait", filePath)
	default:
		cmd = exec.Command(editor, filePath)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
