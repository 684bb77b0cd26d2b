package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// DefaultPage is the text shown beneath the dialogs when no page file is
// configured. It is long enough to scroll on most terminals.
var DefaultPage = buildDefaultPage()

func buildDefaultPage() string {
	var sb strings.Builder
	sb.WriteString("popzy\n\n")
	sb.WriteString("Press 1-9 to open a dialog from the catalog, n to open the next one, " +
		"esc to close the top dialog and q to quit. Dialogs stack: each one opens above " +
		"the last, and while any is open the page underneath stops scrolling.\n")
	for i := 1; i <= 60; i++ {
		fmt.Fprintf(&sb, "\n%3d  The page keeps its width when the scrollbar is hidden, "+
			"because the lock pads the body by the scrollbar's width.", i)
	}
	return sb.String()
}

// LoadPage reads page text from path. An empty path returns DefaultPage.
func LoadPage(path string) (string, error) {
	if path == "" {
		return DefaultPage, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("page file not found: %s", path)
		}
		return "", fmt.Errorf("failed to read page file: %w", err)
	}
	return string(data), nil
}
