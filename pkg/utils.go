package pkg

import (
	"io"
	"os"
	"path/filepath"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"

	"github.com/ngld/launchgen/pkg/config"
)

// FindProjectRoot walks up from start until it finds a directory containing a launchgen config file or a .git
// folder. If neither exists, start is returned.
func FindProjectRoot(start string) (string, error) {
	start, err := filepath.Abs(start)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to resolve %s", start)
	}

	markers := append([]string{".git"}, config.FileNames...)
	path := start
	for {
		for _, marker := range markers {
			_, err := os.Stat(filepath.Join(path, marker))
			if err == nil {
				return path, nil
			}

			if !eris.Is(err, os.ErrNotExist) {
				return "", eris.Wrap(err, "Error ocurred while searching for project root")
			}
		}

		parent := filepath.Dir(path)
		if parent == path {
			break
		}
		path = parent
	}

	return start, nil
}

// PrintTask writes a highlighted task header to out
func PrintTask(out io.Writer, msg string) {
	colorstring.Fprintf(out, "[blue][bold]==>[default] %s\n", msg)
}

func PrintSubtask(out io.Writer, msg string) {
	colorstring.Fprintf(out, "[green][bold]  ->[reset] %s\n", msg)
}

func PrintError(out io.Writer, msg string) {
	colorstring.Fprintf(out, "[red][bold]  ->[reset] %s\n", msg)
}
