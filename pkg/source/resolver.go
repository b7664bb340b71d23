package source

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	magnetPrefix = "magnet:"

	// Stdin is the token that makes Resolve read the descriptor from standard input
	Stdin = "-"
)

// Source is a resolved descriptor, either a magnet URI or the raw bytes of a .torrent file
type Source struct {
	Magnet  string
	Torrent []byte

	name string
}

func (s Source) IsMagnet() bool {
	return s.Magnet != ""
}

func (s Source) String() string {
	if s.IsMagnet() {
		return s.Magnet
	}

	return s.name
}

// Resolve turns an input token into a source. Magnet URIs are passed through
// without any I/O; "-" or an empty token reads stdin to EOF; anything else is
// read as a file path.
func Resolve(token string, stdin io.Reader) (Source, error) {
	if strings.HasPrefix(token, magnetPrefix) {
		return Source{Magnet: token}, nil
	}

	if token == "" || token == Stdin {
		body, err := io.ReadAll(stdin)
		if err != nil {
			return Source{}, fmt.Errorf("could not read source from stdin: %w", err)
		}

		return Source{Torrent: body, name: "stdin"}, nil
	}

	body, err := os.ReadFile(token)
	if err != nil {
		return Source{}, fmt.Errorf("could not read source %q: %w", token, err)
	}

	return Source{Torrent: body, name: token}, nil
}
