package presenter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	v1 "github.com/pojntfx/tget/pkg/api/http/v1"
)

const sizeWidth = 9

// Listing prints one path per line, optionally prefixed by its right-aligned size
func Listing(w io.Writer, files []v1.File, size, human bool) {
	for _, f := range files {
		fmt.Fprintln(w, ColorFor(f.Path).Sprint(ListEntry(f, size, human)))
	}
}

func ListEntry(f v1.File, size, human bool) string {
	if !size {
		return f.Path
	}

	prefix := strconv.FormatInt(f.Length, 10)
	if human {
		prefix = humanize.Bytes(uint64(f.Length))
	}

	return fmt.Sprintf("%*s %v", sizeWidth, prefix, f.Path)
}
