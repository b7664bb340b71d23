package presenter

import (
	"path"
	"strings"

	"github.com/fatih/color"
)

var (
	movie      = color.New(color.FgGreen)
	executable = color.New(color.FgYellow)
	audio      = color.New(color.FgBlue)
	document   = color.New(color.FgCyan)
	image      = color.New(color.FgMagenta)
	other      = color.New(color.FgWhite)

	colors = map[string]*color.Color{}
)

func init() {
	for c, extensions := range map[*color.Color][]string{
		movie:      {"mp4", "mkv", "avi", "mov", "flv", "wmv"},
		executable: {"sh", "run", "bin", "exe", "bat", "msi"},
		audio:      {"mp3", "wav", "aac", "flac", "ogg"},
		document:   {"pdf", "doc", "docx", "ppt", "pptx", "xls", "xlsx"},
		image:      {"jpg", "jpeg", "png", "gif", "bmp", "tiff"},
	} {
		for _, ext := range extensions {
			colors[ext] = c
		}
	}
}

// ColorFor picks a colour by the file's extension, case-insensitively
func ColorFor(name string) *color.Color {
	if c, ok := colors[strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))]; ok {
		return c
	}

	return other
}

func Colorize(name string) string {
	return ColorFor(name).Sprint(name)
}
