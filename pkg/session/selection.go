package session

import (
	"github.com/pojntfx/tget/pkg/engine"
)

// Selection decides which files of a session are transferred.
// The zero value selects every file.
type Selection struct {
	byName bool
	name   string
}

func SelectAll() Selection {
	return Selection{}
}

// SelectByName selects only the first file whose display name equals name exactly
func SelectByName(name string) Selection {
	return Selection{byName: true, name: name}
}

func (s Selection) All() bool {
	return !s.byName
}

func (s Selection) Name() string {
	return s.name
}

// Apply selects the matching files and returns how many matched. Files that
// are already selected are left alone.
func (s Selection) Apply(files []engine.File) int {
	matched := 0
	for _, f := range files {
		if s.byName && f.DisplayName() != s.name {
			continue
		}

		matched++

		if !f.Selected() {
			f.Select()
		}

		if s.byName {
			break
		}
	}

	return matched
}
