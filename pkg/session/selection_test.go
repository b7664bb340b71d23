package session

import (
	"testing"

	"github.com/pojntfx/tget/pkg/engine"
	"github.com/stretchr/testify/assert"
)

func files(names ...string) ([]*fakeFile, []engine.File) {
	fakes := []*fakeFile{}
	all := []engine.File{}
	for _, name := range names {
		f := &fakeFile{name: name, length: 10}

		fakes = append(fakes, f)
		all = append(all, f)
	}

	return fakes, all
}

func TestSelectAll(t *testing.T) {
	fakes, all := files("movie.mkv", "subs.srt", "cover.jpg")

	assert.Equal(t, 3, SelectAll().Apply(all))
	for _, f := range fakes {
		assert.True(t, f.selected, f.name)
	}
}

func TestSelectByName(t *testing.T) {
	fakes, all := files("movie.mkv", "subs.srt")

	assert.Equal(t, 1, SelectByName("movie.mkv").Apply(all))
	assert.True(t, fakes[0].selected)
	assert.False(t, fakes[1].selected)
}

func TestSelectByNameMiss(t *testing.T) {
	fakes, all := files("movie.mkv", "subs.srt")

	assert.NotPanics(t, func() {
		assert.Equal(t, 0, SelectByName("nope.mkv").Apply(all))
	})
	for _, f := range fakes {
		assert.False(t, f.selected, f.name)
		assert.Zero(t, f.selects, f.name)
	}
}

func TestSelectByNameIsExact(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"Movie.mkv", 0},
		{"movie", 0},
		{"dir/movie.mkv", 0},
		{"movie.mkv ", 0},
		{"movie.mkv", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, all := files("movie.mkv")

			assert.Equal(t, tt.want, SelectByName(tt.name).Apply(all))
		})
	}
}

func TestSelectIsIdempotent(t *testing.T) {
	fakes, all := files("movie.mkv", "subs.srt")

	SelectAll().Apply(all)
	SelectAll().Apply(all)
	SelectByName("movie.mkv").Apply(all)

	for _, f := range fakes {
		assert.Equal(t, 1, f.selects, f.name)
	}
}

func TestSelectionZeroValueSelectsAll(t *testing.T) {
	var s Selection

	assert.True(t, s.All())
	assert.False(t, SelectByName("movie.mkv").All())
	assert.Equal(t, "movie.mkv", SelectByName("movie.mkv").Name())
}

func TestSelectByNameStopsAtFirstMatch(t *testing.T) {
	fakes, all := files("movie.mkv", "movie.mkv", "subs.srt")

	assert.Equal(t, 1, SelectByName("movie.mkv").Apply(all))
	assert.True(t, fakes[0].selected)
	assert.False(t, fakes[1].selected)
	assert.False(t, fakes[2].selected)
}

func TestSelectByEmptyName(t *testing.T) {
	fakes, all := files("movie.mkv", "subs.srt")

	s := SelectByName("")

	assert.False(t, s.All())
	assert.Equal(t, 0, s.Apply(all))
	for _, f := range fakes {
		assert.False(t, f.selected, f.name)
	}
}
