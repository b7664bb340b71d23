package descriptor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "show")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "extras"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "episode.mkv"), bytes.Repeat([]byte{'a'}, 40000), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "extras", "subs.srt"), []byte("1\n00:00:01,000 --> 00:00:02,000\nhi\n"), 0o644))

	return root
}

func create(t *testing.T, root string, opts CreateOptions) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, Create(root, opts, &buf))

	return buf.Bytes()
}

func TestPieceLength(t *testing.T) {
	tests := []struct {
		total int64
		want  int64
	}{
		{0, minPieceLength},
		{1000, minPieceLength},
		{16 * 1024 * 1024, minPieceLength},
		{700 * 1024 * 1024, 512 * 1024},
		{4 * 1024 * 1024 * 1024, 4 * 1024 * 1024},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, PieceLength(tt.total), "PieceLength(%v)", tt.total)
	}
}

func TestCreateAndInspect(t *testing.T) {
	root := fixture(t)

	body := create(t, root, CreateOptions{
		Trackers:     []string{"udp://tracker.example.com:6969", "https://tracker.example.org/announce"},
		URLList:      []string{"https://mirror.example.com/"},
		Comment:      "test",
		CreatedBy:    "tget",
		CreationDate: time.Unix(1700000000, 0),
	})

	info, err := Inspect(bytes.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, "show", info.Name)
	assert.Len(t, info.InfoHash, 40)
	assert.Equal(t, []string{"udp://tracker.example.com:6969", "https://tracker.example.org/announce"}, info.Announce)
	assert.Equal(t, []string{"https://mirror.example.com/"}, info.URLList)
	assert.Equal(t, "test", info.Comment)
	assert.Equal(t, "tget", info.CreatedBy)
	assert.Equal(t, int64(1700000000), info.CreationDate)
	assert.False(t, info.Private)

	require.Len(t, info.Files, 2)
	assert.Equal(t, "show/episode.mkv", info.Files[0].Path)
	assert.Equal(t, "episode.mkv", info.Files[0].Name)
	assert.Equal(t, int64(40000), info.Files[0].Length)
	assert.Equal(t, "show/extras/subs.srt", info.Files[1].Path)
	assert.Equal(t, int64(40000), info.Files[1].Offset)

	assert.Equal(t, info.Files[0].Length+info.Files[1].Length, info.Length)
	assert.Equal(t, int64(minPieceLength), info.PieceLength)
	assert.Len(t, info.Pieces, 3)
	assert.Equal(t, info.Length-2*info.PieceLength, info.LastPieceLength)

	assert.NotContains(t, info.Raw, "pieces")
	assert.Equal(t, "show", info.Raw["name"])
	assert.Contains(t, info.Raw, "piece length")
}

func TestCreatePrivate(t *testing.T) {
	info, err := Inspect(bytes.NewReader(create(t, fixture(t), CreateOptions{Private: true})))
	require.NoError(t, err)

	assert.True(t, info.Private)
}

func TestInspectMalformed(t *testing.T) {
	_, err := Inspect(strings.NewReader("this is not a torrent"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not parse descriptor")
}

func TestList(t *testing.T) {
	files, err := List(bytes.NewReader(create(t, fixture(t), CreateOptions{})))
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "show/episode.mkv", files[0].Path)
	assert.Equal(t, "show/extras/subs.srt", files[1].Path)
}

func TestListSingleFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "movie.mkv")
	require.NoError(t, os.WriteFile(p, []byte("frames"), 0o644))

	files, err := List(bytes.NewReader(create(t, p, CreateOptions{})))
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "movie.mkv", files[0].Path)
	assert.Equal(t, int64(6), files[0].Length)
}

func TestCreateFileRefusesToOverwrite(t *testing.T) {
	outfile := filepath.Join(t.TempDir(), "show.torrent")
	require.NoError(t, os.WriteFile(outfile, []byte("keep me"), 0o644))

	err := CreateFile(fixture(t), CreateOptions{}, outfile)
	assert.ErrorIs(t, err, ErrRefusingToOverwrite)

	body, err := os.ReadFile(outfile)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(body))
}

func TestCreateFile(t *testing.T) {
	outfile := filepath.Join(t.TempDir(), "show.torrent")

	require.NoError(t, CreateFile(fixture(t), CreateOptions{}, outfile))

	f, err := os.Open(outfile)
	require.NoError(t, err)
	defer f.Close()

	files, err := List(f)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
