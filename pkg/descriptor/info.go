package descriptor

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/anacrolix/torrent/metainfo"
	"github.com/jackpal/bencode-go"
	v1 "github.com/pojntfx/tget/pkg/api/http/v1"
)

const (
	pieceHashLength = 20
)

var (
	ErrMissingInfo = errors.New("could not find info dictionary")
)

// Inspect parses a descriptor into its metadata. The raw info dictionary is
// kept without its binary piece hashes; all byte strings end up as text.
func Inspect(r io.Reader) (v1.Info, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return v1.Info{}, err
	}

	mi, err := metainfo.Load(bytes.NewReader(body))
	if err != nil {
		return v1.Info{}, fmt.Errorf("could not parse descriptor: %w", err)
	}

	info, err := mi.UnmarshalInfo()
	if err != nil {
		return v1.Info{}, fmt.Errorf("could not parse descriptor: %w", err)
	}

	raw, err := rawInfo(body)
	if err != nil {
		return v1.Info{}, fmt.Errorf("could not parse descriptor: %w", err)
	}

	pieces := []string{}
	for i := 0; i+pieceHashLength <= len(info.Pieces); i += pieceHashLength {
		pieces = append(pieces, hex.EncodeToString(info.Pieces[i:i+pieceHashLength]))
	}

	length := info.TotalLength()

	lastPieceLength := int64(0)
	if len(pieces) > 0 {
		lastPieceLength = length - info.PieceLength*int64(len(pieces)-1)
	}

	announce := []string{}
	for _, tier := range mi.AnnounceList {
		announce = append(announce, tier...)
	}
	if len(announce) == 0 && mi.Announce != "" {
		announce = append(announce, mi.Announce)
	}

	return v1.Info{
		InfoHash:        mi.HashInfoBytes().HexString(),
		Name:            info.BestName(),
		Private:         info.Private != nil && *info.Private,
		CreationDate:    mi.CreationDate,
		CreatedBy:       mi.CreatedBy,
		Comment:         mi.Comment,
		Announce:        announce,
		URLList:         append([]string{}, mi.UrlList...),
		Files:           files(&info),
		Length:          length,
		PieceLength:     info.PieceLength,
		LastPieceLength: lastPieceLength,
		Pieces:          pieces,
		Raw:             raw,
	}, nil
}

// List returns the files of a descriptor in order
func List(r io.Reader) ([]v1.File, error) {
	mi, err := metainfo.Load(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse descriptor: %w", err)
	}

	info, err := mi.UnmarshalInfo()
	if err != nil {
		return nil, fmt.Errorf("could not parse descriptor: %w", err)
	}

	return files(&info), nil
}

func files(info *metainfo.Info) []v1.File {
	name := info.BestName()

	files := []v1.File{}
	offset := int64(0)
	for _, f := range info.UpvertedFiles() {
		p := path.Join(append([]string{name}, f.Path...)...)

		files = append(files, v1.File{
			Name:   path.Base(p),
			Path:   p,
			Length: f.Length,
			Offset: offset,
		})

		offset += f.Length
	}

	return files
}

func rawInfo(body []byte) (map[string]interface{}, error) {
	decoded, err := bencode.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	root, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, ErrMissingInfo
	}

	info, ok := root["info"].(map[string]interface{})
	if !ok {
		return nil, ErrMissingInfo
	}

	delete(info, "pieces")

	return info, nil
}
