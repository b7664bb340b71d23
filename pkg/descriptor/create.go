package descriptor

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/anacrolix/torrent/bencode"
	"github.com/anacrolix/torrent/metainfo"
	"github.com/rs/zerolog/log"
)

const (
	minPieceLength = 16 * 1024
)

var (
	ErrRefusingToOverwrite = errors.New("refusing to overwrite existing torrent file")
)

type CreateOptions struct {
	Trackers     []string
	URLList      []string
	Comment      string
	Private      bool
	CreatedBy    string
	CreationDate time.Time
}

// Create builds a descriptor for the file or directory at root and writes it to w
func Create(root string, opts CreateOptions, w io.Writer) error {
	total, err := totalLength(root)
	if err != nil {
		return err
	}

	info := metainfo.Info{
		PieceLength: PieceLength(total),
	}
	if opts.Private {
		private := true
		info.Private = &private
	}

	log.Debug().
		Str("root", root).
		Int64("length", total).
		Int64("pieceLength", info.PieceLength).
		Msg("Hashing pieces")

	if err := info.BuildFromFilePath(root); err != nil {
		return err
	}

	infoBytes, err := bencode.Marshal(info)
	if err != nil {
		return err
	}

	mi := metainfo.MetaInfo{
		InfoBytes: infoBytes,
		Comment:   opts.Comment,
		CreatedBy: opts.CreatedBy,
		UrlList:   opts.URLList,
	}
	if !opts.CreationDate.IsZero() {
		mi.CreationDate = opts.CreationDate.Unix()
	}

	for _, tracker := range opts.Trackers {
		if mi.Announce == "" {
			mi.Announce = tracker
		}

		mi.AnnounceList = append(mi.AnnounceList, []string{tracker})
	}

	return mi.Write(w)
}

// CreateFile is Create into a new file; it never replaces an existing one
func CreateFile(root string, opts CreateOptions, outfile string) error {
	if _, err := os.Stat(outfile); err == nil {
		return ErrRefusingToOverwrite
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	var buf bytes.Buffer
	if err := Create(root, opts, &buf); err != nil {
		return err
	}

	f, err := os.OpenFile(outfile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrRefusingToOverwrite
		}

		return err
	}

	if _, err := buf.WriteTo(f); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}

// PieceLength picks the power of two closest to a thousandth of the total length, at least 16 KiB
func PieceLength(total int64) int64 {
	kib := float64(total) / 1024
	if kib < 1 {
		kib = 1
	}

	length := int64(1) << int(math.Floor(math.Log2(kib)+0.5))
	if length < minPieceLength {
		return minPieceLength
	}

	return length
}

func totalLength(root string) (int64, error) {
	total := int64(0)
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.Type().IsRegular() {
			return nil
		}

		i, err := d.Info()
		if err != nil {
			return err
		}

		total += i.Size()

		return nil
	})

	return total, err
}
