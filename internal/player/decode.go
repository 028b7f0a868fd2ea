package player

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Supported container formats.
const (
	formatUnknown = ""
	formatMP3     = "mp3"
	formatFLAC    = "flac"
	formatOGG     = "ogg"
	formatWAV     = "wav"
)

// memFile adapts downloaded bytes to the ReadSeekCloser decoders expect.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func newMemFile(data []byte) memFile {
	return memFile{Reader: bytes.NewReader(data)}
}

// detectFormat picks a decoder from the URL extension, then the content
// type, then the leading bytes.
func detectFormat(src, contentType string, head []byte) string {
	if u, err := url.Parse(src); err == nil {
		if f := formatFromExt(path.Ext(u.Path)); f != formatUnknown {
			return f
		}
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "audio/mpeg", "audio/mp3":
			return formatMP3
		case "audio/flac", "audio/x-flac":
			return formatFLAC
		case "audio/ogg", "audio/vorbis", "application/ogg":
			return formatOGG
		case "audio/wav", "audio/x-wav", "audio/wave":
			return formatWAV
		}
	}
	return formatFromMagic(head)
}

func formatFromExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".mp3":
		return formatMP3
	case ".flac":
		return formatFLAC
	case ".ogg", ".oga":
		return formatOGG
	case ".wav":
		return formatWAV
	default:
		return formatUnknown
	}
}

func formatFromMagic(head []byte) string {
	switch {
	case bytes.HasPrefix(head, []byte("fLaC")):
		return formatFLAC
	case bytes.HasPrefix(head, []byte("OggS")):
		return formatOGG
	case bytes.HasPrefix(head, []byte("RIFF")) && len(head) >= 12 && string(head[8:12]) == "WAVE":
		return formatWAV
	case bytes.HasPrefix(head, []byte("ID3")):
		// An ID3v2 prefix usually means mp3.
		return formatMP3
	case len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		return formatMP3
	default:
		return formatUnknown
	}
}

// decode returns a seekable streamer over the downloaded bytes.
func decode(src string, f fetched) (beep.StreamSeekCloser, beep.Format, error) {
	head := f.data
	if len(head) > 12 {
		head = head[:12]
	}
	r := newMemFile(f.data)

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch detectFormat(src, f.contentType, head) {
	case formatMP3:
		streamer, format, err = decodeGoMP3(r)
	case formatFLAC:
		if err := skipID3v2(r); err != nil {
			return nil, beep.Format{}, &Error{Code: CodeDecode, Err: err}
		}
		streamer, format, err = flac.Decode(r)
	case formatOGG:
		streamer, format, err = vorbis.Decode(r)
	case formatWAV:
		streamer, format, err = wav.Decode(r)
	default:
		return nil, beep.Format{}, &Error{
			Code: CodeSrcNotSupported,
			Err:  fmt.Errorf("unrecognized audio format for %s", src),
		}
	}
	if err != nil {
		return nil, beep.Format{}, &Error{Code: CodeDecode, Err: err}
	}
	return streamer, format, nil
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
// Some FLAC files have ID3v2 tags prepended, which the FLAC decoder doesn't handle.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && n < 10 {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	if string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// ID3v2 size is stored as a syncsafe integer in bytes 6-9
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])

	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
