package source

import (
	"golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeUTF16 transcodes BOM-marked UTF-16 content to UTF-8. Content
// without a UTF-16 byte order mark is returned untouched.
func decodeUTF16(content []byte) ([]byte, FileFlags, error) {
	if len(content) < 2 {
		return content, 0, nil
	}
	flags := FileTranscoded
	switch {
	case content[0] == 0xFF && content[1] == 0xFE:
	case content[0] == 0xFE && content[1] == 0xFF:
		flags |= FileBigEndian
	default:
		return content, 0, nil
	}
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(content)
	if err != nil {
		return nil, 0, err
	}
	return out, flags, nil
}

// Encode turns snapshot content back into the on-disk form Load read it
// from: UTF-16 input is re-encoded with its byte order mark and endianness,
// and a stripped UTF-8 BOM is restored.
func Encode(content []byte, flags FileFlags) ([]byte, error) {
	if flags&FileTranscoded != 0 {
		order := unicode.LittleEndian
		if flags&FileBigEndian != 0 {
			order = unicode.BigEndian
		}
		return unicode.UTF16(order, unicode.UseBOM).NewEncoder().Bytes(content)
	}
	if flags&FileHadBOM != 0 {
		return append(append(make([]byte, 0, len(utf8BOM)+len(content)), utf8BOM...), content...), nil
	}
	return content, nil
}
