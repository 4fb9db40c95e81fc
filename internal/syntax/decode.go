package syntax

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/rbrovko/SwiftLint/internal/source"
)

// Structure is a decoded structural tree together with the content hash the
// producer recorded, if any.
type Structure struct {
	Root       *Node
	SourceHash string
}

type structureJSON struct {
	Kind         string          `json:"key.kind"`
	Offset       *int64          `json:"key.offset"`
	Length       *int64          `json:"key.length"`
	NameOffset   *int64          `json:"key.nameoffset"`
	NameLength   *int64          `json:"key.namelength"`
	BodyOffset   *int64          `json:"key.bodyoffset"`
	BodyLength   *int64          `json:"key.bodylength"`
	Substructure []structureJSON `json:"key.substructure"`
	SourceSHA256 string          `json:"source_sha256"`
}

// DecodeStructure decodes a SourceKitten-shaped structure document. The top
// level object becomes a KindFile root; its key.substructure entries are the
// top-level nodes of the file.
func DecodeStructure(data []byte) (*Structure, error) {
	var doc structureJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTree, err)
	}
	root, err := convertNode(&doc, "")
	if err != nil {
		return nil, err
	}
	root.Kind = KindFile
	root.RawKind = ""
	return &Structure{Root: root, SourceHash: strings.ToLower(doc.SourceSHA256)}, nil
}

func convertNode(in *structureJSON, path string) (*Node, error) {
	n := &Node{Kind: ParseKind(in.Kind), RawKind: in.Kind}
	var err error
	if n.Range, err = extent(in.Offset, in.Length, path, "range"); err != nil {
		return nil, err
	}
	if n.Name, err = extent(in.NameOffset, in.NameLength, path, "name"); err != nil {
		return nil, err
	}
	if n.Body, err = extent(in.BodyOffset, in.BodyLength, path, "body"); err != nil {
		return nil, err
	}
	if len(in.Substructure) > 0 {
		n.Children = make([]*Node, 0, len(in.Substructure))
	}
	for i := range in.Substructure {
		child, err := convertNode(&in.Substructure[i], fmt.Sprintf("%s/%d", path, i))
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// extent converts an optional offset/length pair. A node that reports only
// one half of the pair gets a zero length or is treated as absent.
func extent(offset, length *int64, path, what string) (*Extent, error) {
	if offset == nil {
		return nil, nil
	}
	off, err := safecast.Conv[uint32](*offset)
	if err != nil {
		return nil, fmt.Errorf("%w: node %s: %s offset %d: %w", ErrMalformedTree, nodePath(path), what, *offset, err)
	}
	var ln uint32
	if length != nil {
		ln, err = safecast.Conv[uint32](*length)
		if err != nil {
			return nil, fmt.Errorf("%w: node %s: %s length %d: %w", ErrMalformedTree, nodePath(path), what, *length, err)
		}
	}
	if off+ln < off {
		return nil, fmt.Errorf("%w: node %s: %s extent overflows", ErrMalformedTree, nodePath(path), what)
	}
	return &Extent{Offset: off, Length: ln}, nil
}

func nodePath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

// CheckSource verifies the recorded content hash, when present, against f.
func (s *Structure) CheckSource(f *source.File) error {
	return checkHash(s.SourceHash, f)
}

func checkHash(want string, f *source.File) error {
	if want == "" || f == nil {
		return nil
	}
	if got := hex.EncodeToString(f.Hash[:]); got != want {
		return fmt.Errorf("%w: %s: recorded %s, content %s", ErrStaleTree, f.Path, short(want), short(got))
	}
	return nil
}

func short(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// HashHex returns the hex digest sidecar producers record for content.
func HashHex(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
