package source

type (
	// FileID uniquely identifies a source file snapshot within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	// FileTranscoded marks content decoded from UTF-16. Encode restores the
	// original encoding before the content is written back.
	FileTranscoded
	// FileBigEndian qualifies FileTranscoded: the input was UTF-16BE.
	FileBigEndian
)

// File captures metadata and content for a single source snapshot together
// with its position index. A File is immutable once added to a FileSet.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags

	runes     []rune
	runeStart []uint32 // byte offset of each rune plus an EOF sentinel; nil for ASCII content
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
