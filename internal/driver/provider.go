package driver

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"

	"github.com/rbrovko/SwiftLint/internal/source"
	"github.com/rbrovko/SwiftLint/internal/syntax"
)

const (
	// StructureSuffix names the structural tree sidecar of a source file.
	StructureSuffix = ".structure.json"
	// SyntaxSuffix names the lexical classification sidecar of a source file.
	SyntaxSuffix = ".syntax.json"
)

// Trees is what a TreeProvider knows about one snapshot.
type Trees struct {
	// Tree is nil when no fresh tree is available.
	Tree *syntax.Node
	// Syntax is nil when no fresh classification is available.
	Syntax *syntax.SyntaxMap
	// Stale is set when a sidecar exists but describes other content.
	Stale bool
	// Digest covers the raw sidecar bytes; it is part of the cache key.
	Digest [sha256.Size]byte
}

// TreeProvider supplies the external parser output for a snapshot.
type TreeProvider interface {
	Trees(f *source.File) (Trees, error)
}

// SidecarProvider reads <file>.structure.json and <file>.syntax.json next
// to each source file. Missing sidecars are not an error.
type SidecarProvider struct{}

// Trees implements TreeProvider.
func (SidecarProvider) Trees(f *source.File) (Trees, error) {
	var out Trees
	h := sha256.New()

	structure, err := readSidecar(f.Path + StructureSuffix)
	if err != nil {
		return out, err
	}
	if structure != nil {
		_, _ = h.Write(structure)
		st, err := syntax.DecodeStructure(structure)
		if err != nil {
			return out, fmt.Errorf("%s: %w", f.Path+StructureSuffix, err)
		}
		switch err := st.CheckSource(f); {
		case errors.Is(err, syntax.ErrStaleTree):
			out.Stale = true
		case err != nil:
			return out, err
		default:
			if err := syntax.Validate(st.Root, f.Len()); err != nil {
				return out, fmt.Errorf("%s: %w", f.Path+StructureSuffix, err)
			}
			out.Tree = st.Root
		}
	}

	lexical, err := readSidecar(f.Path + SyntaxSuffix)
	if err != nil {
		return out, err
	}
	if lexical != nil {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write(lexical)
		sm, err := syntax.DecodeSyntaxMap(lexical)
		if err != nil {
			return out, fmt.Errorf("%s: %w", f.Path+SyntaxSuffix, err)
		}
		switch err := sm.CheckSource(f); {
		case errors.Is(err, syntax.ErrStaleTree):
			out.Stale = true
		case err != nil:
			return out, err
		default:
			if err := sm.Validate(f.Len()); err != nil {
				return out, fmt.Errorf("%s: %w", f.Path+SyntaxSuffix, err)
			}
			out.Syntax = sm
		}
	}

	copy(out.Digest[:], h.Sum(nil))
	return out, nil
}

func readSidecar(path string) ([]byte, error) {
	// #nosec G304 -- sidecar path derives from a discovered source path
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sidecar: %w", err)
	}
	return data, nil
}

// NoTrees is a TreeProvider that never supplies trees; structural rules are
// skipped and comments and strings are classified lexically.
type NoTrees struct{}

// Trees implements TreeProvider.
func (NoTrees) Trees(*source.File) (Trees, error) { return Trees{}, nil }
