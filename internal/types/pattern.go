// Package types provides the pattern entity shared by the scanner, the
// registry and everything that consumes the compiled pattern set. It lives in
// its own package to avoid circular dependencies between those packages.
package types

import (
	"time"

	"github.com/conneroisu/patternlab/internal/identifier"
)

// Pattern is one template fragment together with its parsed identity.
// Pseudo-patterns share FilePath and Body with their base pattern and differ
// by ID.Pseudo.
type Pattern struct {
	identifier.ID

	// FilePath is the absolute path of the template file
	FilePath string
	// Body is the template source
	Body string
	// Lineages are the partials this pattern includes, parameters stripped
	Lineages []string
	// PseudoPatterns are the variant names declared in the body; empty for
	// pseudo-patterns themselves
	PseudoPatterns []string
	// LastMod is the modification time of FilePath
	LastMod time.Time
	// Hash is a CRC32 checksum of Body
	Hash string
}

// IsPseudo reports whether the pattern is a variant of another pattern.
func (p *Pattern) IsPseudo() bool {
	return p.Pseudo != ""
}

// BasePartial is the partial of the pattern a pseudo-pattern derives from,
// or the pattern's own partial.
func (p *Pattern) BasePartial() string {
	if !p.IsPseudo() {
		return p.Partial()
	}
	return p.ID.WithPseudo("").Partial()
}
