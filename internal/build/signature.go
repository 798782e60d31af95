package build

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// exportSignatureHash collapses a file's exported declarations (as rendered
// by checker.ExportedSignatures) into one hex digest. Hashing resolved
// types rather than the raw source means incremental rebuilds skip
// re-checking a dependent file when only a dependency's implementation
// changed.
//
// Signatures are sorted by name before hashing so the digest is independent
// of declaration order in the source file.
func exportSignatureHash(signatures map[string]string) string {
	names := make([]string, 0, len(signatures))
	for name := range signatures {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('\x00')
		b.WriteString(signatures[name])
		b.WriteByte('\x00')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
