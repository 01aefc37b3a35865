package theme

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"
)

// Installed files and generated blocks carry distinct namespace markers so
// they are recognizable next to merchant- and theme-author-owned entries.
const (
	slugPrefix    = "cf"
	blockIDPrefix = "cf_"

	blockIDRandomLength = 16
	blockIDAlphabet     = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// FileSlug derives the stable section file name for a catalog section:
// lowercased category, non-alphanumerics collapsed to hyphens, the numeric
// id appended. The same section always yields the same slug, which is what
// makes re-installs overwrite the same asset instead of piling up files.
func FileSlug(category string, id int64) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen

	for _, r := range strings.ToLower(category) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return fmt.Sprintf("%s-section-%d", slugPrefix, id)
	}
	return fmt.Sprintf("%s-%s-%d", slugPrefix, slug, id)
}

// SectionAssetKey is the theme-relative path an installed section lives at.
func SectionAssetKey(slug string) string {
	return "sections/" + slug + ".liquid"
}

// GenerateBlockID mints a fresh opaque block identifier in the platform's
// id shape. Identifiers are random, never derived from the catalog id: a
// deterministic key could collide with a stale key left by an earlier
// partial replace, or with a pre-existing merchant block. The existing key
// set of the document being mutated is checked and the draw re-rolled on
// collision, though at 36^16 the collision branch is effectively dead code.
func GenerateBlockID(existing map[string]json.RawMessage) (string, error) {
	for {
		id, err := randomBlockID()
		if err != nil {
			return "", err
		}
		if _, taken := existing[id]; !taken {
			return id, nil
		}
	}
}

func randomBlockID() (string, error) {
	buf := make([]byte, blockIDRandomLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to draw random block id: %w", err)
	}
	for i, b := range buf {
		buf[i] = blockIDAlphabet[int(b)%len(blockIDAlphabet)]
	}
	return blockIDPrefix + string(buf), nil
}
