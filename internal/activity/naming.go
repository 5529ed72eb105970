package activity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"path"
	"regexp"
	"strings"
	"time"
)

const (
	// maxSlugLength bounds the description-derived part of a branch name
	maxSlugLength = 40

	// tokenLength is the length of the random suffix token
	tokenLength = 5
)

// tokenAlphabet deliberately avoids vowels (no accidental words) and hex
// letters (a token can never be mistaken for a SHA)
const tokenAlphabet = "ghjklmnpqrstvwxz"

var (
	slugReplaceRegex  = regexp.MustCompile(`[^a-z0-9]+`)
	hyphenSquashRegex = regexp.MustCompile(`-+`)
)

// Slugify reduces text to a lowercase, URL- and ref-safe slug
func Slugify(text string) string {
	slug := strings.ToLower(strings.TrimSpace(text))
	slug = slugReplaceRegex.ReplaceAllString(slug, "-")
	slug = hyphenSquashRegex.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
		slug = strings.TrimSuffix(slug, "-")
	}

	return slug
}

// randomToken returns a short random token from the branch-name alphabet
func randomToken(length int) string {
	var b strings.Builder
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		b.WriteByte(tokenAlphabet[n.Int64()])
	}
	return b.String()
}

// BranchNameForTask derives a unique, URL-safe branch name from a task
// description: slug, creation timestamp, random token
func BranchNameForTask(description string, now time.Time, token string) string {
	slug := Slugify(description)
	if slug == "" {
		slug = "activity"
	}
	return fmt.Sprintf("%s-%d-%s", slug, now.Unix(), token)
}

// NormalizePath slugifies the directory components of a content path,
// keeping the file name's extension. Used when creating new content so
// saved paths stay URL-safe.
func NormalizePath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return p
	}

	dir, file := path.Split(p)
	ext := path.Ext(file)
	base := strings.TrimSuffix(file, ext)

	var parts []string
	for _, component := range strings.Split(strings.Trim(dir, "/"), "/") {
		if component == "" {
			continue
		}
		parts = append(parts, Slugify(component))
	}
	parts = append(parts, Slugify(base)+ext)

	return path.Join(parts...)
}
