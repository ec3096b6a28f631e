// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// ReferenceType classifies an input document reference.
type ReferenceType int

const (
	TypeUnknown ReferenceType = iota
	TypeRFC
	TypeURL
)

func (t ReferenceType) String() string {
	switch t {
	case TypeRFC:
		return "rfc"
	case TypeURL:
		return "url"
	default:
		return "unknown"
	}
}

// rfcEditorBase is the plain-text archive of published RFCs. Declared as
// a var so tests can substitute an httptest server.
var rfcEditorBase = "https://www.rfc-editor.org/rfc/"

// rfcPattern matches RFC references: "9110", "RFC 9110", "rfc9110".
var rfcPattern = regexp.MustCompile(`^(?i:rfc)?\s*(\d{1,5})$`)

// Classify determines the reference type and returns the normalized
// form. For RFC references the normalized form is the bare number.
func Classify(reference string) (ReferenceType, string) {
	reference = strings.TrimSpace(reference)

	if m := rfcPattern.FindStringSubmatch(reference); m != nil {
		return TypeRFC, m[1]
	}

	if u, err := url.Parse(reference); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return TypeURL, reference
	}

	return TypeUnknown, reference
}

// Slug returns a filesystem-safe filename stem for the reference.
func Slug(refType ReferenceType, normalized string) string {
	switch refType {
	case TypeRFC:
		return "rfc" + normalized
	case TypeURL:
		u, err := url.Parse(normalized)
		if err != nil {
			return urlHashSlug(normalized)
		}
		base := strings.TrimSuffix(filepath.Base(u.Path), filepath.Ext(u.Path))
		if base == "" || base == "." || base == "/" {
			return urlHashSlug(normalized)
		}
		return base
	default:
		return "unknown"
	}
}

// TextURL returns the download URL for the reference. RFC references
// resolve to the rfc-editor.org plain-text archive; direct URLs are
// returned as-is.
func TextURL(refType ReferenceType, normalized string) string {
	switch refType {
	case TypeRFC:
		return rfcEditorBase + "rfc" + normalized + ".txt"
	case TypeURL:
		return normalized
	default:
		return ""
	}
}

func urlHashSlug(rawURL string) string {
	h := sha256.Sum256([]byte(rawURL))
	return fmt.Sprintf("url-%x", h[:8])
}
