package usecase

import (
	"strings"

	"github.com/roofleads/backend/internal/domain"
)

// normalizeAddress lower-cases and trims an address for comparison
func normalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// digitSignature concatenates every ASCII digit of s in order.
// "123 Oak St, Apt 4" -> "1234".
func digitSignature(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// addressQuery is a search address prepared once per search
type addressQuery struct {
	normalized string
	digits     string
}

func newAddressQuery(raw string) addressQuery {
	n := normalizeAddress(raw)
	return addressQuery{normalized: n, digits: digitSignature(n)}
}

// match applies the acceptance rules to one candidate. Rules run in order:
//  1. no street address or no photos: reject
//  2. equal non-empty digit signatures: accept
//  3. either normalized address contains the other: accept
//
// Rule 2 deliberately ignores street names, so "12 3rd St" matches "123 Oak St".
func (q addressQuery) match(c domain.Candidate) (domain.MatchType, bool) {
	if c.StreetAddress == "" || c.PhotoCount <= 0 {
		return "", false
	}

	// a whitespace-only street address counts as missing; it would otherwise contain every query
	addr := normalizeAddress(c.StreetAddress)
	if addr == "" {
		return "", false
	}

	if q.digits != "" {
		if d := digitSignature(addr); d != "" && d == q.digits {
			return domain.MatchTypeDigits, true
		}
	}

	if strings.Contains(addr, q.normalized) || strings.Contains(q.normalized, addr) {
		return domain.MatchTypeSubstring, true
	}

	return "", false
}

// selectThumbnail picks the preview URI of a photo: thumbnail, then web, then the first URI
func selectThumbnail(p domain.Photo) string {
	for _, want := range []string{"thumbnail", "web"} {
		for _, u := range p.URIs {
			if u.Type == want && u.URI != "" {
				return u.URI
			}
		}
	}
	if len(p.URIs) > 0 {
		return p.URIs[0].URI
	}
	return ""
}

// thumbnails maps photos to preview URIs, dropping photos without one
func thumbnails(photos []domain.Photo) []domain.Thumbnail {
	out := make([]domain.Thumbnail, 0, len(photos))
	for _, p := range photos {
		if uri := selectThumbnail(p); uri != "" {
			out = append(out, domain.Thumbnail{Thumbnail: uri})
		}
	}
	return out
}
