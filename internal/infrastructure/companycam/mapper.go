package companycam

import (
	"time"

	"github.com/roofleads/backend/internal/domain"
)

// mapProject converts a CompanyCam project payload to a domain Candidate
func mapProject(p projectDTO) domain.Candidate {
	c := domain.Candidate{
		ID:         p.ID.String(),
		Name:       p.Name,
		PhotoCount: p.PhotoCount,
		PublicURL:  p.PublicURL,
		Status:     p.Status,
		CreatedAt:  unixTime(p.CreatedAt),
		UpdatedAt:  unixTime(p.UpdatedAt),
	}

	if p.Address != nil {
		c.StreetAddress = p.Address.StreetAddress1
		c.City = p.Address.City
		c.State = p.Address.State
		c.PostalCode = p.Address.PostalCode
	}

	if p.Coordinates != nil {
		c.Coordinates = &domain.Coordinates{Lat: p.Coordinates.Lat, Lon: p.Coordinates.Lon}
	}

	if len(p.FeatureImage) > 0 {
		c.FeatureImage = pickURI(mapURIs(p.FeatureImage), "web", "thumbnail")
	}

	return c
}

func mapPhoto(m mediaDTO) domain.Photo {
	return domain.Photo{ID: m.ID.String(), URIs: mapURIs(m.URIs)}
}

func mapMedia(m mediaDTO, kind domain.MediaType) domain.MediaItem {
	return domain.MediaItem{
		ID:          m.ID.String(),
		MediaType:   kind,
		Name:        m.Name,
		Description: m.Description,
		URL:         m.URL,
		URIs:        mapURIs(m.URIs),
		CapturedAt:  m.CapturedAt,
		CreatedAt:   m.CreatedAt,
	}
}

func mapLabel(l labelDTO) domain.Label {
	return domain.Label{
		ID:           l.ID.String(),
		DisplayValue: l.DisplayValue,
		Value:        l.Value,
		TagType:      l.TagType,
	}
}

func mapURIs(in []uriDTO) []domain.PhotoURI {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.PhotoURI, 0, len(in))
	for _, u := range in {
		out = append(out, domain.PhotoURI{Type: u.Type, URI: u.link()})
	}
	return out
}

// pickURI returns the first non-empty URI of the preferred types, else the first URI
func pickURI(uris []domain.PhotoURI, preferred ...string) string {
	for _, want := range preferred {
		for _, u := range uris {
			if u.Type == want && u.URI != "" {
				return u.URI
			}
		}
	}
	if len(uris) > 0 {
		return uris[0].URI
	}
	return ""
}

func unixTime(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
