package companycam

import (
	"bytes"
	"encoding/json"
)

// flexID accepts both string and numeric ids; CompanyCam has returned both over time
type flexID string

func (f flexID) String() string { return string(f) }

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type addressDTO struct {
	StreetAddress1 string `json:"street_address_1"`
	StreetAddress2 string `json:"street_address_2"`
	City           string `json:"city"`
	State          string `json:"state"`
	PostalCode     string `json:"postal_code"`
	Country        string `json:"country"`
}

type coordinatesDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type uriDTO struct {
	Type string `json:"type"`
	URI  string `json:"uri"`
	URL  string `json:"url"`
}

// link returns whichever of uri/url is set
func (u uriDTO) link() string {
	if u.URI != "" {
		return u.URI
	}
	return u.URL
}

type projectDTO struct {
	ID           flexID          `json:"id"`
	Name         string          `json:"name"`
	Status       string          `json:"status"`
	Address      *addressDTO     `json:"address"`
	Coordinates  *coordinatesDTO `json:"coordinates"`
	PhotoCount   int             `json:"photo_count"`
	PublicURL    string          `json:"public_url"`
	FeatureImage []uriDTO        `json:"feature_image"`
	CreatedAt    int64           `json:"created_at"`
	UpdatedAt    int64           `json:"updated_at"`
}

// mediaDTO covers photos, videos and documents; each kind fills a subset
type mediaDTO struct {
	ID          flexID   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	URIs        []uriDTO `json:"uris"`
	CapturedAt  int64    `json:"captured_at"`
	CreatedAt   int64    `json:"created_at"`
}

type labelDTO struct {
	ID           flexID `json:"id"`
	DisplayValue string `json:"display_value"`
	Value        string `json:"value"`
	TagType      string `json:"tag_type"`
}
