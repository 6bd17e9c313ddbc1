package companycam

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roofleads/backend/internal/domain"
)

func TestFlexID(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"string", `{"id":"abc"}`, "abc"},
		{"integer", `{"id":12345}`, "12345"},
		{"large integer", `{"id":90071992547409910}`, "90071992547409910"},
		{"null", `{"id":null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				ID flexID `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.json), &v))
			assert.Equal(t, tt.want, v.ID.String())
		})
	}
}

func TestMapProject(t *testing.T) {
	t.Run("feature image prefers web rendition", func(t *testing.T) {
		c := mapProject(projectDTO{
			ID:           "p1",
			Address:      &addressDTO{StreetAddress1: "1 Elm St"},
			FeatureImage: []uriDTO{{Type: "thumbnail", URI: "t"}, {Type: "web", URI: "w"}},
		})

		assert.Equal(t, "w", c.FeatureImage)
		assert.Equal(t, "1 Elm St", c.StreetAddress)
		assert.Nil(t, c.CreatedAt)
	})

	t.Run("missing address leaves fields empty", func(t *testing.T) {
		c := mapProject(projectDTO{ID: "p2", PhotoCount: 3})

		assert.Empty(t, c.StreetAddress)
		assert.Empty(t, c.City)
		assert.Equal(t, 3, c.PhotoCount)
	})
}

func TestPickURI(t *testing.T) {
	uris := []domain.PhotoURI{
		{Type: "original", URI: "o"},
		{Type: "web", URI: ""},
		{Type: "thumbnail", URI: "t"},
	}

	assert.Equal(t, "t", pickURI(uris, "web", "thumbnail"))
	assert.Equal(t, "o", pickURI(uris, "medium"))
	assert.Equal(t, "", pickURI(nil, "web"))
}
