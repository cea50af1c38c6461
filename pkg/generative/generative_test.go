package generative

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"photowall/pkg/models"
)

func TestGenerateIsDeterministic(t *testing.T) {
	first, err := json.Marshal(Generate("ocean view"))
	require.NoError(t, err)
	second, err := json.Marshal(Generate("ocean view"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	photos := Generate("ocean view")
	require.Len(t, photos, Count)
	for i, p := range photos {
		assert.Equal(t, fmt.Sprintf("ocean-view-%d", i), p.ID)
	}
}

func TestGenerateRecordShape(t *testing.T) {
	photos := Generate("ocean view")

	assert.Equal(t, models.Photo{
		ID:     "ocean-view-0",
		Src:    "https://picsum.photos/seed/ocean-view-0/400/600",
		Alt:    "ocean view photo 1",
		Title:  "Ocean view 1",
		Aspect: models.AspectPortrait,
	}, photos[0])
	assert.Equal(t, "https://picsum.photos/seed/ocean-view-1/600/400", photos[1].Src)
	assert.Equal(t, models.AspectLandscape, photos[1].Aspect)
	assert.Equal(t, "https://picsum.photos/seed/ocean-view-2/500/500", photos[2].Src)
	assert.Equal(t, models.AspectSquare, photos[2].Aspect)
	assert.Equal(t, "Ocean view 30", photos[29].Title)
}

func TestSeed(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ocean View", "ocean-view"},
		{"a  \t b", "a-b"},
		{"single", "single"},
		{"  Ocean View ", "ocean-view"},
		{"\tsnowy  peaks\n", "snowy-peaks"},
	}
	for _, tt := range tests {
		if got := Seed(tt.in); got != tt.want {
			t.Errorf("Seed(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateTrimsTerm(t *testing.T) {
	photos := Generate("  ocean view ")
	require.Len(t, photos, Count)
	assert.Equal(t, Generate("ocean view"), photos)
	assert.Equal(t, "ocean-view-0", photos[0].ID)
	assert.Equal(t, "Ocean view 1", photos[0].Title)
	assert.Equal(t, "ocean view photo 1", photos[0].Alt)
}

func TestGenerateBlankTerm(t *testing.T) {
	assert.Nil(t, Generate(""))
	assert.Nil(t, Generate("   "))
}

func TestSource(t *testing.T) {
	var s Source
	photos, err := s.Search(context.Background(), "cats")
	require.NoError(t, err)
	assert.Len(t, photos, Count)
	assert.Equal(t, "generative", s.Name())
}

func TestReachable(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "/seed/test/100/100", r.URL.Path)
	}))
	defer ok.Close()
	assert.True(t, Reachable(context.Background(), ok.Client(), ok.URL))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	assert.False(t, Reachable(context.Background(), down.Client(), down.URL))
}
