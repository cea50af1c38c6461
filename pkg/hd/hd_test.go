package hd

import (
	"testing"

	"photowall/pkg/generative"
	"photowall/pkg/models"
)

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "unsplash rewrites width and quality",
			src:  "https://images.unsplash.com/photo-abc?ixlib=rb-4.0.3&w=800&q=85",
			want: "https://images.unsplash.com/photo-abc?ixlib=rb-4.0.3&w=1920&q=90",
		},
		{
			name: "unsplash strips fit",
			src:  "https://images.unsplash.com/photo-abc?ixlib=rb-4.0.3&fit=crop&w=800&q=85",
			want: "https://images.unsplash.com/photo-abc?ixlib=rb-4.0.3&w=1920&q=90",
		},
		{
			name: "unsplash strips leading fit",
			src:  "https://images.unsplash.com/photo-abc?fit=max&w=800",
			want: "https://images.unsplash.com/photo-abc?w=1920",
		},
		{
			name: "unsplash fit only",
			src:  "https://images.unsplash.com/photo-abc?fit=max",
			want: "https://images.unsplash.com/photo-abc",
		},
		{
			name: "unsplash without params is untouched",
			src:  "https://images.unsplash.com/photo-abc",
			want: "https://images.unsplash.com/photo-abc",
		},
		{
			name: "placeholder portrait",
			src:  "https://picsum.photos/seed/nature-0/400/600",
			want: "https://picsum.photos/seed/nature-0/1200/1800",
		},
		{
			name: "placeholder landscape",
			src:  "https://picsum.photos/seed/nature-1/600/400",
			want: "https://picsum.photos/seed/nature-1/1800/1200",
		},
		{
			name: "placeholder square",
			src:  "https://picsum.photos/seed/nature-2/500/500",
			want: "https://picsum.photos/seed/nature-2/1200/1200",
		},
		{
			name: "unknown host",
			src:  "https://example.com/a.jpg?w=10",
			want: "https://example.com/a.jpg?w=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := URL(models.Photo{Src: tt.src}); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestURLCoversGeneratedSet(t *testing.T) {
	for _, p := range generative.Generate("ocean view") {
		w, h := generative.Dimensions(p.Aspect)
		got := URL(p)
		if got == p.Src {
			t.Errorf("%s (%dx%d) was not upscaled", p.ID, w, h)
		}
	}
}
