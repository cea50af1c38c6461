package columns

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"photowall/pkg/models"
)

func makePhotos(n int) []models.Photo {
	photos := make([]models.Photo, n)
	for i := range photos {
		photos[i] = models.Photo{ID: fmt.Sprintf("p%d", i)}
	}
	return photos
}

func TestDistributeThirteenIntoSix(t *testing.T) {
	cols := Distribute(makePhotos(13), 6)
	require.Len(t, cols, 6)

	sizes := make([]int, len(cols))
	total := 0
	for i, c := range cols {
		sizes[i] = len(c)
		total += len(c)
	}
	assert.Equal(t, []int{3, 2, 2, 2, 2, 2}, sizes)
	assert.Equal(t, 13, total)
	assert.Equal(t, []string{"p0", "p6", "p12"}, models.IDs(cols[0]))
	assert.Equal(t, []string{"p5", "p11"}, models.IDs(cols[5]))
}

func TestDistributeBalancedAndOrdered(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for count := 0; count <= 31; count++ {
			cols := Distribute(makePhotos(count), n)
			minLen, maxLen := count, 0
			for c, col := range cols {
				if len(col) < minLen {
					minLen = len(col)
				}
				if len(col) > maxLen {
					maxLen = len(col)
				}
				for j, p := range col {
					want := fmt.Sprintf("p%d", c+j*n)
					if p.ID != want {
						t.Fatalf("n=%d count=%d column %d slot %d = %s, want %s", n, count, c, j, p.ID, want)
					}
				}
			}
			if maxLen-minLen > 1 {
				t.Errorf("n=%d count=%d unbalanced: min %d max %d", n, count, minLen, maxLen)
			}
		}
	}
}

func TestDistributeDegenerateCount(t *testing.T) {
	cols := Distribute(makePhotos(3), 0)
	require.Len(t, cols, 1)
	assert.Len(t, cols[0], 3)
}

func TestCountForWidth(t *testing.T) {
	tests := []struct {
		width float64
		want  int
	}{
		{0, 2},
		{639, 2},
		{640, 3},
		{767, 3},
		{768, 4},
		{1023, 4},
		{1024, 5},
		{1279, 5},
		{1280, 6},
		{2560, 6},
	}
	for _, tt := range tests {
		if got := CountForWidth(tt.width); got != tt.want {
			t.Errorf("CountForWidth(%v) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestCountForCells(t *testing.T) {
	assert.Equal(t, 2, CountForCells(79, 8))
	assert.Equal(t, 3, CountForCells(80, 8))
	assert.Equal(t, 6, CountForCells(200, 8))
	assert.Equal(t, 2, CountForCells(-5, 8))
}
