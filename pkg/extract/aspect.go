package extract

import "photowall/pkg/models"

const aspectTolerance = 1.2

// ClassifyAspect buckets an intrinsic size. Unknown sizes fall into landscape.
func ClassifyAspect(width, height int) models.Aspect {
	w, h := float64(width), float64(height)
	switch {
	case h > w*aspectTolerance:
		return models.AspectPortrait
	case w > h*aspectTolerance:
		return models.AspectLandscape
	case width <= 0 && height <= 0:
		return models.AspectLandscape
	default:
		return models.AspectSquare
	}
}
