package descriptor

import (
	"fmt"

	apperrors "go-image-quality/internal/errors"
)

// AspectRatio reduces width:height by their greatest common divisor
func AspectRatio(width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", apperrors.NewInvalidDimensionError(width, height)
	}
	d := gcd(width, height)
	return fmt.Sprintf("%d:%d", width/d, height/d), nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
