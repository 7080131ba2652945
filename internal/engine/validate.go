package engine

import (
	"fmt"
	"math"

	"github.com/miradorstack/natal-engine/internal/models"
	"github.com/miradorstack/natal-engine/internal/utils"
)

// ValidateBirthInput checks the geographic coordinates.
func ValidateBirthInput(in models.BirthInput) error {
	if math.IsNaN(in.Latitude) || math.IsInf(in.Latitude, 0) || in.Latitude < -90 || in.Latitude > 90 {
		return utils.NewRangeError("input.validate", "latitude must be within [-90, 90]", fmt.Errorf("got %v", in.Latitude))
	}
	if math.IsNaN(in.Longitude) || math.IsInf(in.Longitude, 0) || in.Longitude < -180 || in.Longitude > 180 {
		return utils.NewRangeError("input.validate", "longitude must be within [-180, 180]", fmt.Errorf("got %v", in.Longitude))
	}
	return nil
}
