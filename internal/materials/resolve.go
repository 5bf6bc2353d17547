package materials

import "github.com/BROKENGroupe/soundmap/pkg/models"

// Resolve returns the absorption coefficient of a wall. An explicit
// absorption wins over the material, and an unknown or missing material falls
// back to DefaultAbsorption.
func Resolve(c Catalog, props models.WallProperties) float64 {
	if props.Absorption != nil {
		return clamp01(*props.Absorption)
	}
	if props.Material == "" || c == nil {
		return DefaultAbsorption
	}
	return c.Absorption(props.Material)
}

// ResolveWall looks the wall up in walls and resolves it.
func ResolveWall(c Catalog, walls models.WallMap, k models.WallKey) float64 {
	props, ok := walls[k]
	if !ok {
		return DefaultAbsorption
	}
	return Resolve(c, props)
}

// TransmissionLoss converts an absorption coefficient into the dB lost by
// sound passing through the wall.
func TransmissionLoss(absorption float64) float64 {
	return clamp01(absorption) * TransmissionLossScale
}

// FromTransmissionLoss converts a legacy dB wall loss into an absorption
// coefficient.
func FromTransmissionLoss(lossDB float64) float64 {
	return clamp01(lossDB / TransmissionLossScale)
}

func clamp01(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
