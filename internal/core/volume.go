package core

// VolumeTier is a discrete bucket of the volume level used for icons.
type VolumeTier string

const (
	VolumeMuted         VolumeTier = "muted"
	VolumeLow           VolumeTier = "low"
	VolumeMedium        VolumeTier = "medium"
	VolumeHigh          VolumeTier = "high"
	VolumeOveramplified VolumeTier = "overamplified"
)

// TierFor maps a volume level to its tier.
func TierFor(level float64) VolumeTier {
	switch {
	case level >= 1:
		return VolumeOveramplified
	case level > 0.7:
		return VolumeHigh
	case level > 0.4:
		return VolumeMedium
	case level > 0:
		return VolumeLow
	default:
		return VolumeMuted
	}
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
