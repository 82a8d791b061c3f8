package evaluation

import "strings"

// WeightProfile selects how a position's athletic testing is weighted.
type WeightProfile int

const (
	ProfileBalanced WeightProfile = iota
	ProfileSpeed
	ProfileStrength
)

func (p WeightProfile) String() string {
	switch p {
	case ProfileSpeed:
		return "speed"
	case ProfileStrength:
		return "strength"
	default:
		return "balanced"
	}
}

var profileWeights = map[WeightProfile]map[string]float64{
	ProfileSpeed: {
		FortyYardDash: 0.35,
		TenYardSplit:  0.15,
		VerticalJump:  0.15,
		BroadJump:     0.10,
		ThreeCone:     0.10,
		ShortShuttle:  0.10,
		BenchPress:    0.05,
	},
	ProfileStrength: {
		BenchPress:    0.35,
		FortyYardDash: 0.10,
		TenYardSplit:  0.05,
		VerticalJump:  0.10,
		BroadJump:     0.15,
		ThreeCone:     0.15,
		ShortShuttle:  0.10,
	},
	ProfileBalanced: {
		FortyYardDash: 1,
		TenYardSplit:  1,
		VerticalJump:  1,
		BroadJump:     1,
		BenchPress:    1,
		ThreeCone:     1,
		ShortShuttle:  1,
	},
}

var positionProfiles = map[string]WeightProfile{
	"WR": ProfileSpeed,
	"RB": ProfileSpeed,
	"HB": ProfileSpeed,
	"CB": ProfileSpeed,
	"S":  ProfileSpeed,
	"FS": ProfileSpeed,
	"SS": ProfileSpeed,
	"DB": ProfileSpeed,

	"OT":  ProfileStrength,
	"T":   ProfileStrength,
	"OG":  ProfileStrength,
	"G":   ProfileStrength,
	"C":   ProfileStrength,
	"IOL": ProfileStrength,
	"OL":  ProfileStrength,
	"DT":  ProfileStrength,
	"DL":  ProfileStrength,
	"NT":  ProfileStrength,
}

// ProfileFor returns the weighting profile of a position.
func ProfileFor(position string) WeightProfile {
	if p, ok := positionProfiles[strings.ToUpper(strings.TrimSpace(position))]; ok {
		return p
	}
	return ProfileBalanced
}

// Weights returns the measurement weights of a profile. The map must not be modified.
func (p WeightProfile) Weights() map[string]float64 {
	return profileWeights[p]
}

// weightedAverage combines sub-scores with the profile's weights renormalized
// over the measurements present. ok is false when no weighted measurement is present.
func weightedAverage(profile WeightProfile, scores map[string]float64) (float64, bool) {
	weights := profile.Weights()
	var sum, total float64
	for name, score := range scores {
		w, ok := weights[name]
		if !ok || w <= 0 {
			continue
		}
		sum += w * score
		total += w
	}
	if total == 0 {
		return 0, false
	}
	return sum / total, true
}
