package hunt

// RewardTier is a discount/benefit unlocked at a found-count threshold.
// It is derived from progress on demand and never persisted.
type RewardTier struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Threshold   int    `json:"threshold"`
}

// Reward tier codes.
const (
	RewardCodeGrandDraw  = "DISCOUNT20+DRAW"
	RewardCodeDiscount20 = "DISCOUNT20"
	RewardCodeDiscount10 = "DISCOUNT10"
)

// tiers is ordered highest threshold first; RewardFor picks the first match.
var tiers = []RewardTier{
	{Code: RewardCodeGrandDraw, Description: "20% discount + entry to the grand draw", Threshold: 10},
	{Code: RewardCodeDiscount20, Description: "20% discount", Threshold: 7},
	{Code: RewardCodeDiscount10, Description: "10% discount", Threshold: 5},
}

// RewardFor returns the highest tier whose threshold is at or below the
// given found count. The second return value is false when no tier is
// reached yet.
func RewardFor(foundCount int) (RewardTier, bool) {
	for _, t := range tiers {
		if foundCount >= t.Threshold {
			return t, true
		}
	}
	return RewardTier{}, false
}

// Tiers returns the reward ladder, highest threshold first.
func Tiers() []RewardTier {
	out := make([]RewardTier, len(tiers))
	copy(out, tiers)
	return out
}
