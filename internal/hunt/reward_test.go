package hunt

import "testing"

func TestRewardFor(t *testing.T) {
	cases := []struct {
		found    int
		wantCode string
		wantOK   bool
	}{
		{0, "", false},
		{4, "", false},
		{5, RewardCodeDiscount10, true},
		{6, RewardCodeDiscount10, true},
		{7, RewardCodeDiscount20, true},
		{9, RewardCodeDiscount20, true},
		{10, RewardCodeGrandDraw, true},
		{11, RewardCodeGrandDraw, true},
	}

	for _, c := range cases {
		tier, ok := RewardFor(c.found)
		if ok != c.wantOK {
			t.Errorf("RewardFor(%d): ok = %v, want %v", c.found, ok, c.wantOK)
		}
		if tier.Code != c.wantCode {
			t.Errorf("RewardFor(%d): code = %q, want %q", c.found, tier.Code, c.wantCode)
		}
	}
}

func TestRewardMonotonic(t *testing.T) {
	prev := -1
	for found := 0; found <= SeedItemCount; found++ {
		tier, ok := RewardFor(found)
		threshold := 0
		if ok {
			threshold = tier.Threshold
		}
		if threshold < prev {
			t.Fatalf("reward regressed at found=%d: threshold %d after %d", found, threshold, prev)
		}
		prev = threshold
	}
}
