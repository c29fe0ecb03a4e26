package gate

import "testing"

func TestFilterMatchesAnyCase(t *testing.T) {
	filter := NewFilter()
	cases := []struct {
		text string
		want bool
	}{
		{"FREE TOKENS now", true},
		{"Claim Your airdrop", true},
		{"the admin will never dm you first", true},
		{"gm sun fam", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := filter.Suspicious(tc.text); got != tc.want {
			t.Fatalf("Suspicious(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestFilterExtraPhrases(t *testing.T) {
	filter := NewFilter("Send Seed Phrase", "  ")
	if !filter.Suspicious("please send seed phrase to recover") {
		t.Fatalf("extra phrase not matched")
	}
}
