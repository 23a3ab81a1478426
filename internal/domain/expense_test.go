package domain

import "testing"

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"food", CategoryFood},
		{"FOOD", CategoryFood},
		{" Travel ", CategoryTravel},
		{"supplies", CategorySupplies},
		{"other", CategoryOther},
		{"groceries", CategoryOther},
		{"", CategoryOther},
		{"snacks & drinks", CategoryOther},
	}
	for _, tc := range cases {
		if got := NormalizeCategory(tc.in); got != tc.want {
			t.Fatalf("NormalizeCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeCategoryIdempotent(t *testing.T) {
	inputs := []string{"food", "Food", "sandwhich", "TRAVEL", "misc"}
	for _, in := range inputs {
		first := NormalizeCategory(in)
		for i := 0; i < 3; i++ {
			if got := NormalizeCategory(in); got != first {
				t.Fatalf("NormalizeCategory(%q) unstable: %q then %q", in, first, got)
			}
		}
		if got := NormalizeCategory(string(first)); got != first {
			t.Fatalf("NormalizeCategory not idempotent on canonical form %q", first)
		}
	}
}
