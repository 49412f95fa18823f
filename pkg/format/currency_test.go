package format

import "testing"

func TestAddThousandSeparator(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		separator string
		expected  string
	}{
		{"Small amount", 450, " ", "450"},
		{"Exactly one thousand", 1000, " ", "1 000"},
		{"Yearly revenue", 1792800, " ", "1 792 800"},
		{"Fraction is floored", 2916.67, " ", "2 916"},
		{"Custom separator", 1234567, ",", "1,234,567"},
		{"Zero", 0, " ", "0"},
		{"Negative amount", -12345, " ", "-12 345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddThousandSeparator(tt.amount, tt.separator); got != tt.expected {
				t.Errorf("AddThousandSeparator(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestSEK(t *testing.T) {
	if got := SEK(1612800); got != "1 612 800 kr" {
		t.Errorf("SEK() = %q", got)
	}
}

func TestByPeriod(t *testing.T) {
	if got := ByPeriod(540000, false); got != "540 000 kr / år" {
		t.Errorf("ByPeriod(yearly) = %q", got)
	}
	if got := ByPeriod(540000, true); got != "45 000 kr / månad" {
		t.Errorf("ByPeriod(monthly) = %q", got)
	}
}
