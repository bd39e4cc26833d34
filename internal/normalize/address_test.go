package normalize

import (
	"testing"
)

func TestAddress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple address",
			input: "10 Test Street, London",
			want:  "10 TEST ST LONDON",
		},
		{
			name:  "flat with punctuation",
			input: "Flat 3, 45 Church Road",
			want:  "FLAT 3 45 CHURCH RD",
		},
		{
			name:  "multiple suffixes",
			input: "Avenue Road Crescent",
			want:  "AVE RD CRES",
		},
		{
			name:  "suffix inside word untouched",
			input: "STREETER HOUSE, BROADLANE COURT",
			want:  "STREETER HOUSE BROADLANE CT",
		},
		{
			name:  "whitespace runs collapse",
			input: "  12   HIGH   STREET  ",
			want:  "12 HIGH ST",
		},
		{
			name:  "accented letters stripped like punctuation",
			input: "Café Road",
			want:  "CAF RD",
		},
		{
			name:  "non ascii collapses to single space",
			input: "Zoë's Cottage, Mill Lane",
			want:  "ZO S COTTAGE MILL LN",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Address(tt.input)
			if got != tt.want {
				t.Errorf("Address(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStreet(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "house number removed",
			input: "10 Test Street",
			want:  "TEST ST",
		},
		{
			name:  "flat keyword and numbers removed",
			input: "FLAT 3, 10 TEST STREET",
			want:  "TEST ST",
		},
		{
			name:  "alpha suffix number removed",
			input: "16A Mill Lane",
			want:  "MILL LN",
		},
		{
			name:  "house name kept",
			input: "Rose Cottage, Mill Lane",
			want:  "ROSE COTTAGE MILL LN",
		},
		{
			name:  "maisonette keyword removed",
			input: "Maisonette 2 Queens Square",
			want:  "QUEENS SQ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Street(tt.input)
			if got != tt.want {
				t.Errorf("Street(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUnitID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"FLAT 12 HIGH ST", "12"},
		{"APARTMENT 3B THE TOWERS", "3B"},
		{"16A MILL LN", "16A"},
		{"10 TEST ST LONDON", "10"},
		{"ROSE COTTAGE MILL LN", ""},
		{"UNIT 7 TRADING ESTATE", "7"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := UnitID(tt.input)
			if got != tt.want {
				t.Errorf("UnitID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPostcode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"gu34 1aa", "GU341AA"},
		{" SW1A 2AA ", "SW1A2AA"},
		{"GU341AA", "GU341AA"},
	}

	for _, tt := range tests {
		if got := Postcode(tt.input); got != tt.want {
			t.Errorf("Postcode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestContainsToken(t *testing.T) {
	tests := []struct {
		haystack string
		needle   string
		want     bool
	}{
		{"10 TEST ST LONDON", "10", true},
		{"10 TEST ST LONDON", "TEST ST", true},
		{"10 TEST ST LONDON", "LONDON", true},
		{"10 TEST ST LONDON", "EST", false},
		{"102 TEST ST", "10", false},
		{"10 TEST ST", "", false},
		{"", "10", false},
	}

	for _, tt := range tests {
		if got := ContainsToken(tt.haystack, tt.needle); got != tt.want {
			t.Errorf("ContainsToken(%q, %q) = %v, want %v", tt.haystack, tt.needle, got, tt.want)
		}
	}
}

// Address normalization must be a pure function of its input.
func TestAddressDeterministic(t *testing.T) {
	input := "Flat 3, 45 Church Road, Petersfield"
	first := Address(input)
	for i := 0; i < 100; i++ {
		if got := Address(input); got != first {
			t.Fatalf("Address(%q) not deterministic: %q vs %q", input, got, first)
		}
	}
}
