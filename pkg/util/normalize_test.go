package util

import "testing"

func TestNormalizeDialCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips leading plus",
			input: "+44",
			want:  "44",
		},
		{
			name:  "strips leading double zero",
			input: "0044",
			want:  "44",
		},
		{
			name:  "keeps digits only",
			input: "1-684",
			want:  "1684",
		},
		{
			name:  "full number with plus",
			input: "+4478778745359",
			want:  "4478778745359",
		},
		{
			name:  "trims whitespace",
			input: "  +44 ",
			want:  "44",
		},
		{
			name:  "handles empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDialCode(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeDialCode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "keeps single leading plus",
			input: "+44 7720 313-531",
			want:  "+447720313531",
		},
		{
			name:  "strips non-digits without plus",
			input: "(077) 2031 3531",
			want:  "07720313531",
		},
		{
			name:  "handles empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizePhone(tt.input)
			if got != tt.want {
				t.Errorf("SanitizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeCountries(t *testing.T) {
	got, err := NormalizeCountries([]string{"gb", "UK", " el "})
	if err != nil {
		t.Fatalf("NormalizeCountries: %v", err)
	}
	want := []string{"GB", "GB", "GR"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("country %d = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := NormalizeCountries([]string{"GBR"}); err == nil {
		t.Fatalf("expected error for alpha-3 code")
	}
	if _, err := NormalizeCountries([]string{"4"}); err == nil {
		t.Fatalf("expected error for numeric code")
	}

	got, err = NormalizeCountries([]string{"", "  "})
	if err != nil {
		t.Fatalf("NormalizeCountries blanks: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for all-empty input, got %v", got)
	}
}

func TestDomainFromEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "plain address",
			input: "phil@your.it",
			want:  "your.it",
		},
		{
			name:  "lowercases and trims domain",
			input: "user@ Example.COM ",
			want:  "example.com",
		},
		{
			name:  "splits on first at sign",
			input: `"odd@local"@example.org`,
			want:  `local"@example.org`,
		},
		{
			name:    "rejects address without at sign",
			input:   "not-an-email",
			wantErr: true,
		},
		{
			name:    "rejects empty domain",
			input:   "phil@",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DomainFromEmail(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("DomainFromEmail(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("DomainFromEmail(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
