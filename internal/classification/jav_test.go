package classification

import "testing"

func TestIsJAV(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"SONE-564", true},
		{"sone 725", true},
		{"SSIS_123", true},
		{"169bbs.com@SONE-564", true},
		{"169bbs Com@sone 564", true},
		{"hhd800.com@START-296", true},
		{"JUR-317ch", true},
		{"FC2-PPV-1234567", true},
		{"fc2ppv 4K collection", true},
		{"website.com@FC2-PPV-4567890", true},
		{"Inception.2010.1080p.BluRay", false},
		{"Breaking.Bad.S05E14", false},
		// Pattern shape without a whitelisted prefix.
		{"ABCD-123 random rip", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsJAV(tc.name); got != tc.want {
				t.Fatalf("IsJAV(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestExtractCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SONE-564 [1080p]", "SONE-564"},
		{"sone_725", "SONE-725"},
		{"169bbs Com@sone 564", "SONE-564"},
		{"hhd800.com@START-296.mp4", "START-296"},
		{"FC2-PPV-1234567-HD", "FC2-PPV-1234567"},
		{"fc2ppv1234567", "FC2-PPV-1234567"},
		{"no code here", ""},
	}
	for _, tc := range cases {
		if got := ExtractCode(tc.in); got != tc.want {
			t.Fatalf("ExtractCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCodePrefix(t *testing.T) {
	if got := CodePrefix("SONE-564"); got != "SONE" {
		t.Fatalf("CodePrefix = %q, want SONE", got)
	}
	if got := CodePrefix("nodash"); got != "" {
		t.Fatalf("CodePrefix = %q, want empty", got)
	}
}
