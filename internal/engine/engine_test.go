package engine

import (
	"runtime"
	"testing"
)

func TestParseArch(t *testing.T) {
	for _, s := range []string{"amd64", "x86_64", "X86-64"} {
		arch, err := ParseArch(s)
		if err != nil {
			t.Fatalf("ParseArch(%q) failed: %v", s, err)
		}
		if arch != ArchX86_64 {
			t.Errorf("ParseArch(%q) = %v, want x86_64", s, arch)
		}
	}
	if _, err := ParseArch("arm64"); err == nil {
		t.Error("expected arm64 to be rejected")
	}
}

func TestParseOS(t *testing.T) {
	tests := []struct {
		input string
		want  OS
	}{
		{"linux", OSLinux},
		{"Darwin", OSDarwin},
		{"macos", OSDarwin},
		{"freebsd", OSFreeBSD},
		{"windows", OSWindows},
	}
	for _, tt := range tests {
		got, err := ParseOS(tt.input)
		if err != nil {
			t.Fatalf("ParseOS(%q) failed: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseOS(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
	if _, err := ParseOS("plan9"); err == nil {
		t.Error("expected plan9 to be rejected")
	}
}

func TestHostOSMatchesRuntime(t *testing.T) {
	want, err := ParseOS(runtime.GOOS)
	if err != nil {
		t.Skipf("host OS %s is not a supported target", runtime.GOOS)
	}
	if got := HostOS(); got != want {
		t.Errorf("HostOS() = %v, want %v", got, want)
	}
}

func TestPlatformString(t *testing.T) {
	p := Platform{Arch: ArchX86_64, OS: OSLinux}
	if p.String() != "x86_64-linux" {
		t.Errorf("unexpected platform string %q", p.String())
	}
	if got := (Platform{Arch: ArchX86_64, OS: OSWindows}).ExecutableName("prog"); got != "prog.exe" {
		t.Errorf("ExecutableName = %q, want prog.exe", got)
	}
	if got := p.ExecutableName("prog"); got != "prog" {
		t.Errorf("ExecutableName = %q, want prog", got)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"total", "total", 0},
		{"total", "totl", 1},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDidYouMean(t *testing.T) {
	candidates := []string{"actual", "total", "counter"}
	if got := DidYouMean("totl", candidates); got != "did you mean 'total'?" {
		t.Errorf("unexpected suggestion %q", got)
	}
	if got := DidYouMean("zzzzzzzz", candidates); got != "" {
		t.Errorf("expected no suggestion, got %q", got)
	}
	similar := SimilarNames("acual", []string{"actual", "actul", "x"}, 5)
	if len(similar) != 2 || similar[0] != "actual" && similar[0] != "actul" {
		t.Errorf("unexpected similar names %v", similar)
	}
}
