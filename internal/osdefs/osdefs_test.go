package osdefs

import (
	"strings"
	"testing"

	"github.com/xyproto/tb/internal/engine"
)

func TestFor(t *testing.T) {
	tests := []struct {
		os    engine.OS
		main  string
		print string
	}{
		{engine.OSLinux, "main", "printf"},
		{engine.OSFreeBSD, "main", "printf"},
		{engine.OSDarwin, "_main", "_printf"},
		{engine.OSWindows, "main", "printf"},
	}
	for _, tt := range tests {
		t.Run(tt.os.String(), func(t *testing.T) {
			defs := For(tt.os)
			if got := defs.MainFunctionName(); got != tt.main {
				t.Errorf("MainFunctionName() = %q, want %q", got, tt.main)
			}
			if got := defs.PrintSymbolName(); got != tt.print {
				t.Errorf("PrintSymbolName() = %q, want %q", got, tt.print)
			}
			if !strings.HasPrefix(defs.ReadonlyDataSectionHeader(), ".section") {
				t.Errorf("unexpected section header %q", defs.ReadonlyDataSectionHeader())
			}
		})
	}
}

func TestLinuxMarksStackNonExecutable(t *testing.T) {
	if !strings.Contains(Linux{}.EndOfFileInstructions(), ".note.GNU-stack") {
		t.Error("Linux trailer should contain the GNU-stack note")
	}
}
