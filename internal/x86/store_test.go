package x86

import (
	"errors"
	"reflect"
	"testing"
)

func TestScratchRegisters(t *testing.T) {
	for _, cc := range []CallingConvention{&SystemVAMD64{}, &MicrosoftX64{}} {
		got := ScratchRegisters(cc)
		want := []Register{R10, R11}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%T: ScratchRegisters() = %v, want %v", cc, got, want)
		}
	}
}

func TestAddVariableAllocatesDownwards(t *testing.T) {
	s := NewStore(&SystemVAMD64{})
	a := s.AddVariable("a", 4, true)
	b := s.AddVariable("b", 8, false)
	c := s.AddVariable("c", 1, true)

	for _, tt := range []struct {
		v    Variable
		want string
	}{
		{a, "-4(%rbp)"},
		{b, "-12(%rbp)"},
		{c, "-13(%rbp)"},
	} {
		if got := tt.v.Location().String(); got != tt.want {
			t.Errorf("%s at %s, want %s", tt.v.Name, got, tt.want)
		}
	}
	if s.StackSize() != 13 {
		t.Errorf("StackSize() = %d, want 13", s.StackSize())
	}

	again := s.AddVariable("a", 8, false)
	if again != a {
		t.Errorf("adding an existing name should return it unchanged, got %+v", again)
	}
	if s.StackSize() != 13 {
		t.Errorf("re-adding a variable must not grow the frame, got %d", s.StackSize())
	}
}

func TestTempVariablesAreHidden(t *testing.T) {
	s := NewStore(&SystemVAMD64{})
	s.AddVariable("x", 4, true)
	tmp := s.AddTempVariable(8)
	if tmp.Name[0] != '.' {
		t.Errorf("temp variable name %q should not be a valid identifier", tmp.Name)
	}
	if got := s.VariableNames(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("VariableNames() = %v", got)
	}
	if len(s.Variables()) != 2 {
		t.Errorf("Variables() should list the temp too")
	}
}

func TestFloatVariable(t *testing.T) {
	s := NewStore(&SystemVAMD64{})
	v := s.AddFloatVariable("f", 8)
	if !v.Float || v.Signed {
		t.Errorf("unexpected float variable %+v", v)
	}
	found, ok := s.FindVariable("f")
	if !ok || !found.Float {
		t.Errorf("FindVariable did not keep the float flag: %+v", found)
	}
}

func TestLockRegisterExhaustsPool(t *testing.T) {
	s := NewStore(&SystemVAMD64{})
	first, err := s.LockRegister(DWord)
	if err != nil || first != R10.Resize(DWord) {
		t.Fatalf("first lock = %v, %v", first, err)
	}
	second, err := s.LockRegister(QWord)
	if err != nil || second != R11 {
		t.Fatalf("second lock = %v, %v", second, err)
	}
	if _, err := s.LockRegister(Byte); !errors.Is(err, ErrNoRegisterAvailable) {
		t.Fatalf("expected ErrNoRegisterAvailable, got %v", err)
	}

	s.ReleaseRegister(first)
	again, err := s.LockRegister(Word)
	if err != nil || again != R10.Resize(Word) {
		t.Fatalf("released register should be handed out again, got %v, %v", again, err)
	}
}

func TestRegisterBackupRestore(t *testing.T) {
	s := NewStore(&SystemVAMD64{})
	outer, _ := s.LockRegisterFor(QWord, "outer")
	snapshot := s.RegisterBackup()

	s.LockRegisterFor(QWord, "inner")
	s.MarkRegister(RCX)
	s.MarkRegister(RAX)
	if len(s.LockedRegisters()) != 4 {
		t.Fatalf("LockedRegisters() = %v", s.LockedRegisters())
	}

	s.RegisterRestore(snapshot)
	want := map[string]string{outer.Name(): "outer"}
	if got := s.LockedRegisters(); !reflect.DeepEqual(got, want) {
		t.Errorf("after restore LockedRegisters() = %v, want %v", got, want)
	}
}

func TestReservedRegistersAreNeverFree(t *testing.T) {
	s := NewStore(&SystemVAMD64{})
	for _, r := range []Register{RSP, RBP, RIP} {
		if s.IsFree(r) {
			t.Errorf("%s should be reserved", r)
		}
	}
	if !s.IsFree(RAX) {
		t.Error("%rax should be free in a fresh store")
	}
}
