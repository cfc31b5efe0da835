package avatar

import "testing"

func TestValueAccessors(t *testing.T) {
	if Unknown().Known() {
		t.Error("Unknown() should not be known")
	}
	if _, ok := Unknown().AsFloat(); ok {
		t.Error("AsFloat on unknown should report !ok")
	}
	if _, ok := Int(3).AsFloat(); ok {
		t.Error("AsFloat on an int should report !ok")
	}
	if v, ok := Int(3).AsInt(); !ok || v != 3 {
		t.Errorf("AsInt = %v, %v, want 3, true", v, ok)
	}
	if v, ok := Float(1.5).AsFloat(); !ok || v != 1.5 {
		t.Errorf("AsFloat = %v, %v, want 1.5, true", v, ok)
	}
	if v, ok := Bool(true).AsBool(); !ok || !v {
		t.Errorf("AsBool = %v, %v, want true, true", v, ok)
	}
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"two unknowns", Unknown(), Unknown(), true},
		{"unknown vs known", Unknown(), Int(0), false},
		{"same ints", Int(7), Int(7), true},
		{"different ints", Int(7), Int(8), false},
		{"same floats", Float(0.5), Float(0.5), true},
		{"same bools", Bool(false), Bool(false), true},
		{"kind mismatch", Int(1), Float(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Unknown(), "unknown"},
		{Int(42), "42"},
		{Float(1.5), "1.5"},
		{Bool(true), "true"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParamsNamespaces(t *testing.T) {
	p := newParams(nil)

	if !p.Get(ParamViseme).Equal(Unknown()) {
		t.Error("recognized parameter should start unknown")
	}
	if custom := p.set(ParamViseme, Int(3)); custom {
		t.Error("recognized name classified as custom")
	}
	if custom := p.set("My/Thing", Bool(true)); !custom {
		t.Error("custom name classified as recognized")
	}
	if v, ok := p.Get("My/Thing").AsBool(); !ok || !v {
		t.Error("custom value not stored")
	}
	if p.Get("Never/Seen").Known() {
		t.Error("unobserved custom name should read unknown")
	}
}

func TestParamsCustomDefaults(t *testing.T) {
	p := newParams(map[string]Value{
		"Seen/Before": Int(9),
		"Grounded":    Bool(true), // recognized names land in the closed map
	})
	if v, ok := p.Get("Seen/Before").AsInt(); !ok || v != 9 {
		t.Errorf("seeded custom = %v, want 9", p.Get("Seen/Before"))
	}
	if v, ok := p.Get("Grounded").AsBool(); !ok || !v {
		t.Error("seeded recognized default not applied")
	}
	if _, dup := p.custom["Grounded"]; dup {
		t.Error("recognized name duplicated into custom map")
	}
}

func TestResetToBaselineLeavesOthersUntouched(t *testing.T) {
	p := newParams(nil)
	p.set(ParamViseme, Int(int(VisemeAA)))
	p.set("VRMode", Int(1))
	p.set("Custom/Thing", Float(0.4))

	p.resetToBaseline()

	if v, _ := p.Get(ParamViseme).AsInt(); v != int(VisemeSil) {
		t.Errorf("viseme after reset = %d, want silence", v)
	}
	if v, _ := p.Get("VRMode").AsInt(); v != 1 {
		t.Error("non-baseline recognized parameter was clobbered")
	}
	if v, _ := p.Get("Custom/Thing").AsFloat(); v != 0.4 {
		t.Error("custom parameter was clobbered")
	}
}
