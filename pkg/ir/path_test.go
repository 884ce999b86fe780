package ir

import "testing"

// Test canonical key forms for all path variants
func TestPath_Key(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want string
	}{
		{"field", Field("A", "val"), "A.val"},
		{"property", Property("A", "shape", "r"), "A.shape.r"},
		{"access single", Access(Field("A", "center"), 1), "A.center[1]"},
		{"access property", Access(Property("A", "shape", "center"), 0), "A.shape.center[0]"},
		{"access matrix", Access(Field("A", "m"), 1, 2), "A.m[1][2]"},
		{"local", LocalVar{Name: "tmp"}, "$tmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBindingForm(t *testing.T) {
	if SubVar("A").Kind != BindSub {
		t.Error("SubVar should be substance-bound")
	}
	if StyVar("x").Kind != BindSty {
		t.Error("StyVar should be style-bound")
	}
	// Binding origin does not change the key
	a := FieldPath{Of: SubVar("A"), Field: "val"}
	b := FieldPath{Of: StyVar("A"), Field: "val"}
	if a.Key() != b.Key() {
		t.Errorf("keys differ by binding origin: %q vs %q", a.Key(), b.Key())
	}
}

func TestIsVary(t *testing.T) {
	if !IsVary(Vary()) {
		t.Error("Vary() should be vary")
	}
	if IsVary(Fix(3)) {
		t.Error("Fix(3) should not be vary")
	}
	if IsVary(IntLit(1)) {
		t.Error("IntLit should not be vary")
	}
}

func TestShapeName(t *testing.T) {
	s := NewShape("Circle")
	s.Props.Set(NameProperty, StrV("A.shape"))
	if s.Name() != "A.shape" {
		t.Errorf("Name() = %q, want A.shape", s.Name())
	}
	if ShapeName(Field("B", "icon")) != "B.icon" {
		t.Errorf("ShapeName = %q", ShapeName(Field("B", "icon")))
	}
}
