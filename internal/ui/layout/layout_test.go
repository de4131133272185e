package layout

import "testing"

func TestCalculate_SideBySide(t *testing.T) {
	l := Calculate(120, 40)
	if l.Stacked {
		t.Fatal("expected side-by-side layout")
	}
	if l.EditorWidth+l.ResponseWidth != 120 {
		t.Errorf("widths = %d + %d, want 120", l.EditorWidth, l.ResponseWidth)
	}
	if l.EditorWidth != 48 {
		t.Errorf("EditorWidth = %d, want 48", l.EditorWidth)
	}
	if l.ContentHeight != 39 {
		t.Errorf("ContentHeight = %d, want 39", l.ContentHeight)
	}
	if l.EditorHeight != 39 || l.ResponseHeight != 39 {
		t.Errorf("heights = %d/%d, want 39/39", l.EditorHeight, l.ResponseHeight)
	}
}

func TestCalculate_Stacked(t *testing.T) {
	l := Calculate(60, 31)
	if !l.Stacked {
		t.Fatal("expected stacked layout")
	}
	if l.EditorWidth != 60 || l.ResponseWidth != 60 {
		t.Errorf("widths = %d/%d, want 60/60", l.EditorWidth, l.ResponseWidth)
	}
	if l.EditorHeight+l.ResponseHeight != l.ContentHeight {
		t.Errorf("heights %d + %d != %d", l.EditorHeight, l.ResponseHeight, l.ContentHeight)
	}
	if l.EditorHeight != 15 {
		t.Errorf("EditorHeight = %d, want 15", l.EditorHeight)
	}
}

func TestCalculate_Tiny(t *testing.T) {
	l := Calculate(10, 0)
	if l.ContentHeight != 1 {
		t.Errorf("ContentHeight = %d, want 1", l.ContentHeight)
	}
	if l.EditorHeight != 1 || l.ResponseHeight != 0 {
		t.Errorf("heights = %d/%d, want 1/0", l.EditorHeight, l.ResponseHeight)
	}
}
