package vector

import "testing"

func TestBoundingBox_Overlaps(t *testing.T) {
	a := NewBoundingBox(New(10, 10), 5, 5)

	notOverlapping := NewBoundingBox(New(4.9, 4.9), 5, 5)
	if a.Overlaps(notOverlapping) {
		t.Errorf("expected no overlap between %v and %v", a, notOverlapping)
	}
	if notOverlapping.Overlaps(a) {
		t.Errorf("overlap should be symmetric")
	}

	overlapping := NewBoundingBox(New(5, 5), 5, 5)
	if !a.Overlaps(overlapping) {
		t.Errorf("expected overlap between %v and %v", a, overlapping)
	}
	if !overlapping.Overlaps(a) {
		t.Errorf("overlap should be symmetric")
	}
}

func TestBoundingBox_OverlapsReflexive(t *testing.T) {
	a := NewBoundingBox(New(0, 0), 10, 10)
	if !a.Overlaps(a) {
		t.Errorf("expected a box to overlap itself")
	}
}

func TestBoundingBox_Contains(t *testing.T) {
	box := NewBoundingBox(New(0, 0), 10, 10)
	if !box.Contains(New(5, 5)) {
		t.Errorf("expected (5,5) to be within box")
	}
	if box.Contains(New(6, 0)) {
		t.Errorf("expected (6,0) to be outside box")
	}
}
