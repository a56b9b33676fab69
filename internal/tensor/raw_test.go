package tensor

import (
	"errors"
	"testing"
)

func TestNewRaw(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if !raw.Shape().Equal(Shape{2, 3}) {
		t.Errorf("Shape() = %v, want (2, 3)", raw.Shape())
	}
	if raw.DType() != Float32 {
		t.Errorf("DType() = %v, want Float32", raw.DType())
	}
	if raw.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", raw.NumElements())
	}
	if raw.ByteSize() != 24 {
		t.Errorf("ByteSize() = %d, want 24", raw.ByteSize())
	}

	// New tensors are zero-initialized.
	for i, v := range raw.AsFloat32() {
		if v != 0 {
			t.Errorf("element %d = %f, want 0", i, v)
		}
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, -1}, Float32, CPU); err == nil {
		t.Error("NewRaw accepted negative dimension")
	}
}

func TestRawTensorAccessorsPanicOnWrongType(t *testing.T) {
	raw, _ := NewRaw(Shape{2}, Float32, CPU)

	defer func() {
		if recover() == nil {
			t.Error("AsInt32() on float32 tensor did not panic")
		}
	}()
	raw.AsInt32()
}

func TestRawTensorClone(t *testing.T) {
	raw, _ := NewRaw(Shape{3}, Float32, CPU)
	raw.AsFloat32()[0] = 1.5

	clone := raw.Clone()
	clone.AsFloat32()[0] = 2.5

	if raw.AsFloat32()[0] != 1.5 {
		t.Error("Clone() shares memory with original")
	}
}

func TestRawTensorReshape(t *testing.T) {
	raw, _ := NewRaw(Shape{2, 3}, Float32, CPU)
	raw.AsFloat32()[4] = 7

	view, err := raw.Reshape(Shape{6})
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	if view.AsFloat32()[4] != 7 {
		t.Error("Reshape() did not preserve data")
	}

	if _, err := raw.Reshape(Shape{4}); err == nil {
		t.Error("Reshape() accepted mismatched element count")
	}
}

func TestIndexValues(t *testing.T) {
	raw, _ := NewRaw(Shape{3}, Int64, CPU)
	copy(raw.AsInt64(), []int64{1, 0, 2})

	got := raw.IndexValues()
	want := []int{1, 0, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IndexValues() = %v, want %v", got, want)
			break
		}
	}
}

func TestErrorTypes(t *testing.T) {
	var err error = &TypeConstraintError{Op: "onehot", Want: "int32 or int64", Got: Float32}

	var tce *TypeConstraintError
	if !errors.As(err, &tce) {
		t.Error("errors.As failed for TypeConstraintError")
	}

	err = &RangeError{Op: "onehot", Label: 5, NumClasses: 5}
	var re *RangeError
	if !errors.As(err, &re) {
		t.Error("errors.As failed for RangeError")
	}

	err = &ShapeError{Op: "onehot", Want: "single element", Got: Shape{2}}
	var se *ShapeError
	if !errors.As(err, &se) {
		t.Error("errors.As failed for ShapeError")
	}
}
