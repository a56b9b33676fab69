package tensor

import "fmt"

// TypeConstraintError reports an input whose data type is outside the set an
// operation supports, e.g. a floating-point label where an integer class
// index is required.
type TypeConstraintError struct {
	Op   string   // operation that rejected the input
	Want string   // description of the accepted types
	Got  DataType // the offending type
}

func (e *TypeConstraintError) Error() string {
	return fmt.Sprintf("%s: unsupported data type %s (want %s)", e.Op, e.Got, e.Want)
}

// ShapeError reports an input tensor whose shape violates an operation's
// contract.
type ShapeError struct {
	Op   string // operation that rejected the input
	Want string // description of the accepted shapes
	Got  Shape  // the offending shape
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: unsupported shape %s (want %s)", e.Op, e.Got, e.Want)
}

// RangeError reports a class label outside [0, NumClasses).
type RangeError struct {
	Op         string
	Label      int
	NumClasses int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: label %d out of range [0, %d)", e.Op, e.Label, e.NumClasses)
}
