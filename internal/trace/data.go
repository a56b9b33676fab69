// Package trace provides evaluation-time callbacks invoked by an external
// training loop at epoch and batch boundaries.
package trace

// Data is the key-value collector a batch travels through. Traces read batch
// tensors from it and write metric values back; values written "with log"
// are additionally marked for the logger, and per-instance logs keep one
// value per batch sample.
//
// Persistence and formatting of the collected logs belong to the surrounding
// pipeline, not to this package.
type Data struct {
	values      map[string]any
	logged      map[string]bool
	perInstance map[string][]float64
}

// NewData creates a Data holding the given batch values.
func NewData(batch map[string]any) *Data {
	values := make(map[string]any, len(batch))
	for k, v := range batch {
		values[k] = v
	}
	return &Data{
		values:      values,
		logged:      make(map[string]bool),
		perInstance: make(map[string][]float64),
	}
}

// Read returns the value stored under key, or nil.
func (d *Data) Read(key string) any {
	return d.values[key]
}

// Has reports whether a value is stored under key.
func (d *Data) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Write stores a value without marking it for the logger.
func (d *Data) Write(key string, value any) {
	d.values[key] = value
}

// WriteWithLog stores a value and marks it for the logger.
func (d *Data) WriteWithLog(key string, value any) {
	d.values[key] = value
	d.logged[key] = true
}

// WritePerInstanceLog records one value per batch sample under key.
func (d *Data) WritePerInstanceLog(key string, values []float64) {
	d.perInstance[key] = append([]float64(nil), values...)
}

// Logged reports whether the key was written with logging enabled.
func (d *Data) Logged(key string) bool {
	return d.logged[key]
}

// PerInstance returns the per-instance log recorded under key, or nil.
func (d *Data) PerInstance(key string) []float64 {
	return d.perInstance[key]
}

// LoggedKeys returns the keys written with logging enabled.
func (d *Data) LoggedKeys() []string {
	keys := make([]string, 0, len(d.logged))
	for k := range d.logged {
		keys = append(keys, k)
	}
	return keys
}
