package loss

// ClassWeights maps a class index to the weight applied to samples of that
// class. Classes without an entry weigh 1.0, so only the classes being
// reweighted need to be present.
//
// Two representations are provided: a sparse mapping and a dense table.
// They are interchangeable anywhere ClassWeights is accepted.
type ClassWeights interface {
	// WeightFor returns the weight for a class index, defaulting to 1.0.
	WeightFor(class int) float64
}

// ClassWeightMap is the mapping representation of ClassWeights.
type ClassWeightMap map[int]float64

// WeightFor returns the weight for a class index, defaulting to 1.0.
func (m ClassWeightMap) WeightFor(class int) float64 {
	if w, ok := m[class]; ok {
		return w
	}
	return 1.0
}

// ClassWeightTable is the dense-table representation of ClassWeights:
// entry i is the weight for class i. Classes beyond the table weigh 1.0.
type ClassWeightTable []float64

// WeightFor returns the weight for a class index, defaulting to 1.0.
func (t ClassWeightTable) WeightFor(class int) float64 {
	if class >= 0 && class < len(t) {
		return t[class]
	}
	return 1.0
}

// materialize builds a dense per-class weight table for a Gather lookup.
func materialize(w ClassWeights, numClasses int) []float64 {
	table := make([]float64, numClasses)
	for i := range table {
		table[i] = w.WeightFor(i)
	}
	return table
}
