package trace

// PerDS decorates a metric trace so the metric is additionally computed
// independently for every dataset id seen during the epoch. One aggregate
// child accumulates across all ids under the base output name; per-id
// children log under "name|id". Explicit composition, not inheritance: the
// decorator owns its children and fans the lifecycle hooks out to them.
type PerDS struct {
	factory   func(outputName string) Trace
	baseName  string
	aggregate Trace
	children  map[string]Trace
	system    *System
}

// NewPerDS builds the decorator around a factory that constructs the inner
// metric trace with a given output name.
func NewPerDS(factory func(outputName string) Trace, baseName string) *PerDS {
	p := &PerDS{
		factory:   factory,
		baseName:  baseName,
		aggregate: factory(baseName),
		children:  make(map[string]Trace),
	}
	return p
}

// Inputs returns the keys the inner metric reads from Data.
func (p *PerDS) Inputs() []string {
	return p.aggregate.Inputs()
}

// Outputs returns the aggregate output key.
func (p *PerDS) Outputs() []string {
	return p.aggregate.Outputs()
}

// Accepts defers to the inner metric's activation filters.
func (p *PerDS) Accepts(mode, dsID string) bool {
	return p.aggregate.Accepts(mode, dsID)
}

// SetSystem attaches the pipeline state to the decorator and all children.
func (p *PerDS) SetSystem(s *System) {
	p.system = s
	p.aggregate.SetSystem(s)
	for _, child := range p.children {
		child.SetSystem(s)
	}
}

// OnEpochBegin resets the aggregate and discards last epoch's per-id
// children; they are recreated on demand as ids reappear.
func (p *PerDS) OnEpochBegin(d *Data) {
	p.aggregate.OnEpochBegin(d)
	p.children = make(map[string]Trace)
}

// OnBatchEnd feeds the batch to the aggregate and to the child owning the
// current dataset id, creating the child on first sight of the id.
func (p *PerDS) OnBatchEnd(d *Data) {
	p.aggregate.OnBatchEnd(d)

	dsID := ""
	if p.system != nil {
		dsID = p.system.DSID
	}
	if dsID == "" {
		return
	}

	child, ok := p.children[dsID]
	if !ok {
		child = p.factory(p.baseName + "|" + dsID)
		child.SetSystem(p.system)
		child.OnEpochBegin(d)
		p.children[dsID] = child
	}
	child.OnBatchEnd(d)
}

// OnEpochEnd emits every child's epoch value, then the aggregate's.
func (p *PerDS) OnEpochEnd(d *Data) {
	for _, child := range p.children {
		child.OnEpochEnd(d)
	}
	p.aggregate.OnEpochEnd(d)
}
