package fst

import "fmt"

// BuilderOptions configures a Builder. There is no environment or flag
// surface for these (SPEC_FULL.md §A.2) — the embedding caller sets them
// directly, the same way nakama's pkg/netcode.Config is a plain struct
// passed at construction time.
type BuilderOptions struct {
	InputType InputType
	Outputs   Outputs
	// AllowArrayArcs lets NodeEncoder switch eligible nodes to fixed-array
	// layout. Defaults to true.
	AllowArrayArcs bool
	// WillPackFST records the per-node ordinal/in-degree bookkeeping Pack
	// needs. Defaults to false; Pack refuses an FST built without it.
	WillPackFST bool
}

// DefaultBuilderOptions returns sane defaults for a byte-keyed FST using
// outs as its output monoid.
func DefaultBuilderOptions(outs Outputs) BuilderOptions {
	return BuilderOptions{
		InputType:      InputByte1,
		Outputs:        outs,
		AllowArrayArcs: true,
	}
}

// pendingArc is an arc of a node still open for more children.
// target == pendingOpen until the child it points to is compiled.
type pendingArc struct {
	label       int
	target      int
	isFinal     bool
	output      interface{}
	finalOutput interface{}
}

const pendingOpen = -(1 << 62)

type uncompiledNode struct {
	arcs []pendingArc
}

// Builder performs the ordinary incremental construction SPEC_FULL.md §C
// describes: prefix-compilation of a linear frontier, plus a frozen-node
// cache for suffix sharing. It is not the full minimization/suffix
// automaton Builder spec.md places out of the CORE's scope — it exists so
// NodeEncoder, ArcReader, and Pack have a realistic FST to operate on.
type Builder struct {
	opts    BuilderOptions
	store   *ByteStore
	encoder *NodeEncoder

	frontier    []*uncompiledNode
	lastInput   []int
	emptyOutput interface{}
	nodeCache   map[string]int
	finished    bool
}

// NewBuilder creates a Builder ready to accept Add calls in strictly
// increasing input order.
func NewBuilder(opts BuilderOptions) *Builder {
	store := NewByteStore()
	store.WriteByte(0) // byte offset 0 is reserved; see spec.md §3
	return &Builder{
		opts:      opts,
		store:     store,
		encoder:   NewNodeEncoder(store, opts.InputType, opts.Outputs, opts.AllowArrayArcs, opts.WillPackFST),
		frontier:  []*uncompiledNode{{}},
		nodeCache: make(map[string]int),
	}
}

func compareLabels(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func commonPrefixLen(a, b []int) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// AddBytes adds key (interpreted as InputByte1 labels) with output. Add is
// the general entry point for any InputType; AddBytes is a convenience for
// the common byte-keyed case.
func (b *Builder) AddBytes(key []byte, output interface{}) error {
	if b.opts.InputType != InputByte1 {
		return errIllegalState("AddBytes requires InputByte1, builder uses %v", b.opts.InputType)
	}
	labels := make([]int, len(key))
	for i, c := range key {
		labels[i] = int(c)
	}
	return b.Add(labels, output)
}

// Add adds the (labels, output) pair. Inputs must be added in strictly
// increasing lexicographic order; the empty slice is a valid input and
// sets the FST's empty output (merging with any previous one).
func (b *Builder) Add(labels []int, output interface{}) error {
	if b.finished {
		return errIllegalState("Add called after Finish")
	}
	if len(labels) == 0 {
		if b.emptyOutput == nil {
			b.emptyOutput = output
		} else {
			b.emptyOutput = b.opts.Outputs.Merge(b.emptyOutput, output)
		}
		return nil
	}
	if b.lastInput != nil && compareLabels(b.lastInput, labels) >= 0 {
		return errIllegalState("inputs must be added in strictly increasing order")
	}

	prefixLen := commonPrefixLen(b.lastInput, labels)
	if err := b.freezeTail(prefixLen); err != nil {
		return err
	}

	noOutput := b.opts.Outputs.NoOutput()
	for depth := prefixLen; depth < len(labels); depth++ {
		parent := b.frontier[depth]
		isLast := depth == len(labels)-1
		arc := pendingArc{
			label:       labels[depth],
			target:      pendingOpen,
			isFinal:     isLast,
			output:      noOutput,
			finalOutput: noOutput,
		}
		if isLast {
			arc.output = output
		}
		parent.arcs = append(parent.arcs, arc)
		b.frontier = append(b.frontier, &uncompiledNode{})
	}

	b.lastInput = append([]int(nil), labels...)
	return nil
}

// freezeTail compiles every frontier node deeper than downTo, bottom-up,
// wiring each freshly compiled address into its parent's still-open last
// arc, then trims the frontier to length downTo+1.
func (b *Builder) freezeTail(downTo int) error {
	for depth := len(b.frontier) - 1; depth > downTo; depth-- {
		child := b.frontier[depth]
		addr, err := b.compileNode(child, depth)
		if err != nil {
			return err
		}
		parent := b.frontier[depth-1]
		parent.arcs[len(parent.arcs)-1].target = addr
	}
	b.frontier = b.frontier[:downTo+1]
	return nil
}

func (b *Builder) compileNode(node *uncompiledNode, depth int) (int, error) {
	compiled := CompiledNode{Arcs: make([]CompiledArc, len(node.arcs))}
	for i, pa := range node.arcs {
		if pa.target == pendingOpen {
			return 0, errIllegalState("internal: arc for label %d never closed", pa.label)
		}
		compiled.Arcs[i] = CompiledArc{
			Label:       pa.label,
			Output:      pa.output,
			IsFinal:     pa.isFinal,
			FinalOutput: pa.finalOutput,
			Target:      pa.target,
		}
	}

	if len(compiled.Arcs) > 0 {
		sig := nodeSignature(&compiled)
		if addr, ok := b.nodeCache[sig]; ok {
			return addr, nil
		}
		addr, err := b.encoder.AddNode(&compiled, depth)
		if err != nil {
			return 0, err
		}
		b.nodeCache[sig] = addr
		return addr, nil
	}

	return b.encoder.AddNode(&compiled, depth)
}

func nodeSignature(node *CompiledNode) string {
	s := ""
	for _, a := range node.Arcs {
		s += fmt.Sprintf("%d:%v:%t:%v:%d|", a.Label, a.Output, a.IsFinal, a.FinalOutput, a.Target)
	}
	return s
}

// Finish freezes the remaining frontier (including the root), finalizes
// the byte store, and returns the built FST. Finish may only be called
// once.
func (b *Builder) Finish() (*FST, error) {
	if b.finished {
		return nil, errIllegalState("Finish called twice")
	}
	if err := b.freezeTail(0); err != nil {
		return nil, err
	}
	startNode, err := b.compileNode(b.frontier[0], 0)
	if err != nil {
		return nil, err
	}
	b.store.Finish()
	b.finished = true

	f := &FST{
		store:              b.store,
		inputType:          b.opts.InputType,
		outputs:            b.opts.Outputs,
		startNode:          startNode,
		emptyOutput:        b.emptyOutput,
		nodeCount:          b.encoder.NodeCount,
		arcCount:           b.encoder.ArcCount,
		arcWithOutputCount: b.encoder.ArcWithOutputCount,
		version:            currentVersion,
	}
	if err := f.buildRootCache(); err != nil {
		return nil, err
	}
	return f, nil
}

// Encoder exposes the NodeEncoder driving this Builder. Pack needs it for
// the NodeAddresses/InDegree bookkeeping a finished FST doesn't retain on
// its own (spec.md §5).
func (b *Builder) Encoder() *NodeEncoder { return b.encoder }
