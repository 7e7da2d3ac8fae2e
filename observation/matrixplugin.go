package observation

import "github.com/vle-sim/vle/value"

// MatrixPlugin is the kernel's built-in output plugin: it accumulates
// every onValue call into a Row per distinct time, merging columns by
// port into an arbitrary observable-value accumulator.
type MatrixPlugin struct {
	params map[string]value.Value
	rows map[int64]map[string]value.Value
	order  []int64
}

// NewMatrixPlugin constructs an empty accumulator for one output sink.
func NewMatrixPlugin(location string) *MatrixPlugin {
	return &MatrixPlugin{
		params: make(map[string]value.Value),
		rows:   make(map[int64]map[string]value.Value),
	}
}

func (p *MatrixPlugin) OnParameter(key string, v value.Value) { p.params[key] = v }
func (p *MatrixPlugin) OnNewObservable(string, string)        {}
func (p *MatrixPlugin) OnDelObservable(string, string)        {}

func (p *MatrixPlugin) OnValue(t int64, simPath, port string, v value.Value) {
	row, ok := p.rows[t]
	if !ok {
		row = make(map[string]value.Value)
		p.rows[t] = row
		p.order = append(p.order, t)
	}
	row[simPath+"."+port] = v
}

// Finish returns the accumulated rows in time order.
func (p *MatrixPlugin) Finish(int64) []Row {
	out := make([]Row, 0, len(p.order))
	for _, t := range p.order {
		out = append(out, Row{Time: t, Values: p.rows[t]})
	}
	return out
}

var _ OutputPlugin = (*MatrixPlugin)(nil)
