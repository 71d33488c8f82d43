package statusview

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"reactor/internal/initsvc"
	"reactor/internal/lifecycle"
	"reactor/internal/value"
)

// Row is one rendered line of the status table.
type Row struct {
	Name  string
	State lifecycle.ServiceState
}

// View holds a per-service shadow observable (mirroring each service's
// observed state into a ValueStoreMap entry) and a DerivedObservable
// computing the sorted row set from them.
type View struct {
	states  *value.ValueStoreMap[string, lifecycle.ServiceState]
	derived *value.DerivedObservable[[]Row]
	names   []string
	offs    []value.Unsubscribe
}

// New builds a View over the given registrations. The service set is
// fixed at construction time; services registered afterward are not
// reflected.
func New(regs []initsvc.Registration) *View {
	v := &View{states: value.NewMap[string, lifecycle.ServiceState]("statusview")}

	names := make([]string, 0, len(regs))
	inputs := make(map[string]value.Input, len(regs))
	getters := make(map[string]func() any, len(regs))

	for _, r := range regs {
		name := r.Name
		svc := r.Service
		names = append(names, name)

		obs := v.states.Observable(name)
		inputs[name] = value.AsInput[lifecycle.ServiceState](obs)
		getters[name] = func() any { return v.states.Get(name, lifecycle.Stopped) }

		off := svc.SubscribeToState(func(s lifecycle.ServiceState) {
			v.states.Set(name, s)
		}, true)
		v.offs = append(v.offs, off)
	}
	sort.Strings(names)
	v.names = names

	v.derived = value.NewDerived[[]Row]("statusview", value.DerivedConfig[[]Row]{
		Inputs: inputs,
		Derive: func(get func(string) any) []Row {
			rows := make([]Row, 0, len(names))
			for _, n := range names {
				rows = append(rows, Row{Name: n, State: get(n).(lifecycle.ServiceState)})
			}
			return rows
		},
	})
	value.WithGetters(v.derived, getters)

	return v
}

// Rows returns the current row set without subscribing.
func (v *View) Rows() []Row {
	return v.derived.Get()
}

// Subscribe delivers the row set on every change to any tracked
// service's observed state.
func (v *View) Subscribe(cb func([]Row), callOnRegistration bool) value.Unsubscribe {
	return v.derived.Subscribe(func(rows []Row, _ value.Unsubscribe) { cb(rows) }, callOnRegistration)
}

// Close detaches every shadow subscription and destroys the derived
// store.
func (v *View) Close() {
	for _, off := range v.offs {
		off()
	}
	v.derived.Destroy()
}

// Render returns the current row set as a go-pretty table.
func (v *View) Render() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Service", "State"})
	for _, r := range v.Rows() {
		t.AppendRow(table.Row{r.Name, r.State.String()})
	}
	return t.Render()
}
