// Package machine holds the live state that status documents report on.
package machine

import (
	"errors"
	"fmt"
	"sync"

	"dash0.com/printer-status-backend/internal/thermistor"
)

var (
	ErrUnknownAxis   = errors.New("machine: unknown axis")
	ErrUnknownHeater = errors.New("machine: unknown heater")
	ErrNotHomeable   = errors.New("machine: extruder axes cannot be homed")
	ErrBadOp         = errors.New("machine: unsupported update")
)

// Op selects what an Update changes.
type Op uint8

const (
	OpSetPosition Op = iota
	OpSetHomed
	OpClearHomed
	OpSetActive
	OpSetADC
)

// Update is one state change. Target names an axis or heater; it is ignored by OpSetActive,
// which treats any non-zero Value as true.
type Update struct {
	Op     Op
	Target string
	Value  float64
}

// AxisState is the reported state of one axis.
type AxisState struct {
	Name     string
	Extruder bool
	Position float64
	Homed    bool
}

// HeaterReading is the raw and converted reading of one heater sensor.
type HeaterReading struct {
	Name    string
	ADC     float64
	Current float64
}

// Snapshot is a consistent copy of the machine state. Axes keep the configured order.
type Snapshot struct {
	Name    string
	Active  bool
	Axes    []AxisState
	Heaters []HeaterReading
}

// Extruders returns the extruder axes in configured order.
func (s Snapshot) Extruders() []AxisState { return s.filter(true) }

// Linear returns the non-extruder axes in configured order.
func (s Snapshot) Linear() []AxisState { return s.filter(false) }

func (s Snapshot) filter(extruder bool) []AxisState {
	var out []AxisState

	for _, a := range s.Axes {
		if a.Extruder == extruder {
			out = append(out, a)
		}
	}

	return out
}

type heater struct {
	name    string
	adc     float64
	formula thermistor.Formula
}

// Machine is safe for concurrent use.
type Machine struct {
	mu sync.RWMutex

	name    string
	active  bool
	axes    []AxisState
	heaters []heater

	axisIndex   map[string]int
	heaterIndex map[string]int
}

// New builds a Machine from d, compiling every heater formula.
func New(d Description) (*Machine, error) {
	m := &Machine{
		name:        d.Name,
		axisIndex:   make(map[string]int, len(d.Axes)),
		heaterIndex: make(map[string]int, len(d.Heaters)),
	}

	for _, a := range d.Axes {
		if a.Name == "" {
			return nil, errors.New("machine: axis without a name")
		}

		if _, dup := m.axisIndex[a.Name]; dup {
			return nil, fmt.Errorf("machine: duplicate axis %q", a.Name)
		}

		m.axisIndex[a.Name] = len(m.axes)
		m.axes = append(m.axes, AxisState{Name: a.Name, Extruder: a.Extruder, Position: a.Position})
	}

	for _, h := range d.Heaters {
		if h.Name == "" {
			return nil, errors.New("machine: heater without a name")
		}

		if _, dup := m.heaterIndex[h.Name]; dup {
			return nil, fmt.Errorf("machine: duplicate heater %q", h.Name)
		}

		f, err := h.Formula.Build()
		if err != nil {
			return nil, fmt.Errorf("machine: heater %q: %w", h.Name, err)
		}

		m.heaterIndex[h.Name] = len(m.heaters)
		m.heaters = append(m.heaters, heater{name: h.Name, adc: h.ADC, formula: f})
	}

	return m, nil
}

// Name returns the configured machine name.
func (m *Machine) Name() string { return m.name }

// Snapshot copies the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Name:    m.name,
		Active:  m.active,
		Axes:    make([]AxisState, len(m.axes)),
		Heaters: make([]HeaterReading, len(m.heaters)),
	}
	copy(snap.Axes, m.axes)

	for i, h := range m.heaters {
		snap.Heaters[i] = HeaterReading{Name: h.name, ADC: h.adc, Current: h.formula.AdcToTemp(h.adc)}
	}

	return snap
}

// Apply performs one update.
func (m *Machine) Apply(u Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch u.Op {
	case OpSetPosition:
		i, ok := m.axisIndex[u.Target]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownAxis, u.Target)
		}

		m.axes[i].Position = u.Value
	case OpSetHomed, OpClearHomed:
		i, ok := m.axisIndex[u.Target]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownAxis, u.Target)
		}

		if m.axes[i].Extruder {
			return fmt.Errorf("%w: %q", ErrNotHomeable, u.Target)
		}

		m.axes[i].Homed = u.Op == OpSetHomed
	case OpSetActive:
		m.active = u.Value != 0
	case OpSetADC:
		i, ok := m.heaterIndex[u.Target]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownHeater, u.Target)
		}

		m.heaters[i].adc = u.Value
	default:
		return fmt.Errorf("%w: op %d", ErrBadOp, u.Op)
	}

	return nil
}

// HasAxis reports whether name is a configured axis.
func (m *Machine) HasAxis(name string) bool {
	_, ok := m.axisIndex[name]
	return ok
}
