package object

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// MetaType is the dynamic type tag of an object. It carries the signal table
// and the capability set used for swap compatibility: a type's capabilities
// are its own name plus everything its super type declares.
type MetaType struct {
	name    string
	super   *MetaType
	signals []string
	caps    mapset.Set[string]
}

const (
	SignalDestroyed = iota
	SignalObjectNameChanged
)

// AllSignals connects to every signal of the sender.
const AllSignals = -1

// ObjectMeta is the root type. Every other type descends from it.
var ObjectMeta = newMetaType("Object", nil, "destroyed", "objectNameChanged")

// NewMetaType declares a type whose signals follow those of super. A nil
// super means ObjectMeta.
func NewMetaType(name string, super *MetaType, signals ...string) *MetaType {
	if super == nil {
		super = ObjectMeta
	}
	return newMetaType(name, super, signals...)
}

func newMetaType(name string, super *MetaType, signals ...string) *MetaType {
	m := &MetaType{
		name:  name,
		super: super,
		caps:  mapset.NewSet(name),
	}
	if super != nil {
		m.signals = append(m.signals, super.signals...)
		m.caps = m.caps.Union(super.caps)
	}
	m.signals = append(m.signals, signals...)
	return m
}

func (m *MetaType) Name() string {
	return m.name
}

func (m *MetaType) Super() *MetaType {
	return m.super
}

func (m *MetaType) SignalCount() int {
	return len(m.signals)
}

// SignalIndex returns the index of the named signal or -1.
func (m *MetaType) SignalIndex(name string) int {
	return slices.Index(m.signals, name)
}

func (m *MetaType) SignalName(idx int) string {
	if idx < 0 || idx >= len(m.signals) {
		return ""
	}
	return m.signals[idx]
}

func (m *MetaType) Capabilities() []string {
	caps := m.caps.ToSlice()
	slices.Sort(caps)
	return caps
}

// Inherits reports whether m exposes every capability of other.
func (m *MetaType) Inherits(other *MetaType) bool {
	return m.caps.IsSuperset(other.caps)
}
