package expand

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestEnvironAssignPreservesExportedFlag(t *testing.T) {
	c := qt.New(t)
	e := &Environ{values: map[string]Variable{
		"FOO": {Value: "1", Exported: true},
	}}
	e.Assign("FOO", "2")
	v, ok := e.Lookup("FOO")
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.DeepEquals, Variable{Value: "2", Exported: true})
}

func TestEnvironAssignNewVariableNotExported(t *testing.T) {
	c := qt.New(t)
	e := &Environ{values: map[string]Variable{}}
	e.Assign("FOO", "1")
	v, _ := e.Lookup("FOO")
	c.Assert(v.Exported, qt.IsFalse)
}

func TestEnvironExportBareName(t *testing.T) {
	c := qt.New(t)
	e := &Environ{values: map[string]Variable{
		"FOO": {Value: "1"},
	}}
	e.Export("FOO", nil)
	v, _ := e.Lookup("FOO")
	c.Assert(v, qt.DeepEquals, Variable{Value: "1", Exported: true})
}

func TestEnvironExportWithValue(t *testing.T) {
	c := qt.New(t)
	e := &Environ{values: map[string]Variable{}}
	value := "bar"
	e.Export("FOO", &value)
	v, _ := e.Lookup("FOO")
	c.Assert(v, qt.DeepEquals, Variable{Value: "bar", Exported: true})
}

func TestEnvironExportedPairsSortedAndFiltered(t *testing.T) {
	c := qt.New(t)
	e := &Environ{values: map[string]Variable{
		"B": {Value: "2", Exported: true},
		"A": {Value: "1", Exported: true},
		"C": {Value: "3", Exported: false},
	}}
	c.Assert(e.ExportedPairs(), qt.DeepEquals, []string{"A=1", "B=2"})
}

func TestEnvironGetUnsetIsEmpty(t *testing.T) {
	c := qt.New(t)
	e := &Environ{values: map[string]Variable{}}
	c.Assert(e.Get("MISSING"), qt.Equals, "")
}
