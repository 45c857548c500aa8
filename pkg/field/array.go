package field

import "fmt"

// DoubleArray is a tuple array of float64 values.
type DoubleArray struct {
	name   string
	nbComp int
	values []float64
}

var _ Array = (*DoubleArray)(nil)

// NewDoubleArray creates an array; len(values) must be a multiple of nbComp.
func NewDoubleArray(name string, nbComp int, values []float64) (*DoubleArray, error) {
	if nbComp <= 0 {
		return nil, fmt.Errorf("array %q: number of components must be positive, got %d", name, nbComp)
	}
	if len(values)%nbComp != 0 {
		return nil, fmt.Errorf("array %q: %d values is not a multiple of %d components", name, len(values), nbComp)
	}
	v := make([]float64, len(values))
	copy(v, values)
	return &DoubleArray{name: name, nbComp: nbComp, values: v}, nil
}

func (a *DoubleArray) Name() string            { return a.name }
func (a *DoubleArray) NumberOfComponents() int { return a.nbComp }
func (a *DoubleArray) NumberOfTuples() int     { return len(a.values) / a.nbComp }

// Values returns a copy of the raw values.
func (a *DoubleArray) Values() []float64 {
	v := make([]float64, len(a.values))
	copy(v, a.values)
	return v
}

func (a *DoubleArray) DeepCopy() Array {
	v := make([]float64, len(a.values))
	copy(v, a.values)
	return &DoubleArray{name: a.name, nbComp: a.nbComp, values: v}
}

func (a *DoubleArray) IsEqual(other Array, prec float64) bool {
	if other == nil || a.name != other.Name() {
		return false
	}
	return a.IsEqualWithoutConsideringStr(other, prec)
}

func (a *DoubleArray) IsEqualWithoutConsideringStr(other Array, prec float64) bool {
	o, ok := other.(*DoubleArray)
	if !ok || o == nil {
		return false
	}
	return a.nbComp == o.nbComp && floatsEqual(a.values, o.values, prec)
}
