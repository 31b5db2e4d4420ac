package id3

import (
	"gonum.org/v1/gonum/mat"
)

//Dataset is a dense row-major buffer of NInstances x NFeatures readings.
//The buffer is borrowed, never modified.
type Dataset struct {
	Data       []float64
	NInstances int
	NFeatures  int
}

//NewDataset wraps a row-major buffer and checks its dimensions.
func NewDataset(data []float64, nInstances, nFeatures int) (Dataset, error) {
	ds := Dataset{Data: data, NInstances: nInstances, NFeatures: nFeatures}
	return ds, ds.validate()
}

//NewDatasetFromDense exposes the rows of a gonum matrix as a Dataset. The
//backing array is shared when the matrix is contiguous, copied otherwise.
func NewDatasetFromDense(m *mat.Dense) Dataset {
	raw := m.RawMatrix()
	if raw.Stride == raw.Cols {
		return Dataset{Data: raw.Data[:raw.Rows*raw.Cols], NInstances: raw.Rows, NFeatures: raw.Cols}
	}
	data := make([]float64, 0, raw.Rows*raw.Cols)
	for p := 0; p < raw.Rows; p++ {
		data = append(data, raw.Data[p*raw.Stride:p*raw.Stride+raw.Cols]...)
	}
	return Dataset{Data: data, NInstances: raw.Rows, NFeatures: raw.Cols}
}

//At returns the reading of feature f for instance i.
func (ds Dataset) At(i, f int) float64 {
	return ds.Data[i*ds.NFeatures+f]
}

//Dense copies the dataset into a gonum matrix.
func (ds Dataset) Dense() *mat.Dense {
	data := make([]float64, len(ds.Data))
	copy(data, ds.Data)
	return mat.NewDense(ds.NInstances, ds.NFeatures, data)
}

//validate checks the consistency of the dimensions with the buffer.
func (ds Dataset) validate() error {
	if ds.NInstances <= 0 {
		return preconditionf("number of instances must be positive, got %d", ds.NInstances)
	}
	if ds.NFeatures <= 0 {
		return preconditionf("number of features must be positive, got %d", ds.NFeatures)
	}
	if len(ds.Data) != ds.NInstances*ds.NFeatures {
		return preconditionf("buffer holds %d values, expected %d x %d", len(ds.Data), ds.NInstances, ds.NFeatures)
	}
	return nil
}
