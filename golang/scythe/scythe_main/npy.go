package main

import (
	"os"
	"reflect"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

//readNpy reads a two dimensional .npy file into a matrix.
func readNpy(fileName string) (*mat.Dense, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "opening npy")
	}
	defer func() { _ = f.Close() }()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading header of %s", fileName)
	}
	denseMat := &mat.Dense{}
	if err := r.Read(denseMat); err != nil {
		return nil, errors.Wrapf(err, "reading %s", fileName)
	}
	return denseMat, nil
}

//readLabels reads a vector of labels stored either flat or as a single column.
func readLabels(fileName string) ([]float64, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "opening npy")
	}
	defer func() { _ = f.Close() }()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading header of %s", fileName)
	}
	shape := r.Header.Descr.Shape
	if len(shape) == 2 && shape[1] != 1 || len(shape) > 2 || len(shape) == 0 {
		return nil, errors.Errorf("%s: labels must be a vector, got shape %v", fileName, shape)
	}
	var labels []float64
	if err := r.Read(&labels); err != nil {
		return nil, errors.Wrapf(err, "reading %s", fileName)
	}
	return labels, nil
}

//readTensor reads a .npy file of any supported element type into a tensor of the same type.
func readTensor(fileName string) (*tensor.Dense, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "opening npy")
	}
	defer func() { _ = f.Close() }()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading header of %s", fileName)
	}
	if r.Header.Descr.Fortran {
		return nil, errors.Errorf("%s: column-major arrays are not supported", fileName)
	}

	var backing interface{}
	switch r.Header.Descr.Type {
	case "<f8":
		backing = &[]float64{}
	case "<f4":
		backing = &[]float32{}
	case "<i8":
		backing = &[]int64{}
	case "<i4":
		backing = &[]int32{}
	case "|u1":
		backing = &[]uint8{}
	default:
		return nil, errors.Errorf("%s: unsupported dtype %q", fileName, r.Header.Descr.Type)
	}
	if err := r.Read(backing); err != nil {
		return nil, errors.Wrapf(err, "reading %s", fileName)
	}
	backing = reflect.ValueOf(backing).Elem().Interface()
	return tensor.New(tensor.WithShape(r.Header.Descr.Shape...), tensor.WithBacking(backing)), nil
}

func writeNpy(fileName string, m *mat.Dense) (err error) {
	dst, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "creating npy")
	}
	defer func() {
		if closeErr := dst.Close(); err == nil {
			err = closeErr
		}
	}()
	return errors.Wrapf(npyio.Write(dst, m), "writing %s", fileName)
}
