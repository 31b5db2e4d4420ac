// SPDX-License-Identifier: Apache-2.0

package main

/*
#cgo CFLAGS: -I.
#include <stdlib.h>
*/
import "C"

import (
	"context"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tarstars/scythe/golang/scythe/id3"
)

// forest keeps the fitted trees handed out to the caller. Handle 0 is never
// issued, so it signals a failed training.
type forest struct {
	mu    sync.Mutex
	last  uint64
	trees map[uint64]*id3.Tree
}

func (f *forest) add(tree *id3.Tree) C.ulonglong {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last++
	f.trees[f.last] = tree
	return C.ulonglong(f.last)
}

func (f *forest) get(handle C.ulonglong) (*id3.Tree, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tree, ok := f.trees[uint64(handle)]; ok {
		return tree, nil
	}
	return nil, errors.Errorf("invalid tree handle %d", uint64(handle))
}

func (f *forest) remove(handle C.ulonglong) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.trees, uint64(handle))
}

// status holds the message of the last failed call.
type status struct {
	mu  sync.Mutex
	msg string
}

// report records err (nil clears the message) and returns code.
func (s *status) report(err error, code C.int) C.int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg = ""
	if err != nil {
		s.msg = err.Error()
	}
	return code
}

func (s *status) message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msg
}

var (
	fitted     = &forest{trees: make(map[uint64]*id3.Tree)}
	lastStatus = &status{}
	quietOnce  sync.Once
)

// doubles views n C doubles as a Go slice. The view aliases C memory and must
// be copied before the call returns if it is kept.
func doubles(ptr *C.double, n int) ([]float64, error) {
	switch {
	case n < 0:
		return nil, errors.Errorf("negative length %d", n)
	case n == 0:
		return nil, nil
	case ptr == nil:
		return nil, errors.New("null pointer for non-empty buffer")
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(ptr)), n), nil
}

func ownedDoubles(ptr *C.double, n int) ([]float64, error) {
	view, err := doubles(ptr, n)
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), view...), nil
}

func dataset(ptr *C.double, rows, cols C.int) (id3.Dataset, error) {
	if rows <= 0 || cols <= 0 {
		return id3.Dataset{}, errors.Errorf("invalid matrix dimensions %d x %d", int(rows), int(cols))
	}
	data, err := ownedDoubles(ptr, int(rows)*int(cols))
	if err != nil {
		return id3.Dataset{}, err
	}
	return id3.NewDataset(data, int(rows), int(cols))
}

func costOfKind(kind C.int) (id3.CostFunction, error) {
	switch kind {
	case 0:
		return nil, nil
	case 1:
		return id3.EntropyCost{}, nil
	case 2:
		return id3.GiniCost{}, nil
	case 3:
		return id3.VarianceCost{}, nil
	}
	return nil, errors.Errorf("unsupported cost kind %d", int(kind))
}

//export TrainTree
func TrainTree(
	featuresPtr *C.double,
	rows C.int,
	cols C.int,
	labelsPtr *C.double,
	task C.int,
	nClasses C.int,
	maxNodes C.int,
	minThreshold C.double,
	nanValue C.double,
	partitioning C.int,
	costKind C.int,
	workers C.int,
) C.ulonglong {
	quietOnce.Do(func() { zap.ReplaceGlobals(zap.NewNop()) })

	tree, err := train(featuresPtr, rows, cols, labelsPtr, func(cfg *id3.TreeConfig) error {
		cost, err := costOfKind(costKind)
		cfg.Task = id3.Task(task)
		cfg.NClasses = int(nClasses)
		cfg.MaxNodes = int(maxNodes)
		cfg.MinThreshold = float64(minThreshold)
		cfg.NaNValue = float64(nanValue)
		cfg.Partitioning = id3.Partitioning(partitioning)
		cfg.Cost = cost
		cfg.Workers = int(workers)
		return err
	})
	if err != nil {
		lastStatus.report(err, 0)
		return 0
	}
	lastStatus.report(nil, 0)
	return fitted.add(tree)
}

func train(featuresPtr *C.double, rows, cols C.int, labelsPtr *C.double, configure func(*id3.TreeConfig) error) (*id3.Tree, error) {
	ds, err := dataset(featuresPtr, rows, cols)
	if err != nil {
		return nil, err
	}
	labels, err := ownedDoubles(labelsPtr, int(rows))
	if err != nil {
		return nil, err
	}
	cfg := id3.DefaultTreeConfig()
	if err := configure(&cfg); err != nil {
		return nil, err
	}
	return id3.Grow(context.Background(), ds, labels, cfg)
}

// infer runs one of the tree's inference methods and writes its flat result
// into the caller's buffer, which must hold rows x width doubles.
func infer(handle C.ulonglong, featuresPtr *C.double, rows, cols C.int, outputPtr *C.double,
	method func(*id3.Tree, id3.Dataset) ([]float64, error)) C.int {
	tree, err := fitted.get(handle)
	if err != nil {
		return lastStatus.report(err, 1)
	}
	ds, err := dataset(featuresPtr, rows, cols)
	if err != nil {
		return lastStatus.report(err, 2)
	}
	prediction, err := method(tree, ds)
	if err != nil {
		return lastStatus.report(err, 3)
	}
	out, err := doubles(outputPtr, len(prediction))
	if err != nil {
		return lastStatus.report(err, 4)
	}
	copy(out, prediction)
	return lastStatus.report(nil, 0)
}

//export ClassifyTree
func ClassifyTree(handle C.ulonglong, featuresPtr *C.double, rows, cols C.int, outputPtr *C.double) C.int {
	return infer(handle, featuresPtr, rows, cols, outputPtr, (*id3.Tree).Classify)
}

//export RegressTree
func RegressTree(handle C.ulonglong, featuresPtr *C.double, rows, cols C.int, outputPtr *C.double) C.int {
	return infer(handle, featuresPtr, rows, cols, outputPtr, (*id3.Tree).Regress)
}

//export TreeNodeCount
func TreeNodeCount(handle C.ulonglong) C.int {
	tree, err := fitted.get(handle)
	if err != nil {
		return lastStatus.report(err, -1)
	}
	return lastStatus.report(nil, C.int(len(tree.Nodes)))
}

//export RenderTree
func RenderTree(handle C.ulonglong, filename, figureType *C.char) C.int {
	tree, err := fitted.get(handle)
	if err != nil {
		return lastStatus.report(err, 1)
	}
	format := C.GoString(figureType)
	if format == "" {
		format = "svg"
	}
	if err := tree.RenderTree(C.GoString(filename), format); err != nil {
		return lastStatus.report(err, 2)
	}
	return lastStatus.report(nil, 0)
}

//export FreeTree
func FreeTree(handle C.ulonglong) {
	fitted.remove(handle)
}

// GetLastError returns a copy of the last failure message, or NULL. The
// caller releases it with FreeCString.
//
//export GetLastError
func GetLastError() *C.char {
	if msg := lastStatus.message(); msg != "" {
		return C.CString(msg)
	}
	return nil
}

//export FreeCString
func FreeCString(str *C.char) {
	C.free(unsafe.Pointer(str))
}

func main() {}
