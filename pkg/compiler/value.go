package compiler

import "github.com/kristofer/ember/pkg/value"

func objFunctionValue(fn *value.ObjFunction) value.Value {
	return value.FromObj(fn)
}
