// Package device selects the compute device the inference backends run on.
package device

import (
	"fmt"
	"strings"
)

type Device string

const (
	CUDA = Device("cuda")
	CPU  = Device("cpu")
)

func (d Device) String() string {
	return string(d)
}

func (d Device) IsAccelerator() bool {
	return d == CUDA
}

// Selection is what the user asked for: a specific device or automatic detection.
type Selection string

const (
	SelectionAuto = Selection("auto")
	SelectionCUDA = Selection(CUDA)
	SelectionCPU  = Selection(CPU)
)

func ParseSelection(s string) (Selection, error) {
	switch sel := Selection(strings.ToLower(strings.TrimSpace(s))); sel {
	case "", SelectionAuto:
		return SelectionAuto, nil
	case SelectionCUDA, SelectionCPU:
		return sel, nil
	}
	return "", fmt.Errorf("unknown device '%s', expected one of: auto, cuda, cpu", s)
}
