package interp

import (
	"errors"

	"github.com/CyberArt2718281/assembler-uvm/translate"
)

var f = translate.From

var (
	ErrStillRunning = errors.New(f("machine still running"))
	ErrReportRange  = errors.New(f("report range invalid"))
)

// ErrRuntime locates a runtime fault at its program counter.
type ErrRuntime struct {
	Pc  int
	Err error
}

func (err *ErrRuntime) Error() string {
	return f("offset %d %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
