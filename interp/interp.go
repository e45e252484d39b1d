// Package interp wraps the UVM execution engine into one interpreter
// invocation: load a binary image, run to a terminal state, report memory.
package interp

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/CyberArt2718281/assembler-uvm/vm"
)

// Interp owns one interpreter run: a Machine plus the image it executes.
type Interp struct {
	Verbose bool        // If set, enables verbose execution logging.
	Machine *vm.Machine // The execution engine for this run.
}

// New creates an interpreter with the given run limits. Fails on a zero
// memory size or tick budget before any instruction executes.
func New(cfg vm.Config) (ip *Interp, err error) {
	m, err := vm.NewMachine(cfg)
	if err != nil {
		return
	}

	ip = &Interp{
		Machine: m,
	}

	return
}

// Load installs a binary image and resets the run state.
func (ip *Interp) Load(image []byte) {
	ip.Machine.Load(image)
}

// LoadFile reads a binary image from a file and installs it.
func (ip *Interp) LoadFile(path string) (err error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return
	}

	if ip.Verbose {
		log.Debugf("loaded %d image bytes from %v", len(image), path)
	}

	ip.Load(image)

	return
}

// Run executes the loaded image to a terminal state. A runtime fault is
// returned wrapped with the faulting program counter; the machine state
// remains inspectable (and reportable) afterwards.
func (ip *Interp) Run() (err error) {
	ip.Machine.Verbose = ip.Verbose

	err = ip.Machine.Run()
	if err != nil {
		err = &ErrRuntime{Pc: ip.Machine.Pc, Err: err}
		return
	}

	if ip.Verbose {
		log.Debugf("run stopped: %v after %d ticks", ip.Machine.Reason(), ip.Machine.Ticks)
	}

	return
}
