package vm

import (
	log "github.com/sirupsen/logrus"
)

// State is the execution engine state.
type State int

const (
	RUNNING State = iota // running
	HALTED               // halted
	FAILED               // failed
)

// String returns the state name as reported in the trace.
func (s State) String() string {
	switch s {
	case RUNNING:
		return "running"
	case HALTED:
		return "halted"
	case FAILED:
		return "failed"
	}
	return "unknown"
}

// StopReason distinguishes why a run reached a terminal state. Tick budget
// exhaustion is a normal stop, never a fault.
type StopReason int

const (
	STOP_NONE           StopReason = iota // still running
	STOP_END_OF_PROGRAM                   // program counter reached image end
	STOP_TICK_BUDGET                      // tick budget consumed
	STOP_FAULT                            // decode or execution fault
)

// String returns the reason name as reported in the trace.
func (r StopReason) String() string {
	switch r {
	case STOP_NONE:
		return "none"
	case STOP_END_OF_PROGRAM:
		return "end-of-program"
	case STOP_TICK_BUDGET:
		return "tick-budget-exhausted"
	case STOP_FAULT:
		return "fault"
	}
	return "unknown"
}

// Config carries the externally supplied limits for one run. Both must be
// positive; they are never ambient globals, so independent runs can execute
// concurrently.
type Config struct {
	MemorySize int // Number of memory words.
	TickBudget int // Maximum instructions executed by one run.
}

// Machine is the UVM execution engine: a fetch-decode-execute loop over a
// loaded image, owning its memory, program counter, and tick budget.
type Machine struct {
	Verbose bool // Set to enable verbose execution logging.

	Memory []uint32 // Data memory, exclusively owned by this run.
	Pc     int      // Program counter, a byte offset into the image.
	Ticks  int      // Instructions executed so far.

	budget int
	image  []byte
	state  State
	reason StopReason
	fault  error
}

// NewMachine creates a Machine for one run. A memory size or tick budget of
// zero is a configuration error.
func NewMachine(cfg Config) (m *Machine, err error) {
	if cfg.MemorySize <= 0 {
		err = ErrMemorySize
		return
	}
	if cfg.TickBudget <= 0 {
		err = ErrTickBudget
		return
	}

	m = &Machine{
		Memory: make([]uint32, cfg.MemorySize),
		budget: cfg.TickBudget,
	}

	return
}

// Load installs a binary image and resets the execution state: program
// counter 0, tick count 0, memory zeroed, state Running.
func (m *Machine) Load(image []byte) {
	m.image = image
	m.Pc = 0
	m.Ticks = 0
	m.state = RUNNING
	m.reason = STOP_NONE
	m.fault = nil
	clear(m.Memory)
}

// State returns the current engine state.
func (m *Machine) State() State {
	return m.state
}

// Reason returns why the engine stopped, or STOP_NONE while running.
func (m *Machine) Reason() StopReason {
	return m.reason
}

// Fault returns the error that failed the run, or nil.
func (m *Machine) Fault() error {
	return m.fault
}

// cell validates a computed address against the memory bounds and returns
// the addressed cell.
func (m *Machine) cell(addr uint64) (cell *uint32, err error) {
	if addr >= uint64(len(m.Memory)) {
		err = &ErrOutOfBoundsAccess{Address: addr, Size: len(m.Memory)}
		return
	}

	cell = &m.Memory[addr]

	return
}

// Step executes at most one instruction. It returns done=true once the
// machine is in a terminal state; a fault is reported once, as the error of
// the step that caused it.
func (m *Machine) Step() (done bool, err error) {
	if m.state != RUNNING {
		done = true
		return
	}

	if m.Pc >= len(m.image) {
		m.state = HALTED
		m.reason = STOP_END_OF_PROGRAM
		done = true
		return
	}

	if m.Ticks >= m.budget {
		m.state = HALTED
		m.reason = STOP_TICK_BUDGET
		done = true
		return
	}

	in, width, err := Decode(m.image, m.Pc)
	if err == nil {
		err = m.execute(in)
	}
	if err != nil {
		m.state = FAILED
		m.reason = STOP_FAULT
		m.fault = err
		done = true
		return
	}

	m.Pc += width
	m.Ticks += 1

	return
}

// Run steps the machine to a terminal state. The returned error is the
// fault that failed the run, or nil on a normal halt (end of program or
// tick budget exhaustion).
func (m *Machine) Run() (err error) {
	done := false
	for !done {
		done, _ = m.Step()
	}

	return m.fault
}

// execute applies one decoded instruction's effect to memory. Every
// computed address is validated against the memory bounds first; the match
// over mnemonics is exhaustive.
func (m *Machine) execute(in Instruction) (err error) {
	if m.Verbose {
		log.Debugf("%06x: %v", m.Pc, in)
	}

	switch in.Op {
	case LOAD_CONST:
		constant, address := in.Args[0], in.Args[1]
		var dst *uint32
		dst, err = m.cell(uint64(address))
		if err != nil {
			return
		}
		*dst = constant

	case READ_MEM:
		offset, src, dstAddr := in.Args[0], in.Args[1], in.Args[2]
		var base *uint32
		base, err = m.cell(uint64(src))
		if err != nil {
			return
		}
		var from *uint32
		from, err = m.cell(uint64(*base) + uint64(offset))
		if err != nil {
			return
		}
		var dst *uint32
		dst, err = m.cell(uint64(dstAddr))
		if err != nil {
			return
		}
		*dst = *from

	case WRITE_MEM:
		srcAddr, dstAddr := in.Args[0], in.Args[1]
		var src *uint32
		src, err = m.cell(uint64(srcAddr))
		if err != nil {
			return
		}
		var dst *uint32
		dst, err = m.cell(uint64(dstAddr))
		if err != nil {
			return
		}
		*dst = *src

	case GTE:
		offset1, addr1, addr2 := in.Args[0], in.Args[1], in.Args[2]
		resAddr, offset2 := in.Args[3], in.Args[4]
		var base1 *uint32
		base1, err = m.cell(uint64(addr1))
		if err != nil {
			return
		}
		var a *uint32
		a, err = m.cell(uint64(*base1) + uint64(offset1))
		if err != nil {
			return
		}
		var b *uint32
		b, err = m.cell(uint64(addr2))
		if err != nil {
			return
		}
		var baseRes *uint32
		baseRes, err = m.cell(uint64(resAddr))
		if err != nil {
			return
		}
		var res *uint32
		res, err = m.cell(uint64(*baseRes) + uint64(offset2))
		if err != nil {
			return
		}
		if *a >= *b {
			*res = 1
		} else {
			*res = 0
		}

	default:
		panic("unhandled mnemonic")
	}

	return
}
