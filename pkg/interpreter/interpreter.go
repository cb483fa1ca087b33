package interpreter

import (
	"io"

	"rvasm/pkg/image"
	"rvasm/pkg/isa"

	"github.com/charmbracelet/log"
)

// haltBreakpoint is the halt reason reported when a breakpoint stops the hart
const haltBreakpoint = "breakpoint"

// DefaultMemorySize covers the default text base with room for data and a stack
const DefaultMemorySize = 1 << 20

// CSR addresses with behaviour of their own
const (
	csrCycle    = 0xC00
	csrTime     = 0xC01
	csrInstret  = 0xC02
	csrCycleH   = 0xC80
	csrTimeH    = 0xC81
	csrInstretH = 0xC82
	csrMCycle   = 0xB00
	csrMInstret = 0xB02
)

// Interpreter is a single RV32I hart executing a memory image
type Interpreter struct {
	regs  [32]uint32 // x0 is forced to zero after every step
	pc    uint32
	entry uint32

	mem     *Memory
	memSize uint32

	csrs map[uint32]uint32 // CSRs without special behaviour

	trace io.Writer // receives one disassembled line per executed instruction, if set

	// Exec hook, replaceable through SetExecStep
	execStep func(*Interpreter) (halted bool, err error)

	halt     string // mnemonic that stopped the hart
	maxSteps int    // maximum steps (0 = unlimited)
	steps    int    // steps executed, also the cycle and instret counters
}

type Option func(*Interpreter)

// WithMemorySize sets the number of bytes of memory, starting at address 0
func WithMemorySize(n uint32) Option {
	return func(i *Interpreter) { i.memSize = n }
}

// WithMaxSteps sets a maximum number of steps before returning ErrMaxStepsExceeded
func WithMaxSteps(n int) Option {
	return func(i *Interpreter) { i.maxSteps = n }
}

// WithTrace writes every executed instruction to w
func WithTrace(w io.Writer) Option {
	return func(i *Interpreter) { i.trace = w }
}

// WithBreakpoint halts the hart before it executes the instruction at addr
func WithBreakpoint(addr uint32) Option {
	return func(i *Interpreter) {
		next := i.execStep
		i.SetExecStep(func(it *Interpreter) (bool, error) {
			if it.pc == addr {
				it.halt = haltBreakpoint
				return true, nil
			}
			return next(it)
		})
	}
}

// NewInterpreter creates a new Interpreter instance with img loaded
func NewInterpreter(img *image.Image, opts ...Option) (*Interpreter, error) {
	it := &Interpreter{
		memSize:  DefaultMemorySize,
		maxSteps: 0, // 0 => unlimited
	}

	it.SetExecStep(coreStep)

	for _, o := range opts {
		o(it)
	}

	if err := it.Load(img); err != nil {
		return nil, err
	}

	return it, nil
}

// Load resets the hart and copies the initialized segments of img into memory
func (i *Interpreter) Load(img *image.Image) error {
	i.mem = NewMemory(i.memSize)
	i.entry = img.Entry
	i.Reset()

	for _, seg := range img.Segments {
		if seg.Reserved {
			if _, ok := i.mem.span(seg.Address, seg.Size); !ok {
				return &Fault{Kind: ErrMemoryFault, PC: img.Entry, Addr: seg.Address}
			}
			continue
		}
		if !i.mem.Write(seg.Address, seg.Data) {
			return &Fault{Kind: ErrMemoryFault, PC: img.Entry, Addr: seg.Address}
		}
	}

	log.Debug("Loaded image", "entry", img.Entry, "segments", len(img.Segments))

	return nil
}

// Reset clears registers, CSRs and counters; memory is left as is
func (i *Interpreter) Reset() {
	i.regs = [32]uint32{}
	i.regs[2] = i.mem.Size() &^ 0xF // sp at the top of memory
	i.pc = i.entry
	i.csrs = make(map[uint32]uint32)
	i.halt = ""
	i.steps = 0
}

// SetExecStep replaces the step function. A wrapper can call the previous one to add
// breakpoints or tracing around it.
func (i *Interpreter) SetExecStep(fn func(*Interpreter) (bool, error)) {
	i.execStep = fn
}

// Step executes a single instruction, returning (halted, error)
func (i *Interpreter) Step() (bool, error) {
	if i.execStep == nil {
		return false, ErrNotImplemented
	}

	if i.maxSteps > 0 && i.steps >= i.maxSteps {
		return false, ErrMaxStepsExceeded
	}

	halted, err := i.execStep(i)
	if err != nil {
		return false, err
	}
	if i.halt == haltBreakpoint {
		return true, nil
	}
	i.steps++
	i.regs[0] = 0

	return halted, nil
}

// Run executes until ECALL, EBREAK or an error
func (i *Interpreter) Run() error {
	for {
		halted, err := i.Step()
		if err != nil {
			return err
		}

		if halted {
			log.Debug("Hart halted", "by", i.halt, "pc", i.pc, "steps", i.steps)
			return nil
		}
	}
}

// PC returns the address of the next instruction
func (i *Interpreter) PC() uint32 {
	return i.pc
}

// Reg reads a register by numeric or ABI name
func (i *Interpreter) Reg(name string) uint32 {
	idx, ok := isa.Register(name)
	if !ok {
		return 0
	}
	return i.regs[idx]
}

// SetReg writes a register; writes to x0 are discarded
func (i *Interpreter) SetReg(idx int, v uint32) {
	if idx > 0 && idx < len(i.regs) {
		i.regs[idx] = v
	}
}

// Memory exposes the hart's memory
func (i *Interpreter) Memory() *Memory {
	return i.mem
}

// Steps returns the number of retired instructions
func (i *Interpreter) Steps() int {
	return i.steps
}

// HaltedBy returns "ecall", "ebreak" or "breakpoint" once the hart has stopped
func (i *Interpreter) HaltedBy() string {
	return i.halt
}

// readCSR returns the value of a CSR; counters are derived from the step count
func (i *Interpreter) readCSR(addr uint32) uint32 {
	steps := uint64(i.steps)
	switch addr {
	case csrCycle, csrTime, csrInstret, csrMCycle, csrMInstret:
		return uint32(steps)
	case csrCycleH, csrTimeH, csrInstretH:
		return uint32(steps >> 32)
	}
	return i.csrs[addr]
}

// writeCSR stores a CSR value; the user-level counters are read-only and ignore writes
func (i *Interpreter) writeCSR(addr uint32, v uint32) {
	switch addr {
	case csrCycle, csrTime, csrInstret, csrCycleH, csrTimeH, csrInstretH:
		return
	}
	i.csrs[addr] = v
}
