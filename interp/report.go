package interp

import (
	"encoding/xml"
	"io"

	"github.com/CyberArt2718281/assembler-uvm/vm"
)

// Cell is one (address, value) pair of the memory trace.
type Cell struct {
	Address int    `xml:"address,attr"`
	Value   uint32 `xml:"value,attr"`
}

// Report is the structured trace of final memory state over a caller
// specified address range. Fields marshal in a fixed order, so identical
// runs produce byte-identical documents.
type Report struct {
	XMLName      xml.Name `xml:"memory_dump"`
	StartAddress int      `xml:"start_address,attr"`
	EndAddress   int      `xml:"end_address,attr"`
	State        string   `xml:"state,attr"`
	Reason       string   `xml:"reason,attr"`
	Ticks        int      `xml:"ticks,attr"`
	Cells        []Cell   `xml:"cell"`
}

// Report serializes the machine's memory over the inclusive address range
// [start, end]. It must only be called once the machine is in a terminal
// state; on a failed run it still reports the memory contents at the point
// of failure, with the fault as the reason.
func (ip *Interp) Report(start, end int) (rep *Report, err error) {
	m := ip.Machine

	if m.State() == vm.RUNNING {
		err = ErrStillRunning
		return
	}

	if start < 0 || start > end || end >= len(m.Memory) {
		err = ErrReportRange
		return
	}

	reason := m.Reason().String()
	if fault := m.Fault(); fault != nil {
		reason = fault.Error()
	}

	rep = &Report{
		StartAddress: start,
		EndAddress:   end,
		State:        m.State().String(),
		Reason:       reason,
		Ticks:        m.Ticks,
	}

	for addr := start; addr <= end; addr++ {
		rep.Cells = append(rep.Cells, Cell{Address: addr, Value: m.Memory[addr]})
	}

	return
}

// WriteXML writes the report as a well-formed XML document.
func (rep *Report) WriteXML(w io.Writer) (err error) {
	_, err = io.WriteString(w, xml.Header)
	if err != nil {
		return
	}

	text, err := xml.MarshalIndent(rep, "", "  ")
	if err != nil {
		return
	}

	_, err = w.Write(append(text, '\n'))

	return
}
