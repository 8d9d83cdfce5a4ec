package gcode

import (
	"iter"
	"slices"
)

// Document is an ordered G-code program. Order is execution order on the
// machine. A document only grows through Append and Merge.
type Document struct {
	cmds []Command
}

// NewDocument returns a document holding a copy of cmds.
func NewDocument(cmds ...Command) *Document {
	return &Document{cmds: slices.Clone(cmds)}
}

// Len returns the number of commands.
func (d *Document) Len() int {
	return len(d.cmds)
}

// At returns the i-th command.
func (d *Document) At(i int) Command {
	return d.cmds[i]
}

// Commands returns a copy of the command list.
func (d *Document) Commands() []Command {
	return slices.Clone(d.cmds)
}

// All yields index/command pairs in order.
func (d *Document) All() iter.Seq2[int, Command] {
	return slices.All(d.cmds)
}

// Append adds commands at the end.
func (d *Document) Append(cmds ...Command) {
	d.cmds = append(d.cmds, cmds...)
}

// Clone returns an independent copy.
func (d *Document) Clone() *Document {
	return NewDocument(d.cmds...)
}

// Count returns how many commands have the given kind.
func (d *Document) Count(kind Kind) int {
	n := 0
	for _, c := range d.cmds {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Merge returns a new document with b's commands after a's. Neither input
// is modified.
func Merge(a, b *Document) *Document {
	out := &Document{cmds: make([]Command, 0, a.Len()+b.Len())}
	out.cmds = append(out.cmds, a.cmds...)
	out.cmds = append(out.cmds, b.cmds...)
	return out
}
