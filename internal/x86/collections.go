// Completion: 100% - Instruction and data buffers complete
package x86

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/xyproto/tb/internal/ir"
)

// ItemKind tags the entries of an InstructionCollection
type ItemKind int

const (
	ItemInstruction ItemKind = iota
	ItemBranch               // a label; function labels open an indented body
	ItemBranchEnd            // closes a function body
	ItemComment
)

// Item is one structural entry of the output stream
type Item struct {
	Kind        ItemKind
	Instruction Instruction
	Name        string // branch label or comment text
}

// InstructionCollection is the ordered output stream of a whole program.
// Positions returned by Add stay valid until an earlier item is removed.
type InstructionCollection struct {
	items []Item
}

// Add appends an instruction and returns its position
func (c *InstructionCollection) Add(inst Instruction) int {
	c.items = append(c.items, Item{Kind: ItemInstruction, Instruction: inst})
	return len(c.items) - 1
}

// AddBranch appends a label
func (c *InstructionCollection) AddBranch(name string) int {
	c.items = append(c.items, Item{Kind: ItemBranch, Name: name})
	return len(c.items) - 1
}

// AddBranchEnd closes the current function body
func (c *InstructionCollection) AddBranchEnd() {
	c.items = append(c.items, Item{Kind: ItemBranchEnd})
}

// AddComment appends a comment line
func (c *InstructionCollection) AddComment(text string) {
	c.items = append(c.items, Item{Kind: ItemComment, Name: text})
}

// UpdateInstruction replaces the instruction at position
func (c *InstructionCollection) UpdateInstruction(position int, inst Instruction) error {
	if position < 0 || position >= len(c.items) || c.items[position].Kind != ItemInstruction {
		return UnexpectedInstruction("no instruction at position %d", position)
	}
	c.items[position].Instruction = inst
	return nil
}

// RemoveInstruction deletes the instruction at position
func (c *InstructionCollection) RemoveInstruction(position int) error {
	if position < 0 || position >= len(c.items) || c.items[position].Kind != ItemInstruction {
		return UnexpectedInstruction("no instruction at position %d", position)
	}
	c.items = append(c.items[:position], c.items[position+1:]...)
	return nil
}

// Instruction returns the instruction at position
func (c *InstructionCollection) Instruction(position int) (Instruction, bool) {
	if position < 0 || position >= len(c.items) || c.items[position].Kind != ItemInstruction {
		return Instruction{}, false
	}
	return c.items[position].Instruction, true
}

// LastPosition returns the position of the last item, or -1
func (c *InstructionCollection) LastPosition() int {
	return len(c.items) - 1
}

func (c *InstructionCollection) Len() int {
	return len(c.items)
}

// Items returns the stream in order
func (c *InstructionCollection) Items() []Item {
	return c.items
}

// UnresolvedJumps returns the positions of jumps whose target was never patched
func (c *InstructionCollection) UnresolvedJumps() []int {
	var positions []int
	for i, item := range c.items {
		if item.Kind == ItemInstruction && item.Instruction.IsJump() && item.Instruction.Label == "" {
			positions = append(positions, i)
		}
	}
	return positions
}

// DataItem is a labeled list of read-only literals
type DataItem struct {
	Label  string
	Chunks []ir.DataChunk
}

// DataItemCollection holds the read-only data of a program in insertion order
type DataItemCollection struct {
	items   []DataItem
	byLabel map[string]int
	strings map[string]string // interned text -> label
	counter int
}

func NewDataItemCollection() *DataItemCollection {
	return &DataItemCollection{
		byLabel: make(map[string]int),
		strings: make(map[string]string),
	}
}

func (d *DataItemCollection) add(label string, chunk ir.DataChunk) {
	if i, ok := d.byLabel[label]; ok {
		d.items[i].Chunks = append(d.items[i].Chunks, chunk)
		return
	}
	d.byLabel[label] = len(d.items)
	d.items = append(d.items, DataItem{Label: label, Chunks: []ir.DataChunk{chunk}})
}

// AddStringData appends a string literal under label
func (d *DataItemCollection) AddStringData(label, text string) {
	d.add(label, ir.DataChunk{Kind: ir.DataString, Text: text})
}

// AddByteData appends bytes under label
func (d *DataItemCollection) AddByteData(label string, data ...byte) {
	d.add(label, ir.DataChunk{Kind: ir.DataBytes, Bytes: append([]byte(nil), data...)})
}

// AddData merges a pre-built data item
func (d *DataItemCollection) AddData(item ir.Data) {
	for _, chunk := range item.Chunks {
		d.add(item.Label, chunk)
	}
}

// CreateLabel returns a fresh LC<n> label that is not in use
func (d *DataItemCollection) CreateLabel() string {
	for {
		label := fmt.Sprintf("LC%d", d.counter)
		d.counter++
		if _, taken := d.byLabel[label]; !taken {
			return label
		}
	}
}

// InternString returns the label of a data item holding text, creating it once
func (d *DataItemCollection) InternString(text string) string {
	if label, ok := d.strings[text]; ok {
		return label
	}
	label := d.CreateLabel()
	d.AddStringData(label, text)
	d.strings[text] = label
	return label
}

// Items returns the data items in insertion order
func (d *DataItemCollection) Items() []DataItem {
	return d.items
}

// Labels returns the labels in insertion order
func (d *DataItemCollection) Labels() []string {
	return lo.Map(d.items, func(item DataItem, _ int) string { return item.Label })
}

func (d *DataItemCollection) Len() int {
	return len(d.items)
}
