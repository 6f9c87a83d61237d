package runtime

import (
	"fmt"

	"github.com/npillmayer/treegram"
)

// Binding frames layer free-variable bindings over the base symbol
// table. An interpreter keeps a stack of frames; resolution walks the
// stack top-down before falling back to the table, so nested evaluations
// may shadow bindings without disturbing outer ones.

// Frame is one layer of free-variable bindings.
type Frame struct {
	Name     string
	Bindings *SymbolTable
	Parent   *Frame
}

// NewFrame creates a new binding frame.
func NewFrame(nm string) *Frame {
	return &Frame{
		Name:     nm,
		Bindings: NewSymbolTable(),
	}
}

func (f *Frame) String() string {
	return fmt.Sprintf("<frame %s [%d]>", f.Name, f.Bindings.Size())
}

// Bind binds a free variable in this frame.
func (f *Frame) Bind(name treegram.Symbol, value interface{}) *Tag {
	return f.Bindings.Bind(name, value)
}

// IsRoot is a predicate: Is this a root frame?
func (f *Frame) IsRoot() bool {
	return f.Parent == nil
}

// ---------------------------------------------------------------------------

// FrameStack is a stack of binding frames.
type FrameStack struct {
	frameBase *Frame
	frameTOS  *Frame
}

// Current gets the current binding frame of a stack (TOS).
func (fst *FrameStack) Current() *Frame {
	if fst.frameTOS == nil {
		panic("attempt to access binding frame from empty stack")
	}
	return fst.frameTOS
}

// Globals gets the outermost binding frame.
func (fst *FrameStack) Globals() *Frame {
	if fst.frameBase == nil {
		panic("attempt to access global binding frame from empty stack")
	}
	return fst.frameBase
}

// Push pushes a new binding frame as TOS, having the recent TOS as its
// parent.
func (fst *FrameStack) Push(nm string) *Frame {
	parent := fst.frameTOS
	newf := NewFrame(nm)
	newf.Parent = parent
	if parent == nil { // the new frame is the global frame
		fst.frameBase = newf
	}
	fst.frameTOS = newf
	tracer().P("frame", newf.Name).Debugf("pushing new binding frame")
	return newf
}

// Pop pops the top-most (recent) binding frame. Returns the popped frame.
func (fst *FrameStack) Pop() *Frame {
	if fst.frameTOS == nil {
		panic("attempt to pop binding frame from empty stack")
	}
	f := fst.frameTOS
	tracer().Debugf("popping binding frame [%s]", f.Name)
	fst.frameTOS = fst.frameTOS.Parent
	return f
}

// resolve walks the frame stack top-down, returning the first tag bound
// under the name, or nil.
func (fst *FrameStack) resolve(name string) *Tag {
	for f := fst.frameTOS; f != nil; f = f.Parent {
		if tag := f.Bindings.ResolveTag(name); tag != nil {
			return tag
		}
	}
	return nil
}
