package analyzer

import (
	"github.com/lhaig/coffeemaker/internal/diagnostic"
	"github.com/lhaig/coffeemaker/internal/ir"
)

// ScopeID addresses a frame in a Scopes arena.
type ScopeID int

// NoScope is the parent index of the root frame.
const NoScope ScopeID = -1

// Context is the per-frame information inherited by child scopes unless a
// child overrides it.
type Context struct {
	Function *ir.Function // enclosing function or method, nil at top level and in constructors
	Class    *ir.Class    // enclosing class, if any
	InLoop   bool
}

type frame struct {
	parent  ScopeID
	symbols map[string]ir.Symbol
	ctx     Context
}

// Scopes is an arena of lexical scope frames. Frames refer to their parent
// by index; the whole arena is dropped at the end of one analysis.
type Scopes struct {
	frames []frame
}

// NewScopes creates an arena holding only an empty root frame.
func NewScopes() *Scopes {
	s := &Scopes{}
	s.frames = append(s.frames, frame{parent: NoScope, symbols: make(map[string]ir.Symbol)})
	return s
}

// Root returns the root frame.
func (s *Scopes) Root() ScopeID {
	return 0
}

// Child creates a frame nested in parent. The child starts with the
// parent's context; each option may override parts of it.
func (s *Scopes) Child(parent ScopeID, opts ...func(*Context)) ScopeID {
	ctx := s.frames[parent].ctx
	for _, opt := range opts {
		opt(&ctx)
	}
	s.frames = append(s.frames, frame{
		parent:  parent,
		symbols: make(map[string]ir.Symbol),
		ctx:     ctx,
	})
	return ScopeID(len(s.frames) - 1)
}

// Context returns the context of a frame.
func (s *Scopes) Context(id ScopeID) Context {
	return s.frames[id].ctx
}

// Parent returns the enclosing frame of id, or NoScope for the root.
func (s *Scopes) Parent(id ScopeID) ScopeID {
	return s.frames[id].parent
}

// Declare binds name in frame id. Only that frame is searched for an
// existing binding, so outer names may be shadowed.
func (s *Scopes) Declare(id ScopeID, name string, sym ir.Symbol) error {
	if _, exists := s.frames[id].symbols[name]; exists {
		return diagnostic.Newf(diagnostic.DuplicateDeclaration, 0, 0, "identifier %s already declared", name)
	}
	s.frames[id].symbols[name] = sym
	return nil
}

// Lookup resolves name starting at frame id and walking outward to the root.
func (s *Scopes) Lookup(id ScopeID, name string) (ir.Symbol, error) {
	for cur := id; cur != NoScope; cur = s.frames[cur].parent {
		if sym, ok := s.frames[cur].symbols[name]; ok {
			return sym, nil
		}
	}
	return nil, diagnostic.Newf(diagnostic.UndeclaredIdentifier, 0, 0, "identifier %s not declared", name)
}

func inLoop(ctx *Context) { ctx.InLoop = true }

func inFunction(fn *ir.Function) func(*Context) {
	return func(ctx *Context) {
		ctx.Function = fn
		ctx.InLoop = false
	}
}

func inClass(class *ir.Class) func(*Context) {
	return func(ctx *Context) {
		ctx.Class = class
		ctx.Function = nil
		ctx.InLoop = false
	}
}
