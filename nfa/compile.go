package nfa

import (
	"fmt"

	"github.com/coregx/tokmatch/attr"
)

// CompilerConfig configures NFA compilation behavior
type CompilerConfig struct {
	// MaxStates caps the total number of states across all patterns.
	// Default: 1 << 20
	MaxStates int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxStates: 1 << 20,
	}
}

// Compiler compiles token patterns into a single multi-pattern NFA
type Compiler struct {
	config  CompilerConfig
	builder *Builder
}

// NewCompiler creates a new NFA compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	if config.MaxStates <= 0 {
		config.MaxStates = DefaultCompilerConfig().MaxStates
	}
	return &Compiler{
		config:  config,
		builder: NewBuilder(),
	}
}

// NewDefaultCompiler creates a new NFA compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile compiles patterns into one NFA. Pattern i accepts in the match
// state whose Pattern() is i.
func (c *Compiler) Compile(patterns ...[]attr.Constraint) (*NFA, error) {
	if len(patterns) == 0 {
		return nil, &CompileError{Pattern: -1, Step: -1, Err: ErrNoPatterns}
	}

	size := 1
	for _, p := range patterns {
		size += 3*len(p) + 2
	}
	c.builder = NewBuilderWithCapacity(size)

	starts := make([]StateID, 0, len(patterns))
	for i, steps := range patterns {
		start, err := c.compilePattern(i, steps)
		if err != nil {
			return nil, err
		}
		starts = append(starts, start)

		if c.builder.States() > c.config.MaxStates {
			return nil, &CompileError{Pattern: i, Step: -1, Err: ErrTooComplex}
		}
	}

	c.builder.SetStart(c.buildSplitChain(starts))

	nfa, err := c.builder.Build()
	if err != nil {
		return nil, &CompileError{Pattern: -1, Step: -1, Err: err}
	}
	return nfa, nil
}

// compilePattern chains the steps of one pattern and terminates the chain
// in a fresh match state. Returns the pattern's entry state.
func (c *Compiler) compilePattern(index int, steps []attr.Constraint) (StateID, error) {
	if len(steps) == 0 {
		return InvalidState, &CompileError{Pattern: index, Step: -1, Err: ErrEmptyPattern}
	}

	var start, end StateID
	for i := range steps {
		stepStart, stepEnd, err := c.compileStep(steps[i])
		if err != nil {
			return InvalidState, &CompileError{Pattern: index, Step: i, Err: err}
		}
		if i == 0 {
			start = stepStart
		} else if err := c.builder.Patch(end, stepStart); err != nil {
			return InvalidState, &CompileError{Pattern: index, Step: i, Err: err}
		}
		end = stepEnd
	}

	match := c.builder.AddMatch()
	if err := c.builder.Patch(end, match); err != nil {
		return InvalidState, &CompileError{Pattern: index, Step: len(steps) - 1, Err: err}
	}
	return start, nil
}

// compileStep lowers one quantified constraint.
// Returns (start, end) state IDs; end is left dangling for the caller to patch.
func (c *Compiler) compileStep(step attr.Constraint) (start, end StateID, err error) {
	switch step.Quant {
	case attr.One:
		return c.compileOne(step)
	case attr.Opt:
		return c.compileQuest(step)
	case attr.Star:
		return c.compileStar(step)
	case attr.Plus:
		return c.compilePlus(step)
	case attr.Zero:
		return c.compileAbsent(step)
	default:
		return InvalidState, InvalidState, fmt.Errorf("%w: %v", ErrInvalidQuantifier, step.Quant)
	}
}

// compileOne compiles a step consuming exactly one token
func (c *Compiler) compileOne(step attr.Constraint) (start, end StateID, err error) {
	id := c.builder.AddToken(c.builder.AddConstraint(step), InvalidState)
	return id, id, nil
}

// compileQuest compiles an optional step (zero or one)
func (c *Compiler) compileQuest(step attr.Constraint) (start, end StateID, err error) {
	tok := c.builder.AddToken(c.builder.AddConstraint(step), InvalidState)

	// Either consume the token or skip to end
	end = c.builder.AddEpsilon(InvalidState)
	split := c.builder.AddSplit(tok, end)
	if err := c.builder.Patch(tok, end); err != nil {
		return InvalidState, InvalidState, err
	}
	return split, end, nil
}

// compileStar compiles a step repeated zero or more times
func (c *Compiler) compileStar(step attr.Constraint) (start, end StateID, err error) {
	tok := c.builder.AddToken(c.builder.AddConstraint(step), InvalidState)

	// split -> [tok, end]
	// tok -> split (loop back)
	end = c.builder.AddEpsilon(InvalidState)
	split := c.builder.AddSplit(tok, end)
	if err := c.builder.Patch(tok, split); err != nil {
		return InvalidState, InvalidState, err
	}
	return split, end, nil
}

// compilePlus compiles a step repeated one or more times
func (c *Compiler) compilePlus(step attr.Constraint) (start, end StateID, err error) {
	tok := c.builder.AddToken(c.builder.AddConstraint(step), InvalidState)

	// Must match at least once
	// tok -> split -> [tok, end]
	end = c.builder.AddEpsilon(InvalidState)
	split := c.builder.AddSplit(tok, end)
	if err := c.builder.Patch(tok, split); err != nil {
		return InvalidState, InvalidState, err
	}
	return tok, end, nil
}

// compileAbsent compiles a negated step: a zero-width assertion that the
// current token does not satisfy the constraint
func (c *Compiler) compileAbsent(step attr.Constraint) (start, end StateID, err error) {
	id := c.builder.AddAbsent(c.builder.AddConstraint(step), InvalidState)
	return id, id, nil
}

// buildSplitChain fans out to every target:
// Split(t0, Split(t1, Split(t2, ...)))
func (c *Compiler) buildSplitChain(targets []StateID) StateID {
	root := targets[len(targets)-1]
	for i := len(targets) - 2; i >= 0; i-- {
		root = c.builder.AddSplit(targets[i], root)
	}
	return root
}
