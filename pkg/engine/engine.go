// Package engine evaluates strata scripts: a small sandboxed Lisp, run on
// zygomys, that builds layers and edits a layer document with the
// operations of package tree.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/strata/pkg/layer"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/rs/zerolog"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning is a problem that did not stop evaluation: an edit that
// found nothing to act on, or a validation warning on the result.
type EvalWarning struct {
	Message string
	NodeID  string
}

func (w EvalWarning) String() string {
	if w.NodeID != "" {
		return fmt.Sprintf("layer %s: %s", w.NodeID, w.Message)
	}
	return w.Message
}

// Document is the outcome of a successful evaluation.
type Document struct {
	Layers   []*layer.Node
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter for strata scripts.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	timeout time.Duration
	newID   layer.IDFunc
	log     zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout overrides EvalTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithIDFunc sets the generator for ids of layers created by scripts.
func WithIDFunc(f layer.IDFunc) Option {
	return func(e *Engine) {
		if f != nil {
			e.newID = f
		}
	}
}

// WithLogger sets the logger for evaluation lifecycle events.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine creates a new Engine. By default it mints UUIDs, times out
// after EvalTimeout and does not log.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		timeout: EvalTimeout,
		newID:   layer.NewUUID,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs source against the document base and returns the edited
// document. base is never modified.
//
// Return semantics:
//   - On success: returns document + nil errors + nil error
//   - On parse/eval failure: returns nil document + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(base []*layer.Node, source string) (*Document, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	log := e.log.With().Uint64("generation", gen).Logger()
	log.Debug().Int("base_layers", layer.Count(base)).Int("source_bytes", len(source)).Msg("evaluation started")
	start := time.Now()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		doc, evalErrs, err := e.evaluate(base, source)
		ch <- evalResult{doc: doc, errors: evalErrs, err: err}
	}()

	doc, evalErrs, err := waitWithTimeout(ch, gen, e.timeout, &e.mu, &e.generation)
	elapsed := time.Since(start)
	switch {
	case err != nil:
		log.Warn().Err(err).Dur("elapsed", elapsed).Msg("evaluation failed")
		return nil, nil, err
	case len(evalErrs) > 0:
		log.Info().Dur("elapsed", elapsed).Int("errors", len(evalErrs)).Msg("evaluation reported errors")
	default:
		log.Info().Dur("elapsed", elapsed).
			Int("layers", layer.Count(doc.Layers)).
			Int("warnings", len(doc.Warnings)).
			Msg("evaluation finished")
	}
	return doc, evalErrs, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(base []*layer.Node, source string) (*Document, []EvalError, error) {
	s := &session{layers: base, newID: e.newID}

	// Empty source leaves the document as it is.
	if strings.TrimSpace(source) == "" {
		return s.document(), nil, nil
	}

	// The sandbox keeps scripts away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, s)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return s.document(), nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// extracting the line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
