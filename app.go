package main

import (
	"encoding/json"
	"strings"

	"github.com/chazu/strata/pkg/bounds"
	"github.com/chazu/strata/pkg/config"
	"github.com/chazu/strata/pkg/engine"
	"github.com/chazu/strata/pkg/layer"
	"github.com/chazu/strata/pkg/tree"
	"github.com/cockroachdb/errors"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// App is the backend an editor frontend binds to. Documents cross the
// boundary as JSON in the layer wire format; every result is
// JSON-serializable.
type App struct {
	engine *engine.Engine
	newID  layer.IDFunc
	indent bool
	log    zerolog.Logger
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// WarningData is a JSON-serializable warning for the frontend.
type WarningData struct {
	LayerID string `json:"layerId,omitempty"`
	Message string `json:"message"`
}

// FrameData is the canvas placement of one layer.
type FrameData struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Depth   int           `json:"depth"`
	Corners [4][2]float64 `json:"corners"`
	Min     [2]float64    `json:"min"`
	Max     [2]float64    `json:"max"`
}

// EvalResult is the full result of running a script.
type EvalResult struct {
	Layers   json.RawMessage `json:"layers"`
	Frames   []FrameData     `json:"frames"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []WarningData   `json:"warnings"`
}

// EditRequest is one direct tree edit.
type EditRequest struct {
	// Op is one of insert-into, insert-before, insert-after, remove,
	// delete, update, duplicate, move, wrap.
	Op        string          `json:"op"`
	ID        string          `json:"id"`
	Target    string          `json:"target,omitempty"`
	Index     *int            `json:"index,omitempty"`
	Placement string          `json:"placement,omitempty"`
	Layer     json.RawMessage `json:"layer,omitempty"`
	Patch     json.RawMessage `json:"patch,omitempty"`
}

// EditResult is the outcome of an EditRequest. OK is false when the edit
// found nothing to act on; the document is then unchanged.
type EditResult struct {
	Layers   json.RawMessage `json:"layers"`
	OK       bool            `json:"ok"`
	ResultID string          `json:"resultId,omitempty"`
	Removed  json.RawMessage `json:"removed,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// NewApp creates an App with default settings and no logging.
func NewApp() *App {
	return NewAppWithConfig(config.Default(), zerolog.Nop())
}

// NewAppWithConfig creates an App from validated settings.
func NewAppWithConfig(cfg config.Config, log zerolog.Logger) *App {
	newID := cfg.IDFunc()
	return &App{
		engine: engine.NewEngine(
			engine.WithTimeout(cfg.EvalTimeout()),
			engine.WithIDFunc(newID),
			engine.WithLogger(log.With().Str("component", "engine").Logger()),
		),
		newID:  newID,
		indent: cfg.Output.Indent,
		log:    log,
	}
}

// decodeDocument parses a document; blank input is the empty document.
func decodeDocument(document string) ([]*layer.Node, error) {
	if strings.TrimSpace(document) == "" {
		return []*layer.Node{}, nil
	}
	return layer.DecodeTree([]byte(document))
}

func (a *App) encode(layers []*layer.Node) json.RawMessage {
	raw, err := layer.EncodeTree(layers, a.indent)
	if err != nil {
		a.log.Error().Err(err).Msg("encoding document")
		return json.RawMessage("[]")
	}
	return raw
}

// Evaluate runs a script against document and returns the edited document
// with the canvas frame of every layer.
func (a *App) Evaluate(document, source string) EvalResult {
	result := EvalResult{
		Layers:   json.RawMessage("[]"),
		Frames:   []FrameData{},
		Errors:   []EvalErrorData{},
		Warnings: []WarningData{},
	}

	base, err := decodeDocument(document)
	if err != nil {
		result.Layers = json.RawMessage("[]")
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	result.Layers = a.encode(base)

	doc, evalErrs, err := a.engine.Evaluate(base, source)
	if err != nil {
		// Fatal: timeout, panic or a superseded run.
		a.log.Warn().Err(err).Msg("evaluate failed")
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		result.Errors = lo.Map(evalErrs, func(e engine.EvalError, _ int) EvalErrorData {
			return EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message}
		})
		return result
	}

	result.Layers = a.encode(doc.Layers)
	result.Frames = frameData(bounds.Compute(doc.Layers))
	result.Warnings = lo.Map(doc.Warnings, func(w engine.EvalWarning, _ int) WarningData {
		return WarningData{LayerID: w.NodeID, Message: w.Message}
	})
	return result
}

// Bounds returns the canvas frame of every layer in document.
func (a *App) Bounds(document string) ([]FrameData, error) {
	layers, err := decodeDocument(document)
	if err != nil {
		return nil, err
	}
	return frameData(bounds.Compute(layers)), nil
}

// HitTest returns the id of the topmost visible layer under the canvas
// point (x, y), or "" when there is none.
func (a *App) HitTest(document string, x, y float64) (string, error) {
	layers, err := decodeDocument(document)
	if err != nil {
		return "", err
	}
	return bounds.HitTest(layers, v2.Vec{X: x, Y: y}), nil
}

// Check validates document and returns its findings, errors first.
func (a *App) Check(document string) ([]layer.ValidationError, error) {
	layers, err := decodeDocument(document)
	if err != nil {
		return nil, err
	}
	errs, warnings := lo.FilterReject(layer.Validate(layers), func(v layer.ValidationError, _ int) bool {
		return v.Severity == layer.SeverityError
	})
	return append(errs, warnings...), nil
}

// Edit applies one tree operation to document.
func (a *App) Edit(document string, req EditRequest) EditResult {
	layers, err := decodeDocument(document)
	if err != nil {
		return EditResult{Layers: json.RawMessage("[]"), Error: err.Error()}
	}
	res, err := a.edit(layers, req)
	if err != nil {
		a.log.Debug().Err(err).Str("op", req.Op).Msg("edit rejected")
		return EditResult{Layers: a.encode(layers), Error: err.Error()}
	}
	a.log.Debug().Str("op", req.Op).Str("id", req.ID).Bool("ok", res.OK).Msg("edit applied")
	return res
}

func (a *App) edit(layers []*layer.Node, req EditRequest) (EditResult, error) {
	var (
		out = layers
		res EditResult
	)
	decodeLayer := func() (*layer.Node, error) {
		if len(req.Layer) == 0 {
			return nil, errors.Newf("%s: missing layer", req.Op)
		}
		var n layer.Node
		if err := json.Unmarshal(req.Layer, &n); err != nil {
			return nil, errors.Wrapf(err, "%s: layer", req.Op)
		}
		if err := tree.CheckInsert(layers, &n); err != nil {
			return nil, errors.Wrap(err, req.Op)
		}
		return &n, nil
	}
	index := tree.Append
	if req.Index != nil {
		index = *req.Index
	}

	switch req.Op {
	case "insert-into", "insert-before", "insert-after":
		n, err := decodeLayer()
		if err != nil {
			return res, err
		}
		switch req.Op {
		case "insert-into":
			out, res.OK = tree.InsertIntoGroup(layers, req.Target, n, index)
		case "insert-before":
			out, res.OK = tree.InsertBefore(layers, req.Target, n)
		default:
			out, res.OK = tree.InsertAfter(layers, req.Target, n)
		}
		res.ResultID = n.ID
	case "remove":
		var removed *layer.Node
		out, removed = tree.Remove(layers, req.ID)
		if removed != nil {
			res.OK = true
			res.Removed = a.encode([]*layer.Node{removed})
		}
	case "delete":
		res.OK = tree.Contains(layers, req.ID)
		out = tree.Delete(layers, req.ID)
	case "update":
		p, err := layer.ParsePatch(req.Patch)
		if err != nil {
			return res, err
		}
		res.OK = tree.Contains(layers, req.ID)
		out = tree.Update(layers, req.ID, p)
	case "duplicate":
		out, res.ResultID, res.OK = tree.Duplicate(layers, req.ID, a.newID)
	case "wrap":
		out, res.ResultID, res.OK = tree.Wrap(layers, req.ID, a.newID)
	case "move":
		where, ok := tree.ParsePlacement(req.Placement)
		if !ok {
			return res, errors.Newf("move: unknown placement %q", req.Placement)
		}
		out, res.OK = tree.Move(layers, req.ID, req.Target, where, index)
	default:
		return res, errors.Newf("unknown edit %q", req.Op)
	}
	res.Layers = a.encode(out)
	return res, nil
}

func frameData(frames []bounds.Frame) []FrameData {
	return lo.Map(frames, func(f bounds.Frame, _ int) FrameData {
		fd := FrameData{
			ID:    f.ID,
			Name:  f.Name,
			Depth: f.Depth,
			Min:   [2]float64{f.Box.Min.X, f.Box.Min.Y},
			Max:   [2]float64{f.Box.Max.X, f.Box.Max.Y},
		}
		for i, c := range f.Corners {
			fd.Corners[i] = [2]float64{c.X, c.Y}
		}
		return fd
	})
}
