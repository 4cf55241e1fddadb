package main

import (
	"context"
	"fmt"
	"log"

	"github.com/tmorvan/panelcut/pkg/config"
	"github.com/tmorvan/panelcut/pkg/engine"
	"github.com/tmorvan/panelcut/pkg/evaluate"
	"github.com/tmorvan/panelcut/pkg/kernel"
	"github.com/tmorvan/panelcut/pkg/kernel/brep"
	"github.com/tmorvan/panelcut/pkg/material"
	"github.com/tmorvan/panelcut/pkg/validate"
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx       context.Context
	engine    *engine.Engine
	kernel    kernel.Kernel
	materials *material.Table
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices      []float32 `json:"vertices"`
	Normals       []float32 `json:"normals"`
	Indices       []uint32  `json:"indices"`
	PartName      string    `json:"partName"`
	Color         string    `json:"color"`
	CastShadow    bool      `json:"castShadow"`
	ReceiveShadow bool      `json:"receiveShadow"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates a new App with an engine, the brep kernel and the
// built-in material catalog.
func NewApp() *App {
	return &App{
		engine:    engine.NewEngine(),
		kernel:    brep.New(),
		materials: material.NewTable(),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Materials returns the built-in material catalog for the frontend's
// material picker.
func (a *App) Materials() []material.Material {
	return a.materials.All()
}

// DefaultConfig returns the starting configuration as JSON-marshalable
// data for a fresh editor session.
func (a *App) DefaultConfig() config.Config {
	return config.Default()
}

// EvaluateSource takes Lisp source, evaluates it into a configuration,
// and renders that configuration. This is the primary binding called by
// the frontend editor.
func (a *App) EvaluateSource(source string) EvalResult {
	result := newEvalResult()

	cfg, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("EvaluateSource fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	return a.render(*cfg, result)
}

// RenderConfig decodes a JSON configuration and renders it. Used by the
// frontend's form-based editor, which manipulates the configuration
// directly instead of going through the scripting engine.
func (a *App) RenderConfig(configJSON string) EvalResult {
	result := newEvalResult()

	cfg, err := config.Decode([]byte(configJSON))
	if err != nil {
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	return a.render(cfg, result)
}

// render validates and evaluates a configuration into mesh data.
//
// Blocking validation errors stop evaluation; warnings are forwarded
// alongside the meshes. A kernel panic during boolean evaluation is
// recovered here and the uncut panel is rendered instead, so the user
// always sees something.
func (a *App) render(cfg config.Config, result EvalResult) EvalResult {
	check := validate.Check(cfg, a.materials)
	for _, w := range check.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Error()})
	}
	if !check.OK() {
		for _, e := range check.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Message: e.Error()})
		}
		return result
	}

	res, err := a.tryEvaluate(cfg)
	if err != nil {
		// The boolean backends panic on degenerate geometry rather than
		// returning errors. Fall back to the uncut panel so the user
		// always sees something, and surface what happened.
		log.Printf("render: cuts failed (%v), substituting uncut panel", err)
		result.Warnings = append(result.Warnings, EvalErrorData{
			Message: "cut evaluation failed, showing uncut panel: " + err.Error(),
		})

		uncut := cfg
		uncut.Cuts = nil
		res, err = a.tryEvaluate(uncut)
		if err != nil {
			result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
			return result
		}
	}

	result.Meshes = append(result.Meshes, MeshData{
		Vertices:      res.Mesh.Vertices,
		Normals:       res.Mesh.Normals,
		Indices:       res.Mesh.Indices,
		PartName:      res.Mesh.PartName,
		Color:         res.Material.Color,
		CastShadow:    res.CastShadow,
		ReceiveShadow: res.ReceiveShadow,
	})
	return result
}

// tryEvaluate runs the evaluator with a recover barrier, converting a
// kernel panic into an error.
func (a *App) tryEvaluate(cfg config.Config) (res *evaluate.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &kernelPanicError{value: r}
		}
	}()
	return evaluate.Evaluate(a.kernel, cfg, a.materials)
}

type kernelPanicError struct {
	value interface{}
}

func (e *kernelPanicError) Error() string {
	return "kernel panic: " + panicString(e.value)
}

func panicString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case error:
		return s.Error()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func newEvalResult() EvalResult {
	return EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
}
