package galaxy

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"sync"

	"galaxy-gen/internal/core"
	apperrors "galaxy-gen/internal/errors"
)

// Replacer receives every newly generated cloud together with the one it
// supersedes. prev is nil on the first generation. Implementations own prev
// from that point on and are responsible for releasing it and any resources
// derived from it. Replace runs while the editor is locked and must not call
// back into the editor.
type Replacer interface {
	Replace(prev, next *PointCloud)
}

// ReplacerFunc adapts a function to the Replacer interface.
type ReplacerFunc func(prev, next *PointCloud)

// Replace calls f(prev, next).
func (f ReplacerFunc) Replace(prev, next *PointCloud) { f(prev, next) }

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithSeed pins every regeneration to seed. Without it each regeneration
// draws a fresh seed.
func WithSeed(seed uint64) EditorOption {
	return func(e *Editor) {
		e.seed = seed
		e.fixedSeed = true
	}
}

// WithWorkers sets the generator worker count.
func WithWorkers(n int) EditorOption {
	return func(e *Editor) { e.gen.Workers = n }
}

// WithReplacer installs the hook that receives each new cloud.
func WithReplacer(r Replacer) EditorOption {
	return func(e *Editor) { e.replacer = r }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) EditorOption {
	return func(e *Editor) { e.logger = l }
}

// Editor owns the parameter set of one galaxy instance and the cloud currently
// on display. Committed edits are validated, then trigger a full regeneration
// that is handed to the Replacer. Regenerations never overlap.
type Editor struct {
	mu        sync.Mutex
	params    Params
	gen       Generator
	seed      uint64
	fixedSeed bool
	current   *PointCloud
	replacer  Replacer
	logger    *slog.Logger
}

// NewEditor validates p and returns an editor with no cloud yet; call
// Regenerate to produce the first one.
func NewEditor(p Params, opts ...EditorOption) (*Editor, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	e := &Editor{params: p}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.logger = e.logger.With("component", "galaxy_editor")
	return e, nil
}

// Params returns a copy of the current parameters.
func (e *Editor) Params() Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

// Current returns the cloud most recently produced, or nil.
func (e *Editor) Current() *PointCloud {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Seed reports the seed used for the current cloud, or the pinned seed when
// nothing has been generated yet.
func (e *Editor) Seed() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != nil {
		return e.current.Seed
	}
	return e.seed
}

// Regenerate rebuilds the cloud from the current parameters.
func (e *Editor) Regenerate(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.regenerateLocked(ctx)
}

// Reseed pins a new seed and regenerates.
func (e *Editor) Reseed(ctx context.Context, seed uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seed = seed
	e.fixedSeed = true
	return e.regenerateLocked(ctx)
}

// Commit applies a single edit. Invalid values are rejected and leave both the
// parameters and the current cloud untouched.
func (e *Editor) Commit(field, value string) error {
	return e.CommitContext(context.Background(), field, value)
}

// CommitContext is Commit with a context bounding the regeneration.
func (e *Editor) CommitContext(ctx context.Context, field, value string) error {
	logger := e.logger.With("operation", "commit", "field", field, "value", value)

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.params
	if err := next.Set(field, value); err != nil {
		logger.Debug("Rejected parameter edit", "error", err)
		return err
	}
	if err := next.Validate(); err != nil {
		logger.Debug("Rejected parameter edit", "error", err)
		return err
	}
	prev := e.params
	e.params = next
	if !Regenerates(field) {
		logger.Info("Parameter committed")
		return nil
	}
	if err := e.regenerateLocked(ctx); err != nil {
		e.params = prev
		return err
	}
	logger.Info("Parameter committed", "count", e.current.Len(), "seed", e.current.Seed)
	return nil
}

// ApplyPreset replaces every parameter with the named preset and regenerates.
func (e *Editor) ApplyPreset(ctx context.Context, name string) error {
	p, err := Preset(name)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.params
	e.params = p
	if err := e.regenerateLocked(ctx); err != nil {
		e.params = prev
		return err
	}
	e.logger.Info("Preset applied", "preset", name)
	return nil
}

func (e *Editor) regenerateLocked(ctx context.Context) error {
	seed := e.seed
	if !e.fixedSeed {
		seed = core.AutoSeed()
	}
	next, err := e.gen.Generate(ctx, e.params, seed)
	if err != nil {
		return apperrors.WrapInternal("regenerate galaxy", err)
	}
	prev := e.current
	e.current = next
	if e.replacer != nil {
		e.replacer.Replace(prev, next)
	} else {
		prev.Release()
	}
	return nil
}

// Parameters implements core.ParameterProvider.
func (e *Editor) Parameters() core.ParameterSnapshot {
	return e.Params().Snapshot()
}

// ParameterControls implements core.ParameterControlsProvider.
func (e *Editor) ParameterControls() []core.ParameterControl {
	return Controls()
}

// SetIntParameter implements core.IntParameterSetter.
func (e *Editor) SetIntParameter(key string, value int) bool {
	return e.Commit(key, strconv.Itoa(value)) == nil
}

// SetFloatParameter implements core.FloatParameterSetter.
func (e *Editor) SetFloatParameter(key string, value float64) bool {
	return e.Commit(key, strconv.FormatFloat(value, 'f', -1, 64)) == nil
}

// SetColorParameter implements core.ColorParameterSetter.
func (e *Editor) SetColorParameter(key string, value color.Color) bool {
	if value == nil {
		return false
	}
	return e.Commit(key, FromColor(value).Hex()) == nil
}

func (e *Editor) String() string {
	p := e.Params()
	return fmt.Sprintf("galaxy(count=%d arms=%d radius=%g seed=%d)", p.Count, p.Arms, p.Radius, e.Seed())
}
