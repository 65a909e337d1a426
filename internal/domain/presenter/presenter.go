// Package presenter drives a code preview view: it reacts to text, code kind
// and preference changes, generates images off the UI queue and hands
// exports to the image saver.
package presenter

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/RedBear961/qrcreator/internal/domain/preferences"
	"github.com/RedBear961/qrcreator/pkg/codegen"
	"github.com/RedBear961/qrcreator/pkg/logger/types"
)

// View is the UI the presenter renders into. All methods are called on the UI queue.
type View interface {
	PreviewSize() int
	CurrentText() string
	// UpdatePreview shows img; nil clears the preview.
	UpdatePreview(img image.Image)
	SetActionsEnabled(enabled bool)
	SetPlaceholderVisible(visible bool)
}

type imageSaver interface {
	Save(img image.Image) error
	Copy(img image.Image)
}

type executor interface {
	Go(fn func())
}

type dispatcher interface {
	Dispatch(fn func())
}

// Factory builds the generation strategy for a request.
type Factory func(kind codegen.Kind, palette codegen.Palette, level codegen.Level) (codegen.Generator, error)

type Option func(*Presenter)

// WithFactory replaces codegen.New as the strategy factory.
func WithFactory(f Factory) Option {
	return func(p *Presenter) {
		p.newGenerator = f
	}
}

// Presenter must be driven from the UI queue passed to New: every exported
// method except Close assumes it runs there.
type Presenter struct {
	view         View
	prefs        *preferences.Preferences
	saver        imageSaver
	worker       executor
	ui           dispatcher
	logger       *types.Logger
	newGenerator Factory

	// UI queue state
	kind  codegen.Kind
	image image.Image

	// token of the latest preview request; completions carrying another token are stale
	token  atomic.Uint64
	closed atomic.Bool

	sub       preferences.Subscription
	closeOnce sync.Once
}

// New creates a presenter and subscribes it to prefs. Call Close to unsubscribe.
func New(
	view View,
	prefs *preferences.Preferences,
	saver imageSaver,
	worker executor,
	ui dispatcher,
	logger *types.Logger,
	opts ...Option,
) *Presenter {
	p := &Presenter{
		view:         view,
		prefs:        prefs,
		saver:        saver,
		worker:       worker,
		ui:           ui,
		logger:       logger,
		newGenerator: codegen.New,
		kind:         codegen.KindQR,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.sub = prefs.Subscribe(p.parameterDidChange)
	return p
}

// Close unsubscribes from preferences and drops in-flight results. Safe to call more than once.
func (p *Presenter) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		p.prefs.Unsubscribe(p.sub)
		p.token.Add(1)
	})
}

// Kind is the currently selected code kind.
func (p *Presenter) Kind() codegen.Kind {
	return p.kind
}

// Image is the currently displayed preview or nil.
func (p *Presenter) Image() image.Image {
	return p.image
}

// ViewWillAppear resets the view to its initial state.
func (p *Presenter) ViewWillAppear() {
	p.token.Add(1)
	p.image = nil
	p.view.SetActionsEnabled(false)
	p.view.SetPlaceholderVisible(true)
}

// TextDidChange regenerates the preview for text.
func (p *Presenter) TextDidChange(text string) {
	p.update(text)
}

// SelectKind switches the strategy and regenerates the preview.
func (p *Presenter) SelectKind(kind codegen.Kind) {
	if kind != codegen.KindQR && kind != codegen.KindBar {
		p.logger.Warnf("ignoring unknown code kind %d", int(kind))
		return
	}
	p.kind = kind
	p.update(p.view.CurrentText())
}

// Save generates the code at full resolution and passes it to the saver.
func (p *Presenter) Save() {
	p.export("save", func(img image.Image) {
		if err := p.saver.Save(img); err != nil {
			p.logger.Warnf("save aborted: %v", err)
		}
	})
}

// Copy generates the code at full resolution and puts it on the clipboard.
func (p *Presenter) Copy() {
	p.export("copy", p.saver.Copy)
}

// parameterDidChange runs on the goroutine of the setter.
func (p *Presenter) parameterDidChange(change preferences.Change) {
	if p.closed.Load() {
		return
	}
	p.logger.Debugf("preference %s changed to %v", change.Parameter, change.Value)
	p.ui.Dispatch(func() {
		if p.closed.Load() {
			return
		}
		p.update(p.view.CurrentText())
	})
}

func (p *Presenter) update(text string) {
	token := p.token.Add(1)

	if text == "" || !p.prefs.LiveGeneration() {
		p.showPlaceholder()
		return
	}

	gen, err := p.generator()
	if err != nil {
		p.logger.Errorf("failed to create %s generator: %v", p.kind, err)
		p.showPlaceholder()
		return
	}

	size := p.view.PreviewSize()
	p.worker.Go(func() {
		img, err := gen.Generate(text, size)
		p.ui.Dispatch(func() {
			p.applyPreview(token, img, err)
		})
	})
}

func (p *Presenter) applyPreview(token uint64, img *image.RGBA, err error) {
	if latest := p.token.Load(); token != latest {
		p.logger.Debugf("discarding stale preview %d (latest %d)", token, latest)
		return
	}
	if err != nil {
		p.logger.Debugf("preview not generated: %v", err)
		p.showPlaceholder()
		return
	}

	p.image = img
	p.view.UpdatePreview(img)
	p.view.SetPlaceholderVisible(false)
	p.view.SetActionsEnabled(true)
}

func (p *Presenter) showPlaceholder() {
	p.image = nil
	p.view.UpdatePreview(nil)
	p.view.SetPlaceholderVisible(true)
	p.view.SetActionsEnabled(false)
}

func (p *Presenter) export(action string, handle func(image.Image)) {
	text := p.view.CurrentText()
	size := int(p.prefs.Resolution())

	gen, err := p.generator()
	if err != nil {
		p.logger.Errorf("failed to create %s generator: %v", p.kind, err)
		return
	}

	p.worker.Go(func() {
		img, err := gen.Generate(text, size)
		if err != nil {
			p.logger.Debugf("%s skipped: %v", action, err)
			return
		}
		p.ui.Dispatch(func() {
			if p.closed.Load() {
				return
			}
			handle(img)
		})
	})
}

// generator builds the strategy with the current style and level.
func (p *Presenter) generator() (codegen.Generator, error) {
	return p.newGenerator(p.kind, p.prefs.CodeStyle().Palette(), p.prefs.QRCodeLevel())
}
