// Package preferences holds the typed application settings and notifies
// subscribers whenever one of them changes.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"github.com/RedBear961/qrcreator/pkg/codegen"
	"github.com/RedBear961/qrcreator/pkg/logger/types"
)

// Storage is the key-value store settings are persisted to.
// Get returns errorz.ErrNotFound when the key is absent.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// storageTimeout bounds a single storage round trip.
const storageTimeout = 3 * time.Second

// Settings is a snapshot of every preference.
type Settings struct {
	LiveGeneration bool          `json:"live_generation"`
	Resolution     uint          `json:"resolution"`
	CodeStyle      CodeStyle     `json:"code_style"`
	QRCodeLevel    codegen.Level `json:"qr_code_level"`
}

// Defaults returns the compiled-in defaults.
func Defaults() Settings {
	return Settings{
		LiveGeneration: true,
		Resolution:     200,
		CodeStyle:      StyleWhite,
		QRCodeLevel:    codegen.LevelMedium,
	}
}

// Change is delivered to subscribers after a parameter was set.
type Change struct {
	Parameter Parameter
	Value     any
}

// Handler receives change notifications.
type Handler func(Change)

// Subscription identifies a registered handler.
type Subscription uint64

type subscriber struct {
	id      Subscription
	handler Handler
}

// Preferences is the settings store. Create one per scope with New and pass
// it to the components that need it.
type Preferences struct {
	storage Storage
	logger  *types.Logger

	// writeMu orders apply and persist so storage ends up matching memory.
	writeMu sync.Mutex
	mu      sync.RWMutex
	values  Settings

	subMu       sync.Mutex
	nextID      Subscription
	subscribers []subscriber
}

// New loads the settings from storage. Absent or malformed values fall back to defaults.
func New(storage Storage, logger *types.Logger) *Preferences {
	p := &Preferences{
		storage: storage,
		logger:  logger,
		values:  Defaults(),
	}
	p.load()
	return p
}

func (p *Preferences) load() {
	defaults := Defaults()

	if raw, ok := p.read(ParamLiveGeneration); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			p.logger.Warnf("invalid %s value %q, using default %t", ParamLiveGeneration.Key(), raw, defaults.LiveGeneration)
		} else {
			p.values.LiveGeneration = v
		}
	}

	if raw, ok := p.read(ParamResolution); ok {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || v == 0 || v > codegen.MaxSize {
			p.logger.Warnf("invalid %s value %q, using default %d", ParamResolution.Key(), raw, defaults.Resolution)
		} else {
			p.values.Resolution = uint(v)
		}
	}

	if raw, ok := p.read(ParamCodeStyle); ok {
		v, err := decodeCodeStyle(raw)
		if err != nil {
			p.logger.Warnf("invalid %s value %q, using default %s", ParamCodeStyle.Key(), raw, defaults.CodeStyle)
		} else {
			p.values.CodeStyle = v
		}
	}

	if raw, ok := p.read(ParamQRCodeLevel); ok {
		v, err := codegen.ParseLevel(raw)
		if err != nil {
			p.logger.Warnf("invalid %s value %q, using default %s", ParamQRCodeLevel.Key(), raw, defaults.QRCodeLevel)
		} else {
			p.values.QRCodeLevel = v
		}
	}
}

func (p *Preferences) read(param Parameter) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	raw, err := p.storage.Get(ctx, param.Key())
	if err != nil {
		if !errors.Is(err, errorz.ErrNotFound) {
			p.logger.Warnf("failed to read %s: %v", param.Key(), err)
		}
		return "", false
	}
	return raw, true
}

// LiveGeneration reports whether previews are generated while typing.
func (p *Preferences) LiveGeneration() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.values.LiveGeneration
}

// Resolution is the side length in pixels of saved and copied images.
func (p *Preferences) Resolution() uint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.values.Resolution
}

func (p *Preferences) CodeStyle() CodeStyle {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.values.CodeStyle
}

func (p *Preferences) QRCodeLevel() codegen.Level {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.values.QRCodeLevel
}

// Snapshot returns all settings at once.
func (p *Preferences) Snapshot() Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.values
}

func (p *Preferences) SetLiveGeneration(v bool) error {
	return p.set(ParamLiveGeneration, v, strconv.FormatBool(v), func(s *Settings) { s.LiveGeneration = v })
}

func (p *Preferences) SetResolution(v uint) error {
	if !validResolution(v) {
		return fmt.Errorf("%w: resolution %d outside 1..%d", errorz.ErrInvalidValue, v, codegen.MaxSize)
	}
	return p.set(ParamResolution, v, strconv.FormatUint(uint64(v), 10), func(s *Settings) { s.Resolution = v })
}

func (p *Preferences) SetCodeStyle(v CodeStyle) error {
	if !v.valid() {
		return fmt.Errorf("%w: code style %d", errorz.ErrInvalidValue, uint(v))
	}
	return p.set(ParamCodeStyle, v, v.encode(), func(s *Settings) { s.CodeStyle = v })
}

func (p *Preferences) SetQRCodeLevel(v codegen.Level) error {
	level, err := codegen.ParseLevel(string(v))
	if err != nil {
		return fmt.Errorf("%w: %v", errorz.ErrInvalidValue, err)
	}
	return p.set(ParamQRCodeLevel, level, string(level), func(s *Settings) { s.QRCodeLevel = level })
}

// Reset restores every default at once, then notifies once per parameter.
func (p *Preferences) Reset() error {
	d := Defaults()
	writes := []struct {
		param Parameter
		value any
		raw   string
	}{
		{ParamLiveGeneration, d.LiveGeneration, strconv.FormatBool(d.LiveGeneration)},
		{ParamResolution, d.Resolution, strconv.FormatUint(uint64(d.Resolution), 10)},
		{ParamCodeStyle, d.CodeStyle, d.CodeStyle.encode()},
		{ParamQRCodeLevel, d.QRCodeLevel, string(d.QRCodeLevel)},
	}

	p.writeMu.Lock()
	p.mu.Lock()
	p.values = d
	p.mu.Unlock()

	var errs []error
	for _, w := range writes {
		errs = append(errs, p.persist(w.param, w.raw))
	}
	p.writeMu.Unlock()

	for _, w := range writes {
		p.notify(Change{Parameter: w.param, Value: w.value})
	}
	return errors.Join(errs...)
}

// set applies the value, persists it and notifies subscribers. A persistence
// failure is returned but does not roll back the in-memory value.
func (p *Preferences) set(param Parameter, value any, raw string, apply func(*Settings)) error {
	p.writeMu.Lock()
	p.mu.Lock()
	apply(&p.values)
	p.mu.Unlock()
	err := p.persist(param, raw)
	p.writeMu.Unlock()

	p.notify(Change{Parameter: param, Value: value})
	return err
}

func (p *Preferences) persist(param Parameter, raw string) error {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	if err := p.storage.Set(ctx, param.Key(), raw); err != nil {
		p.logger.Errorf("failed to persist %s=%s: %v", param.Key(), raw, err)
		return fmt.Errorf("persist %s: %w", param.Key(), err)
	}
	return nil
}

func validResolution(v uint) bool {
	return v > 0 && v <= codegen.MaxSize
}

// Subscribe registers handler for change notifications.
func (p *Preferences) Subscribe(handler Handler) Subscription {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	p.nextID++
	p.subscribers = append(p.subscribers, subscriber{id: p.nextID, handler: handler})
	return p.nextID
}

// Unsubscribe removes the handler. Unknown subscriptions are ignored.
func (p *Preferences) Unsubscribe(sub Subscription) {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	for i, s := range p.subscribers {
		if s.id == sub {
			p.subscribers = append(p.subscribers[:i:i], p.subscribers[i+1:]...)
			return
		}
	}
}

func (p *Preferences) notify(change Change) {
	p.subMu.Lock()
	handlers := make([]Handler, len(p.subscribers))
	for i, s := range p.subscribers {
		handlers[i] = s.handler
	}
	p.subMu.Unlock()

	for _, h := range handlers {
		h(change)
	}
}
