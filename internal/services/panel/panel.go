// Package panel implements the timeshift settings form: its fields, the
// dependent-field rules, and the load and save round trips to the settings
// endpoint.
package panel

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/fgeck/timeshift-console/internal/models"
	"github.com/fgeck/timeshift-console/internal/services/client"
	"github.com/rs/zerolog"
)

// Messages shown by the panel.
const (
	SavingMessage   = "Saving Data..."
	SaveFailedTitle = "Save failed"
	LoadFailedTitle = "Load failed"
)

var (
	// ErrNotLoaded is returned for edits and saves before a successful load.
	ErrNotLoaded = errors.New("settings not loaded")
	// ErrSaveInFlight is returned when a save is requested while one is running.
	ErrSaveInFlight = errors.New("save already in progress")
	// ErrFieldDisabled is returned when editing a disabled field.
	ErrFieldDisabled = errors.New("field is disabled")
	// ErrUnknownField is returned for names that are not part of the form.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalid is returned when client-side validation rejects the form.
	ErrInvalid = errors.New("invalid form")
)

// Remote is the settings endpoint as seen by the panel.
type Remote interface {
	Load(ctx context.Context) (models.TimeshiftSettings, error)
	Save(ctx context.Context, values url.Values) error
}

// Alerter shows a blocking message dialog.
type Alerter interface {
	Alert(title, message string)
}

// WaitIndicator shows a blocking progress indicator.
type WaitIndicator interface {
	Show(message string)
	Hide()
}

// Container is a parent region that panels are mounted into.
type Container interface {
	Insert(index int, p *Panel)
}

// HelpTopic names the help page of the panel.
type HelpTopic struct {
	Title string
	Page  string
}

// Panel is the timeshift settings form.
type Panel struct {
	remote  Remote
	alerter Alerter
	wait    WaitIndicator
	logger  zerolog.Logger

	mu        sync.Mutex
	values    map[string]string
	loaded    bool
	saving    bool
	collapsed bool
	loadErr   error
	view      View
	listeners map[int]func(View)
	nextID    int

	loadOnce sync.Once
	ready    chan struct{}
}

// New creates a panel holding default values. The form stays disabled until
// Load succeeds.
func New(logger zerolog.Logger, remote Remote, alerter Alerter, wait WaitIndicator) *Panel {
	p := &Panel{
		remote:    remote,
		alerter:   alerter,
		wait:      wait,
		logger:    logger,
		values:    valuesFromSettings(models.DefaultTimeshiftSettings()),
		listeners: map[int]func(View){},
		ready:     make(chan struct{}),
	}
	p.view = render(p.stateLocked())
	return p
}

// Mount inserts the panel into parent at index. The first mount starts
// loading the settings in the background; Ready is closed when that load
// has finished, successfully or not.
func (p *Panel) Mount(ctx context.Context, parent Container, index int) {
	parent.Insert(index, p)

	p.loadOnce.Do(func() {
		go func() {
			defer close(p.ready)
			_ = p.Load(ctx)
		}()
	})
}

// Ready is closed once the load started by Mount has finished.
func (p *Panel) Ready() <-chan struct{} {
	return p.ready
}

// Load fetches the settings and populates the form. On failure the form
// stays disabled.
func (p *Panel) Load(ctx context.Context) error {
	p.logger.Debug().Msg("loading timeshift settings")

	settings, err := p.remote.Load(ctx)
	if err != nil {
		p.mu.Lock()
		p.loadErr = err
		p.mu.Unlock()

		p.logger.Error().Err(err).Msg("failed to load timeshift settings")
		p.alert(LoadFailedTitle, err.Error())
		return fmt.Errorf("loading timeshift settings: %w", err)
	}

	_ = p.update(func() error {
		p.values = valuesFromSettings(settings)
		p.loaded = true
		p.loadErr = nil
		return nil
	})

	p.logger.Info().Msg("timeshift settings loaded")
	return nil
}

// LoadError returns the error of the last failed load, if it was not
// followed by a successful one.
func (p *Panel) LoadError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadErr
}

// Enabled reports whether the form accepts input.
func (p *Panel) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// SetValue edits a field as the user would. Checkbox values are "true",
// "on" or "1" for checked; anything else unchecks. Edits are rejected with
// ErrSaveInFlight while a save is running.
func (p *Panel) SetValue(name, value string) error {
	f, ok := fieldByName(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	if f.Kind == KindCheckbox {
		value = strconv.FormatBool(models.IsChecked(value))
	}

	return p.update(func() error {
		if !p.loaded {
			return ErrNotLoaded
		}
		if p.saving {
			return ErrSaveInFlight
		}
		if fv, _ := p.view.Field(name); fv.Disabled {
			return fmt.Errorf("%w: %s", ErrFieldDisabled, f.Label)
		}
		p.values[name] = value
		return nil
	})
}

// SetChecked checks or unchecks a checkbox.
func (p *Panel) SetChecked(name string, checked bool) error {
	return p.SetValue(name, strconv.FormatBool(checked))
}

// SetCollapsed collapses or expands the options field set.
func (p *Panel) SetCollapsed(collapsed bool) {
	_ = p.update(func() error {
		p.collapsed = collapsed
		return nil
	})
}

// Field returns the current state of a field.
func (p *Panel) Field(name string) (FieldView, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view.Field(name)
}

// Render returns the current view.
func (p *Panel) Render() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// Subscribe registers fn to be called with every new view. The returned
// func removes the subscription.
func (p *Panel) Subscribe(fn func(View)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.listeners[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// Values serializes all seven fields, disabled ones included.
func (p *Panel) Values() url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.valuesLocked()
}

// Help returns the help page of the panel.
func (p *Panel) Help() HelpTopic {
	return HelpTopic{Title: "Timeshift Configuration", Page: "config_timeshift.html"}
}

// Save validates the form and submits it. A failure reported by the endpoint
// is shown through the alerter with the server's message; the form values
// are left as they are.
func (p *Panel) Save(ctx context.Context) error {
	var values url.Values
	err := p.update(func() error {
		if !p.loaded {
			return ErrNotLoaded
		}
		if p.saving {
			return ErrSaveInFlight
		}
		if err := p.validateLocked(); err != nil {
			return err
		}
		values = p.valuesLocked()
		p.saving = true
		return nil
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = p.update(func() error {
			p.saving = false
			return nil
		})
	}()

	if p.wait != nil {
		p.wait.Show(SavingMessage)
	}
	err = p.remote.Save(ctx, values)
	if p.wait != nil {
		p.wait.Hide()
	}

	if err != nil {
		msg := err.Error()
		var saveErr *client.SaveError
		if errors.As(err, &saveErr) {
			msg = saveErr.Message
		}

		p.logger.Warn().Err(err).Msg("failed to save timeshift settings")
		p.alert(SaveFailedTitle, msg)
		return fmt.Errorf("saving timeshift settings: %w", err)
	}

	p.logger.Info().Msg("timeshift settings saved")
	return nil
}

func (p *Panel) alert(title, message string) {
	if p.alerter != nil {
		p.alerter.Alert(title, message)
	}
}

// update applies fn under the lock, re-renders, and notifies subscribers.
// Nothing changes when fn returns an error.
func (p *Panel) update(fn func() error) error {
	p.mu.Lock()
	if err := fn(); err != nil {
		p.mu.Unlock()
		return err
	}
	p.view = render(p.stateLocked())
	view := p.view
	listeners := make([]func(View), 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	for _, l := range listeners {
		l(view)
	}
	return nil
}

func (p *Panel) stateLocked() state {
	return state{
		values:    p.values,
		loaded:    p.loaded,
		saving:    p.saving,
		collapsed: p.collapsed,
	}
}

func (p *Panel) valuesLocked() url.Values {
	out := url.Values{}
	for _, f := range fields {
		v := p.values[f.Name]
		if f.Kind == KindNumber {
			v = strings.TrimSpace(v)
		}
		out.Set(f.Name, v)
	}
	return out
}

// validateLocked rejects blank enabled fields that do not allow blanks.
func (p *Panel) validateLocked() error {
	for _, f := range fields {
		if f.Kind == KindCheckbox || f.AllowBlank {
			continue
		}
		if fv, _ := p.view.Field(f.Name); fv.Disabled {
			continue
		}
		if strings.TrimSpace(p.values[f.Name]) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalid, f.Label)
		}
	}
	return nil
}

func valuesFromSettings(s models.TimeshiftSettings) map[string]string {
	return map[string]string{
		models.KeyEnabled:         strconv.FormatBool(s.Enabled),
		models.KeyOnDemand:        strconv.FormatBool(s.OnDemand),
		models.KeyPath:            s.Path,
		models.KeyMaxPeriod:       strconv.FormatInt(s.MaxPeriod, 10),
		models.KeyUnlimitedPeriod: strconv.FormatBool(s.UnlimitedPeriod),
		models.KeyMaxSize:         strconv.FormatInt(s.MaxSize, 10),
		models.KeyUnlimitedSize:   strconv.FormatBool(s.UnlimitedSize),
	}
}
