// Package board holds the client-side state behind the pin list and map:
// the page-accumulated pin cache, the active filter, the selected coordinate
// and the optimistic vote/delete updates. Rendering, confirmation prompts and
// notifications are injected, the map widget and DOM belong to the caller.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hkaplan/crisispin/internal/http/pinclient"
	"github.com/hkaplan/crisispin/internal/model"
	"github.com/hkaplan/crisispin/util"
)

// Client is the slice of pinclient.Client the board needs.
type Client interface {
	ListPins(ctx context.Context, params pinclient.ListParams) (*model.PinList, error)
	CreatePin(ctx context.Context, req model.CreatePinRequest) (*model.Pin, error)
	Vote(ctx context.Context, id string, vote int) (*model.Pin, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrNoCategory     = errors.New("choose both category and subtype")
	ErrNoLocation     = errors.New("pick a location on the map or use your location")
	ErrImageTooLarge  = errors.New("image too large")
	ErrNotConfirmed   = errors.New("delete not confirmed")
	ErrUnknownPin     = errors.New("pin not in local cache")
	ErrUnknownSubType = errors.New("subtype does not belong to the chosen category")
)

// Hooks are the board's outputs. Any of them may be nil.
type Hooks struct {
	// Render is called whenever the cached pins change.
	Render func(pins []model.Pin)
	// Notify surfaces a transient message.
	Notify func(title, body string)
	// Confirm gates destructive actions. Nil means always confirmed.
	Confirm func(prompt string) bool
}

type Board struct {
	client        Client
	pageLimit     int
	maxImageBytes int
	hooks         Hooks

	mu       sync.Mutex
	pins     []model.Pin
	page     int
	total    int
	filter   string
	selected *model.GeoPoint
	loadSeq  uint64
}

func New(client Client, pageLimit, maxImageBytes int, hooks Hooks) *Board {
	return &Board{
		client:        client,
		pageLimit:     pageLimit,
		maxImageBytes: maxImageBytes,
		hooks:         hooks,
		page:          1,
	}
}

// Pins returns a copy of the cached pins.
func (b *Board) Pins() []model.Pin {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Pin, len(b.pins))
	copy(out, b.pins)
	return out
}

// HasMore reports whether the server holds pins beyond the local cache.
func (b *Board) HasMore() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pins) < b.total
}

func (b *Board) Filter() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

// Reload resets the cache and page counter and fetches the first page.
func (b *Board) Reload(ctx context.Context) error {
	b.mu.Lock()
	b.page = 1
	b.mu.Unlock()
	return b.load(ctx, true)
}

// SetFilter changes the active category filter and reloads from page one.
func (b *Board) SetFilter(ctx context.Context, mainCategory string) error {
	b.mu.Lock()
	b.filter = mainCategory
	b.page = 1
	b.mu.Unlock()
	return b.load(ctx, true)
}

// LoadMore fetches the next page and appends it to the cache.
func (b *Board) LoadMore(ctx context.Context) error {
	b.mu.Lock()
	b.page++
	b.mu.Unlock()
	return b.load(ctx, false)
}

func (b *Board) load(ctx context.Context, reset bool) error {
	b.mu.Lock()
	b.loadSeq++
	seq := b.loadSeq
	params := pinclient.ListParams{
		Page:         b.page,
		Limit:        b.pageLimit,
		MainCategory: b.filter,
	}
	b.mu.Unlock()

	list, err := b.client.ListPins(ctx, params)
	if err != nil {
		return err
	}

	b.mu.Lock()
	// A newer load superseded this one, its response must not overwrite
	// the fresher state.
	if seq != b.loadSeq {
		b.mu.Unlock()
		return nil
	}
	if reset {
		b.pins = list.Pins
	} else {
		b.pins = append(b.pins, list.Pins...)
	}
	b.total = list.Total
	pins := make([]model.Pin, len(b.pins))
	copy(pins, b.pins)
	b.mu.Unlock()

	b.render(pins)
	return nil
}

// SelectLocation records a chosen coordinate pair, from a map click or a
// geolocation fix. Nothing is submitted until Submit.
func (b *Board) SelectLocation(lng, lat float64) {
	point := model.NewGeoPoint(lng, lat)
	b.mu.Lock()
	b.selected = &point
	b.mu.Unlock()
	b.notify("Location selected", fmt.Sprintf("%.6f, %.6f", lat, lng))
}

// SelectedLocation returns the recorded coordinate, or nil.
func (b *Board) SelectedLocation() *model.GeoPoint {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected
}

// Draft is a pin submission before the location is attached.
type Draft struct {
	MainCategory string
	SubType      string
	Title        string
	ImageData    *string
}

// Submit validates the draft against the local rules, creates the pin and
// prepends the server's record to the cache without refetching the list.
func (b *Board) Submit(ctx context.Context, draft Draft) (*model.Pin, error) {
	b.mu.Lock()
	selected := b.selected
	b.mu.Unlock()

	if draft.MainCategory == "" || draft.SubType == "" {
		return nil, ErrNoCategory
	}
	if !subTypeInCategory(draft.MainCategory, draft.SubType) {
		return nil, ErrUnknownSubType
	}
	if selected == nil {
		return nil, ErrNoLocation
	}
	if draft.ImageData != nil && util.ApproxBase64Bytes(*draft.ImageData) > b.maxImageBytes {
		return nil, ErrImageTooLarge
	}

	created, err := b.client.CreatePin(ctx, model.CreatePinRequest{
		MainCategory: draft.MainCategory,
		SubType:      draft.SubType,
		Title:        draft.Title,
		ImageData:    draft.ImageData,
		Location:     *selected,
	})
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.pins = append([]model.Pin{*created}, b.pins...)
	b.total++
	b.selected = nil
	pins := make([]model.Pin, len(b.pins))
	copy(pins, b.pins)
	b.mu.Unlock()

	b.render(pins)
	b.notify("Report sent", "Thanks. Community will verify.")
	return created, nil
}

// Vote optimistically shifts the local counter, then reconciles with the
// server's record. On failure the guess is discarded by reloading page one.
func (b *Board) Vote(ctx context.Context, id string, vote int) error {
	b.mu.Lock()
	idx := b.indexOf(id)
	if idx == -1 {
		b.mu.Unlock()
		return ErrUnknownPin
	}
	b.pins[idx].Votes += vote
	pins := make([]model.Pin, len(b.pins))
	copy(pins, b.pins)
	b.mu.Unlock()

	b.render(pins)

	updated, err := b.client.Vote(ctx, id, vote)
	if err != nil {
		b.notify("Vote failed", errMessage(err))
		if reloadErr := b.Reload(ctx); reloadErr != nil {
			return reloadErr
		}
		return err
	}

	b.mu.Lock()
	if idx := b.indexOf(id); idx != -1 {
		b.pins[idx] = *updated
	}
	pins = make([]model.Pin, len(b.pins))
	copy(pins, b.pins)
	b.mu.Unlock()

	b.render(pins)
	return nil
}

// Delete asks for confirmation, then removes the pin on the server and from
// the cache. On failure local state stays as it was.
func (b *Board) Delete(ctx context.Context, id string) error {
	if b.hooks.Confirm != nil && !b.hooks.Confirm("Mark as cleared? This removes it.") {
		return ErrNotConfirmed
	}

	if err := b.client.Delete(ctx, id); err != nil {
		b.notify("Delete failed", errMessage(err))
		return err
	}

	b.mu.Lock()
	if idx := b.indexOf(id); idx != -1 {
		b.pins = append(b.pins[:idx], b.pins[idx+1:]...)
		b.total--
	}
	pins := make([]model.Pin, len(b.pins))
	copy(pins, b.pins)
	b.mu.Unlock()

	b.render(pins)
	return nil
}

// SubTypesFor feeds the dependent subtype selector.
func SubTypesFor(mainCategory string) []string {
	return model.SubTypesByCategory[mainCategory]
}

func subTypeInCategory(mainCategory, subType string) bool {
	for _, s := range model.SubTypesByCategory[mainCategory] {
		if s == subType {
			return true
		}
	}
	return false
}

// indexOf must be called with the mutex held.
func (b *Board) indexOf(id string) int {
	for i := range b.pins {
		if b.pins[i].ID.String() == id {
			return i
		}
	}
	return -1
}

func (b *Board) render(pins []model.Pin) {
	if b.hooks.Render != nil {
		b.hooks.Render(pins)
	}
}

func (b *Board) notify(title, body string) {
	if b.hooks.Notify != nil {
		b.hooks.Notify(title, body)
	}
}

func errMessage(err error) string {
	var apiErr *pinclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Server error"
}
