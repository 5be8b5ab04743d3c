package compare

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/WessleyAI/showroom/engine/domain"
	"github.com/WessleyAI/showroom/pkg/repo"
)

var (
	ErrSelectionFull   = fmt.Errorf("%w: at most %d vehicles", domain.ErrInvalidSelection, MaxVehicles)
	ErrAlreadySelected = fmt.Errorf("%w: vehicle already selected", domain.ErrInvalidSelection)
	ErrTooFew          = fmt.Errorf("%w: need at least %d vehicles", domain.ErrInvalidSelection, MinVehicles)
)

// Selection is the comparison tray: up to MaxVehicles distinct vehicle IDs
// in the order they were added. Methods return a new Selection and never
// modify the receiver.
type Selection struct {
	ids []int
}

// NewSelection builds a Selection from ids, rejecting duplicates and
// overflow.
func NewSelection(ids ...int) (Selection, error) {
	var s Selection
	for _, id := range ids {
		var err error
		if s, err = s.Add(id); err != nil {
			return Selection{}, err
		}
	}
	return s, nil
}

// Add appends id.
func (s Selection) Add(id int) (Selection, error) {
	if s.Contains(id) {
		return s, fmt.Errorf("compare: add %d: %w", id, ErrAlreadySelected)
	}
	if s.Full() {
		return s, fmt.Errorf("compare: add %d: %w", id, ErrSelectionFull)
	}
	return Selection{ids: append(slices.Clone(s.ids), id)}, nil
}

// Remove drops id if present.
func (s Selection) Remove(id int) Selection {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return s
	}
	return Selection{ids: slices.Delete(slices.Clone(s.ids), i, i+1)}
}

// Toggle removes id when selected and adds it otherwise. A full tray
// ignores new IDs.
func (s Selection) Toggle(id int) Selection {
	if s.Contains(id) {
		return s.Remove(id)
	}
	next, err := s.Add(id)
	if err != nil {
		return s
	}
	return next
}

func (s Selection) Contains(id int) bool { return slices.Contains(s.ids, id) }
func (s Selection) Len() int             { return len(s.ids) }
func (s Selection) Full() bool           { return len(s.ids) >= MaxVehicles }

// Ready reports whether enough vehicles are selected to compare.
func (s Selection) Ready() bool { return len(s.ids) >= MinVehicles }

// IDs returns a copy of the selected IDs.
func (s Selection) IDs() []int { return slices.Clone(s.ids) }

// Resolve looks up the vehicles for ids, in order. The set must hold between
// MinVehicles and MaxVehicles distinct IDs that all exist.
func Resolve(ctx context.Context, vehicles repo.Reader[domain.Vehicle, int], ids []int) ([]domain.Vehicle, error) {
	sel, err := NewSelection(ids...)
	if err != nil {
		return nil, err
	}
	if !sel.Ready() {
		return nil, fmt.Errorf("compare: resolve: %w", ErrTooFew)
	}
	out := make([]domain.Vehicle, 0, sel.Len())
	for _, id := range sel.ids {
		v, err := vehicles.Get(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("compare: resolve %d: %w", id, domain.ErrUnknownVehicle)
		}
		if err != nil {
			return nil, fmt.Errorf("compare: resolve %d: %w", id, err)
		}
		out = append(out, v)
	}
	return out, nil
}
