// Package reschedule implements the drag-to-reschedule protocol: an
// explicit begin/drop/cancel session that converts a drop target into a
// slot-snapped commit request for the external store.
//
// The session applies an optimistic overlay: the moved appointment is
// shown at the candidate time immediately, and the overlay is rolled
// back if the store rejects the commit or the commit times out. The
// store remains the source of truth; callers refresh the working set
// after every resolved commit.
package reschedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jortegam/clinicgrid/internal/clinic"
	"github.com/jortegam/clinicgrid/internal/timegrid"
)

// Session errors.
var (
	ErrCommitInFlight = errors.New("a reschedule for this appointment is still resolving")
	ErrCommitTimeout  = errors.New("reschedule commit timed out")
)

// Store is the external persistence collaborator. Reschedule must be
// atomic: accept the whole change or reject it, typically with
// clinic.ErrScheduleConflict.
type Store interface {
	Reschedule(ctx context.Context, req clinic.RescheduleRequest) error
}

// Target is a resolved drop position: a day column, a provider column,
// and the pointer's vertical offset within the time grid.
type Target struct {
	Day        time.Time
	ProviderID string
	OffsetY    float64
}

// overlayEntry is one provisional, uncommitted-to-the-view mutation.
type overlayEntry struct {
	providerID string
	start      time.Time
	end        time.Time
}

// Session owns drag state and the per-appointment commit pipeline.
// It is safe for concurrent use: drops are dispatched from background
// commands while the event loop reads the overlay.
type Session struct {
	mu      sync.Mutex
	grid    *timegrid.Grid
	store   Store
	timeout time.Duration

	dragging *clinic.Appointment
	inFlight map[string]bool
	overlay  map[string]overlayEntry
}

// NewSession creates a drag session over the given grid and store.
// timeout bounds each commit call; zero means no timeout.
func NewSession(grid *timegrid.Grid, store Store, timeout time.Duration) *Session {
	return &Session{
		grid:     grid,
		store:    store,
		timeout:  timeout,
		inFlight: make(map[string]bool),
		overlay:  make(map[string]overlayEntry),
	}
}

// Begin records the dragged appointment. It has no other side effects.
// Returns ErrCommitInFlight while a previous commit for the same
// appointment is still resolving: a second commit is only eligible
// after the first resolves.
func (s *Session) Begin(a *clinic.Appointment) error {
	if a == nil {
		return clinic.ErrAppointmentNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[a.ID] {
		return ErrCommitInFlight
	}

	snapshot := *a // pre-drag state for rollback
	s.dragging = &snapshot
	return nil
}

// Dragging returns the appointment being dragged, or nil.
func (s *Session) Dragging() *clinic.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dragging == nil {
		return nil
	}
	snapshot := *s.dragging
	return &snapshot
}

// Cancel discards the pending candidate without emitting a commit.
// Safe to call at any point, including when nothing is being dragged.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragging = nil
}

// Candidate converts a drop target into the commit request it would
// produce: the pointer offset snapped down to the slot grid, combined
// with the target day, preserving the original duration. ok is false
// when nothing is dragged or the offset misses the visible window.
func (s *Session) Candidate(target Target) (clinic.RescheduleRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candidateLocked(target)
}

func (s *Session) candidateLocked(target Target) (clinic.RescheduleRequest, bool) {
	if s.dragging == nil {
		return clinic.RescheduleRequest{}, false
	}

	newStart, ok := s.grid.OffsetToTime(target.OffsetY, target.Day)
	if !ok {
		return clinic.RescheduleRequest{}, false
	}

	providerID := target.ProviderID
	if providerID == "" {
		providerID = s.dragging.ProviderID
	}

	return clinic.RescheduleRequest{
		AppointmentID: s.dragging.ID,
		ProviderID:    providerID,
		NewStart:      newStart,
		NewEnd:        newStart.Add(s.dragging.Duration()),
	}, true
}

// Drop resolves the drag into a commit request and dispatches it to the
// store. The drag ends regardless of outcome.
//
// Returns (false, nil) when there is nothing to commit: no active drag,
// or a drop target that does not resolve to a slot. Both are no-ops.
// On dispatch the optimistic overlay is applied first; a rejection or
// timeout rolls it back and returns the error, leaving the appointment
// at its pre-drag time.
func (s *Session) Drop(ctx context.Context, target Target) (bool, error) {
	s.mu.Lock()

	req, ok := s.candidateLocked(target)
	if !ok {
		s.dragging = nil
		s.mu.Unlock()
		return false, nil
	}

	if s.inFlight[req.AppointmentID] {
		s.dragging = nil
		s.mu.Unlock()
		return false, ErrCommitInFlight
	}

	// Unchanged position: treat as a cancelled gesture.
	if req.NewStart.Equal(s.dragging.Start) && req.ProviderID == s.dragging.ProviderID {
		s.dragging = nil
		s.mu.Unlock()
		return false, nil
	}

	s.inFlight[req.AppointmentID] = true
	s.overlay[req.AppointmentID] = overlayEntry{
		providerID: req.ProviderID,
		start:      req.NewStart,
		end:        req.NewEnd,
	}
	s.dragging = nil
	s.mu.Unlock()

	err := s.commit(ctx, req)

	s.mu.Lock()
	delete(s.inFlight, req.AppointmentID)
	if err != nil {
		// Roll back to last known good external state.
		delete(s.overlay, req.AppointmentID)
	}
	s.mu.Unlock()

	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Session) commit(ctx context.Context, req clinic.RescheduleRequest) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err := s.store.Reschedule(ctx, req)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrCommitTimeout, s.timeout)
	}
	return err
}

// InFlight returns true while a commit for the appointment is resolving.
func (s *Session) InFlight(appointmentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[appointmentID]
}

// Acknowledge drops the overlay entry for an appointment once refreshed
// data from the store has been applied to the working set.
func (s *Session) Acknowledge(appointmentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overlay, appointmentID)
}

// AcknowledgeAll drops every overlay entry, typically after a full
// working-set refresh.
func (s *Session) AcknowledgeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = make(map[string]overlayEntry)
}

// Apply returns the working set with the optimistic overlay applied.
// Appointments with a pending overlay are returned as copies carrying
// the provisional time and provider; everything else passes through.
func (s *Session) Apply(appts []*clinic.Appointment) []*clinic.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.overlay) == 0 {
		return appts
	}

	out := make([]*clinic.Appointment, len(appts))
	for i, a := range appts {
		if a == nil {
			continue
		}
		entry, ok := s.overlay[a.ID]
		if !ok {
			out[i] = a
			continue
		}
		moved := *a
		moved.ProviderID = entry.providerID
		moved.Start = entry.start
		moved.End = entry.end
		out[i] = &moved
	}
	return out
}
