package booking

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"busline/internal/domain"
	"busline/internal/domain/models"
)

type Step int

const (
	StepSeatSelection Step = iota + 1
	StepPassengerDetails
	StepBoardingPoints
	StepPayment
)

var stepTitles = map[Step]string{
	StepSeatSelection:    "Select Seats",
	StepPassengerDetails: "Passenger Details",
	StepBoardingPoints:   "Boarding Points",
	StepPayment:          "Payment",
}

func (s Step) Valid() bool { return s >= StepSeatSelection && s <= StepPayment }

func (s Step) String() string {
	if t, ok := stepTitles[s]; ok {
		return t
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

type StepStatus struct {
	Number    Step   `json:"number"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
	Reachable bool   `json:"reachable"`
}

// Wizard walks one Store through the linear booking steps. Forward moves
// need the current step to be complete; backward moves are always allowed.
type Wizard struct {
	mu         sync.Mutex
	store      *Store
	current    Step
	confirming bool
	profile    *models.Profile
	now        func() time.Time
}

type Option func(*Wizard)

// WithProfile sets the signed-in profile used to pre-fill the first passenger.
func WithProfile(p *models.Profile) Option {
	return func(w *Wizard) { w.profile = p }
}

func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

func NewWizard(store *Store, opts ...Option) *Wizard {
	if store == nil {
		store = NewStore()
	}
	w := &Wizard{store: store, current: StepSeatSelection, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Wizard) Store() *Store { return w.store }

func (w *Wizard) Draft() Draft { return w.store.Draft() }

func (w *Wizard) Current() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// StepComplete evaluates the completion predicate of step on the current draft.
func (w *Wizard) StepComplete(step Step) bool {
	return stepComplete(w.store.Draft(), step)
}

func stepComplete(d Draft, step Step) bool {
	switch step {
	case StepSeatSelection:
		return len(d.SelectedSeats) > 0
	case StepPassengerDetails:
		return PassengersComplete(d.SelectedSeats, d.Passengers)
	case StepBoardingPoints:
		return boardingPointsValid(d) == nil
	default:
		// Payment completes outside the wizard.
		return false
	}
}

func (w *Wizard) Steps() []StepStatus {
	w.mu.Lock()
	cur := w.current
	w.mu.Unlock()

	d := w.store.Draft()
	out := make([]StepStatus, 0, int(StepPayment))
	reachable := true
	for s := StepSeatSelection; s <= StepPayment; s++ {
		done := stepComplete(d, s)
		out = append(out, StepStatus{
			Number:    s,
			Title:     s.String(),
			Completed: done,
			Current:   s == cur,
			Reachable: reachable,
		})
		reachable = reachable && done
	}
	return out
}

// SetSearchCriteria merges search fields into the draft.
func (w *Wizard) SetSearchCriteria(u SearchUpdate) (Draft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.confirming {
		return Draft{}, errConfirming()
	}
	return w.store.SetSearchCriteria(u)
}

// SelectTrip picks the trip and restarts the wizard at seat selection.
func (w *Wizard) SelectTrip(trip models.TripOffer) (Draft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.confirming {
		return Draft{}, errConfirming()
	}
	d := w.store.SelectTrip(trip)
	w.current = StepSeatSelection
	return d, nil
}

// SeatMap regenerates the map for the selected trip.
func (w *Wizard) SeatMap() (SeatMap, error) {
	d := w.store.Draft()
	if d.Trip == nil {
		return SeatMap{}, errNoTrip()
	}
	return GenerateSeatMap(d.TotalSeats(), d.SelectedSeats), nil
}

func (w *Wizard) ToggleSeat(seatID string) (ToggleResult, Draft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireStep(StepSeatSelection); err != nil {
		return ToggleResult{}, Draft{}, err
	}
	d := w.store.Draft()
	if d.Trip == nil {
		return ToggleResult{}, Draft{}, errNoTrip()
	}
	seat, ok := GenerateSeatMap(d.TotalSeats(), d.SelectedSeats).Seat(seatID)
	if !ok {
		return ToggleResult{}, Draft{}, domain.ValidationError{Field: "seat", Msg: fmt.Sprintf("seat %q is not on this bus", seatID)}
	}
	return w.store.ToggleSeat(seat)
}

// PassengerForm returns the passenger records for the current seats,
// pre-filling slots that have no record yet.
func (w *Wizard) PassengerForm() ([]models.PassengerRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.ensurePassengerFormLocked()
	if err != nil {
		return nil, err
	}
	return d.Passengers, nil
}

func (w *Wizard) ensurePassengerFormLocked() (Draft, error) {
	d := w.store.Draft()
	if len(d.Passengers) == len(d.SelectedSeats) {
		return d, nil
	}
	form := PrefillPassengers(d.SelectedSeats, w.profile, w.now())
	copy(form, d.Passengers)
	return w.store.SetPassengers(form)
}

// SetPassengers replaces every passenger record at once.
func (w *Wizard) SetPassengers(records []models.PassengerRecord) (Draft, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireStep(StepPassengerDetails); err != nil {
		return Draft{}, false, err
	}
	if err := ValidatePassengers(records); err != nil {
		return Draft{}, false, err
	}
	d, err := w.store.SetPassengers(records)
	if err != nil {
		return Draft{}, false, err
	}
	return d, PassengersComplete(d.SelectedSeats, d.Passengers), nil
}

// EditPassengerField changes one field of one record and reports whether
// the passenger step is now complete.
func (w *Wizard) EditPassengerField(index int, field PassengerField, value string) (Draft, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireStep(StepPassengerDetails); err != nil {
		return Draft{}, false, err
	}
	d, err := w.ensurePassengerFormLocked()
	if err != nil {
		return Draft{}, false, err
	}
	records, err := EditPassengerField(d.Passengers, index, field, value)
	if err != nil {
		return Draft{}, false, err
	}
	d, err = w.store.SetPassengers(records)
	if err != nil {
		return Draft{}, false, err
	}
	return d, PassengersComplete(d.SelectedSeats, d.Passengers), nil
}

// ChooseBoardingPoints stores the pickup/drop pair. Either may be left empty
// for now; a non-empty value must be one the trip offers.
func (w *Wizard) ChooseBoardingPoints(pickup, drop string) (Draft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireStep(StepBoardingPoints); err != nil {
		return Draft{}, err
	}
	d := w.store.Draft()
	if d.Trip == nil {
		return Draft{}, errNoTrip()
	}
	pickup, drop = strings.TrimSpace(pickup), strings.TrimSpace(drop)
	if pickup != "" && !d.Trip.HasPickupPoint(pickup) {
		return Draft{}, domain.ValidationError{Field: "pickup_point", Msg: fmt.Sprintf("%q is not a pickup point of this trip", pickup)}
	}
	if drop != "" && !d.Trip.HasDropPoint(drop) {
		return Draft{}, domain.ValidationError{Field: "drop_point", Msg: fmt.Sprintf("%q is not a drop point of this trip", drop)}
	}
	return w.store.SetBoardingPoints(pickup, drop), nil
}

// Advance moves one step forward when the current step is complete.
func (w *Wizard) Advance() (Step, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.confirming {
		return w.current, errConfirming()
	}

	switch w.current {
	case StepSeatSelection:
		if !stepComplete(w.store.Draft(), StepSeatSelection) {
			return w.current, domain.ValidationError{Field: "seats", Msg: "Please select at least one seat"}
		}
		w.current = StepPassengerDetails
		if _, err := w.ensurePassengerFormLocked(); err != nil {
			w.current = StepSeatSelection
			return w.current, err
		}
	case StepPassengerDetails:
		if !stepComplete(w.store.Draft(), StepPassengerDetails) {
			return w.current, domain.ValidationError{Field: "passengers", Msg: "Please fill in all passenger details"}
		}
		w.current = StepBoardingPoints
	case StepBoardingPoints:
		if err := w.proceedToPaymentLocked(); err != nil {
			return w.current, err
		}
	default:
		return w.current, domain.ValidationError{Field: "step", Msg: "already at payment"}
	}
	return w.current, nil
}

// ProceedToPayment is the boarding-points exit: both points must be chosen.
func (w *Wizard) ProceedToPayment() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.requireStep(StepBoardingPoints); err != nil {
		return err
	}
	return w.proceedToPaymentLocked()
}

func (w *Wizard) proceedToPaymentLocked() error {
	if err := boardingPointsValid(w.store.Draft()); err != nil {
		return err
	}
	w.current = StepPayment
	return nil
}

// GoTo moves back to step. Moving forward has to go through Advance.
func (w *Wizard) GoTo(step Step) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.confirming {
		return errConfirming()
	}
	if !step.Valid() {
		return domain.ValidationError{Field: "step", Msg: fmt.Sprintf("unknown step %d", int(step))}
	}
	if step > w.current {
		return domain.ValidationError{Field: "step", Msg: fmt.Sprintf("cannot skip ahead to %s", step)}
	}
	w.current = step
	return nil
}

// ReadyForPayment verifies the draft can be paid for.
func (w *Wizard) ReadyForPayment() (Draft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.readyForPaymentLocked()
}

func (w *Wizard) readyForPaymentLocked() (Draft, error) {
	if err := w.requireStep(StepPayment); err != nil {
		return Draft{}, err
	}
	d := w.store.Draft()
	for s := StepSeatSelection; s < StepPayment; s++ {
		if !stepComplete(d, s) {
			return Draft{}, domain.ValidationError{Field: "step", Msg: fmt.Sprintf("%s is not complete", s)}
		}
	}
	return d, nil
}

// BeginPayment freezes a payable draft and returns the snapshot to charge.
// Until EndPayment runs, every mutation and step move is rejected.
func (w *Wizard) BeginPayment() (Draft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, err := w.readyForPaymentLocked()
	if err != nil {
		return Draft{}, err
	}
	w.confirming = true
	return d, nil
}

// EndPayment releases the freeze. A paid draft is reset; an unpaid one is
// left as it was at BeginPayment.
func (w *Wizard) EndPayment(paid bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.confirming = false
	if paid {
		w.store.Reset()
		w.current = StepSeatSelection
	}
}

// Confirming reports whether a payment is in flight.
func (w *Wizard) Confirming() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.confirming
}

// Discard resets the draft unless a payment is in flight.
func (w *Wizard) Discard() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.confirming {
		return errConfirming()
	}
	w.store.Reset()
	w.current = StepSeatSelection
	return nil
}

// Reset empties the draft and starts over at seat selection.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.store.Reset()
	w.current = StepSeatSelection
	w.confirming = false
}

func (w *Wizard) requireStep(step Step) error {
	if w.confirming {
		return errConfirming()
	}
	if w.current != step {
		return domain.ValidationError{Field: "step", Msg: fmt.Sprintf("current step is %s, not %s", w.current, step)}
	}
	return nil
}

func boardingPointsValid(d Draft) error {
	if d.PickupPoint == "" || d.DropPoint == "" {
		return domain.ValidationError{Field: "boarding_points", Msg: "Please select pickup and drop points"}
	}
	if d.Trip == nil || !d.Trip.HasPickupPoint(d.PickupPoint) || !d.Trip.HasDropPoint(d.DropPoint) {
		return domain.ValidationError{Field: "boarding_points", Msg: "boarding points are not offered by the selected trip"}
	}
	return nil
}

func errConfirming() error {
	return domain.ConflictError{Resource: "draft", Msg: "payment is being confirmed"}
}

func errNoTrip() error {
	return domain.ValidationError{Field: "trip", Msg: "no trip selected"}
}
