package booking

import (
	"testing"
	"time"

	"busline/internal/domain"
	"busline/internal/domain/models"
)

func fixedClock() time.Time { return time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC) }

func newTestWizard(fare int64) *Wizard {
	w := NewWizard(NewStore(),
		WithProfile(&models.Profile{FullName: "John Doe", Gender: "male", DateOfBirth: "1990-06-15"}),
		WithClock(fixedClock),
	)
	w.SelectTrip(testTrip(fare))
	return w
}

func TestWizardEndToEnd(t *testing.T) {
	w := NewWizard(nil, WithClock(fixedClock))
	if d := w.Draft(); len(d.SelectedSeats) != 0 || d.Trip != nil || d.TotalAmount != 0 {
		t.Fatalf("draft should start empty: %+v", d)
	}
	w.SelectTrip(testTrip(20))

	for _, id := range []string{"B1", "B3"} {
		if _, _, err := w.ToggleSeat(id); err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
	}
	if got := w.Draft().TotalAmount; got != 40 {
		t.Fatalf("total = %d, want 40", got)
	}
	if step, err := w.Advance(); err != nil || step != StepPassengerDetails {
		t.Fatalf("advance to passengers: %v %v", step, err)
	}

	form, err := w.PassengerForm()
	if err != nil || len(form) != 2 {
		t.Fatalf("passenger form: %v %v", form, err)
	}
	edits := []struct {
		i     int
		f     PassengerField
		value string
	}{
		{0, FieldName, "Ann Lee"}, {0, FieldAge, "30"}, {0, FieldGender, "female"}, {0, FieldIDNumber, "P100"},
		{1, FieldName, "Bob Lee"}, {1, FieldAge, "32"}, {1, FieldGender, "male"}, {1, FieldIDType, "passport"},
	}
	for _, e := range edits {
		_, complete, err := w.EditPassengerField(e.i, e.f, e.value)
		if err != nil {
			t.Fatalf("edit %d.%s: %v", e.i, e.f, err)
		}
		if complete {
			t.Fatalf("complete too early after %d.%s", e.i, e.f)
		}
	}
	if _, complete, err := w.EditPassengerField(1, FieldIDNumber, "P200"); err != nil || !complete {
		t.Fatalf("last edit should complete the step: %v %v", complete, err)
	}
	if step, err := w.Advance(); err != nil || step != StepBoardingPoints {
		t.Fatalf("advance to boarding: %v %v", step, err)
	}

	if _, err := w.ChooseBoardingPoints("Downtown Terminal", "Central Station"); err != nil {
		t.Fatal(err)
	}
	if err := w.ProceedToPayment(); err != nil {
		t.Fatal(err)
	}

	steps := w.Steps()
	for _, s := range steps {
		if !s.Reachable {
			t.Fatalf("%s should be reachable", s.Title)
		}
		if want := s.Number != StepPayment; s.Completed != want {
			t.Fatalf("%s completed = %v", s.Title, s.Completed)
		}
	}
	if w.Current() != StepPayment {
		t.Fatalf("current = %s", w.Current())
	}

	d, err := w.ReadyForPayment()
	if err != nil {
		t.Fatal(err)
	}
	q := NewQuote(d.TotalAmount, DefaultTaxRate)
	if q.TaxAmount != 5 || q.FinalAmount != 45 {
		t.Fatalf("quote = %+v", q)
	}

	w.Reset()
	if w.Current() != StepSeatSelection || w.Draft().Trip != nil {
		t.Fatalf("reset did not clear the wizard")
	}
}

func TestWizardCannotSkipAhead(t *testing.T) {
	w := newTestWizard(20)
	if _, err := w.Advance(); !domain.IsValidation(err) {
		t.Fatalf("advancing with no seats should fail, got %v", err)
	}
	if err := w.GoTo(StepBoardingPoints); !domain.IsValidation(err) {
		t.Fatalf("skipping ahead should fail, got %v", err)
	}
	if err := w.GoTo(Step(9)); !domain.IsValidation(err) {
		t.Fatalf("unknown step should fail, got %v", err)
	}
	if w.Current() != StepSeatSelection {
		t.Fatalf("current = %s", w.Current())
	}
}

func TestWizardBackwardNavigation(t *testing.T) {
	w := newTestWizard(20)
	if _, _, err := w.ToggleSeat("B1"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Advance(); err != nil {
		t.Fatal(err)
	}
	if _, _, err := w.ToggleSeat("B2"); !domain.IsValidation(err) {
		t.Fatalf("seat toggles outside seat step should fail, got %v", err)
	}
	if err := w.GoTo(StepSeatSelection); err != nil {
		t.Fatal(err)
	}
	if _, _, err := w.ToggleSeat("B2"); err != nil {
		t.Fatalf("toggle after going back: %v", err)
	}
}

func TestWizardPassengerPrefillAndAdvanceGate(t *testing.T) {
	w := newTestWizard(20)
	for _, id := range []string{"A2", "B1"} {
		if _, _, err := w.ToggleSeat(id); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := w.Advance(); err != nil {
		t.Fatal(err)
	}
	form, _ := w.PassengerForm()
	if form[0].Name != "John Doe" || form[0].Age != "34" || form[1].Name != "" {
		t.Fatalf("form = %+v", form)
	}
	if _, err := w.Advance(); !domain.IsValidation(err) {
		t.Fatalf("incomplete passengers should block, got %v", err)
	}
	if w.Current() != StepPassengerDetails {
		t.Fatalf("current = %s", w.Current())
	}
}

func TestWizardProceedWithoutPointsRejected(t *testing.T) {
	w := newTestWizard(20)
	if _, _, err := w.ToggleSeat("B1"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Advance(); err != nil {
		t.Fatal(err)
	}
	rec := completeRecord("B1")
	if _, _, err := w.SetPassengers([]models.PassengerRecord{rec}); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Advance(); err != nil {
		t.Fatal(err)
	}

	if _, err := w.ChooseBoardingPoints("Downtown Terminal", ""); err != nil {
		t.Fatal(err)
	}
	if err := w.ProceedToPayment(); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if w.Current() != StepBoardingPoints {
		t.Fatalf("wizard moved to %s", w.Current())
	}
	if _, err := w.ChooseBoardingPoints("Moon Base", "Central Station"); !domain.IsValidation(err) {
		t.Fatalf("unknown pickup should fail, got %v", err)
	}
	if d := w.Draft(); d.PickupPoint != "Downtown Terminal" || d.DropPoint != "" {
		t.Fatalf("rejected choice mutated draft: %+v", d)
	}
}

func TestWizardSeatMapNeedsTrip(t *testing.T) {
	w := NewWizard(nil)
	if _, err := w.SeatMap(); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, _, err := w.ToggleSeat("B1"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	w.SelectTrip(testTrip(20))
	if _, _, err := w.ToggleSeat("Z9"); !domain.IsValidation(err) {
		t.Fatalf("unknown seat should fail, got %v", err)
	}
	m, err := w.SeatMap()
	if err != nil || len(m.Rows) != 10 {
		t.Fatalf("seat map: %d rows, %v", len(m.Rows), err)
	}
}

func wizardAtPayment(t *testing.T) *Wizard {
	t.Helper()
	w := newTestWizard(20)
	if _, _, err := w.ToggleSeat("B1"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Advance(); err != nil {
		t.Fatal(err)
	}
	if _, _, err := w.SetPassengers([]models.PassengerRecord{completeRecord("B1")}); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Advance(); err != nil {
		t.Fatal(err)
	}
	if _, err := w.ChooseBoardingPoints("Downtown Terminal", "Central Station"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Advance(); err != nil {
		t.Fatal(err)
	}
	return w
}

func TestWizardFrozenWhilePaymentInFlight(t *testing.T) {
	w := wizardAtPayment(t)
	snap, err := w.BeginPayment()
	if err != nil {
		t.Fatal(err)
	}
	if !w.Confirming() {
		t.Fatalf("wizard should report a payment in flight")
	}

	if err := w.GoTo(StepSeatSelection); !domain.IsConflict(err) {
		t.Fatalf("GoTo during payment: expected conflict, got %v", err)
	}
	if _, _, err := w.ToggleSeat("B3"); !domain.IsConflict(err) {
		t.Fatalf("toggle during payment: expected conflict, got %v", err)
	}
	if _, err := w.SelectTrip(testTrip(30)); !domain.IsConflict(err) {
		t.Fatalf("select trip during payment: expected conflict, got %v", err)
	}
	if _, err := w.BeginPayment(); !domain.IsConflict(err) {
		t.Fatalf("second payment: expected conflict, got %v", err)
	}
	if err := w.Discard(); !domain.IsConflict(err) {
		t.Fatalf("discard during payment: expected conflict, got %v", err)
	}
	if d := w.Draft(); len(d.SelectedSeats) != 1 || d.TotalAmount != snap.TotalAmount {
		t.Fatalf("draft changed during payment: %+v", d)
	}

	w.EndPayment(false)
	if w.Confirming() || w.Current() != StepPayment {
		t.Fatalf("failed payment should unfreeze at payment, current=%s", w.Current())
	}
	if err := w.GoTo(StepSeatSelection); err != nil {
		t.Fatalf("GoTo after failed payment: %v", err)
	}
}

func TestWizardEndPaymentPaidResets(t *testing.T) {
	w := wizardAtPayment(t)
	if _, err := w.BeginPayment(); err != nil {
		t.Fatal(err)
	}
	w.EndPayment(true)
	if w.Confirming() || w.Current() != StepSeatSelection || w.Draft().Trip != nil {
		t.Fatalf("paid draft should be reset: current=%s draft=%+v", w.Current(), w.Draft())
	}
}
