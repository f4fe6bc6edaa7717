package calculator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"reabastece-api/apperrors"
	"reabastece-api/models"
)

// Mode is the lifecycle state of a session form.
type Mode int

const (
	// ModeCreate has no backing record; a successful submit resets the form.
	ModeCreate Mode = iota
	// ModeEdit is bound to a stored record; a successful submit closes the form.
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// VehicleLookup resolves a vehicle by id. A nil vehicle or an error both mean
// the rate table is unknown.
type VehicleLookup interface {
	FindVehicle(ctx context.Context, id string) (*models.Vehicle, error)
}

// VehicleLookupFunc adapts a function to VehicleLookup.
type VehicleLookupFunc func(ctx context.Context, id string) (*models.Vehicle, error)

func (f VehicleLookupFunc) FindVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	return f(ctx, id)
}

// SessionStore persists a submitted session.
type SessionStore interface {
	CreateUsage(ctx context.Context, s Snapshot) (*models.VehicleUsage, error)
	UpdateUsage(ctx context.Context, id string, s Snapshot) (*models.VehicleUsage, error)
}

// Presentation holds the values shown next to the form but never stored.
type Presentation struct {
	CostPerKm  *string     `json:"cost_per_km"`
	Comparison *Comparison `json:"consumption_comparison"`
}

// Observer is told about every derivation the session triggers.
type Observer func(field Field, computed bool)

type Option func(*Session)

// WithClock sets the clock used for the default date.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

func WithGraph(g *Graph) Option {
	return func(s *Session) { s.graph = g }
}

// Session keeps the fields of one usage session edit and re-derives the
// downstream fields whenever an upstream field changes. Derived fields stay
// editable: a direct edit is kept until one of its own inputs changes again.
type Session struct {
	mu       sync.Mutex
	values   Snapshot
	vehicle  *models.Vehicle
	mode     Mode
	recordID string
	closed   bool

	submitting atomic.Bool

	lookup   VehicleLookup
	graph    *Graph
	now      func() time.Time
	observer Observer
}

// NewSession opens a form for a new usage session.
func NewSession(lookup VehicleLookup, opts ...Option) *Session {
	s := newSession(lookup, opts)
	s.values = s.defaults()
	return s
}

// NewEditSession opens a form bound to an existing record. Values are loaded
// as stored; nothing is re-derived until a field changes.
func NewEditSession(ctx context.Context, lookup VehicleLookup, record *models.VehicleUsage, opts ...Option) *Session {
	s := newSession(lookup, opts)
	s.mode = ModeEdit
	s.recordID = record.ID
	s.values = SnapshotFromUsage(record)
	s.vehicle = s.resolveVehicle(ctx, record.VehicleID)
	return s
}

func newSession(lookup VehicleLookup, opts []Option) *Session {
	s := &Session{
		lookup: lookup,
		graph:  UsageGraph,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) defaults() Snapshot {
	return Snapshot{
		IsPaid: false,
		Date:   s.now().Format(models.DateLayout),
	}
}

func (s *Session) Mode() Mode {
	return s.mode
}

func (s *Session) RecordID() string {
	return s.recordID
}

// Closed reports whether an edit form was submitted successfully.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Snapshot returns a copy of the current field values.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Clone()
}

// Vehicle returns the vehicle whose rates are in use, nil if none resolved.
func (s *Session) Vehicle() *models.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vehicle
}

// Load replaces every field at once, as a client posting its whole form does.
// No derivation runs.
func (s *Session) Load(ctx context.Context, values Snapshot) {
	vehicle := s.resolveVehicle(ctx, values.VehicleID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = values.Clone()
	s.vehicle = vehicle
}

// SetVehicle selects a vehicle and re-resolves its rate table.
func (s *Session) SetVehicle(ctx context.Context, id string) {
	vehicle := s.resolveVehicle(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.VehicleID = id
	s.vehicle = vehicle
	s.propagate(FieldVehicleID)
}

func (s *Session) SetFuelType(fuel models.FuelType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.FuelType = fuel
	s.propagate(FieldFuelType)
}

// SetNumber edits a numeric field; nil clears it.
func (s *Session) SetNumber(f Field, v *float64) error {
	if !f.Numeric() {
		return fmt.Errorf("field %q is not numeric", f)
	}
	if v != nil {
		v = Float(*v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.setNumber(f, v)
	s.propagate(f)
	return nil
}

func (s *Session) SetGasStation(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.GasStation = v
}

func (s *Session) SetPaid(paid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.IsPaid = paid
}

func (s *Session) SetDate(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.Date = date
}

func (s *Session) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.Notes = notes
}

// Changed re-runs the derivations downstream of fields, as if the user had
// just edited them.
func (s *Session) Changed(fields ...Field) []Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.propagate(fields...)
}

// RecomputeAll evaluates the whole chain. Running it twice without edits in
// between yields the same snapshot.
func (s *Session) RecomputeAll() []Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	outcomes := s.graph.RecomputeAll(&s.values, s.rates())
	s.observe(outcomes)
	return outcomes
}

// FillMissing derives only the fields that are still unset. Used when a
// client posts a whole form and may leave derived values out.
func (s *Session) FillMissing() []Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	outcomes := s.graph.FillMissing(&s.values, s.rates())
	s.observe(outcomes)
	return outcomes
}

// Presentation derives the display-only values from the current snapshot.
func (s *Session) Presentation() Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p Presentation
	if v, ok := CostPerDistance(s.values.TotalCost, s.values.KmDriven); ok {
		p.CostPerKm = &v
	}
	if rates := s.rates(); rates != nil && s.values.FuelType.Valid() {
		if c, ok := ConsumptionDeviation(s.values.KmDriven, s.values.EstimatedLiters, rates.RateFor(s.values.FuelType)); ok {
			p.Comparison = &c
		}
	}
	return p
}

// Validate checks the fields required to submit.
func (s *Session) Validate() error {
	return ValidateSnapshot(s.Snapshot())
}

// Submit validates and persists the form. A second submit while one is in
// flight is refused. On failure the values are kept so the user can retry.
func (s *Session) Submit(ctx context.Context, store SessionStore) (*models.VehicleUsage, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, apperrors.ErrSubmitInFlight
	}
	defer s.submitting.Store(false)

	values := s.Snapshot()
	if err := ValidateSnapshot(values); err != nil {
		return nil, err
	}

	var (
		record *models.VehicleUsage
		err    error
	)
	if s.mode == ModeEdit {
		record, err = store.UpdateUsage(ctx, s.recordID, values)
	} else {
		record, err = store.CreateUsage(ctx, values)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeCreate {
		s.values = s.defaults()
		s.vehicle = nil
	} else {
		s.closed = true
	}
	return record, nil
}

// Submitting reports whether a submit is in flight.
func (s *Session) Submitting() bool {
	return s.submitting.Load()
}

// ValidateSnapshot reports every missing or malformed required field.
func ValidateSnapshot(values Snapshot) error {
	v := apperrors.NewValidationError()

	if strings.TrimSpace(values.VehicleID) == "" {
		v.Add(string(FieldVehicleID), "Vehicle is required")
	}
	if values.FuelType == "" {
		v.Add(string(FieldFuelType), "Fuel type is required")
	} else if !values.FuelType.Valid() {
		v.Add(string(FieldFuelType), "Unknown fuel type")
	}
	if strings.TrimSpace(values.Date) == "" {
		v.Add(string(FieldDate), "Date is required")
	} else if _, err := time.Parse(models.DateLayout, values.Date); err != nil {
		v.Add(string(FieldDate), "Date must be formatted as YYYY-MM-DD")
	}

	return v.OrNil()
}

func (s *Session) propagate(fields ...Field) []Outcome {
	outcomes := s.graph.Propagate(&s.values, s.rates(), fields...)
	s.observe(outcomes)
	return outcomes
}

func (s *Session) observe(outcomes []Outcome) {
	if s.observer == nil {
		return
	}
	for _, o := range outcomes {
		s.observer(o.Field, o.Computed)
	}
}

func (s *Session) rates() RateTable {
	if s.vehicle == nil {
		return nil
	}
	return s.vehicle.ConsumptionRates
}

func (s *Session) resolveVehicle(ctx context.Context, id string) *models.Vehicle {
	if s.lookup == nil || strings.TrimSpace(id) == "" {
		return nil
	}
	vehicle, err := s.lookup.FindVehicle(ctx, id)
	if err != nil {
		return nil
	}
	return vehicle
}
