package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reabastece-api/apperrors"
	"reabastece-api/calculator"
	"reabastece-api/metrics"
	"reabastece-api/models"
	"reabastece-api/repositories"
)

// DeriveRequest asks for the derived fields of a form in progress. Changed
// names the fields the user just edited; an empty list recomputes everything.
type DeriveRequest struct {
	Values  calculator.Snapshot `json:"values"`
	Changed []calculator.Field  `json:"changed"`
}

type DeriveResult struct {
	Values       calculator.Snapshot     `json:"values"`
	Presentation calculator.Presentation `json:"presentation"`
	Outcomes     []DeriveOutcome         `json:"outcomes"`
}

type DeriveOutcome struct {
	Field    calculator.Field `json:"field"`
	Computed bool             `json:"computed"`
	Changed  bool             `json:"changed"`
}

// UsageService persists usage sessions through the calculator session, so
// stored records carry the same derived values the form shows.
type UsageService struct {
	usage    *repositories.UsageRepository
	vehicles *repositories.VehicleRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewUsageService(usage *repositories.UsageRepository, vehicles *repositories.VehicleRepository, log *zap.Logger) *UsageService {
	return &UsageService{usage: usage, vehicles: vehicles, log: log, now: time.Now}
}

func (s *UsageService) List(ctx context.Context, owner string, opts repositories.ListOptions) ([]models.VehicleUsage, int64, error) {
	if err := requireOwner(owner); err != nil {
		return nil, 0, err
	}
	return s.usage.List(ctx, owner, opts)
}

func (s *UsageService) Get(ctx context.Context, owner, id string) (*models.VehicleUsage, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return s.usage.FindByID(ctx, id, owner)
}

// Create stores a new session. Derived fields the client left empty are
// filled in; values it supplied are kept.
func (s *UsageService) Create(ctx context.Context, owner string, values calculator.Snapshot) (*models.VehicleUsage, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}

	session := calculator.NewSession(s.lookup(owner), s.options()...)
	if values.Date == "" {
		values.Date = s.now().Format(models.DateLayout)
	}
	session.Load(ctx, values)
	session.FillMissing()

	return session.Submit(ctx, &usageStore{service: s, owner: owner})
}

// Update replaces the editable fields of a stored session. Fields that moved
// relative to the stored record re-derive everything downstream of them, as
// editing them in the form would; derived fields left empty are then filled in.
func (s *UsageService) Update(ctx context.Context, owner, id string, values calculator.Snapshot) (*models.VehicleUsage, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	record, err := s.usage.FindByID(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	session := calculator.NewEditSession(ctx, s.lookup(owner), record, s.options()...)
	changed := session.Snapshot().Diff(values)
	session.Load(ctx, values)
	session.Changed(changed...)
	session.FillMissing()

	return session.Submit(ctx, &usageStore{service: s, owner: owner})
}

func (s *UsageService) Delete(ctx context.Context, owner, id string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if err := s.usage.Delete(ctx, id, owner); err != nil {
		logFailure(s.log, "failed to delete usage", owner, id, err)
		return err
	}
	return nil
}

// Derive runs the derivation chain on a form the client is still editing and
// returns the updated values with the display-only figures. Nothing is stored.
func (s *UsageService) Derive(ctx context.Context, owner string, req DeriveRequest) (*DeriveResult, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}

	v := apperrors.NewValidationError()
	for _, f := range req.Changed {
		if !f.Known() {
			v.Add("changed", "Unknown field "+string(f))
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	session := calculator.NewSession(s.lookup(owner), s.options()...)
	session.Load(ctx, req.Values)

	var outcomes []calculator.Outcome
	if len(req.Changed) == 0 {
		outcomes = session.RecomputeAll()
	} else {
		outcomes = session.Changed(req.Changed...)
	}

	result := &DeriveResult{
		Values:       session.Snapshot(),
		Presentation: session.Presentation(),
		Outcomes:     make([]DeriveOutcome, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		result.Outcomes = append(result.Outcomes, DeriveOutcome{Field: o.Field, Computed: o.Computed, Changed: o.Changed})
	}
	return result, nil
}

func (s *UsageService) options() []calculator.Option {
	return []calculator.Option{
		calculator.WithClock(s.now),
		calculator.WithObserver(func(f calculator.Field, computed bool) {
			metrics.RecordDerivation(string(f), computed)
		}),
	}
}

// lookup resolves only the owner's vehicles.
func (s *UsageService) lookup(owner string) calculator.VehicleLookup {
	return calculator.VehicleLookupFunc(func(ctx context.Context, id string) (*models.Vehicle, error) {
		return s.vehicles.FindByID(ctx, id, owner)
	})
}

// usageStore writes submitted sessions on behalf of one owner.
type usageStore struct {
	service *UsageService
	owner   string
}

func (st *usageStore) CreateUsage(ctx context.Context, values calculator.Snapshot) (*models.VehicleUsage, error) {
	if err := st.checkVehicle(ctx, values.VehicleID); err != nil {
		return nil, err
	}

	record := &models.VehicleUsage{
		ID:     uuid.New().String(),
		UserID: st.owner,
	}
	wholeReadings(values).ApplyTo(record)

	if err := st.service.usage.Create(ctx, record); err != nil {
		st.service.log.Error("failed to create usage", zap.String("user_id", st.owner), zap.Error(err))
		return nil, err
	}
	return record, nil
}

func (st *usageStore) UpdateUsage(ctx context.Context, id string, values calculator.Snapshot) (*models.VehicleUsage, error) {
	if err := st.checkVehicle(ctx, values.VehicleID); err != nil {
		return nil, err
	}

	var record models.VehicleUsage
	wholeReadings(values).ApplyTo(&record)
	updates := map[string]interface{}{
		"vehicle_id":       record.VehicleID,
		"fuel_type":        record.FuelType,
		"initial_odometer": record.InitialOdometer,
		"final_odometer":   record.FinalOdometer,
		"km_driven":        record.KmDriven,
		"estimated_liters": record.EstimatedLiters,
		"price_per_liter":  record.PricePerLiter,
		"total_cost":       record.TotalCost,
		"gas_station":      record.GasStation,
		"is_paid":          record.IsPaid,
		"date":             record.Date,
		"notes":            record.Notes,
	}

	updated, err := st.service.usage.Update(ctx, id, st.owner, updates)
	if err != nil {
		logFailure(st.service.log, "failed to update usage", st.owner, id, err)
		return nil, err
	}
	return updated, nil
}

func (st *usageStore) checkVehicle(ctx context.Context, id string) error {
	_, err := st.service.vehicles.FindByID(ctx, id, st.owner)
	if errors.Is(err, apperrors.ErrNotFound) {
		v := apperrors.NewValidationError()
		v.Add(string(calculator.FieldVehicleID), "Vehicle not found")
		return v
	}
	return err
}

// wholeReadings rounds odometer readings and distance to whole kilometers,
// the precision they are stored at.
func wholeReadings(values calculator.Snapshot) calculator.Snapshot {
	out := values.Clone()
	for _, p := range []**float64{&out.InitialOdometer, &out.FinalOdometer, &out.KmDriven} {
		if *p != nil {
			*p = calculator.Float(math.Round(**p))
		}
	}
	return out
}
