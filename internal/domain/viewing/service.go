package viewing

import (
	"context"
	"strings"
	"time"

	"rental-app-go/internal/domain/lifecycle"
	"rental-app-go/internal/domain/property"

	"github.com/google/uuid"
)

const entityName = "viewing"

type PropertyLookup interface {
	GetByID(ctx context.Context, id string) (*property.Property, error)
}

type Service struct {
	repo       Repository
	properties PropertyLookup
	deps       lifecycle.Deps
}

func NewService(repo Repository, properties PropertyLookup, deps lifecycle.Deps) *Service {
	return &Service{repo: repo, properties: properties, deps: deps.WithDefaults()}
}

// RequestViewing books a viewing for a registered tenant, or for a guest when
// a landlord-side operator enters it by name and phone.
func (s *Service) RequestViewing(ctx context.Context, actor lifecycle.Actor, input RequestInput) (*Appointment, error) {
	input.TenantID = strings.TrimSpace(input.TenantID)
	input.GuestName = strings.TrimSpace(input.GuestName)
	input.GuestPhone = strings.TrimSpace(input.GuestPhone)
	if strings.TrimSpace(input.PropertyID) == "" {
		return nil, lifecycle.Invalid("property_id", "is required")
	}
	if input.TenantID == "" && (input.GuestName == "" || input.GuestPhone == "") {
		return nil, lifecycle.Invalid("tenant_id", "tenant or guest name and phone are required")
	}
	clock, err := lifecycle.ParseClock(input.Time)
	if err != nil {
		return nil, lifecycle.Invalid("time", "must be HH:MM")
	}
	if input.Date.IsZero() {
		return nil, lifecycle.Invalid("date", "is required")
	}
	day := lifecycle.DateOf(input.Date)
	if day.Before(lifecycle.DateOf(s.deps.Now())) {
		return nil, lifecycle.Invalid("date", "must not be in the past")
	}

	prop, err := s.properties.GetByID(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}

	appointment := Appointment{
		ID:              uuid.NewString(),
		PropertyID:      prop.ID,
		LandlordID:      prop.LandlordID,
		GuestName:       input.GuestName,
		GuestPhone:      input.GuestPhone,
		AppointmentDate: day,
		AppointmentTime: clock,
		Notes:           strings.TrimSpace(input.Notes),
		Source:          strings.TrimSpace(input.Source),
		Status:          StatusPending,
		Version:         1,
	}
	if appointment.Source == "" {
		appointment.Source = DefaultSource
	}
	if input.TenantID != "" {
		tenantID := input.TenantID
		appointment.TenantID = &tenantID
	}

	if !actor.Is(input.TenantID) {
		if err := lifecycle.AuthorizeLandlordSide(ctx, s.deps.Delegation, actor, prop.LandlordID, prop.ID, lifecycle.CapabilityViewings); err != nil {
			return nil, err
		}
		operatorID := actor.UserID
		appointment.OperatorID = &operatorID
	}

	err = s.deps.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, &appointment); err != nil {
			return err
		}
		if actor.Is(prop.LandlordID) {
			return nil
		}
		return s.deps.Outbox.Enqueue(ctx, lifecycle.Event{
			Key:         lifecycle.EventViewingRequested,
			UserID:      prop.LandlordID,
			UserRole:    lifecycle.RoleLandlord,
			RelatedID:   appointment.ID,
			RelatedType: lifecycle.RelatedViewing,
			Params: map[string]string{
				lifecycle.ParamPropertyTitle: prop.Title,
				lifecycle.ParamTenantName:    s.requesterName(ctx, &appointment),
				lifecycle.ParamDate:          lifecycle.FormatDate(appointment.AppointmentDate),
				lifecycle.ParamTime:          appointment.AppointmentTime,
			},
		})
	})
	s.deps.Observer.Transition(entityName, "request", err)
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (s *Service) GetByID(ctx context.Context, actor lifecycle.Actor, id string) (*Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.sideOf(ctx, actor, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *Service) ListByLandlord(ctx context.Context, landlordID string, filter ListFilter) ([]Appointment, error) {
	return s.repo.ListByLandlord(ctx, landlordID, filter)
}

func (s *Service) ListByTenant(ctx context.Context, tenantID string, filter ListFilter) ([]Appointment, error) {
	return s.repo.ListByTenant(ctx, tenantID, filter)
}

// Confirm accepts a pending request, or keeps the original time of a
// rescheduled one and drops the proposal.
func (s *Service) Confirm(ctx context.Context, actor lifecycle.Actor, id string) (*Appointment, error) {
	return s.apply(ctx, "confirm", id, func(ctx context.Context, a *Appointment) error {
		if err := s.authorizeLandlord(ctx, actor, a); err != nil {
			return err
		}
		if a.Status != StatusPending && a.Status != StatusRescheduled {
			return lifecycle.InvalidTransition(entityName, a.ID, "confirm", string(a.Status))
		}
		a.clearProposal()
		a.Status = StatusConfirmed
		return nil
	}, func(ctx context.Context, a *Appointment) []lifecycle.Event {
		return s.toTenant(ctx, a, lifecycle.EventViewingConfirmed, map[string]string{
			lifecycle.ParamDate: lifecycle.FormatDate(a.AppointmentDate),
			lifecycle.ParamTime: a.AppointmentTime,
		})
	})
}

// Reschedule records a proposed new time that the other party must agree to.
func (s *Service) Reschedule(ctx context.Context, actor lifecycle.Actor, id string, newDate time.Time, newTime, reason string) (*Appointment, error) {
	clock, err := lifecycle.ParseClock(newTime)
	if err != nil {
		return nil, lifecycle.Invalid("time", "must be HH:MM")
	}
	if newDate.IsZero() {
		return nil, lifecycle.Invalid("date", "is required")
	}
	day := lifecycle.DateOf(newDate)
	if day.Before(lifecycle.DateOf(s.deps.Now())) {
		return nil, lifecycle.Invalid("date", "must not be in the past")
	}
	reason = strings.TrimSpace(reason)

	var proposer Side
	return s.apply(ctx, "reschedule", id, func(ctx context.Context, a *Appointment) error {
		side, err := s.sideOf(ctx, actor, a)
		if err != nil {
			return err
		}
		if a.Status != StatusPending && a.Status != StatusConfirmed {
			return lifecycle.InvalidTransition(entityName, a.ID, "reschedule", string(a.Status))
		}
		proposer = side
		a.RescheduleDate = &day
		a.RescheduleTime = &clock
		a.RescheduleReason = &reason
		a.RescheduledBy = &side
		a.Status = StatusRescheduled
		return nil
	}, func(ctx context.Context, a *Appointment) []lifecycle.Event {
		params := map[string]string{
			lifecycle.ParamDate:   lifecycle.FormatDate(day),
			lifecycle.ParamTime:   clock,
			lifecycle.ParamReason: reason,
		}
		if proposer == SideLandlord {
			return s.toTenant(ctx, a, lifecycle.EventViewingRescheduled, params)
		}
		return s.toLandlord(ctx, a, lifecycle.EventViewingRescheduled, params)
	})
}

// AgreeReschedule adopts the proposed time. The party that proposed it cannot
// agree to its own proposal, except that the landlord side answers for guests.
func (s *Service) AgreeReschedule(ctx context.Context, actor lifecycle.Actor, id string) (*Appointment, error) {
	var agreedBy Side
	return s.apply(ctx, "agree_reschedule", id, func(ctx context.Context, a *Appointment) error {
		side, err := s.sideOf(ctx, actor, a)
		if err != nil {
			return err
		}
		if a.Status != StatusRescheduled || a.RescheduleDate == nil || a.RescheduleTime == nil {
			return lifecycle.InvalidTransition(entityName, a.ID, "agree_reschedule", string(a.Status))
		}
		if a.RescheduledBy != nil && *a.RescheduledBy == side && !(side == SideLandlord && a.IsGuest()) {
			return lifecycle.InvalidTransitionReason(entityName, a.ID, "agree_reschedule", string(a.Status), "the proposing party cannot agree to its own proposal")
		}
		agreedBy = side
		a.AppointmentDate = *a.RescheduleDate
		a.AppointmentTime = *a.RescheduleTime
		a.clearProposal()
		a.Status = StatusConfirmed
		return nil
	}, func(ctx context.Context, a *Appointment) []lifecycle.Event {
		if agreedBy != SideLandlord {
			return nil
		}
		return s.toTenant(ctx, a, lifecycle.EventViewingConfirmed, map[string]string{
			lifecycle.ParamDate: lifecycle.FormatDate(a.AppointmentDate),
			lifecycle.ParamTime: a.AppointmentTime,
		})
	})
}

func (s *Service) Cancel(ctx context.Context, actor lifecycle.Actor, id, reason string) (*Appointment, error) {
	reason = strings.TrimSpace(reason)

	var canceller Side
	return s.apply(ctx, "cancel", id, func(ctx context.Context, a *Appointment) error {
		side, err := s.sideOf(ctx, actor, a)
		if err != nil {
			return err
		}
		if a.Status.Terminal() {
			return lifecycle.InvalidTransition(entityName, a.ID, "cancel", string(a.Status))
		}
		canceller = side
		a.CancelReason = &reason
		a.clearProposal()
		a.Status = StatusCancelled
		return nil
	}, func(ctx context.Context, a *Appointment) []lifecycle.Event {
		params := map[string]string{lifecycle.ParamReason: reason}
		if canceller == SideLandlord {
			return s.toTenant(ctx, a, lifecycle.EventViewingCancelled, params)
		}
		return s.toLandlord(ctx, a, lifecycle.EventViewingCancelled, params)
	})
}

// Complete closes a confirmed viewing once its appointment time has passed.
func (s *Service) Complete(ctx context.Context, actor lifecycle.Actor, id string) (*Appointment, error) {
	return s.apply(ctx, "complete", id, func(ctx context.Context, a *Appointment) error {
		if err := s.authorizeLandlord(ctx, actor, a); err != nil {
			return err
		}
		if a.Status != StatusConfirmed {
			return lifecycle.InvalidTransition(entityName, a.ID, "complete", string(a.Status))
		}
		now := s.deps.Now()
		if now.Before(a.StartsAt()) {
			return lifecycle.InvalidTransitionReason(entityName, a.ID, "complete", string(a.Status), "appointment time has not passed")
		}
		a.CompletedAt = &now
		a.Status = StatusCompleted
		return nil
	}, nil)
}

type mutation func(ctx context.Context, a *Appointment) error

type notify func(ctx context.Context, a *Appointment) []lifecycle.Event

// apply runs one read-check-write cycle and enqueues the resulting events in
// the same transaction.
func (s *Service) apply(ctx context.Context, action, id string, mutate mutation, events notify) (*Appointment, error) {
	var result *Appointment
	err := lifecycle.RetryOnConflict(ctx, func(ctx context.Context) error {
		return s.deps.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
			appointment, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			expected := appointment.Version
			if err := mutate(ctx, appointment); err != nil {
				return err
			}
			appointment.Version++
			if err := s.repo.Update(ctx, appointment, expected); err != nil {
				return err
			}
			if events != nil {
				if pending := events(ctx, appointment); len(pending) > 0 {
					if err := s.deps.Outbox.Enqueue(ctx, pending...); err != nil {
						return err
					}
				}
			}
			result = appointment
			return nil
		})
	})
	s.deps.Observer.Transition(entityName, action, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) sideOf(ctx context.Context, actor lifecycle.Actor, a *Appointment) (Side, error) {
	if !a.IsGuest() && actor.Is(a.tenantID()) {
		return SideRequester, nil
	}
	if err := s.authorizeLandlord(ctx, actor, a); err != nil {
		return "", err
	}
	return SideLandlord, nil
}

func (s *Service) authorizeLandlord(ctx context.Context, actor lifecycle.Actor, a *Appointment) error {
	return lifecycle.AuthorizeLandlordSide(ctx, s.deps.Delegation, actor, a.LandlordID, a.PropertyID, lifecycle.CapabilityViewings)
}

// toTenant addresses the requester. Guests have no account, so nothing is sent.
func (s *Service) toTenant(ctx context.Context, a *Appointment, key lifecycle.EventKey, params map[string]string) []lifecycle.Event {
	if a.IsGuest() {
		return nil
	}
	return []lifecycle.Event{s.event(ctx, a, key, a.tenantID(), lifecycle.RoleTenant, params)}
}

func (s *Service) toLandlord(ctx context.Context, a *Appointment, key lifecycle.EventKey, params map[string]string) []lifecycle.Event {
	return []lifecycle.Event{s.event(ctx, a, key, a.LandlordID, lifecycle.RoleLandlord, params)}
}

func (s *Service) event(ctx context.Context, a *Appointment, key lifecycle.EventKey, userID string, role lifecycle.Role, params map[string]string) lifecycle.Event {
	params[lifecycle.ParamPropertyTitle] = s.deps.Directory.PropertyTitle(ctx, a.PropertyID)
	return lifecycle.Event{
		Key:         key,
		UserID:      userID,
		UserRole:    role,
		RelatedID:   a.ID,
		RelatedType: lifecycle.RelatedViewing,
		Params:      params,
	}
}

func (s *Service) requesterName(ctx context.Context, a *Appointment) string {
	if a.IsGuest() {
		return a.GuestName
	}
	if name := s.deps.Directory.DisplayName(ctx, a.tenantID()); name != "" {
		return name
	}
	if a.GuestName != "" {
		return a.GuestName
	}
	return a.tenantID()
}
