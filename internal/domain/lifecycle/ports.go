package lifecycle

import (
	"context"
	"time"
)

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Outbox interface {
	Enqueue(ctx context.Context, events ...Event) error
}

// Directory resolves display values for notification templates. Lookups are
// best effort: an unknown id yields an empty string.
type Directory interface {
	PropertyTitle(ctx context.Context, propertyID string) string
	DisplayName(ctx context.Context, userID string) string
}

type Capability string

const (
	CapabilityProperties Capability = "properties"
	CapabilityViewings   Capability = "viewings"
	CapabilityContracts  Capability = "contracts"
	CapabilityPayments   Capability = "payments"
	CapabilityRepairs    Capability = "repairs"
)

// Delegation answers whether a team member may act for a landlord.
type Delegation interface {
	CanAct(ctx context.Context, landlordID, userID, propertyID string, capability Capability) (bool, error)
}

type Observer interface {
	Transition(entity, action string, err error)
}

// Deps bundles the collaborators every workflow service needs.
type Deps struct {
	Tx         Transactor
	Outbox     Outbox
	Directory  Directory
	Delegation Delegation
	Observer   Observer
	Now        func() time.Time
}

func (d Deps) WithDefaults() Deps {
	if d.Tx == nil {
		d.Tx = InlineTransactor{}
	}
	if d.Outbox == nil {
		d.Outbox = discardOutbox{}
	}
	if d.Directory == nil {
		d.Directory = emptyDirectory{}
	}
	if d.Delegation == nil {
		d.Delegation = ownerOnly{}
	}
	if d.Observer == nil {
		d.Observer = nopObserver{}
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	return d
}

// InlineTransactor runs fn directly, without a surrounding transaction.
type InlineTransactor struct{}

func (InlineTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type discardOutbox struct{}

func (discardOutbox) Enqueue(context.Context, ...Event) error { return nil }

type emptyDirectory struct{}

func (emptyDirectory) PropertyTitle(context.Context, string) string { return "" }

func (emptyDirectory) DisplayName(context.Context, string) string { return "" }

type ownerOnly struct{}

func (ownerOnly) CanAct(context.Context, string, string, string, Capability) (bool, error) {
	return false, nil
}

type nopObserver struct{}

func (nopObserver) Transition(string, string, error) {}
