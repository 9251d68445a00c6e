package reconcile

import (
	"context"
	"fmt"

	"github.com/eventops/confctl/internal/eventapi"
	"github.com/eventops/confctl/internal/logging"
)

type registrationLister interface {
	Registrations(ctx context.Context, conference int) ([]eventapi.Registrant, error)
}

// Resolver maps attendee emails to registration ids for one conference.
//
// The mapping is fetched from the remote service once, on the first call to
// Resolve or IsKnown, and reused for the resolver's lifetime. There is no
// invalidation: after a mutating operation the caller builds a new resolver
// to pick up freshly issued ids.
type Resolver struct {
	api        registrationLister
	conference int
	noisy      bool
	log        logging.Logger
	cache      map[string]int
}

func NewResolver(api registrationLister, conference int, noisy bool, log logging.Logger) *Resolver {
	return &Resolver{api: api, conference: conference, noisy: noisy, log: log}
}

// Resolve returns the registration id behind an email. An unknown email
// yields an IdentityError carrying it.
func (r *Resolver) Resolve(ctx context.Context, email string) (int, error) {
	if err := r.ensure(ctx); err != nil {
		return 0, err
	}
	id, ok := r.cache[email]
	if !ok {
		return 0, &IdentityError{Key: email}
	}
	return id, nil
}

// IsKnown reports whether an email has a registration.
func (r *Resolver) IsKnown(ctx context.Context, email string) (bool, error) {
	if err := r.ensure(ctx); err != nil {
		return false, err
	}
	_, ok := r.cache[email]
	return ok, nil
}

func (r *Resolver) ensure(ctx context.Context) error {
	if r.cache != nil {
		return nil
	}
	if r.noisy {
		r.log.Info(ctx, "looking up registered emails", "conference", r.conference)
	}

	regs, err := r.api.Registrations(ctx, r.conference)
	if err != nil {
		return fmt.Errorf("loading registration list: %w", err)
	}

	cache := make(map[string]int, len(regs))
	for _, reg := range regs {
		cache[reg.PersonalData.Email] = reg.RegistrantID
	}
	r.cache = cache
	return nil
}
