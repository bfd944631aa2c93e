package server

import (
	"errors"

	"github.com/mesaverdecleaning/site/internal/api/handlers"
	"github.com/mesaverdecleaning/site/internal/ratelimit"
)

// Dependencies are the collaborators of the contact endpoint
type Dependencies struct {
	Limiter  ratelimit.Limiter
	Verifier handlers.Verifier
	Relay    handlers.Relay

	closers []func() error
}

// Close releases connections opened by BuildDependencies
func (d *Dependencies) Close() error {
	var errs []error
	for _, c := range d.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
