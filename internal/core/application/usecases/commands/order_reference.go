package commands

import (
	"strings"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
)

func parseOrderID(raw string) (kernel.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError("orderId")
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}
	return id, nil
}

func requireAuthenticated(principal kernel.Principal) error {
	if !principal.IsAuthenticated() {
		return errs.NewUnauthenticatedError("")
	}
	return nil
}

func requireAdmin(principal kernel.Principal, action string) error {
	if err := requireAuthenticated(principal); err != nil {
		return err
	}
	if !principal.IsAdmin() {
		return errs.NewForbiddenError(action)
	}
	return nil
}
