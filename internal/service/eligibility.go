package service

import (
	"context"

	"meetreg/internal/domain"
)

// EligibilityChecker decides whether a (group, event) pairing is permitted.
// Eligibility is determined solely by the presence of a GroupEventMapping
// row; no implicit eligibility is ever inferred. Pure read, no side effects.
type EligibilityChecker struct {
	groups domain.GroupRepository
	events domain.EventRepository
}

func NewEligibilityChecker(groups domain.GroupRepository, events domain.EventRepository) *EligibilityChecker {
	return &EligibilityChecker{groups: groups, events: events}
}

// Classify returns MANDATORY, OPTIONAL, or NOT_ELIGIBLE for the pairing.
// A missing group or event is a NotFoundError, not a classification.
func (c *EligibilityChecker) Classify(ctx context.Context, groupID, eventID int64) (domain.Eligibility, error) {
	if _, err := c.groups.GetByID(ctx, groupID); err != nil {
		return "", notFoundAs(err, "group %d not found", groupID)
	}
	if _, err := c.events.GetByID(ctx, eventID); err != nil {
		return "", notFoundAs(err, "event %d not found", eventID)
	}

	m, err := c.events.GetMapping(ctx, groupID, eventID)
	if err != nil {
		if _, ok := err.(*domain.NotFoundError); ok {
			return domain.EligibilityNotEligible, nil
		}
		return "", err
	}
	if m.IsMandatory {
		return domain.EligibilityMandatory, nil
	}
	return domain.EligibilityOptional, nil
}

// IsEligible reports whether the group may enter the event.
func (c *EligibilityChecker) IsEligible(ctx context.Context, groupID, eventID int64) (bool, error) {
	e, err := c.Classify(ctx, groupID, eventID)
	if err != nil {
		return false, err
	}
	return e != domain.EligibilityNotEligible, nil
}

// notFoundAs rewrites a repository NotFoundError with an entity-specific
// message; other errors pass through.
func notFoundAs(err error, format string, args ...interface{}) error {
	if _, ok := err.(*domain.NotFoundError); ok {
		return domain.ErrNotFound(format, args...)
	}
	return err
}
