package services

import (
	"context"
	"errors"

	apperrors "treasury/internal/errors"
	"treasury/internal/logger"
)

// WellKnownAccounts holds the ids of the accounts that documents fall back to
// when the requester names none. An empty id means the role is unassigned and
// the account must be given explicitly.
type WellKnownAccounts struct {
	// Operating pays payroll and asset purchases, funds employee loans, and
	// receives receivables and loans.
	Operating string
	// Disbursement pays approved payables.
	Disbursement string
}

// ResolveWellKnownAccounts looks the configured names up once. A missing
// account is logged and left unassigned; only database failures are errors.
func ResolveWellKnownAccounts(ctx context.Context, store AccountStorer, operatingName, disbursementName string) (WellKnownAccounts, error) {
	var wk WellKnownAccounts
	for _, role := range []struct {
		name   string
		target *string
		label  string
	}{
		{operatingName, &wk.Operating, "operating"},
		{disbursementName, &wk.Disbursement, "disbursement"},
	} {
		if role.name == "" {
			continue
		}
		account, err := store.ResolveByName(ctx, role.name)
		if err != nil {
			if errors.Is(err, apperrors.ErrAccountNotFound) {
				logger.Get().Warnw("well-known account not found", "role", role.label, "name", role.name)
				continue
			}
			return WellKnownAccounts{}, err
		}
		*role.target = account.ID
		logger.Get().Infow("well-known account resolved", "role", role.label, "name", role.name, "account_id", account.ID)
	}
	return wk, nil
}
