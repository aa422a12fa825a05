// Package account checks whether pharmacy accounts are active on the
// portal, in bulk, for the account-checker screen.
package account

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Prober answers whether a single account number has an active portal user.
// Implemented by the medhub platform adapter.
type Prober interface {
	AccountActive(ctx context.Context, accountNumber string) (bool, error)
}

// Service runs bulk account checks.
type Service struct {
	prober Prober
	log    *zap.Logger
}

// NewService creates a new account service.
func NewService(prober Prober, log *zap.Logger) *Service {
	return &Service{prober: prober, log: log}
}

// ParseAccountList splits pasted input into account numbers, one per line,
// trimming whitespace and dropping blanks.
func ParseAccountList(raw string) []string {
	lines := strings.Split(raw, "\n")
	accounts := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			accounts = append(accounts, trimmed)
		}
	}
	return accounts
}

// CheckAccounts probes each account in turn and returns account -> active.
// A failed probe marks that account inactive rather than aborting the batch;
// checks are advisory and staff re-run them freely.
func (s *Service) CheckAccounts(ctx context.Context, accounts []string) map[string]bool {
	results := make(map[string]bool, len(accounts))
	for _, acc := range accounts {
		active, err := s.prober.AccountActive(ctx, acc)
		if err != nil {
			s.log.Warn("account probe failed",
				zap.String("account", acc),
				zap.Error(err))
			results[acc] = false
			continue
		}
		results[acc] = active
	}
	return results
}
