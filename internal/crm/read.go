package crm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AngelCh415/leadpane/internal/models"
	"github.com/AngelCh415/leadpane/internal/observability"
	"github.com/AngelCh415/leadpane/internal/records"
)

// Search keeps the leads whose name or email contains q, ignoring case.
// The query is matched as typed, spaces included. An empty query returns
// every lead.
func Search(leads []models.Lead, q string) []models.Lead {
	q = strings.ToLower(q)
	if q == "" {
		return leads
	}
	out := make([]models.Lead, 0, len(leads))
	for _, l := range leads {
		if strings.Contains(strings.ToLower(l.Name), q) || strings.Contains(strings.ToLower(l.Email), q) {
			out = append(out, l)
		}
	}
	return out
}

// StatusBadge returns the colour class the leads table uses for a status.
func StatusBadge(status string) string {
	switch status {
	case "Won":
		return "green"
	case "New", "Proposal":
		return "yellow"
	case "Lost":
		return "red"
	}
	return ""
}

func (s *Service) Leads(ctx context.Context) ([]models.Lead, error) {
	rows, err := s.read(ctx, records.Leads)
	if err != nil {
		return nil, err
	}
	leads, bad := records.DecodeLeads(rows)
	s.warnRows(bad)
	return leads, nil
}

func (s *Service) Activities(ctx context.Context) ([]models.Activity, error) {
	rows, err := s.read(ctx, records.Activities)
	if err != nil {
		return nil, err
	}
	acts, bad := records.DecodeActivities(rows)
	s.warnRows(bad)
	return acts, nil
}

func (s *Service) Accounts(ctx context.Context) ([]models.Account, error) {
	rows, err := s.read(ctx, records.Accounts)
	if err != nil {
		return nil, err
	}
	accts, bad := records.DecodeAccounts(rows)
	s.warnRows(bad)
	return accts, nil
}

func (s *Service) read(ctx context.Context, t records.TableDef) ([][]string, error) {
	rows, err := s.st.ReadAll(ctx, t)
	if err != nil {
		observability.RecordStoreError("read")
		return nil, fmt.Errorf("failed to load %s: %w", t.Name, err)
	}
	return rows, nil
}

func (s *Service) warnRows(bad []records.RowError) {
	for _, re := range bad {
		s.log.Warn("skipping malformed row", zap.String("table", re.Table), zap.Int("row", re.Row), zap.Error(re.Err))
	}
}
