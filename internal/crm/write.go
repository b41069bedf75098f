package crm

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AngelCh415/leadpane/internal/models"
	"github.com/AngelCh415/leadpane/internal/observability"
	"github.com/AngelCh415/leadpane/internal/records"
)

const (
	DefaultStatus       = "New"
	DefaultStage        = "Discovery"
	DefaultActivityType = "Call"
)

var ActivityTypes = []string{"Call", "Email", "Note", "Meeting"}

// CreateLead appends a lead stamped with today's date and a fresh id.
func (s *Service) CreateLead(ctx context.Context, in models.LeadInput) (models.Lead, error) {
	today := s.now().UTC().Format(records.DateLayout)
	lead := models.Lead{
		CreatedOn:      today,
		LastUpdated:    today,
		Owner:          strings.TrimSpace(in.Owner),
		Account:        strings.TrimSpace(in.Account),
		Name:           strings.TrimSpace(in.Name),
		Title:          strings.TrimSpace(in.Title),
		Email:          strings.TrimSpace(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		Location:       strings.TrimSpace(in.Location),
		Source:         strings.TrimSpace(in.Source),
		Priority:       strings.TrimSpace(in.Priority),
		Status:         orDefault(in.Status, DefaultStatus),
		Stage:          orDefault(in.Stage, DefaultStage),
		EstimatedValue: coerceValue(string(in.Value)),
		CloseDate:      strings.TrimSpace(in.CloseDate),
		Notes:          in.Notes,
	}

	id, err := s.appendWithID(ctx, records.Leads, func(id int) []string {
		lead.ID = id
		return records.EncodeLead(lead)
	})
	if err != nil {
		observability.RecordStoreError("append")
		return models.Lead{}, fmt.Errorf("failed to add lead: %w", err)
	}
	lead.ID = id
	s.log.Info("lead created", zap.Int("id", id), zap.String("status", lead.Status))
	return lead, nil
}

// LogActivity validates the whole input before anything is written.
func (s *Service) LogActivity(ctx context.Context, in models.ActivityInput) (models.Activity, error) {
	act, err := validateActivity(in)
	if err != nil {
		return models.Activity{}, err
	}
	act.Timestamp = s.now().UTC().Format(records.TimestampLayout)

	if err := s.st.Append(ctx, records.Activities, records.EncodeActivity(act)); err != nil {
		observability.RecordStoreError("append")
		return models.Activity{}, fmt.Errorf("failed to log activity: %w", err)
	}
	s.log.Info("activity logged", zap.String("lead_id", act.LeadID), zap.String("type", act.Type))
	return act, nil
}

func validateActivity(in models.ActivityInput) (models.Activity, error) {
	leadID := strings.TrimSpace(string(in.LeadID))
	if leadID == "" {
		return models.Activity{}, fmt.Errorf("%w: lead id is required", ErrInvalidInput)
	}
	typ, ok := activityType(in.Type)
	if !ok {
		return models.Activity{}, fmt.Errorf("%w: activity type %q is not one of %s",
			ErrInvalidInput, in.Type, strings.Join(ActivityTypes, "/"))
	}
	due := strings.TrimSpace(in.DueDate)
	if due != "" {
		if _, err := time.Parse(records.DateLayout, due); err != nil {
			return models.Activity{}, fmt.Errorf("%w: due date %q must be yyyy-mm-dd", ErrInvalidInput, due)
		}
	}
	return models.Activity{
		LeadID:   leadID,
		Owner:    strings.TrimSpace(in.Owner),
		Type:     typ,
		Notes:    in.Notes,
		NextStep: strings.TrimSpace(in.NextStep),
		DueDate:  due,
	}, nil
}

func activityType(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultActivityType, true
	}
	for _, t := range ActivityTypes {
		if strings.EqualFold(s, t) {
			return t, true
		}
	}
	return "", false
}

// AddAccount appends an account with the next free account id.
func (s *Service) AddAccount(ctx context.Context, in models.AccountInput) (models.Account, error) {
	acct := models.Account{
		Name:     strings.TrimSpace(in.Name),
		Type:     strings.TrimSpace(in.Type),
		Owner:    strings.TrimSpace(in.Owner),
		Location: strings.TrimSpace(in.Location),
		Website:  strings.TrimSpace(in.Website),
		Priority: strings.TrimSpace(in.Priority),
		Status:   strings.TrimSpace(in.Status),
		Notes:    in.Notes,
	}
	id, err := s.appendWithID(ctx, records.Accounts, func(id int) []string {
		acct.ID = id
		return records.EncodeAccount(acct)
	})
	if err != nil {
		observability.RecordStoreError("append")
		return models.Account{}, fmt.Errorf("failed to add account: %w", err)
	}
	acct.ID = id
	s.log.Info("account created", zap.Int("id", id))
	return acct, nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// coerceValue keeps a finite number in canonical form and blanks anything else.
func coerceValue(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return records.FormatNumber(f)
}
