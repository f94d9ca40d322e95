package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/branch_finance_admin/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_finance_admin/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/platform/metrics"
	"golang.org/x/time/rate"
)

// ReminderConfig tunes the daily sweep.
type ReminderConfig struct {
	// LeadDays is how far ahead of a contract's end date the reminder goes out. A contract is
	// reminded at most once per lead window.
	LeadDays int
	// Recipients receive every reminder in addition to the contract's branch address.
	Recipients []string
	// SendsPerSecond paces mail delivery. Zero or less means unpaced.
	SendsPerSecond float64
	Location       *time.Location
}

// reminderService sends contract expiry reminders and purges expired refresh tokens.
type reminderService struct {
	BaseService
	reminderRepo portsrepo.ReminderRepository
	sessionRepo  portsrepo.SessionRepositoryFacade
	mailer       portssvc.Mailer
	cfg          ReminderConfig
	limiter      *rate.Limiter
	metrics      *metrics.Metrics
}

// ReminderOption configures the reminder service.
type ReminderOption func(*reminderService)

// WithReminderClock overrides the clock that decides "today".
func WithReminderClock(now func() time.Time) ReminderOption {
	return func(s *reminderService) {
		s.Now = now
	}
}

// WithReminderMetrics counts sent and failed reminders.
func WithReminderMetrics(m *metrics.Metrics) ReminderOption {
	return func(s *reminderService) {
		s.metrics = m
	}
}

// NewReminderService creates the daily sweep.
func NewReminderService(repos portsrepo.RepositoryProvider, mailer portssvc.Mailer, cfg ReminderConfig, opts ...ReminderOption) portssvc.ReminderSvc {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.LeadDays <= 0 {
		cfg.LeadDays = 30
	}
	s := &reminderService{
		BaseService:  newBaseService(repos.TxManager),
		reminderRepo: repos.ReminderRepo,
		sessionRepo:  repos.SessionRepo,
		mailer:       mailer,
		cfg:          cfg,
		limiter:      rate.NewLimiter(rate.Inf, 1),
	}
	if cfg.SendsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.SendsPerSecond), 1)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ReminderSvc = (*reminderService)(nil)

// RunDailySweep reminds about contracts ending within the lead window and then purges expired
// refresh tokens. A failure on one contract is logged and the sweep moves on; the returned error
// only reports that something failed.
func (s *reminderService) RunDailySweep(ctx context.Context) error {
	now := s.now().In(s.cfg.Location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.cfg.Location)
	until := today.AddDate(0, 0, s.cfg.LeadDays)
	remindedBefore := today.AddDate(0, 0, -s.cfg.LeadDays)

	var errs []error
	contracts, err := s.reminderRepo.ListContractsEndingBetween(ctx, today, until, remindedBefore)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expiring contracts")
		errs = append(errs, fmt.Errorf("failed to list expiring contracts: %w", err))
	}

	sent := 0
	for _, c := range contracts {
		if err := s.remind(ctx, c, today, now); err != nil {
			if ctx.Err() != nil {
				errs = append(errs, ctx.Err())
				break
			}
			s.metrics.ReminderFailed()
			s.LogError(ctx, err, "Contract reminder failed, skipping",
				slog.String("contract_code", c.Code), slog.String("branch_code", c.BranchCode))
			errs = append(errs, fmt.Errorf("contract %s: %w", c.Code, err))
			continue
		}
		s.metrics.ReminderSent()
		sent++
	}

	purged, err := s.sessionRepo.DeleteExpiredRefreshTokens(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to purge expired refresh tokens")
		errs = append(errs, fmt.Errorf("failed to purge refresh tokens: %w", err))
	}

	s.LogInfo(ctx, "Daily sweep finished",
		slog.Int("contracts_due", len(contracts)),
		slog.Int("reminders_sent", sent),
		slog.Int64("refresh_tokens_purged", purged))
	return errors.Join(errs...)
}

func (s *reminderService) remind(ctx context.Context, c domain.ContractReminder, today, now time.Time) error {
	to := s.recipients(c)
	if len(to) == 0 {
		return fmt.Errorf("no recipient for branch %s", c.BranchCode)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	days := int(c.EndDate.In(s.cfg.Location).Sub(today).Hours() / 24)
	mail := portssvc.Mail{
		To:      to,
		Subject: fmt.Sprintf("Contract %s ends on %s", c.Code, c.EndDate.Format("2006-01-02")),
		Body: fmt.Sprintf("Contract %s (%s) with %s for branch %s ends on %s, in %d day(s).\n",
			c.Code, c.Title, c.SupplierName, c.BranchCode, c.EndDate.Format("2006-01-02"), days),
	}
	if err := s.mailer.Send(ctx, mail); err != nil {
		return err
	}
	if err := s.reminderRepo.MarkContractReminded(ctx, c.ContractID, now); err != nil {
		return fmt.Errorf("reminder sent but not recorded: %w", err)
	}
	return nil
}

func (s *reminderService) recipients(c domain.ContractReminder) []string {
	seen := map[string]bool{}
	var out []string
	add := func(addr string) {
		addr = strings.TrimSpace(addr)
		key := strings.ToLower(addr)
		if addr == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, addr)
	}
	if c.BranchEmail != nil {
		add(*c.BranchEmail)
	}
	for _, r := range s.cfg.Recipients {
		add(r)
	}
	return out
}
