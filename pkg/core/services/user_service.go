package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/interne/pkg/core/clock"
	"github.com/wadjakorntonsri/interne/pkg/core/domain"
	"github.com/wadjakorntonsri/interne/pkg/core/schedule"
	"github.com/wadjakorntonsri/interne/pkg/logger"
	"github.com/wadjakorntonsri/interne/pkg/ports"
)

type UserService struct {
	repo     ports.Repository
	clock    clock.Clock
	validate *validator.Validate
}

func NewUserService(repo ports.Repository, clk clock.Clock) *UserService {
	return &UserService{repo: repo, clock: clk, validate: newValidator()}
}

// Login resolves an invite code to its user.
func (s *UserService) Login(ctx context.Context, inviteCode string) (*domain.User, error) {
	inviteCode = strings.TrimSpace(inviteCode)
	if inviteCode == "" {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetUserByInvite(ctx, inviteCode)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *UserService) Create(ctx context.Context, name string, email *string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if err := check(s.validate, userInput{Name: name}); err != nil {
		return nil, err
	}
	if email != nil {
		email = optional(strings.TrimSpace(*email))
	}

	now := s.clock.Now()
	user := &domain.User{
		Name:       name,
		Email:      email,
		InviteCode: uuid.NewString(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// legacyEntry is one record of the JSON dump produced by the previous
// version of the app.
type legacyEntry struct {
	URL         string         `json:"url"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Duration    legacyDuration `json:"duration"`
	Interval    string         `json:"interval"`
	Visited     *int64         `json:"visited"`
	ID          string         `json:"id"`
	CreatedAt   *string        `json:"createdAt"`
	UpdatedAt   *string        `json:"updatedAt"`
	DismissedAt *string        `json:"dismissedAt"`
}

// legacyDuration accepts both "3" and 3.
type legacyDuration string

func (d *legacyDuration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*d = legacyDuration(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("duration must be a string or an integer: %w", err)
	}
	*d = legacyDuration(n.String())
	return nil
}

// ImportLegacy loads a legacy JSON dump into userID's account and returns
// how many entries were stored. The whole file is imported or nothing is.
func (s *UserService) ImportLegacy(ctx context.Context, userID string, r io.Reader) (int, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return 0, fmt.Errorf("user %q: %w", userID, err)
	}

	var legacy []legacyEntry
	if err := json.NewDecoder(r).Decode(&legacy); err != nil {
		return 0, fmt.Errorf("decode legacy export: %w", err)
	}

	now := s.clock.Now()
	batch := make([]domain.ImportedEntry, 0, len(legacy))
	for _, l := range legacy {
		batch = append(batch, s.fromLegacy(userID, l, now))
	}

	if err := s.repo.ImportEntries(ctx, batch); err != nil {
		return 0, err
	}
	return len(batch), nil
}

func (s *UserService) fromLegacy(userID string, l legacyEntry, now time.Time) domain.ImportedEntry {
	unit, ok := domain.ParseIntervalLenient(strings.ToLower(strings.TrimSpace(l.Interval)))
	if !ok {
		logger.Warn("unknown interval, defaulting to days",
			zap.String("interval", l.Interval),
			zap.String("url", l.URL),
		)
	}

	// Out-of-range numbers come back saturated with ErrRange and are clamped below.
	duration, err := strconv.ParseInt(strings.TrimSpace(string(l.Duration)), 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		duration = domain.MinDuration
	}
	if duration < domain.MinDuration {
		duration = domain.MinDuration
	}
	if duration > domain.MaxDuration {
		logger.Warn("legacy duration above maximum, clamping",
			zap.String("duration", string(l.Duration)),
			zap.String("url", l.URL),
		)
		duration = domain.MaxDuration
	}

	var visited int64
	if l.Visited != nil && *l.Visited > 0 {
		visited = *l.Visited
	}

	entry := domain.Entry{
		UserID:      userID,
		URL:         l.URL,
		Title:       l.Title,
		Description: l.Description,
		Duration:    duration,
		Interval:    unit,
		CreatedAt:   legacyInstant(l.CreatedAt, now, "createdAt", l.URL),
		UpdatedAt:   legacyInstant(l.UpdatedAt, now, "updatedAt", l.URL),
	}
	if l.DismissedAt != nil && *l.DismissedAt != "" {
		t := legacyInstant(l.DismissedAt, now, "dismissedAt", l.URL)
		entry.DismissedAt = &t
	}
	return domain.ImportedEntry{Entry: entry, VisitCount: visited}
}

func legacyInstant(raw *string, now time.Time, field, url string) time.Time {
	if raw == nil || *raw == "" {
		return now
	}
	t, ok := schedule.ParseInstant(*raw, now)
	if !ok {
		logger.Warn("unreadable legacy timestamp, using import time",
			zap.String("field", field),
			zap.String("value", *raw),
			zap.String("url", url),
		)
	}
	return t
}
