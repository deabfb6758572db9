package reports

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/annam-erp/annam-erp/internal/shared"
)

// Service builds statements on demand. Identical concurrent requests share
// one repository pass through a singleflight group.
type Service struct {
	repo          Repository
	defaultLocale string
	group         singleflight.Group
}

// NewService constructs the reporting service. defaultLocale applies when
// a caller passes an empty locale.
func NewService(repo Repository, defaultLocale string) *Service {
	if defaultLocale == "" {
		defaultLocale = "vi"
	}
	return &Service{repo: repo, defaultLocale: defaultLocale}
}

func validateWindow(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: report window requires both dates", shared.ErrValidation)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: report window ends before it starts", shared.ErrValidation)
	}
	return nil
}

// GeneralLedger builds the per-account statement for [from, to].
func (s *Service) GeneralLedger(ctx context.Context, from, to time.Time) (GeneralLedger, error) {
	if err := validateWindow(from, to); err != nil {
		return GeneralLedger{}, err
	}
	key := fmt.Sprintf("gl|%s|%s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	v, err := s.do(ctx, key, func(ctx context.Context) (any, error) {
		activity, err := s.repo.AccountActivity(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return BuildGeneralLedger(from, to, activity), nil
	})
	if err != nil {
		return GeneralLedger{}, err
	}
	return v.(GeneralLedger), nil
}

// BusinessResult builds the profit statement for [from, to]. An empty
// locale falls back to the configured default.
func (s *Service) BusinessResult(ctx context.Context, from, to time.Time, locale string) (BusinessResult, error) {
	if err := validateWindow(from, to); err != nil {
		return BusinessResult{}, err
	}
	if locale == "" {
		locale = s.defaultLocale
	}
	key := fmt.Sprintf("br|%s|%s|%s", from.Format(time.DateOnly), to.Format(time.DateOnly), locale)
	v, err := s.do(ctx, key, func(ctx context.Context) (any, error) {
		totals, err := s.repo.ResultTotals(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return BuildBusinessResult(from, to, locale, totals), nil
	})
	if err != nil {
		return BusinessResult{}, err
	}
	return v.(BusinessResult), nil
}

func (s *Service) do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		return fn(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}
