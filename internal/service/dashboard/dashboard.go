// internal/service/dashboard/dashboard.go
package dashboard

import (
	"context"
	"fmt"

	"cms-admin/internal/domain/auth"
	"cms-admin/internal/domain/category"
	"cms-admin/internal/domain/content"
	"cms-admin/internal/platform/observability"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const recentLimit = 5

// DefaultWelcomeName is shown when the session has no profile loaded.
const DefaultWelcomeName = "User"

type ContentSource interface {
	Recent(ctx context.Context, limit int) ([]*content.Content, error)
	Count(ctx context.Context) (int, error)
}

type CategorySource interface {
	List(ctx context.Context) ([]*category.Category, error)
}

// UserCounter reports how many console accounts exist.
type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

type Overview struct {
	WelcomeName     string               `json:"welcome_name"`
	TotalContents   int                  `json:"total_contents"`
	TotalCategories int                  `json:"total_categories"`
	TotalUsers      int                  `json:"total_users"`
	RecentContents  []*content.Content   `json:"recent_contents"`
	Categories      []*category.Category `json:"categories"`
}

type DashboardService struct {
	contents   ContentSource
	categories CategorySource
	users      UserCounter
	logger     *zap.Logger
}

// NewDashboardService builds the service. users may be nil, in which case the
// console reports a single account.
func NewDashboardService(contents ContentSource, categories CategorySource, users UserCounter, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		contents:   contents,
		categories: categories,
		users:      users,
		logger:     logger,
	}
}

// Overview loads contents, categories and the user count concurrently.
func (s *DashboardService) Overview(ctx context.Context, user *auth.User) (*Overview, error) {
	ctx, span := observability.Tracer("cms-admin/dashboard").Start(ctx, "dashboard.Overview")
	defer span.End()

	out := &Overview{WelcomeName: DefaultWelcomeName, TotalUsers: 1}
	if user != nil && user.Username != "" {
		out.WelcomeName = user.Username
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		recent, err := s.contents.Recent(gctx, recentLimit)
		if err != nil {
			return fmt.Errorf("failed to load recent contents: %w", err)
		}
		out.RecentContents = recent
		return nil
	})

	g.Go(func() error {
		n, err := s.contents.Count(gctx)
		if err != nil {
			return fmt.Errorf("failed to count contents: %w", err)
		}
		out.TotalContents = n
		return nil
	})

	g.Go(func() error {
		cats, err := s.categories.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
		out.Categories = cats
		out.TotalCategories = len(cats)
		return nil
	})

	if s.users != nil {
		g.Go(func() error {
			n, err := s.users.Count(gctx)
			if err != nil {
				s.logger.Warn("failed to count users", zap.Error(err))
				return nil
			}
			out.TotalUsers = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return out, nil
}
