// Package insights assembles the insights dashboard from three independent,
// optional sources: the stored personality profile, keyboard analytics and
// the linked partner.
package insights

import (
	"context"

	"github.com/HendryAvila/tether/internal/keyboard"
	"github.com/HendryAvila/tether/internal/metrics"
	"github.com/HendryAvila/tether/internal/profile"
	"github.com/HendryAvila/tether/internal/results"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProfileSource loads the user's stored assessment profile.
type ProfileSource interface {
	GetPersonalityResults(ctx context.Context, userID string) (*profile.PersistedProfile, error)
}

// PartnerSource loads the linked partner.
type PartnerSource interface {
	GetPartnerProfile(ctx context.Context, userID string) (*profile.PartnerProfile, error)
}

// AnalyticsSource loads keyboard analytics.
type AnalyticsSource interface {
	GetIndividualAnalytics(ctx context.Context, userID string) (*keyboard.IndividualAnalytics, error)
}

// Status is how a dashboard section resolved.
type Status string

const (
	StatusReady       Status = "ready"
	StatusPlaceholder Status = "placeholder"
	StatusUnavailable Status = "unavailable"
)

// Placeholder copy for sections with no data.
const (
	PlaceholderNewUser       = "Take the personality assessment to see your attachment and communication styles."
	PlaceholderStartKeyboard = "Start using the keyboard to see how your messages land."
	PlaceholderInvitePartner = "Invite your partner to compare styles and unlock couple insights."
	PlaceholderUnavailable   = "This section is temporarily unavailable."
)

// Section carries the status shared by every dashboard section.
type Section struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ProfileSection is the personality part of the dashboard.
type ProfileSection struct {
	Section
	Profile *profile.PersistedProfile `json:"profile,omitempty"`
	Report  *results.Report           `json:"report,omitempty"`
}

// AnalyticsSection is the keyboard part of the dashboard.
type AnalyticsSection struct {
	Section
	Analytics *keyboard.IndividualAnalytics `json:"analytics,omitempty"`
}

// PartnerSection is the partner part of the dashboard.
type PartnerSection struct {
	Section
	Partner *profile.PartnerProfile `json:"partner,omitempty"`
}

// Dashboard is the single value produced per request.
type Dashboard struct {
	UserID        string           `json:"user_id"`
	Profile       ProfileSection   `json:"profile"`
	Analytics     AnalyticsSection `json:"analytics"`
	Partner       PartnerSection   `json:"partner"`
	CoupleInsight string           `json:"couple_insight,omitempty"`
}

// Aggregator fetches the three sections concurrently.
type Aggregator struct {
	profiles  ProfileSource
	analytics AnalyticsSource
	partners  PartnerSource
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewAggregator creates an Aggregator. logger and m may be nil.
func NewAggregator(profiles ProfileSource, analytics AnalyticsSource, partners PartnerSource, logger *zap.Logger, m *metrics.Metrics) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		profiles:  profiles,
		analytics: analytics,
		partners:  partners,
		logger:    logger.Named("insights"),
		metrics:   m,
	}
}

// Load fetches every section and waits for all of them. A failing source
// degrades only its own section. If ctx is cancelled before the batch
// resolves, the partial result is discarded and ctx.Err() returned.
func (a *Aggregator) Load(ctx context.Context, userID string) (*Dashboard, error) {
	d := &Dashboard{UserID: userID}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d.Profile = a.loadProfile(gctx, userID)
		return nil
	})
	g.Go(func() error {
		d.Analytics = a.loadAnalytics(gctx, userID)
		return nil
	})
	g.Go(func() error {
		d.Partner = a.loadPartner(gctx, userID)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		a.logger.Debug("dashboard discarded", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	d.CoupleInsight = CoupleInsight(d.Profile.Profile, d.Partner.Partner)

	a.metrics.ObserveSection("profile", string(d.Profile.Status))
	a.metrics.ObserveSection("analytics", string(d.Analytics.Status))
	a.metrics.ObserveSection("partner", string(d.Partner.Status))
	return d, nil
}

func (a *Aggregator) loadProfile(ctx context.Context, userID string) ProfileSection {
	p, err := a.profiles.GetPersonalityResults(ctx, userID)
	if err != nil {
		a.logger.Warn("profile fetch failed", zap.String("user_id", userID), zap.Error(err))
		return ProfileSection{Section: unavailable(err)}
	}
	if p == nil {
		return ProfileSection{Section: Section{Status: StatusPlaceholder, Message: PlaceholderNewUser}}
	}
	report, err := results.Render(p.Attachment, p.Scores, p.Communication)
	if err != nil {
		a.logger.Warn("profile render failed", zap.String("user_id", userID), zap.Error(err))
		return ProfileSection{Section: unavailable(err), Profile: p}
	}
	return ProfileSection{Section: Section{Status: StatusReady}, Profile: p, Report: report}
}

func (a *Aggregator) loadAnalytics(ctx context.Context, userID string) AnalyticsSection {
	an, err := a.analytics.GetIndividualAnalytics(ctx, userID)
	if err != nil {
		a.logger.Warn("analytics fetch failed", zap.String("user_id", userID), zap.Error(err))
		return AnalyticsSection{Section: unavailable(err)}
	}
	if an == nil || an.TotalInteractions == 0 {
		return AnalyticsSection{Section: Section{Status: StatusPlaceholder, Message: PlaceholderStartKeyboard}}
	}
	return AnalyticsSection{Section: Section{Status: StatusReady}, Analytics: an}
}

func (a *Aggregator) loadPartner(ctx context.Context, userID string) PartnerSection {
	p, err := a.partners.GetPartnerProfile(ctx, userID)
	if err != nil {
		a.logger.Warn("partner fetch failed", zap.String("user_id", userID), zap.Error(err))
		return PartnerSection{Section: unavailable(err)}
	}
	if p == nil {
		return PartnerSection{Section: Section{Status: StatusPlaceholder, Message: PlaceholderInvitePartner}}
	}
	return PartnerSection{Section: Section{Status: StatusReady}, Partner: p}
}

func unavailable(err error) Section {
	return Section{Status: StatusUnavailable, Message: PlaceholderUnavailable, Error: err.Error()}
}
