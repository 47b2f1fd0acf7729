// Package home picks the single call to action shown on the home screen.
package home

import (
	"context"

	"github.com/HendryAvila/tether/internal/keyboard"
	"github.com/HendryAvila/tether/internal/profile"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Action identifies a home-screen call to action.
type Action string

const (
	ActionEnableKeyboard Action = "enable_keyboard"
	ActionTakeAssessment Action = "take_assessment"
	ActionInvitePartner  Action = "invite_partner"
	ActionOpenHub        Action = "open_hub"
)

// CTA is the selected call to action.
type CTA struct {
	Action  Action `json:"action"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

var ctas = map[Action]CTA{
	ActionEnableKeyboard: {ActionEnableKeyboard, "Enable the keyboard", "Add the keyboard and send a message with it to start getting tone feedback."},
	ActionTakeAssessment: {ActionTakeAssessment, "Take the personality test", "Twelve quick questions reveal your attachment and communication styles."},
	ActionInvitePartner:  {ActionInvitePartner, "Invite your partner", "Link your partner to compare styles and unlock couple insights."},
	ActionOpenHub:        {ActionOpenHub, "Open your hub", "Everything is set up. Check your latest insights."},
}

// Source names a lookup the selector depends on.
type Source string

const (
	SourceKeyboard Source = "keyboard"
	SourceProfile  Source = "profile"
	SourcePartner  Source = "partner"
)

// Facts are the inputs to the decision. Degraded lists the sources whose
// lookup failed and were treated as absent.
type Facts struct {
	KeyboardInteractions int      `json:"keyboard_interactions"`
	HasProfile           bool     `json:"has_profile"`
	HasPartner           bool     `json:"has_partner"`
	Degraded             []Source `json:"degraded,omitempty"`
}

// Decide applies the fixed priority: keyboard, then assessment, then
// partner, then the hub.
func Decide(f Facts) CTA {
	switch {
	case f.KeyboardInteractions == 0:
		return ctas[ActionEnableKeyboard]
	case !f.HasProfile:
		return ctas[ActionTakeAssessment]
	case !f.HasPartner:
		return ctas[ActionInvitePartner]
	default:
		return ctas[ActionOpenHub]
	}
}

// ProfileSource and PartnerSource are the store lookups the selector needs.
type ProfileSource interface {
	GetPersonalityResults(ctx context.Context, userID string) (*profile.PersistedProfile, error)
}

type PartnerSource interface {
	GetPartnerProfile(ctx context.Context, userID string) (*profile.PartnerProfile, error)
}

// Selector gathers Facts for a user and decides.
type Selector struct {
	keyboard keyboard.Bridge
	profiles ProfileSource
	partners PartnerSource
	logger   *zap.Logger
}

// NewSelector creates a Selector. A nil logger discards log output.
func NewSelector(kb keyboard.Bridge, profiles ProfileSource, partners PartnerSource, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{keyboard: kb, profiles: profiles, partners: partners, logger: logger.Named("home")}
}

// Next returns the CTA for userID together with the facts it was based on.
// The three lookups run as one batch. A failed lookup is logged and
// treated as absent: no keyboard use, no profile, no partner. Only a
// cancelled ctx is returned as an error.
func (s *Selector) Next(ctx context.Context, userID string) (CTA, Facts, error) {
	var f Facts

	g, gctx := errgroup.WithContext(ctx)

	var kbFailed, profileFailed, partnerFailed bool
	g.Go(func() error {
		snap, err := s.keyboard.GetComprehensiveRealData(gctx, userID)
		if err != nil {
			s.logger.Warn("keyboard read failed", zap.String("user_id", userID), zap.Error(err))
			kbFailed = true
			return nil
		}
		f.KeyboardInteractions = snap.TotalInteractions
		return nil
	})
	g.Go(func() error {
		p, err := s.profiles.GetPersonalityResults(gctx, userID)
		if err != nil {
			s.logger.Warn("profile fetch failed", zap.String("user_id", userID), zap.Error(err))
			profileFailed = true
			return nil
		}
		f.HasProfile = p != nil
		return nil
	})
	g.Go(func() error {
		partner, err := s.partners.GetPartnerProfile(gctx, userID)
		if err != nil {
			s.logger.Warn("partner fetch failed", zap.String("user_id", userID), zap.Error(err))
			partnerFailed = true
			return nil
		}
		f.HasPartner = partner != nil
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return CTA{}, Facts{}, err
	}

	if kbFailed {
		f.Degraded = append(f.Degraded, SourceKeyboard)
	}
	if profileFailed {
		f.Degraded = append(f.Degraded, SourceProfile)
	}
	if partnerFailed {
		f.Degraded = append(f.Degraded, SourcePartner)
	}
	return Decide(f), f, nil
}
