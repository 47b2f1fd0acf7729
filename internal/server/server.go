// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on
// abstractions. No business logic lives here, only wiring.
package server

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/HendryAvila/tether/internal/assessment"
	"github.com/HendryAvila/tether/internal/auth"
	"github.com/HendryAvila/tether/internal/bridge"
	"github.com/HendryAvila/tether/internal/config"
	"github.com/HendryAvila/tether/internal/home"
	"github.com/HendryAvila/tether/internal/insights"
	"github.com/HendryAvila/tether/internal/keyboard"
	"github.com/HendryAvila/tether/internal/metrics"
	"github.com/HendryAvila/tether/internal/profile"
	"github.com/HendryAvila/tether/internal/prompts"
	"github.com/HendryAvila/tether/internal/questionnaire"
	"github.com/HendryAvila/tether/internal/resources"
	"github.com/HendryAvila/tether/internal/tools"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags.
var Version = "dev"

// closeTimeout bounds how long shutdown waits for queued bridge deliveries.
const closeTimeout = 5 * time.Second

// New creates and configures the MCP server with all tools, prompts and
// resources registered. This is the single place where all dependencies
// are resolved.
//
// The returned cleanup function drains the native bridge and closes the
// profile store. It is always non-nil and must be called on shutdown.
func New(cfg config.Config, logger *zap.Logger, reg prometheus.Registerer) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// --- Create shared dependencies ---

	bank, err := assessment.LoadBank(cfg.QuestionBank)
	if err != nil {
		return nil, noop, fmt.Errorf("loading question bank: %w", err)
	}
	scorer := assessment.NewScorer(bank)

	store, err := profile.New(profile.Config{DataDir: cfg.DataDir})
	if err != nil {
		return nil, noop, fmt.Errorf("opening profile store: %w", err)
	}

	secret := []byte(cfg.TokenSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			_ = store.Close()
			return nil, noop, fmt.Errorf("generating token secret: %w", err)
		}
		logger.Warn("TETHER_TOKEN_SECRET not set; sessions will not survive a restart")
	}
	tokens, err := auth.NewTokenManager(secret, cfg.TokenTTL)
	if err != nil {
		_ = store.Close()
		return nil, noop, fmt.Errorf("creating token manager: %w", err)
	}
	accounts := auth.NewProvider(store, tokens)

	m := metrics.MustNewMetrics(reg)

	kb := keyboard.NewFileBridge(cfg.KeyboardDir)
	analytics := keyboard.NewAnalytics(kb)

	dispatcher := bridge.NewDispatcher(bridge.NewFileSink(cfg.KeyboardDir), cfg.BridgeBuffer, logger, m)

	sessions := questionnaire.NewRegistry(bank, scorer, logger.Named("questionnaire"))
	aggregator := insights.NewAggregator(store, analytics, store, logger, m)
	selector := home.NewSelector(kb, store, store, logger)

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := dispatcher.Close(ctx); err != nil {
			logger.Warn("bridge close", zap.Error(err))
		}
		if err := store.Close(); err != nil {
			logger.Warn("profile store close", zap.Error(err))
		}
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"tether",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register account and onboarding tools ---

	signIn := tools.NewSignInTool(accounts)
	s.AddTool(signIn.Definition(), signIn.Handle)

	onboardingAdvance := tools.NewOnboardingAdvanceTool(accounts, store)
	s.AddTool(onboardingAdvance.Definition(), onboardingAdvance.Handle)

	keyboardSetup := tools.NewKeyboardSetupTool(accounts, store)
	s.AddTool(keyboardSetup.Definition(), keyboardSetup.Handle)

	// --- Register assessment tools ---

	start := tools.NewAssessmentStartTool(accounts, sessions, store, logger)
	s.AddTool(start.Definition(), start.Handle)

	answer := tools.NewAssessmentAnswerTool(accounts, sessions)
	s.AddTool(answer.Definition(), answer.Handle)

	back := tools.NewAssessmentBackTool(accounts, sessions)
	s.AddTool(back.Definition(), back.Handle)

	finish := tools.NewAssessmentFinishTool(accounts, sessions, store, dispatcher, m, logger)
	s.AddTool(finish.Definition(), finish.Handle)

	resultsTool := tools.NewAssessmentResultsTool(accounts, store)
	s.AddTool(resultsTool.Definition(), resultsTool.Handle)

	// --- Register partner, insights and home tools ---

	partner := tools.NewPartnerLinkTool(accounts, store)
	s.AddTool(partner.Definition(), partner.Handle)

	dashboard := tools.NewInsightsTool(accounts, aggregator)
	s.AddTool(dashboard.Definition(), dashboard.Handle)

	next := tools.NewHomeTool(accounts, selector)
	s.AddTool(next.Definition(), next.Handle)

	feedback := tools.NewFeedbackTool(accounts, store)
	s.AddTool(feedback.Definition(), feedback.Handle)

	// --- Register prompts ---

	assessmentPrompt := prompts.NewAssessmentPrompt()
	s.AddPrompt(assessmentPrompt.Definition(), assessmentPrompt.Handle)

	insightsPrompt := prompts.NewInsightsPrompt()
	s.AddPrompt(insightsPrompt.Definition(), insightsPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(bank)
	s.AddResource(resourceHandler.QuestionsResource(), resourceHandler.HandleQuestions)

	logger.Info("server ready",
		zap.String("version", Version),
		zap.String("data_dir", cfg.DataDir),
		zap.String("keyboard_dir", cfg.KeyboardDir),
		zap.Int("questions", len(bank.Questions)),
	)
	return s, cleanup, nil
}

// noop is the cleanup returned when construction fails.
func noop() {}

// serverInstructions returns the system instructions that tell the AI how
// to use Tether.
func serverInstructions() string {
	return `You have access to Tether, a relationship-coaching assistant.

## Sessions
Every tool except account_sign_in needs a session token. Call account_sign_in
with mode "anonymous" to start, or mode "email" to register a new email.
Passing an anonymous token with an email upgrades that account and keeps its
results. A registered email can only be used again together with a token of
the account that owns it.

## Where to start
Call home_next_step. It returns the single most important action:
1. Enable the keyboard (onboarding_advance, keyboard_setup_step)
2. Take the personality test (assessment_*)
3. Invite a partner (partner_link)
4. Open the hub (insights_dashboard)

## Personality assessment
- assessment_start returns the first question.
- Show ONE question at a time with its options and wait for the user's choice.
- Record the choice with assessment_answer. A question cannot be skipped.
- assessment_back returns to the previous question; answers are kept.
- On the last question, call assessment_finish to see the results.
- Never answer on the user's behalf.

## Results
Results describe tendencies, not diagnoses. When the report says the
answers sit near the middle on every dimension, present the result as
tentative and mention the enhanced assessment.

## Feedback
Use feedback_submit when the user reports a bug or has an idea.`
}
