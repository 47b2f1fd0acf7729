package profile

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/HendryAvila/tether/internal/assessment"
)

// ─── Types ───────────────────────────────────────────────────────────────────

// User is an account known to the store. Anonymous users have no name or email.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Anonymous   bool   `json:"anonymous"`
	TestTaken   bool   `json:"test_taken"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// PersistedProfile is a completed assessment as stored for later screens.
type PersistedProfile struct {
	UserID        string                        `json:"user_id"`
	Responses     assessment.ResponseMap        `json:"responses"`
	Scores        assessment.DimensionalScores  `json:"scores"`
	Attachment    assessment.AttachmentStyle    `json:"attachment_style"`
	Communication assessment.CommunicationStyle `json:"communication_style"`
	DominantType  string                        `json:"dominant_type"`
	Fallback      bool                          `json:"fallback,omitempty"`
	CompletedAt   string                        `json:"completed_at"`
}

// NewPersistedProfile builds a profile from a finished questionnaire.
func NewPersistedProfile(userID string, responses assessment.ResponseMap, res assessment.Result) *PersistedProfile {
	return &PersistedProfile{
		UserID:        userID,
		Responses:     responses.Clone(),
		Scores:        res.Scores,
		Attachment:    res.Attachment,
		Communication: res.Communication,
		DominantType:  res.Attachment.Code(),
		Fallback:      res.Fallback,
		CompletedAt:   timeNow().UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Validate enforces that only complete profiles are persisted: both style
// labels present and the dominant type matching the attachment style.
func (p *PersistedProfile) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("profile has no user id")
	}
	if err := assessment.ValidateAttachment(p.Attachment); err != nil {
		return fmt.Errorf("incomplete profile: %w", err)
	}
	if err := assessment.ValidateCommunication(p.Communication); err != nil {
		return fmt.Errorf("incomplete profile: %w", err)
	}
	if p.DominantType != p.Attachment.Code() {
		return fmt.Errorf("dominant type %q does not match attachment style %q", p.DominantType, p.Attachment)
	}
	if len(p.Responses) == 0 {
		return fmt.Errorf("incomplete profile: no responses")
	}
	if p.CompletedAt == "" {
		return fmt.Errorf("incomplete profile: no completion time")
	}
	return nil
}

// PartnerProfile is what the user knows about their partner. Styles are
// optional until the partner takes the assessment.
type PartnerProfile struct {
	UserID        string                        `json:"user_id"`
	Name          string                        `json:"name"`
	Attachment    assessment.AttachmentStyle    `json:"attachment_style,omitempty"`
	Communication assessment.CommunicationStyle `json:"communication_style,omitempty"`
	LinkedAt      string                        `json:"linked_at"`
}

// Validate checks the partner has a name and any given style is known.
func (p *PartnerProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("partner name is required")
	}
	if p.Attachment != "" {
		if err := assessment.ValidateAttachment(p.Attachment); err != nil {
			return err
		}
	}
	if p.Communication != "" {
		if err := assessment.ValidateCommunication(p.Communication); err != nil {
			return err
		}
	}
	return nil
}

// --- Feedback ---

// FeedbackCategory classifies a feedback submission.
type FeedbackCategory string

const (
	FeedbackBug     FeedbackCategory = "bug"
	FeedbackFeature FeedbackCategory = "feature"
	FeedbackGeneral FeedbackCategory = "general"
)

var validFeedbackCategories = map[FeedbackCategory]bool{
	FeedbackBug:     true,
	FeedbackFeature: true,
	FeedbackGeneral: true,
}

const maxFeedbackLength = 2000

// Feedback is one feedback-form submission.
type Feedback struct {
	ID        int64            `json:"id"`
	UserID    string           `json:"user_id"`
	Category  FeedbackCategory `json:"category"`
	Rating    int              `json:"rating"`
	Message   string           `json:"message"`
	Email     string           `json:"email,omitempty"`
	CreatedAt string           `json:"created_at"`
}

// Validate checks the form fields.
func (f *Feedback) Validate() error {
	if !validFeedbackCategories[f.Category] {
		return fmt.Errorf("invalid feedback category %q: must be one of: bug, feature, general", f.Category)
	}
	if f.Rating < 1 || f.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", f.Rating)
	}
	msg := strings.TrimSpace(f.Message)
	if msg == "" {
		return fmt.Errorf("feedback message is required")
	}
	if len(msg) > maxFeedbackLength {
		return fmt.Errorf("feedback message is too long (%d > %d characters)", len(msg), maxFeedbackLength)
	}
	if f.Email != "" {
		if _, err := mail.ParseAddress(f.Email); err != nil {
			return fmt.Errorf("invalid contact email %q", f.Email)
		}
	}
	return nil
}
