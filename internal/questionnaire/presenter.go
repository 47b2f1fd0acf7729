// Package questionnaire presents the assessment one question at a time.
//
// A Presenter is a small state machine over the question index. It owns the
// shared ResponseMap for the whole sequence, so moving backward never loses
// an answer, and it refuses to advance past an unanswered question.
package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/HendryAvila/tether/internal/assessment"
)

// Validation errors. These are recoverable: the caller re-prompts the user.
var (
	ErrAnswerRequired  = errors.New("an answer is required before continuing")
	ErrInvalidOption   = errors.New("selected value is not an option for this question")
	ErrAtFirstQuestion = errors.New("already at the first question")
	ErrAtLastQuestion  = errors.New("already at the last question; finish the assessment instead")
	ErrNotLastQuestion = errors.New("the assessment can only be finished from the last question")
	ErrCompleted       = errors.New("the assessment has already been submitted")
)

// Classifier is the scoring contract the presenter hands responses to.
type Classifier interface {
	Classify(responses assessment.ResponseMap) (assessment.Result, error)
}

// Outcome is what Finish returns once the responses are scored.
type Outcome struct {
	Responses assessment.ResponseMap
	Result    assessment.Result
	// ClassificationErr is set when Result is the fallback default.
	ClassificationErr error
}

// Progress describes where the presenter currently is.
type Progress struct {
	Index    int                 `json:"index"`
	Total    int                 `json:"total"`
	Question assessment.Question `json:"question"`
	Selected *int                `json:"selected,omitempty"`
	Answered int                 `json:"answered"`
	IsLast   bool                `json:"is_last"`
}

// Presenter walks an ordered question list.
type Presenter struct {
	questions []assessment.Question
	scorer    Classifier
	onTaken   func()

	mu        sync.Mutex
	index     int
	responses assessment.ResponseMap
	completed bool
	takenOnce sync.Once
}

// New creates a Presenter. onTaken marks the test as taken and is invoked at
// most once, when Finish is first reached; it may be nil.
func New(bank *assessment.Bank, scorer Classifier, onTaken func()) (*Presenter, error) {
	if bank == nil || len(bank.Questions) == 0 {
		return nil, fmt.Errorf("questionnaire requires at least one question")
	}
	if scorer == nil {
		return nil, fmt.Errorf("questionnaire requires a classifier")
	}
	questions := make([]assessment.Question, len(bank.Questions))
	copy(questions, bank.Questions)
	return &Presenter{
		questions: questions,
		scorer:    scorer,
		onTaken:   onTaken,
		responses: make(assessment.ResponseMap, len(questions)),
	}, nil
}

// Progress returns a snapshot of the current question and selection.
func (p *Presenter) Progress() Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progressLocked()
}

func (p *Presenter) progressLocked() Progress {
	q := p.questions[p.index]
	pr := Progress{
		Index:    p.index,
		Total:    len(p.questions),
		Question: q,
		Answered: len(p.responses),
		IsLast:   p.index == len(p.questions)-1,
	}
	if v, ok := p.responses[q.ID]; ok {
		pr.Selected = &v
	}
	return pr
}

// Completed reports whether Finish has been called.
func (p *Presenter) Completed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

// Select records value as the answer to the current question, replacing any
// previous answer.
func (p *Presenter) Select(value int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.completed {
		return ErrCompleted
	}
	q := p.questions[p.index]
	if !q.HasOption(value) {
		return fmt.Errorf("%w: %d for question %q", ErrInvalidOption, value, q.ID)
	}
	p.responses[q.ID] = value
	return nil
}

// Next advances to the following question. The current question must have
// an answer.
func (p *Presenter) Next() (Progress, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.completed {
		return Progress{}, ErrCompleted
	}
	if !p.answeredLocked() {
		return p.progressLocked(), ErrAnswerRequired
	}
	if p.index >= len(p.questions)-1 {
		return p.progressLocked(), ErrAtLastQuestion
	}
	p.index++
	return p.progressLocked(), nil
}

// Back returns to the previous question. Answers are kept.
func (p *Presenter) Back() (Progress, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.completed {
		return Progress{}, ErrCompleted
	}
	if p.index == 0 {
		return p.progressLocked(), ErrAtFirstQuestion
	}
	p.index--
	return p.progressLocked(), nil
}

// Finish submits the responses from the last question. The test-taken
// callback fires before scoring so it is recorded even when scoring fails;
// a classification failure yields the default result instead of an error.
func (p *Presenter) Finish(ctx context.Context) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.completed {
		p.mu.Unlock()
		return nil, ErrCompleted
	}
	if p.index != len(p.questions)-1 {
		p.mu.Unlock()
		return nil, ErrNotLastQuestion
	}
	if !p.answeredLocked() {
		p.mu.Unlock()
		return nil, ErrAnswerRequired
	}
	p.completed = true
	submitted := p.responses.Clone()
	p.mu.Unlock()

	p.takenOnce.Do(func() {
		if p.onTaken != nil {
			p.onTaken()
		}
	})

	res, err := p.scorer.Classify(submitted)
	out := &Outcome{Responses: submitted, Result: res}
	if err != nil {
		out.Result = assessment.DefaultResult()
		out.ClassificationErr = err
	}
	return out, nil
}

func (p *Presenter) answeredLocked() bool {
	_, ok := p.responses[p.questions[p.index].ID]
	return ok
}
