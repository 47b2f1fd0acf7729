package questionnaire

import (
	"context"
	"errors"
	"testing"

	"github.com/HendryAvila/tether/internal/assessment"
)

// --- Helpers ---

type stubClassifier struct {
	calls int
	got   assessment.ResponseMap
	err   error
}

func (s *stubClassifier) Classify(r assessment.ResponseMap) (assessment.Result, error) {
	s.calls++
	s.got = r
	if s.err != nil {
		return assessment.Result{}, s.err
	}
	return assessment.Result{
		Attachment:    assessment.AttachmentAnxious,
		Communication: assessment.CommunicationPassive,
	}, nil
}

func testBank(t *testing.T) *assessment.Bank {
	t.Helper()
	bank, err := assessment.DefaultBank()
	if err != nil {
		t.Fatalf("default bank: %v", err)
	}
	return bank
}

func newTestPresenter(t *testing.T, c Classifier, onTaken func()) *Presenter {
	t.Helper()
	p, err := New(testBank(t), c, onTaken)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

// answerAll answers every question with value and stops on the last one.
func answerAll(t *testing.T, p *Presenter, value int) {
	t.Helper()
	for {
		if err := p.Select(value); err != nil {
			t.Fatalf("Select: %v", err)
		}
		if p.Progress().IsLast {
			return
		}
		if _, err := p.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
}

// --- Construction ---

func TestNew_RequiresQuestionsAndClassifier(t *testing.T) {
	if _, err := New(&assessment.Bank{}, &stubClassifier{}, nil); err == nil {
		t.Error("New with empty bank should fail")
	}
	if _, err := New(testBank(t), nil, nil); err == nil {
		t.Error("New without classifier should fail")
	}
}

// --- Next ---

func TestNext_RequiresAnswerAtEveryIndex(t *testing.T) {
	p := newTestPresenter(t, &stubClassifier{}, nil)
	total := p.Progress().Total

	for i := 0; i < total-1; i++ {
		_, err := p.Next()
		if !errors.Is(err, ErrAnswerRequired) {
			t.Fatalf("index %d: Next without answer = %v, want ErrAnswerRequired", i, err)
		}
		if got := p.Progress().Index; got != i {
			t.Fatalf("index moved to %d without an answer, want %d", got, i)
		}
		if err := p.Select(3); err != nil {
			t.Fatalf("Select: %v", err)
		}
		if _, err := p.Next(); err != nil {
			t.Fatalf("Next after answer: %v", err)
		}
	}
}

func TestNext_AtLastQuestion(t *testing.T) {
	p := newTestPresenter(t, &stubClassifier{}, nil)
	answerAll(t, p, 2)
	if _, err := p.Next(); !errors.Is(err, ErrAtLastQuestion) {
		t.Errorf("Next at last = %v, want ErrAtLastQuestion", err)
	}
}

// --- Select ---

func TestSelect_RejectsUnknownOption(t *testing.T) {
	p := newTestPresenter(t, &stubClassifier{}, nil)
	err := p.Select(7)
	if !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("Select(7) = %v, want ErrInvalidOption", err)
	}
	if p.Progress().Selected != nil {
		t.Error("invalid selection should not be recorded")
	}
}

// --- Back ---

func TestBack_AtFirstQuestion(t *testing.T) {
	p := newTestPresenter(t, &stubClassifier{}, nil)
	if _, err := p.Back(); !errors.Is(err, ErrAtFirstQuestion) {
		t.Errorf("Back at start = %v, want ErrAtFirstQuestion", err)
	}
}

func TestBackForward_PreservesAnswers(t *testing.T) {
	p := newTestPresenter(t, &stubClassifier{}, nil)

	values := []int{5, 1, 4}
	for i, v := range values {
		if err := p.Select(v); err != nil {
			t.Fatalf("Select: %v", err)
		}
		if i < len(values)-1 {
			if _, err := p.Next(); err != nil {
				t.Fatalf("Next: %v", err)
			}
		}
	}

	for i := len(values) - 1; i > 0; i-- {
		if _, err := p.Back(); err != nil {
			t.Fatalf("Back: %v", err)
		}
	}
	for i, want := range values {
		pr := p.Progress()
		if pr.Selected == nil || *pr.Selected != want {
			t.Fatalf("question %d: selected = %v, want %d", i, pr.Selected, want)
		}
		if i < len(values)-1 {
			if _, err := p.Next(); err != nil {
				t.Fatalf("Next on revisit: %v", err)
			}
		}
	}
}

// --- Finish ---

func TestFinish_Success(t *testing.T) {
	taken := 0
	c := &stubClassifier{}
	p := newTestPresenter(t, c, func() { taken++ })
	answerAll(t, p, 4)

	out, err := p.Finish(context.Background())
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if out.Result.Attachment != assessment.AttachmentAnxious {
		t.Errorf("attachment = %s, want anxious", out.Result.Attachment)
	}
	if out.ClassificationErr != nil {
		t.Errorf("unexpected classification error: %v", out.ClassificationErr)
	}
	if len(out.Responses) != p.Progress().Total {
		t.Errorf("submitted %d responses, want %d", len(out.Responses), p.Progress().Total)
	}
	if taken != 1 {
		t.Errorf("onTaken called %d times, want 1", taken)
	}
	if c.calls != 1 {
		t.Errorf("classifier called %d times, want 1", c.calls)
	}
}

func TestFinish_ClassificationFailureFallsBack(t *testing.T) {
	taken := 0
	c := &stubClassifier{err: &assessment.ClassificationError{Err: assessment.ErrMalformed}}
	p := newTestPresenter(t, c, func() { taken++ })
	answerAll(t, p, 3)

	out, err := p.Finish(context.Background())
	if err != nil {
		t.Fatalf("Finish should not fail on classification error: %v", err)
	}
	if !out.Result.Fallback {
		t.Error("result should be the fallback default")
	}
	if out.Result.Attachment != assessment.AttachmentSecure || out.Result.Communication != assessment.CommunicationAssertive {
		t.Errorf("fallback = %s/%s, want secure/assertive", out.Result.Attachment, out.Result.Communication)
	}
	if !errors.Is(out.ClassificationErr, assessment.ErrMalformed) {
		t.Errorf("ClassificationErr = %v, want ErrMalformed", out.ClassificationErr)
	}
	if taken != 1 {
		t.Errorf("onTaken should fire even when scoring fails, got %d calls", taken)
	}
}

func TestFinish_Guards(t *testing.T) {
	p := newTestPresenter(t, &stubClassifier{}, nil)
	if _, err := p.Finish(context.Background()); !errors.Is(err, ErrNotLastQuestion) {
		t.Errorf("Finish at first question = %v, want ErrNotLastQuestion", err)
	}

	answerAll(t, p, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Finish(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Finish with cancelled ctx = %v, want context.Canceled", err)
	}
	if p.Completed() {
		t.Error("cancelled Finish must not complete the presenter")
	}
}

func TestFinish_OnlyOnce(t *testing.T) {
	taken := 0
	p := newTestPresenter(t, &stubClassifier{}, func() { taken++ })
	answerAll(t, p, 2)

	if _, err := p.Finish(context.Background()); err != nil {
		t.Fatalf("first Finish: %v", err)
	}
	if _, err := p.Finish(context.Background()); !errors.Is(err, ErrCompleted) {
		t.Errorf("second Finish = %v, want ErrCompleted", err)
	}
	if err := p.Select(1); !errors.Is(err, ErrCompleted) {
		t.Errorf("Select after finish = %v, want ErrCompleted", err)
	}
	if _, err := p.Back(); !errors.Is(err, ErrCompleted) {
		t.Errorf("Back after finish = %v, want ErrCompleted", err)
	}
	if taken != 1 {
		t.Errorf("onTaken called %d times, want 1", taken)
	}
}

func TestFinish_SubmittedMapIsDetached(t *testing.T) {
	c := &stubClassifier{}
	p := newTestPresenter(t, c, nil)
	answerAll(t, p, 2)

	out, err := p.Finish(context.Background())
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	out.Responses["q1"] = 5
	if c.got["q1"] != 2 {
		t.Error("classifier input should not alias the returned responses")
	}
}

// --- Registry ---

func TestRegistry_StartGetRemove(t *testing.T) {
	r := NewRegistry(testBank(t), &stubClassifier{}, nil)

	p1, err := r.Start("u1", nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	got, ok := r.Get("u1")
	if !ok || got != p1 {
		t.Fatal("Get should return the started presenter")
	}

	p2, _ := r.Start("u1", nil)
	if got, _ := r.Get("u1"); got != p2 {
		t.Error("Start should replace an unfinished session")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}

	r.Remove("u1")
	if _, ok := r.Get("u1"); ok {
		t.Error("session should be gone after Remove")
	}
}
