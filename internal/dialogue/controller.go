// Package dialogue drives the guided career conversation: a per-session
// state machine that validates student replies, runs the aptitude quiz,
// and delivers the domain guide and roadmap.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/disha/internal/llm"
	"github.com/abhisek/disha/internal/logging"
	"github.com/abhisek/disha/internal/quiz"
	"github.com/abhisek/disha/internal/report"
	"github.com/abhisek/disha/internal/validate"
)

// Session is the accumulated profile of one student run.
type Session struct {
	State       State
	StudentName string
	ClassLevel  string
	Stream      string
	Quiz        *quiz.Session
}

// Controller owns the session, the transcript, and the turn pipeline.
// SubmitText and SelectOption block for the duration of any backend calls
// a turn needs, so callers run them off the render loop. At most one turn
// is processed at a time; turns that arrive while another is in flight
// are dropped.
type Controller struct {
	mu          sync.Mutex
	busy        bool
	session     Session
	transcript  []Message
	chat        *llm.Chat
	lastHandled string

	gateway  *validate.Gateway
	quizzes  *quiz.Engine
	reports  *report.Generator
	provider llm.Provider
	log      *logging.Logger
}

// New creates a controller in the initial state.
func New(provider llm.Provider, log *logging.Logger) *Controller {
	if log == nil {
		log = logging.Nop()
	}
	return &Controller{
		session:  Session{State: StateInitial},
		gateway:  validate.New(provider, validate.DefaultConfig()),
		quizzes:  quiz.New(provider, quiz.DefaultConfig()),
		reports:  report.New(provider, report.DefaultConfig()),
		provider: provider,
		log:      log,
	}
}

// Start emits the opening greeting and moves to the name prompt.
// Calling it again after the conversation has begun is a no-op.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.State != StateInitial {
		return
	}
	c.session.State = StateAwaitingName
	c.transcript = append(c.transcript, Message{Sender: SenderAssistant, Body: msgGreeting})
}

// State returns the current conversation state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.State
}

// Busy reports whether a turn is currently being processed.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Session returns a copy of the current session safe to read while a turn
// is in flight.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s.Quiz != nil {
		q := *s.Quiz
		q.Questions = append([]quiz.Question(nil), s.Quiz.Questions...)
		q.UserAnswers = append([]int(nil), s.Quiz.UserAnswers...)
		s.Quiz = &q
	}
	return s
}

// Transcript returns a copy of the conversation so far.
func (c *Controller) Transcript() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.transcript))
	copy(out, c.transcript)
	for i := range out {
		if os := out[i].Options; os != nil {
			dup := *os
			dup.Options = append([]string(nil), os.Options...)
			out[i].Options = &dup
		}
	}
	return out
}

// SubmitText processes one typed user turn. Input is normalized before
// anything else; empty turns, turns submitted while busy, and turns that
// repeat the last successfully handled message are dropped without a
// transcript entry.
func (c *Controller) SubmitText(ctx context.Context, raw string) {
	text := NormalizeText(raw)
	if text == "" {
		return
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		c.log.Debug("turn dropped while busy", "text", text)
		return
	}
	if c.lastHandled != "" && strings.EqualFold(c.lastHandled, text) {
		c.mu.Unlock()
		c.log.Debug("duplicate turn dropped", "text", text)
		return
	}
	c.busy = true
	c.transcript = append(c.transcript, Message{Sender: SenderUser, Body: text})
	state := c.session.State
	c.mu.Unlock()
	defer c.release()

	if err := c.handleText(ctx, state, text); err != nil {
		c.log.Error("turn failed", "state", string(state), "error", err)
		c.say(msgTurnFailed)
		return
	}
	c.mu.Lock()
	c.lastHandled = text
	c.mu.Unlock()
}

// SelectOption records the student's pick for the nearest open question,
// scanning the transcript backward for an unanswered option set. An option
// set is answered at most once.
func (c *Controller) SelectOption(ctx context.Context, optionIndex int) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		c.log.Debug("option dropped while busy", "index", optionIndex)
		return
	}
	if c.session.State != StateInQuiz || c.session.Quiz == nil {
		c.mu.Unlock()
		return
	}
	var open *OptionSet
	for i := len(c.transcript) - 1; i >= 0; i-- {
		if os := c.transcript[i].Options; os != nil && !os.Answered {
			open = os
			break
		}
	}
	if open == nil || optionIndex < 0 || optionIndex >= len(open.Options) {
		c.mu.Unlock()
		return
	}
	if err := c.session.Quiz.RecordAnswer(optionIndex); err != nil {
		c.mu.Unlock()
		c.log.Warn("answer rejected", "index", optionIndex, "error", err)
		return
	}
	open.Answered = true
	open.ChosenIndex = optionIndex
	c.transcript = append(c.transcript, Message{Sender: SenderUser, Body: open.Options[optionIndex]})
	qs := c.session.Quiz
	next := qs.CurrentIndex()
	done := qs.Complete()
	c.busy = true
	c.mu.Unlock()
	defer c.release()

	if !done {
		c.presentQuestion(next)
		return
	}
	c.setState(StateAnalyzingQuiz)
	if err := c.finishQuiz(ctx, qs); err != nil {
		c.log.Error("quiz wrap-up failed", "error", err)
		c.say(msgReportFailed)
		c.setState(StateAwaitingInterestedDomain)
	}
}

func (c *Controller) handleText(ctx context.Context, state State, text string) error {
	switch state {
	case StateInitial:
		c.say(msgGreeting)
		c.setState(StateAwaitingName)
		return nil
	case StateAwaitingName:
		return c.handleName(ctx, text)
	case StateAwaitingClassLevel:
		return c.handleClassLevel(text)
	case StateAwaitingStream:
		return c.handleStream(ctx, text)
	case StateAwaitingPredictedDomain:
		return c.handlePredictedDomain(ctx, text)
	case StateAwaitingSatisfaction:
		return c.handleSatisfaction(ctx, text)
	case StateAwaitingInterestedDomain:
		return c.handleInterestedDomain(ctx, text)
	case StateAwaitingAdjacentChoice:
		return c.handleAdjacentChoice(ctx, text)
	case StateAwaitingFinalFeedback:
		return c.handleFinalFeedback(ctx, text)
	case StatePostGuidanceChat:
		return c.handlePostGuidance(ctx, text)
	default:
		c.say(msgQuizPickOption)
		return nil
	}
}

func (c *Controller) handleName(ctx context.Context, text string) error {
	name, _, err := c.gateway.Validate(ctx, validate.KindName, text)
	if err != nil {
		return err
	}
	c.mutate(func(s *Session) { s.StudentName = name })
	c.say(fmt.Sprintf(msgAskClassLevel, name))
	c.setState(StateAwaitingClassLevel)
	return nil
}

func (c *Controller) handleClassLevel(text string) error {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "10"):
		c.mutate(func(s *Session) { s.ClassLevel = "Class 10" })
		c.say(msgAskPredictedDomain)
		c.setState(StateAwaitingPredictedDomain)
	case strings.Contains(lower, "12"):
		c.mutate(func(s *Session) { s.ClassLevel = "Class 12" })
		c.say(msgAskStream)
		c.setState(StateAwaitingStream)
	default:
		c.say(msgClassRetry)
	}
	return nil
}

func (c *Controller) handleStream(ctx context.Context, text string) error {
	canonical, ok, err := c.gateway.Validate(ctx, validate.KindStream, text)
	if err != nil {
		return err
	}
	if !ok {
		c.say(msgStreamRetry)
		return nil
	}
	c.mutate(func(s *Session) { s.Stream = canonical })
	c.say(msgAskPredictedDomain)
	c.setState(StateAwaitingPredictedDomain)
	return nil
}

func (c *Controller) handlePredictedDomain(ctx context.Context, text string) error {
	canonical, ok, err := c.gateway.Validate(ctx, validate.KindDomain, text)
	if err != nil {
		return err
	}
	if !ok {
		c.say(msgDomainRetry)
		return nil
	}
	// A fresh prediction discards any earlier quiz progress.
	c.mutate(func(s *Session) { s.Quiz = &quiz.Session{PredictedDomain: canonical} })
	c.say(fmt.Sprintf(msgAskSatisfaction, canonical))
	c.setState(StateAwaitingSatisfaction)
	return nil
}

func (c *Controller) handleSatisfaction(ctx context.Context, text string) error {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "satisfied") && !strings.Contains(lower, "not") {
		return c.deliverReport(ctx, c.Session().Quiz.PredictedDomain)
	}
	c.say(msgAskInterestedDomain)
	c.setState(StateAwaitingInterestedDomain)
	return nil
}

func (c *Controller) handleInterestedDomain(ctx context.Context, text string) error {
	canonical, ok, err := c.gateway.Validate(ctx, validate.KindDomain, text)
	if err != nil {
		return err
	}
	if !ok {
		c.say(msgDomainRetry)
		return nil
	}
	c.mutate(func(s *Session) {
		if s.Quiz == nil {
			s.Quiz = &quiz.Session{}
		}
		s.Quiz.InterestedDomain = canonical
		s.Quiz.Questions = nil
		s.Quiz.UserAnswers = nil
	})
	return c.runQuiz(ctx, canonical)
}

func (c *Controller) handleAdjacentChoice(ctx context.Context, text string) error {
	canonical, ok, err := c.gateway.Validate(ctx, validate.KindDomain, text)
	if err != nil {
		return err
	}
	if !ok {
		c.say(msgDomainRetry)
		return nil
	}
	c.mutate(func(s *Session) { s.Quiz.InterestedDomain = canonical })
	return c.deliverReport(ctx, canonical)
}

func (c *Controller) handleFinalFeedback(ctx context.Context, text string) error {
	label, _, err := c.gateway.Validate(ctx, validate.KindSentiment, text)
	if err != nil {
		return err
	}
	if label == validate.Positive {
		c.mu.Lock()
		c.chat = llm.NewChat(c.provider, c.guidanceSystem())
		c.mu.Unlock()
		c.say(msgPostGuidanceOpen)
		c.setState(StatePostGuidanceChat)
		return nil
	}
	c.say(msgAskInterestedDomain)
	c.setState(StateAwaitingInterestedDomain)
	return nil
}

func (c *Controller) handlePostGuidance(ctx context.Context, text string) error {
	c.mu.Lock()
	chat := c.chat
	c.mu.Unlock()
	if chat == nil {
		c.say(msgMissingChat)
		return nil
	}
	reply, err := chat.Send(llm.WithPurpose(ctx, "guidance-chat"), text)
	if err != nil {
		return err
	}
	c.say(reply)
	return nil
}

// runQuiz generates the quiz and presents the first question. A failed
// generation never strands the session: it reports the problem and returns
// to the domain prompt.
func (c *Controller) runQuiz(ctx context.Context, domain string) error {
	c.setState(StateGeneratingQuiz)
	questions, err := c.quizzes.Generate(ctx, domain)
	if err != nil {
		c.log.Warn("quiz generation failed", "domain", domain, "error", err)
		c.say(msgQuizGenFailed)
		c.setState(StateAwaitingInterestedDomain)
		return nil
	}
	c.mutate(func(s *Session) { s.Quiz.Questions = questions })
	c.say(fmt.Sprintf(msgQuizIntro, domain, quiz.QuestionCount))
	c.presentQuestion(0)
	c.setState(StateInQuiz)
	return nil
}

func (c *Controller) finishQuiz(ctx context.Context, qs *quiz.Session) error {
	analysis, goodFit, err := c.quizzes.Analyze(ctx, qs)
	if err != nil {
		c.log.Warn("quiz analysis failed", "error", err)
		c.say(msgQuizAnalysisFailed)
		c.setState(StateAwaitingInterestedDomain)
		return nil
	}
	domain := qs.QuizDomain()
	c.append(Message{Sender: SenderAssistant, Body: analysis.Headline, Analysis: analysis})
	if goodFit {
		c.say(fmt.Sprintf(msgGoodFit, domain))
		return c.deliverReport(ctx, domain)
	}
	c.say(fmt.Sprintf(msgAdjacentAsk, domain))
	c.setState(StateAwaitingAdjacentChoice)
	return nil
}

// deliverReport emits the domain guide and roadmap, then asks for final
// feedback. A malformed roadmap falls back to the domain prompt; transport
// failures propagate so the caller's boundary applies.
func (c *Controller) deliverReport(ctx context.Context, domain string) error {
	guide, err := c.reports.Guide(ctx, domain)
	if err != nil {
		return err
	}
	c.say(guide)

	steps, err := c.reports.Roadmap(ctx, domain)
	if err != nil {
		if errors.Is(err, report.ErrMalformed) {
			c.log.Warn("roadmap malformed", "domain", domain, "error", err)
			c.say(msgReportFailed)
			c.setState(StateAwaitingInterestedDomain)
			return nil
		}
		return err
	}
	c.append(Message{Sender: SenderAssistant, Body: msgRoadmapIntro, Roadmap: steps})
	c.say(fmt.Sprintf(msgAskFinalFeedback, domain))
	c.setState(StateAwaitingFinalFeedback)
	return nil
}

func (c *Controller) presentQuestion(i int) {
	c.mu.Lock()
	q := c.session.Quiz.Questions[i]
	c.mu.Unlock()
	c.append(Message{
		Sender:  SenderAssistant,
		Body:    fmt.Sprintf("Q%d. %s", i+1, q.Text),
		Options: &OptionSet{Options: append([]string(nil), q.Options...)},
	})
}

func (c *Controller) guidanceSystem() string {
	var b strings.Builder
	b.WriteString("You are Disha, a friendly career counselor for Indian school students. Answer follow-up questions in short, practical paragraphs.")
	if c.session.StudentName != "" {
		fmt.Fprintf(&b, " The student's name is %s.", c.session.StudentName)
	}
	if c.session.ClassLevel != "" {
		fmt.Fprintf(&b, " They are in %s.", c.session.ClassLevel)
	}
	if c.session.Stream != "" {
		fmt.Fprintf(&b, " Their stream is %s.", c.session.Stream)
	}
	if c.session.Quiz != nil {
		fmt.Fprintf(&b, " They have been exploring %s as a career domain.", c.session.Quiz.QuizDomain())
	}
	return b.String()
}

func (c *Controller) say(body string) {
	c.append(Message{Sender: SenderAssistant, Body: body})
}

func (c *Controller) append(m Message) {
	c.mu.Lock()
	c.transcript = append(c.transcript, m)
	c.mu.Unlock()
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.session.State = s
	c.mu.Unlock()
}

func (c *Controller) mutate(fn func(*Session)) {
	c.mu.Lock()
	fn(&c.session)
	c.mu.Unlock()
}

func (c *Controller) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}
