package dialogue

import (
	"github.com/abhisek/disha/internal/quiz"
	"github.com/abhisek/disha/internal/report"
)

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// OptionSet is a set of answer choices attached to an assistant message.
// Answered and ChosenIndex are set exactly once, when the student picks an
// option; the set is never re-opened afterwards.
type OptionSet struct {
	Options     []string
	Answered    bool
	ChosenIndex int
}

// Message is one entry in the conversation transcript. Body is always set;
// at most one of the attachment fields is non-zero.
type Message struct {
	Sender   Sender
	Body     string
	Options  *OptionSet
	Analysis *quiz.Analysis
	Roadmap  []report.RoadmapStep
}
