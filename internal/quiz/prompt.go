package quiz

import (
	"fmt"
	"strings"
)

const generateSystemPrompt = `You are a career counselor creating a short aptitude quiz for a school student (Class 10 or 12) who is exploring a career domain.

Rules:
- Generate exactly 5 multiple-choice questions testing foundational aptitude and genuine interest for the given domain.
- Each question has exactly 4 options with exactly one correct answer. The 4 options must all be different.
- Questions should be answerable by a motivated school student; no university-level jargon.
- Mix conceptual questions with scenario questions ("What would you do if...").
- Use plain text only. No markdown, no numbering inside the question text.`

const analyzeSystemPrompt = `You are a career counselor reviewing a student's answers to a 5-question domain aptitude quiz.

Scoring rubric for the headline:
- 0-2 correct: "Poor Performance"
- 3 correct:   "Medium Performance"
- 4-5 correct: "Good Performance"

Rules:
- The headline combines the rubric label with the domain, e.g. "Good Performance in Medicine".
- For each question, set is_correct strictly by comparing the student's answer with the correct answer given to you.
- Justifications explain the correct answer; do not scold the student.
- Overall feedback is warm and specific. Next steps are concrete and actionable for a school student.`

func generateUserMessage(domain string) string {
	return fmt.Sprintf("Career domain: %s\n\nGenerate the 5-question quiz.", domain)
}

// analyzeUserMessage pairs each question with the option text at the
// correct index and the option text at the recorded answer index.
func analyzeUserMessage(s *Session) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Domain: %s\n\nQuiz results:\n", s.QuizDomain())
	for i, q := range s.Questions {
		fmt.Fprintf(&b, "\nQ%d: %s\n", i+1, q.Text)
		fmt.Fprintf(&b, "Correct answer: %s\n", q.Options[q.CorrectIndex])
		fmt.Fprintf(&b, "Student's answer: %s\n", q.Options[s.UserAnswers[i]])
	}

	return b.String()
}
