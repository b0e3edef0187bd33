package validate

import (
	"fmt"
)

const nameSystemPrompt = `You extract a person's name from a short introduction written by a school student.

Rules:
- Return only the name, e.g. "Priya Sharma" from "hi my name is priya sharma".
- Preserve the name's own casing if it looks intentional, otherwise title-case it.
- If no name is present, return the input unchanged.`

const streamSystemPrompt = `You classify whether a school student's reply names an academic stream offered after Class 10 (such as Science, Commerce, Arts/Humanities).

Rules:
- Accept common spellings, abbreviations, and subject combinations (e.g. "pcm", "bio", "commerce with maths").
- Canonicalize to the stream's standard title-cased label (e.g. "Science", "Commerce", "Arts").
- Reject greetings, questions, and anything that is not an academic stream.`

const domainSystemPrompt = `You classify whether a school student's reply names a career domain or professional field (such as Software Engineering, Medicine, Graphic Design, Civil Services).

Rules:
- Accept informal phrasings ("coding", "doctor stuff") and canonicalize them to the standard field name, title-cased.
- Reject greetings, sentences about something else, and inputs that do not name any career field.`

const sentimentSystemPrompt = `You classify the sentiment of a student's feedback about career guidance they just received.

Reply with exactly one word: POSITIVE or NEGATIVE. No punctuation, no explanation.`

func classificationUserMessage(raw string) string {
	return fmt.Sprintf("Student's reply: %q", raw)
}
