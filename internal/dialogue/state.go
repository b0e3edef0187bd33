package dialogue

// State identifies where the conversation is in the guidance flow.
// The flow is linear with two loop-backs: a negative final feedback and a
// failed quiz generation both return to StateAwaitingInterestedDomain.
type State string

const (
	StateInitial                  State = "initial"
	StateAwaitingName             State = "awaiting_name"
	StateAwaitingClassLevel       State = "awaiting_class_level"
	StateAwaitingStream           State = "awaiting_stream"
	StateAwaitingPredictedDomain  State = "awaiting_predicted_domain"
	StateAwaitingSatisfaction     State = "awaiting_satisfaction"
	StateAwaitingInterestedDomain State = "awaiting_interested_domain"
	StateGeneratingQuiz           State = "generating_quiz"
	StateInQuiz                   State = "in_quiz"
	StateAnalyzingQuiz            State = "analyzing_quiz"
	StateAwaitingAdjacentChoice   State = "awaiting_adjacent_choice"
	StateAwaitingFinalFeedback    State = "awaiting_final_feedback"

	// StatePostGuidanceChat is absorbing: every further turn is forwarded
	// verbatim to the open-ended chat handle.
	StatePostGuidanceChat State = "post_guidance_chat"
)
