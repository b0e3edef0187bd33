package dialogue

// User-facing copy for every scripted reply the controller can emit. Kept in
// one place so the screens and tests reference the same strings.
const (
	msgGreeting = "Hi! I'm Disha, your career guide. I'll help you figure out which career domain fits you best. What's your name?"

	msgAskClassLevel = "Nice to meet you, %s! Which class are you in — Class 10 or Class 12?"
	msgClassRetry    = "Sorry, I didn't catch that. Are you in Class 10 or Class 12?"

	msgAskStream   = "Great. Which stream are you studying — Science, Commerce, or Arts?"
	msgStreamRetry = "Hmm, I didn't recognise that as a stream. Could you tell me again — Science, Commerce, or Arts?"

	msgAskPredictedDomain  = "Which career domain do you think suits you best right now?"
	msgDomainRetry         = "That doesn't look like a career domain to me. Could you name one — for example Engineering, Medicine, Design, or Law?"
	msgAskSatisfaction     = "You picked %s. Are you satisfied with that choice, or would you like to explore something else?"
	msgAskInterestedDomain = "No problem! Which domain would you like to explore instead?"

	msgQuizIntro          = "Let's see how well %s fits you. I'll ask you %d quick questions — pick the option that feels right."
	msgQuizGenFailed      = "I couldn't put together a quiz for that domain just now. Could you name a different domain to explore?"
	msgQuizPickOption     = "Please pick one of the options above so we can keep going."
	msgQuizAnalysisFailed = "I wasn't able to score your quiz this time. Let's try again — which domain would you like to explore?"

	msgGoodFit     = "That's a strong result — %s looks like a genuinely good fit for you. Here's your guidance."
	msgAdjacentAsk = "It looks like %s may not be the best fit yet. Would you like to explore a related domain instead? Name one and I'll prepare guidance for it."

	msgRoadmapIntro     = "Here's a three-step roadmap to get you started:"
	msgReportFailed     = "I hit a problem while preparing your guidance. Could you name the domain again and we'll retry?"
	msgAskFinalFeedback = "Was this guidance helpful? Are you satisfied with %s as your direction?"

	msgPostGuidanceOpen = "Wonderful! I'm glad that helped. Feel free to ask me anything else about your career — I'm listening."
	msgMissingChat      = "It looks like our chat session was lost. Please restart the conversation to continue."

	msgTurnFailed = "Sorry, something went wrong on my end. Please try that again."
)
