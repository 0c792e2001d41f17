package resolvediningintent

const (
	TaskType = "resolve-dining-intent"

	IntentGreeting          = "GreetingIntent"
	IntentThankYou          = "ThankYouIntent"
	IntentThankYouLegacy    = "ThankyouIntent"
	IntentDiningSuggestions = "DiningSuggestionsIntent"
)

const (
	msgGreeting     = "Hi there, how can I help?"
	msgThanks       = "You're welcome!"
	msgConfirmation = "Got it! I'll email you suggestions shortly."
	msgFallback     = "Sorry, I didn't quite understand that."
)
