package analysis

// Personality is the one label a user gets.
type Personality struct {
	Label   string `json:"label"`
	Tagline string `json:"tagline"`
}

// PersonalityInput carries the metrics the classifier reads.
type PersonalityInput struct {
	PeakHour        int
	ResponseMinutes int
	Sent            int
	Received        int
	StarterPercent  int
}

var (
	NocturnalMenace     = Personality{"NOCTURNAL MENACE", "terrorizes people at ungodly hours"}
	TerminallyOnline    = Personality{"TERMINALLY ONLINE", "has never touched grass"}
	TooCoolToReply      = Personality{"TOO COOL TO REPLY", "leaves everyone on read"}
	PopularAllegedly    = Personality{"POPULAR (ALLEGEDLY)", "everyone wants a piece"}
	TheYapper           = Personality{"THE YAPPER", "carries every conversation alone"}
	ConversationStarter = Personality{"CONVERSATION STARTER", "always making the first move"}
	TheWaiter           = Personality{"THE WAITER", "never texts first, ever"}
	SuspiciouslyNormal  = Personality{"SUSPICIOUSLY NORMAL", "no notes. boring but stable."}
)

// Classify applies the rules in order; the first match wins.
func Classify(in PersonalityInput) Personality {
	ratio := float64(in.Sent) / float64(in.Received+1)
	switch {
	case in.PeakHour < 5 || in.PeakHour > 22:
		return NocturnalMenace
	case in.ResponseMinutes < 5:
		return TerminallyOnline
	case in.ResponseMinutes > 120:
		return TooCoolToReply
	case ratio < 0.5:
		return PopularAllegedly
	case ratio > 2:
		return TheYapper
	case in.StarterPercent > 65:
		return ConversationStarter
	case in.StarterPercent < 35:
		return TheWaiter
	default:
		return SuspiciouslyNormal
	}
}
