package prompt

// Settings are the completion parameters for one call site.
type Settings struct {
	MaxTokens   int
	Temperature float64
}

// SettingsFor returns the token budget and temperature for kind at phase.
// Generation runs hot for variety across repeated calls, research and
// scoring run cold so grading is repeatable.
func SettingsFor(kind Kind, phase Phase) Settings {
	switch {
	case phase == PhaseResearch:
		return Settings{MaxTokens: 4000, Temperature: 0.3}
	case phase == PhaseScoring || kind == KindScoring:
		return Settings{MaxTokens: 2000, Temperature: 0.3}
	case kind == KindHooks:
		return Settings{MaxTokens: 3000, Temperature: 0.8}
	case kind == KindPosts:
		return Settings{MaxTokens: 4000, Temperature: 0.8}
	case kind == KindComments:
		return Settings{MaxTokens: 2500, Temperature: 0.7}
	default:
		return Settings{MaxTokens: 2000, Temperature: 0.7}
	}
}
