package engines

// Default builds the standard engine chain: the networked Google engine
// first, then the offline system utilities in the order they are most
// likely to exist (espeak on Linux, say on macOS, spd-say on
// speech-dispatcher desktops).
func Default(language string, cache Cache) *Chain {
	return NewChain(
		NewGTTS(language, cache),
		NewEspeak(),
		NewSay(),
		NewSpdSay(),
	)
}
