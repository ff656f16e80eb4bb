package botstory

// DefaultExchanges returns the stock small-talk training pairs every
// bot starts with, as alternating prompt/reply strings.
func DefaultExchanges() []string {
	return []string{
		"Start over",
		"Okay. Let's start over.",
		"New session",
		"Okay. Let's start over.",
		"Quit",
		"Okay. Let's start over.",
		"quit",
		"Okay. Let's start over.",

		"Hi",
		"Hello there!",
		"Hey friend.",
		"Hey.",
		"Hello",
		"Hi there!",
		"Are you my friend?",
		"Sure!",
		"ok",
		"Ok.",
		"Can you help me?",
		"What would you like to talk about?",
		"Thanks.",
		"You're welcome.",
		"Thanks you.",
		"You're welcome.",
		"Thanks you very much.",
		"You're welcome.",
		"Thank you.",
		"You're welcome.",
		"See you.",
		"Bye. It was a pleasure serving you!",
		"Have a nice day.",
		"Bye. It was a pleasure serving you!",
		"Bye.",
		"Bye. It was a pleasure serving you!",
	}
}
