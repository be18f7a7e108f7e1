package eval

// JudgePrompt renders the user prompt for a judge call.
func JudgePrompt(question, received, expected string) string {
	return "\nQuestion: " + question +
		"\nReceived Answer: " + received +
		"\nExpected Answer: " + expected + "\n"
}
