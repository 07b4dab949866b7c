package interview

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed prompts/interviewer.md
var interviewerPrompt string

//go:embed prompts/followup.md
var followupPrompt string

//go:embed prompts/feedback.md
var feedbackPrompt string

//go:embed prompts/reengage.md
var reengagePrompt string

func interviewerSystem(role string) string {
	return strings.ReplaceAll(interviewerPrompt, "{{ROLE}}", role)
}

func followupMessage(lastQuestion, lastAnswer string, previousQuestions []string) string {
	var builder strings.Builder

	builder.WriteString("Main Question: ")
	builder.WriteString(lastQuestion)
	builder.WriteString("\nCandidate Answer: ")
	builder.WriteString(lastAnswer)
	builder.WriteString("\n\nAll Previous Questions:\n")
	for i, question := range previousQuestions {
		fmt.Fprintf(&builder, "%d. %s\n", i+1, question)
	}
	builder.WriteString("\nDecide if a follow-up question is needed.")

	return builder.String()
}

func feedbackMessage(role, transcript string) string {
	return fmt.Sprintf(
		"Role: %s\n\nHere are the questions and answers:\n\n%s\nNow provide feedback as per the format.",
		role, transcript,
	)
}
