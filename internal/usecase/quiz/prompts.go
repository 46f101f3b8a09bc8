package quiz

import (
	"fmt"
	"strings"
)

// transcriptPromptBudget bounds how much transcript text reaches a prompt.
const transcriptPromptBudget = 6000

const openEndedInstruction = `You write one short open-ended quiz question for a student ` +
	`who just watched part of a video lecture. The question must be answerable from the ` +
	`material given. Respond with JSON: {"question": "...", "reference_answer": "..."}.`

const multipleChoiceInstruction = `You write multiple-choice quiz questions for a student ` +
	`who just watched part of a video lecture. Each question has exactly 4 options and one ` +
	`correct option. Respond with JSON: {"questions": [{"question": "...", ` +
	`"options": ["...", "...", "...", "..."], "correct_index": 0}]}.`

const evaluateInstruction = `You grade a student's free-text answer to a quiz question. ` +
	`Be encouraging but honest; a partially right answer that misses the core idea is not correct. ` +
	`Respond with JSON: {"correct": true|false, "feedback": "...", "hint": "..."}. ` +
	`Leave hint empty when the answer is correct; otherwise give a nudge, not the answer.`

const remediationInstruction = `A student answered a multiple-choice question incorrectly. ` +
	`Explain the underlying concept in a way that addresses their specific mistake, then write ` +
	`one strictly simpler multiple-choice question (4 options) testing the same concept. ` +
	`Respond with JSON: {"explanation": "...", "new_question": {"question": "...", ` +
	`"options": ["...", "...", "...", "..."], "correct_index": 0}}.`

// truncateTranscript caps transcript text to the prompt budget.
func truncateTranscript(text string) string {
	if len(text) > transcriptPromptBudget {
		return text[:transcriptPromptBudget]
	}
	return text
}

// generationUserPrompt assembles the material block for question generation.
func generationUserPrompt(topic, transcriptText string) string {
	var sb strings.Builder
	if topic != "" {
		sb.WriteString(fmt.Sprintf("Topic: %s\n", topic))
	}
	if transcriptText != "" {
		sb.WriteString("Transcript excerpt:\n")
		sb.WriteString(truncateTranscript(transcriptText))
	}
	return strings.TrimSpace(sb.String())
}

func evaluationUserPrompt(question, answer, topic string) string {
	return fmt.Sprintf("Topic: %s\nQuestion: %s\nStudent's answer: %s", topic, question, answer)
}
