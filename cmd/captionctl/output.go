package main

import "strings"

const (
	labelImage = "图像描述"
	labelVideo = "视频描述"
)

// formatAnswers renders the description line and, when the service answered
// a follow-up, the question and its answer.
func formatAnswers(label, question string, answers []string) string {
	if len(answers) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(label + ": " + answers[0] + "\n")
	if len(answers) > 1 {
		b.WriteString("问题: " + question + "\n")
		b.WriteString("答案: " + answers[1] + "\n")
	}
	return b.String()
}
