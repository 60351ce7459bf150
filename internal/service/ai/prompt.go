package ai

import (
	"fmt"
	"strings"

	"github.com/yunseochoi/famtalk/backend/internal/model/chat"
	"github.com/yunseochoi/famtalk/backend/internal/model/persona"
)

// noHistoryPlaceholder stands in for the last dialogue content when a
// session has no non-system turns yet.
const noHistoryPlaceholder = "지금까지의 대화가 없습니다. 역할에 맞게 대화를 처음 시작합니다."

// genericContinuation is used when the speaker label is not recognized.
const genericContinuation = "대화를 이어가주세요."

// speakerTemplates maps a speaker label to its continuation instruction.
// The %s slot receives the most recent dialogue content.
var speakerTemplates = map[string]string{
	"student": `손주는 지금까지의 대화를 참고하여 적절히 반응하며 이어가주세요: "%s"`,
	"grandma": `할머니는 지금까지의 대화를 참고하여 적절히 반응하며 이어가주세요: "%s"`,
	"grandfa": `할아버지는 지금까지의 대화를 참고하여 적절히 반응하며 이어가주세요: "%s"`,
	"aunt":    `고모는 지금까지의 대화를 참고하여 적절히 반응하며 이어가주세요: "%s"`,
}

// RenderSystemPrompt flattens a structured persona prompt into the single
// text block used as the conversation-priming system turn. Pure template
// work: context lines, a tone line, a style line with joined examples.
// Empty slices simply render as empty segments.
func RenderSystemPrompt(spec persona.PromptSpec) string {
	parts := []string{
		strings.Join(spec.Context, "\n"),
		fmt.Sprintf("말투: %s, 태도: %s", spec.Tone.Manner, spec.Tone.Attitude),
		fmt.Sprintf("문체: %s (예시: %s)", spec.Style.Description, strings.Join(spec.Style.Examples, " / ")),
	}
	return strings.Join(parts, "\n")
}

// SynthesizeUserTurn derives the next user-role message. An explicit
// non-empty message wins verbatim; otherwise the newest non-system turn is
// folded into the speaker's continuation template. Unknown speaker labels
// get the generic instruction.
func SynthesizeUserTurn(transcript []chat.Turn, explicitMessage, speakerID string) string {
	if explicitMessage != "" {
		return explicitMessage
	}

	last := noHistoryPlaceholder
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role != chat.RoleSystem {
			last = transcript[i].Content
			break
		}
	}

	tpl, ok := speakerTemplates[speakerID]
	if !ok {
		return genericContinuation
	}
	return fmt.Sprintf(tpl, last)
}
