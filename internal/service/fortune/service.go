// Package fortune produces the one-shot daily-luck reading relayed through
// the completion provider. No session state is involved.
package fortune

import (
	"context"
	"fmt"

	"github.com/yunseochoi/famtalk/backend/internal/model/chat"
)

const readerPrompt = "당신은 따뜻한 말투로 오늘의 운세를 들려주는 점술가입니다. 과장 없이 기분 좋게, 2~3문장으로 답하세요."

// Completer is the slice of the completion gateway the fortune service needs.
type Completer interface {
	Complete(ctx context.Context, transcript []chat.Turn, nextUserMessage string) (string, error)
}

// Service renders the fortune prompt and relays it to the provider.
type Service struct {
	completer Completer
}

// NewService wires the fortune reader to a completion gateway.
func NewService(completer Completer) *Service {
	return &Service{completer: completer}
}

// DailyLuck asks the provider for a short fortune addressed to name.
func (s *Service) DailyLuck(ctx context.Context, name string) (string, error) {
	priming := []chat.Turn{{Role: chat.RoleSystem, Content: readerPrompt}}
	question := fmt.Sprintf("%s님의 오늘의 운세를 알려주세요.", name)
	return s.completer.Complete(ctx, priming, question)
}
