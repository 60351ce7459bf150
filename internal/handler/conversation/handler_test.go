package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatModel "github.com/yunseochoi/famtalk/backend/internal/model/chat"
	"github.com/yunseochoi/famtalk/backend/internal/model/persona"
	"github.com/yunseochoi/famtalk/backend/internal/service/ai"
	chatservice "github.com/yunseochoi/famtalk/backend/internal/service/chat"
)

type stubCompleter struct {
	reply          string
	err            error
	lastNext       string
	lastTranscript []chatModel.Turn
}

func (s *stubCompleter) Complete(_ context.Context, transcript []chatModel.Turn, next string) (string, error) {
	s.lastTranscript = transcript
	s.lastNext = next
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func setupRouter(completer Completer) (*chi.Mux, *chatservice.Service) {
	chatSvc := chatservice.NewService()
	store := persona.NewMemoryStore(persona.Seed())
	handler := New(chatSvc, store, completer)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestStartConversation(t *testing.T) {
	r, chatSvc := setupRouter(&stubCompleter{})

	resp := postJSON(t, r, "/startConversation", map[string]string{"gpt1Id": "student", "gpt2Id": "grandma"})
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody(t, resp)
	assert.Equal(t, "손주", body["gpt1"])
	assert.Equal(t, "할머니", body["gpt2"])

	id, ok := body["conversationId"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)

	transcript, err := chatSvc.Transcript(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, transcript, 2)
	assert.Equal(t, chatModel.RoleSystem, transcript[0].Role)
	assert.Equal(t, chatModel.RoleSystem, transcript[1].Role)
	// Persona order is preserved: the student prompt primes first.
	assert.Contains(t, transcript[0].Content, "대학생")
	assert.Contains(t, transcript[1].Content, "할머니")
}

func TestStartConversationInvalidPersona(t *testing.T) {
	r, _ := setupRouter(&stubCompleter{})

	resp := postJSON(t, r, "/startConversation", map[string]string{"gpt1Id": "student", "gpt2Id": "stranger"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestStartConversationTwiceYieldsDistinctSessions(t *testing.T) {
	r, _ := setupRouter(&stubCompleter{})

	body1 := decodeBody(t, postJSON(t, r, "/startConversation", map[string]string{"gpt1Id": "student", "gpt2Id": "grandma"}))
	body2 := decodeBody(t, postJSON(t, r, "/startConversation", map[string]string{"gpt1Id": "student", "gpt2Id": "grandma"}))

	assert.NotEqual(t, body1["conversationId"], body2["conversationId"])
}

func TestStartSingleConversation(t *testing.T) {
	r, chatSvc := setupRouter(&stubCompleter{})

	resp := postJSON(t, r, "/startSingleConversation", map[string]string{"gptId": "grandma"})
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody(t, resp)
	assert.Equal(t, "할머니", body["gpt"])

	transcript, err := chatSvc.Transcript(context.Background(), body["conversationId"].(string))
	require.NoError(t, err)
	require.Len(t, transcript, 1)
	assert.Equal(t, chatModel.RoleSystem, transcript[0].Role)
}

func TestStartSingleConversationInvalidPersona(t *testing.T) {
	r, _ := setupRouter(&stubCompleter{})

	resp := postJSON(t, r, "/startSingleConversation", map[string]string{"gptId": "stranger"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestContinueWithExplicitMessage(t *testing.T) {
	stub := &stubCompleter{reply: "아이고 우리 강아지, 밥은 먹었냐?"}
	r, _ := setupRouter(stub)

	start := decodeBody(t, postJSON(t, r, "/startSingleConversation", map[string]string{"gptId": "grandma"}))
	id := start["conversationId"].(string)

	resp := postJSON(t, r, "/continueConversation", map[string]string{
		"conversationId": id,
		"userMessage":    "안녕",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Messages []chatModel.Turn `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Messages, 2)
	assert.Equal(t, chatModel.Turn{Role: chatModel.RoleUser, Content: "안녕"}, body.Messages[0])
	assert.Equal(t, chatModel.Turn{Role: chatModel.RoleAssistant, Content: stub.reply}, body.Messages[1])

	// The provider saw the priming turn even though the client never does.
	require.Len(t, stub.lastTranscript, 1)
	assert.Equal(t, chatModel.RoleSystem, stub.lastTranscript[0].Role)
}

func TestContinueSynthesizesSpeakerPrompt(t *testing.T) {
	stub := &stubCompleter{reply: "할머니, 저 왔어요!"}
	r, _ := setupRouter(stub)

	start := decodeBody(t, postJSON(t, r, "/startConversation", map[string]string{"gpt1Id": "student", "gpt2Id": "grandma"}))
	id := start["conversationId"].(string)

	resp := postJSON(t, r, "/continueConversation", map[string]string{
		"conversationId": id,
		"speakerId":      "student",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	assert.Contains(t, stub.lastNext, "손주는 지금까지의 대화를 참고하여")
	assert.Contains(t, stub.lastNext, "지금까지의 대화가 없습니다. 역할에 맞게 대화를 처음 시작합니다.")
}

func TestContinueUnknownConversation(t *testing.T) {
	r, _ := setupRouter(&stubCompleter{})

	for _, payload := range []map[string]string{
		{"conversationId": "missing"},
		{"conversationId": "missing", "userMessage": "안녕"},
		{"conversationId": "missing", "speakerId": "student"},
	} {
		resp := postJSON(t, r, "/continueConversation", payload)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "invalid conversation id", decodeBody(t, resp)["error"])
	}
}

func TestContinueProviderFailureKeepsTranscript(t *testing.T) {
	stub := &stubCompleter{err: fmt.Errorf("%w: boom", ai.ErrGateway)}
	r, chatSvc := setupRouter(stub)

	start := decodeBody(t, postJSON(t, r, "/startSingleConversation", map[string]string{"gptId": "grandma"}))
	id := start["conversationId"].(string)

	before, err := chatSvc.Transcript(context.Background(), id)
	require.NoError(t, err)

	resp := postJSON(t, r, "/continueConversation", map[string]string{
		"conversationId": id,
		"userMessage":    "안녕",
	})
	assert.Equal(t, http.StatusInternalServerError, resp.Code)

	after, err := chatSvc.Transcript(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestContinueNeverExposesSystemTurns(t *testing.T) {
	stub := &stubCompleter{reply: "응답"}
	r, _ := setupRouter(stub)

	start := decodeBody(t, postJSON(t, r, "/startConversation", map[string]string{"gpt1Id": "student", "gpt2Id": "grandma"}))
	id := start["conversationId"].(string)

	for i := 0; i < 3; i++ {
		resp := postJSON(t, r, "/continueConversation", map[string]string{
			"conversationId": id,
			"speakerId":      "grandma",
		})
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Messages []chatModel.Turn `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Len(t, body.Messages, 2*(i+1))
		for _, msg := range body.Messages {
			assert.NotEqual(t, chatModel.RoleSystem, msg.Role)
		}
	}
}
