//go:build integration
// +build integration

package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskpilot/internal/adapter/http/dto"
	"taskpilot/internal/core/ports"

	"github.com/stretchr/testify/suite"
)

type ChatIntegrationSuite struct {
	IntegrationSuiteBase
	env *integrationEnv
}

func TestChatIntegrationSuite(t *testing.T) {
	suite.Run(t, new(ChatIntegrationSuite))
}

func (s *ChatIntegrationSuite) SetupTest() {
	s.ResetDatabase()
	s.env = newIntegrationEnv(s.DB, &scriptedChatClient{replies: []ports.ModelReply{
		{ToolCalls: []ports.ToolCall{{
			ID:        "call_1",
			Name:      "add_task",
			Arguments: `{"title":"Buy milk","priority":"low"}`,
		}}},
		{Content: "Added Buy milk to your list."},
	}})
}

func (s *ChatIntegrationSuite) do(method, target, body, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("Authorization", bearerToken(s.T(), userID))
	}
	rec := httptest.NewRecorder()
	s.env.router.ServeHTTP(rec, req)
	return rec
}

func (s *ChatIntegrationSuite) sendChat(userID, body string) dto.ChatResponse {
	rec := s.do(http.MethodPost, "/api/chat", body, userID)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var got dto.ChatResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func (s *ChatIntegrationSuite) TestChat_ExecutesToolCallAndPersistsConversation() {
	got := s.sendChat("user-1", `{"message":"add a task to buy milk"}`)

	s.Require().NotEmpty(got.ConversationID)
	s.Require().Equal("Added Buy milk to your list.", got.Response)
	s.Require().Len(got.ToolCalls, 1)
	s.Require().Equal("add_task", got.ToolCalls[0].Name)
	s.Require().Equal("Buy milk", got.ToolCalls[0].Arguments["title"])

	// The tool call went through the real task service and repository.
	var taskCount int
	s.Require().NoError(s.DB.Get(&taskCount,
		"SELECT COUNT(*) FROM tasks WHERE user_id = 'user-1' AND title = 'Buy milk' AND priority = 'low'"))
	s.Require().Equal(1, taskCount)

	var rows []struct {
		Role      string  `db:"role"`
		Content   string  `db:"content"`
		ToolCalls *string `db:"tool_calls"`
	}
	s.Require().NoError(s.DB.Select(&rows,
		"SELECT role, content, tool_calls FROM messages WHERE conversation_id = ? ORDER BY created_at, id",
		got.ConversationID))
	s.Require().Len(rows, 2)
	s.Require().Equal("user", rows[0].Role)
	s.Require().Equal("add a task to buy milk", rows[0].Content)
	s.Require().Nil(rows[0].ToolCalls)
	s.Require().Equal("assistant", rows[1].Role)
	s.Require().Equal("Added Buy milk to your list.", rows[1].Content)
	s.Require().NotNil(rows[1].ToolCalls)
	s.Require().Contains(*rows[1].ToolCalls, `"add_task"`)
}

func (s *ChatIntegrationSuite) TestChat_ResumesExistingConversation() {
	first := s.sendChat("user-1", `{"message":"add a task to buy milk"}`)

	second := s.sendChat("user-1",
		`{"conversation_id":"`+first.ConversationID+`","message":"thanks"}`)
	s.Require().Equal(first.ConversationID, second.ConversationID)

	var messageCount int
	s.Require().NoError(s.DB.Get(&messageCount,
		"SELECT COUNT(*) FROM messages WHERE conversation_id = ?", first.ConversationID))
	s.Require().Equal(4, messageCount)

	var conversationCount int
	s.Require().NoError(s.DB.Get(&conversationCount,
		"SELECT COUNT(*) FROM conversations WHERE user_id = 'user-1'"))
	s.Require().Equal(1, conversationCount)
}

func (s *ChatIntegrationSuite) TestChat_ReturnsNotFoundForUnknownConversation() {
	rec := s.do(http.MethodPost, "/api/chat",
		`{"conversation_id":"4f8f1c6a-6f3e-4a8e-9b88-0f6f5a1f2b3c","message":"hello"}`, "user-1")

	s.Require().Equal(http.StatusNotFound, rec.Code)
}

func (s *ChatIntegrationSuite) TestConversations_ListsOwnConversationsWithTitles() {
	created := s.sendChat("user-1", `{"message":"add a task to buy milk"}`)
	s.sendChat("user-2", `{"message":"what is on my list today?"}`)

	rec := s.do(http.MethodGet, "/api/conversations", "", "user-1")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got []dto.ConversationItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 1)
	s.Require().Equal(created.ConversationID, got[0].ID)
	s.Require().NotNil(got[0].Title)
	s.Require().Equal("add a task to buy milk", *got[0].Title)
}

func (s *ChatIntegrationSuite) TestConversationMessages_HidesOtherUsersConversations() {
	created := s.sendChat("user-1", `{"message":"add a task to buy milk"}`)

	rec := s.do(http.MethodGet, "/api/conversations/"+created.ConversationID+"/messages", "", "user-2")
	s.Require().Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/conversations/"+created.ConversationID+"/messages", "", "user-1")
	s.Require().Equal(http.StatusOK, rec.Code)

	var got []dto.MessageItem
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	s.Require().Len(got, 2)
}

func (s *ChatIntegrationSuite) TestDeleteConversation_RemovesMessagesThroughCascade() {
	created := s.sendChat("user-1", `{"message":"add a task to buy milk"}`)

	rec := s.do(http.MethodDelete, "/api/conversations/"+created.ConversationID, "", "user-1")
	s.Require().Equal(http.StatusNoContent, rec.Code)

	var messageCount int
	s.Require().NoError(s.DB.Get(&messageCount,
		"SELECT COUNT(*) FROM messages WHERE conversation_id = ?", created.ConversationID))
	s.Require().Equal(0, messageCount)
}
