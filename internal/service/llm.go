package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrAIUnavailable is returned by Reply when no API key is
// configured. Callers check Available() up front or branch on this
// error; nothing probes global state.
var ErrAIUnavailable = errors.New("AI assistant is not configured")

const (
	chatHistoryTTL = 24 * time.Hour
	chatHistoryMax = 20
)

// ChatService forwards user questions to the DeepSeek chat API. When
// a Redis client is provided, the running conversation is kept there
// per session so follow-up questions have context; without Redis the
// service still works, statelessly.
type ChatService struct {
	apiKey string
	apiURL string
	model  string
	redis  *redis.Client
	client *http.Client
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request body for the chat completions endpoint.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// chatResponse is the slice of the completions response we consume.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewChatService creates a new ChatService instance. The API key
// comes from DEEPSEEK_API_KEY or a file named by
// DEEPSEEK_API_KEY_FILE; with neither set the service reports itself
// unavailable rather than failing construction.
func NewChatService(redisClient *redis.Client) *ChatService {
	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		if apiKeyFile := os.Getenv("DEEPSEEK_API_KEY_FILE"); apiKeyFile != "" {
			if apiKeyBytes, err := os.ReadFile(apiKeyFile); err == nil {
				apiKey = strings.TrimSpace(string(apiKeyBytes))
			}
		}
	}

	apiURL := os.Getenv("DEEPSEEK_API_URL")
	if apiURL == "" {
		apiURL = "https://api.deepseek.com/v1/chat/completions"
	}

	return &ChatService{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  "deepseek-chat",
		redis:  redisClient,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Available reports whether the service has an API key to work with.
func (s *ChatService) Available() bool {
	return s.apiKey != ""
}

const chatSystemPrompt = `You are a friendly nutrition assistant for a food scanning app. ` +
	`Answer questions about nutrition, food choices and daily goals concisely. ` +
	`If asked about topics unrelated to food or health, politely steer the conversation back.`

// Reply sends the user's message, with any stored conversation
// context, and returns the assistant's answer.
func (s *ChatService) Reply(ctx context.Context, sessionID, message string) (string, error) {
	if !s.Available() {
		return "", ErrAIUnavailable
	}

	history := s.loadHistory(ctx, sessionID)

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: chatSystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: message})

	reqBody := chatRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: 0.7,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}

	reply := result.Choices[0].Message.Content
	s.saveHistory(ctx, sessionID,
		append(history,
			Message{Role: "user", Content: message},
			Message{Role: "assistant", Content: reply}))

	return reply, nil
}

func (s *ChatService) historyKey(sessionID string) string {
	return fmt.Sprintf("chat:history:%s", sessionID)
}

// loadHistory returns the stored conversation, or nothing when Redis
// is absent or unreachable; chat degrades to stateless.
func (s *ChatService) loadHistory(ctx context.Context, sessionID string) []Message {
	if s.redis == nil || sessionID == "" {
		return nil
	}

	data, err := s.redis.Get(ctx, s.historyKey(sessionID)).Bytes()
	if err != nil {
		return nil
	}

	var history []Message
	if err := json.Unmarshal(data, &history); err != nil {
		return nil
	}
	return history
}

func (s *ChatService) saveHistory(ctx context.Context, sessionID string, history []Message) {
	if s.redis == nil || sessionID == "" {
		return
	}

	if len(history) > chatHistoryMax {
		history = history[len(history)-chatHistoryMax:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, s.historyKey(sessionID), data, chatHistoryTTL).Err(); err != nil {
		// history is best-effort; the reply already went out
		return
	}
}
