package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNotIslamic means the topic gate rejected the question before it
// ever reached the answering model.
var ErrNotIslamic = errors.New("question is not related to Islam")

const answerPrompt = `Answer the following question with reference to the Quran in the following JSON format: {"Surah": <Surah Number>, "StartAyah": <Start Ayah>, "EndAyah": <End Ayah>, "Verses": "<Name of Surah>"}`

// ChatClient is the slice of the OpenAI client the question proxy
// uses, kept small so tests can fake it.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Answer struct {
	Explanation string `json:"explanation"`
	Verses      string `json:"verses"`
	SurahNumber int    `json:"surahNumber"`
	StartAyah   int    `json:"startAyah"`
	EndAyah     int    `json:"endAyah"`
}

// Questions proxies user questions to the language model: a cheap
// topic gate first, then the answering pass that must return a
// Quranic reference.
type Questions struct {
	client ChatClient
}

func NewQuestions(apiKey string) *Questions {
	return &Questions{client: openai.NewClient(apiKey)}
}

// NewQuestionsWithClient lets callers swap the OpenAI client out, used
// by tests.
func NewQuestionsWithClient(client ChatClient) *Questions {
	return &Questions{client: client}
}

func (q *Questions) Ask(ctx context.Context, question string) (*Answer, error) {
	gate, err := q.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "Determine if the following question is related to Islam."},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("topic gate request failed, %w", err)
	}

	if len(gate.Choices) == 0 {
		return nil, errors.New("topic gate returned no choices")
	}

	if !strings.Contains(strings.ToLower(gate.Choices[0].Message.Content), "islam") {
		return nil, ErrNotIslamic
	}

	resp, err := q.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4Turbo,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: answerPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("answer request failed, %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("answer returned no choices")
	}

	content := resp.Choices[0].Message.Content

	var ref struct {
		Surah     int    `json:"Surah"`
		StartAyah int    `json:"StartAyah"`
		EndAyah   int    `json:"EndAyah"`
		Verses    string `json:"Verses"`
	}
	if err := json.Unmarshal([]byte(content), &ref); err != nil {
		return nil, fmt.Errorf("malformed model response, %w", err)
	}

	return &Answer{
		Explanation: content,
		Verses:      ref.Verses,
		SurahNumber: ref.Surah,
		StartAyah:   ref.StartAyah,
		EndAyah:     ref.EndAyah,
	}, nil
}
