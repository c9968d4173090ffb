// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ai generates and refines canvas documents through a chat
// completion model. Malformed or unavailable model output never fails
// the caller: generation falls back to a deterministic document and
// refinement returns the input unchanged.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const secretKeyPath = "/run/secrets/openai_api_key"

// ChatClient is the slice of the OpenAI client the service uses,
// extracted so callers and tests can substitute the model transport.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Service runs design generation and refinement against a chat model.
type Service struct {
	chat   ChatClient
	model  string
	logger *slog.Logger
}

// NewService builds a Service from the environment. The API key comes
// from OPENAI_API_KEY, falling back to the container secret file. The
// model comes from OPENAI_MODEL, defaulting to gpt-4o-mini.
func NewService(logger *slog.Logger) (*Service, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		keyBytes, err := os.ReadFile(secretKeyPath)
		if err != nil {
			logger.Error("OPENAI_API_KEY environment variable not set and secret not found",
				slog.String("path", secretKeyPath))
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		apiKey = strings.TrimSpace(string(keyBytes))
		logger.Info("read OpenAI API key from secret file")
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
		logger.Warn("OPENAI_MODEL not set, defaulting to gpt-4o-mini")
	}
	logger.Info("initializing OpenAI client", slog.String("model", model))

	return &Service{
		chat:   openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}, nil
}

// NewServiceWith wires a service around an arbitrary chat client.
func NewServiceWith(chat ChatClient, model string, logger *slog.Logger) *Service {
	return &Service{chat: chat, model: model, logger: logger}
}

// complete sends a system/user prompt pair and returns the first
// choice's content.
func (s *Service) complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	resp, err := s.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature:         temperature,
		MaxCompletionTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
