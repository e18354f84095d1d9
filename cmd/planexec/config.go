/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"

	"chainguard.dev/planexec/agents/model"
	"chainguard.dev/planexec/functions"
	"chainguard.dev/planexec/functions/email"
	"github.com/sethvargo/go-envconfig"
)

type config struct {
	GoogleAPIKey     string `env:"GOOGLE_API_KEY"`
	GoogleBaseURL    string `env:"GOOGLE_BASE_URL"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`

	PlannerModel  string `env:"PLANNER_MODEL,default=gemini-2.0-flash"`
	ExecutorModel string `env:"EXECUTOR_MODEL,default=gemini-2.0-flash"`

	FunctionsDir string `env:"FUNCTIONS_DIR,default=functions"`
	TaskFile     string `env:"TASK_FILE,default=perform_tasks.txt"`
	Timezone     string `env:"TIMEZONE,default=Asia/Kolkata"`

	EmailAddress  string `env:"EMAIL_ADDRESS"`
	EmailPassword string `env:"EMAIL_PASSWORD"`
	EmailTo       string `env:"EMAIL_TO"`
	SMTPHost      string `env:"SMTP_HOST,default=smtp.gmail.com"`
	SMTPPort      int    `env:"SMTP_PORT,default=465"`

	ImageQuality int `env:"IMAGE_QUALITY,default=80"`

	Port     int    `env:"PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func loadConfig(ctx context.Context, lookuper envconfig.Lookuper) (*config, error) {
	var cfg config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *config) models() model.Config {
	return model.Config{
		GoogleAPIKey:     c.GoogleAPIKey,
		GoogleBaseURL:    c.GoogleBaseURL,
		AnthropicAPIKey:  c.AnthropicAPIKey,
		AnthropicBaseURL: c.AnthropicBaseURL,
		OpenAIAPIKey:     c.OpenAIAPIKey,
		OpenAIBaseURL:    c.OpenAIBaseURL,
	}
}

func (c *config) functions() functions.Config {
	return functions.Config{
		Email: email.Config{
			Address:  c.EmailAddress,
			Password: c.EmailPassword,
			To:       c.EmailTo,
			Host:     c.SMTPHost,
			Port:     c.SMTPPort,
		},
		ImageQuality: c.ImageQuality,
	}
}
