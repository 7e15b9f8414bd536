package config

import "time"

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewAuthForTest creates an Auth config for testing purposes
func NewAuthForTest(sessionSecret, noAuthEmail string, ttl time.Duration) *Auth {
	return &Auth{sessionSecret: sessionSecret, noAuthEmail: noAuthEmail, sessionTTL: ttl}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, sqlitePath string) *Repository {
	return &Repository{backend: backend, projectID: projectID, sqlitePath: sqlitePath}
}

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID string) *Slack {
	return &Slack{botToken: botToken, channelID: channelID}
}

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{projectID: projectID, location: location}
}
