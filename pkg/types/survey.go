// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Manifest records the parameters and outputs of one survey run. It is
// written next to the markdown artifacts.
type Manifest struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	Topic     string    `json:"topic" yaml:"topic"`
	Model     string    `json:"model" yaml:"model"`
	Provider  string    `json:"provider" yaml:"provider"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Duration  string    `json:"duration" yaml:"duration"`

	Sections    int `json:"sections" yaml:"sections"`
	Subsections int `json:"subsections" yaml:"subsections"`
	References  int `json:"references" yaml:"references"`

	InputTokens  int `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int `json:"output_tokens" yaml:"output_tokens"`

	// Artifacts lists the file names written for this run.
	Artifacts []string `json:"artifacts" yaml:"artifacts"`
}
