// Package domain contains the core domain types for the translation proxy.
package domain

import "encoding/json"

// DefaultTargetLanguage is used when a request omits targetLanguage.
const DefaultTargetLanguage = "en"

// AutoDetect asks the upstream to detect the source language.
const AutoDetect = "auto"

// TranslationRequest is the inbound payload.
type TranslationRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage,omitempty"`
}

// Pronunciation holds the upstream text-to-speech URLs.
type Pronunciation struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// TranslationResult is the normalized success payload.
type TranslationResult struct {
	TranslatedText string          `json:"translatedText"`
	SourceLanguage string          `json:"sourceLanguage"`
	TargetLanguage string          `json:"targetLanguage"`
	Pronunciation  Pronunciation   `json:"pronunciation"`
	Raw            json.RawMessage `json:"raw"`
}
