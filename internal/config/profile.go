package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"daily-summary/internal/domain/entity"
)

// ReportProfile describes a recurring report. Every field is optional; unset
// fields fall back to the environment configuration, and the accessors
// accept a nil profile.
//
//	subject_prefix: "[Ops Daily]"
//	language: auto
//	channels: {email: true, telegram: false}
//	inputs:
//	  - daily.txt
//	  - feed:https://example.com/rss
type ReportProfile struct {
	SubjectPrefix string           `yaml:"subject_prefix"`
	Language      string           `yaml:"language"`
	Channels      *ProfileChannels `yaml:"channels"`
	Inputs        []string         `yaml:"inputs"`
}

// ProfileChannels selects delivery channels.
type ProfileChannels struct {
	Email    bool `yaml:"email"`
	Telegram bool `yaml:"telegram"`
}

// LoadReportProfile reads and validates the YAML profile at path. Unknown
// keys are rejected so a typo does not silently fall back to the defaults.
// The path comes from REPORT_PROFILE or a CLI flag.
func LoadReportProfile(path string) (*ReportProfile, error) {
	// #nosec G304 -- path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report profile: %w", err)
	}
	return ParseReportProfile(data)
}

// ParseReportProfile decodes and validates a profile document.
func ParseReportProfile(data []byte) (*ReportProfile, error) {
	var profile ReportProfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&profile); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse report profile: %w", err)
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Validate checks the language and the input list.
func (p *ReportProfile) Validate() error {
	if _, err := entity.ParseLanguage(p.Language); err != nil {
		return err
	}
	if p.Inputs != nil && len(p.Sources(nil)) == 0 {
		return &entity.ValidationError{Field: "inputs", Message: "input list is empty"}
	}
	return nil
}

// LanguageValue returns the parsed output language; "" and "auto" mean
// detection.
func (p *ReportProfile) LanguageValue() entity.Language {
	if p == nil {
		return entity.LanguageAuto
	}
	lang, _ := entity.ParseLanguage(p.Language)
	return lang
}

// Sources returns the non-blank inputs, or fallback when the profile lists
// none.
func (p *ReportProfile) Sources(fallback []string) []string {
	if p == nil {
		return fallback
	}
	var out []string
	for _, in := range p.Inputs {
		if s := strings.TrimSpace(in); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// Prefix returns the profile's subject prefix or fallback.
func (p *ReportProfile) Prefix(fallback string) string {
	if p == nil {
		return fallback
	}
	if s := strings.TrimSpace(p.SubjectPrefix); s != "" {
		return s
	}
	return fallback
}

// Select returns the profile's channels, or email and telegram as given when
// the profile does not set them.
func (p *ReportProfile) Select(email, telegram bool) (bool, bool) {
	if p == nil || p.Channels == nil {
		return email, telegram
	}
	return p.Channels.Email, p.Channels.Telegram
}
