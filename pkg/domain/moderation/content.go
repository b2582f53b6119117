package moderation

import (
	"errors"
	"time"
)

type AnalysisType string

const (
	AnalysisToxicity AnalysisType = "toxicity"
	AnalysisSpam     AnalysisType = "spam"
	AnalysisGeneral  AnalysisType = "general"
)

func (a AnalysisType) Valid() bool {
	switch a {
	case AnalysisToxicity, AnalysisSpam, AnalysisGeneral:
		return true
	}
	return false
}

type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
	ContentTypeLink  ContentType = "link"
)

// ContentItem is a single piece of user generated content entering the pipeline.
// EventID is the transport level identifier used when the message has to be redacted.
type ContentItem struct {
	ID        string      `json:"id"`
	EventID   string      `json:"event_id,omitempty"`
	Text      string      `json:"text"`
	AuthorID  string      `json:"author_id"`
	RoomID    string      `json:"room_id"`
	Type      ContentType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

func (c ContentItem) Validate() error {
	if c.ID == "" {
		return errors.New("content id is required")
	}
	if c.AuthorID == "" {
		return errors.New("author_id is required")
	}
	if c.RoomID == "" {
		return errors.New("room_id is required")
	}
	if c.Text == "" {
		return errors.New("text is required")
	}
	return nil
}
