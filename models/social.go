package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Platform identifies a social media provider
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformBluesky   Platform = "bluesky"
)

// SocialPost is the common shape every provider payload is normalized into
type SocialPost struct {
	ID        string     `json:"id"`
	Platform  Platform   `json:"platform"`
	Text      string     `json:"text,omitempty"`
	MediaURL  string     `json:"mediaUrl,omitempty"`
	Permalink string     `json:"permalink"`
	Timestamp *Timestamp `json:"timestamp,omitempty"`
	Author    string     `json:"author,omitempty"`
	Lang      string     `json:"lang,omitempty"`
}

type FeedResponse struct {
	Posts []SocialPost `json:"posts"`
}

// Timestamp keeps a post time the way the provider sent it, either an
// ISO-8601 string or a numeric epoch value. Any other JSON value is kept as
// an invalid timestamp that resolves to 0.
type Timestamp struct {
	iso     string
	epoch   float64
	numeric bool
	invalid bool
}

func TimestampFromString(s string) *Timestamp {
	return &Timestamp{iso: s}
}

func TimestampFromEpoch(v float64) *Timestamp {
	return &Timestamp{epoch: v, numeric: true}
}

func TimestampFromTime(t time.Time) *Timestamp {
	return &Timestamp{iso: t.UTC().Format(time.RFC3339)}
}

// Layouts accepted for string timestamps, tried in order
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02",
}

// Resolve returns the value used for ordering: milliseconds since the epoch
// for string timestamps, the raw number for numeric ones, and 0 when the
// timestamp is absent or cannot be parsed to a finite value.
func (t *Timestamp) Resolve() float64 {
	if t == nil || t.invalid {
		return 0
	}
	if t.numeric {
		if math.IsNaN(t.epoch) || math.IsInf(t.epoch, 0) {
			return 0
		}
		return t.epoch
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, t.iso); err == nil {
			return float64(parsed.UnixMilli())
		}
	}
	return 0
}

func (t *Timestamp) String() string {
	if t == nil || t.invalid {
		return ""
	}
	if t.numeric {
		return strconv.FormatFloat(t.epoch, 'f', -1, 64)
	}
	return t.iso
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.invalid {
		return []byte("null"), nil
	}
	if t.numeric {
		if math.IsNaN(t.epoch) || math.IsInf(t.epoch, 0) {
			return []byte("null"), nil
		}
		return []byte(strconv.FormatFloat(t.epoch, 'f', -1, 64)), nil
	}
	return json.Marshal(t.iso)
}

// UnmarshalJSON never fails: a value that is neither a string nor a finite
// number leaves the post in the feed with an unresolvable timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*t = Timestamp{invalid: true}
			return nil
		}
		*t = Timestamp{iso: s}
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*t = Timestamp{invalid: true}
		return nil
	}
	*t = Timestamp{epoch: v, numeric: true}
	return nil
}
