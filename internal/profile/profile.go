// Package profile tracks per-child engagement: which keys get mashed,
// which sounds and images hold attention, and which extensions and themes
// work best. Profiles persist as one JSON file each and feed the
// suggestion logic used at session start.
package profile

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
	"unicode"
)

// Tuning constants for the online engagement estimates. The values come
// from observed toddler play patterns and are kept in one place so product
// review can adjust them without digging through update code.
const (
	// RapidWindow is the inter-keypress gap below which presses count as
	// rapid-succession engagement.
	RapidWindow = 2 * time.Second

	// MinBoost floors the engagement boost for near-2s gaps.
	MinBoost = 0.1

	// DefaultScore is the prior for any sound/image/extension/theme that
	// has no history yet.
	DefaultScore = 0.5

	// KeypressDecay and KeypressWeight define the per-keypress EMA.
	// Keypress observations are frequent, so the estimate moves slowly.
	KeypressDecay  = 0.9
	KeypressWeight = 0.1

	// SessionDecay and SessionWeight define the session-level EMA for
	// extensions and themes. Those observations are rare, so each one
	// moves the estimate faster.
	SessionDecay  = 0.8
	SessionWeight = 0.2

	// FavoriteCount is how many letters the favorites list keeps.
	FavoriteCount = 5

	// HistoryLimit bounds the session summary ring.
	HistoryLimit = 100
)

// SessionSummary is one entry in a profile's session history ring.
type SessionSummary struct {
	Date            time.Time `json:"date"`
	DurationSeconds int       `json:"duration_seconds"`
	EventCount      int       `json:"event_count"`
	Extension       string    `json:"extension"`
	Theme           string    `json:"theme"`
}

// Profile is the persisted engagement record for one child.
// Score map values stay in [0, 1]; counts stay non-negative.
type Profile struct {
	Name                 string             `json:"name"`
	Created              time.Time          `json:"created"`
	AgeMonths            *int               `json:"age_months"`
	TotalSessions        int                `json:"total_sessions"`
	TotalPlaytimeSeconds float64            `json:"total_playtime_seconds"`
	KeyCounts            map[string]int     `json:"key_counts"`
	SoundEngagement      map[string]float64 `json:"sound_engagement"`
	ImageEngagement      map[string]float64 `json:"image_engagement"`
	ExtensionEngagement  map[string]float64 `json:"extension_engagement"`
	ThemeEngagement      map[string]float64 `json:"theme_engagement"`
	FavoriteLetters      []string           `json:"favorite_letters"`
	SessionHistory       []SessionSummary   `json:"session_history"`
	LastSession          *time.Time         `json:"last_session"`
}

// NewProfile creates an empty profile for the given display name.
func NewProfile(name string) *Profile {
	return &Profile{
		Name:                name,
		Created:             time.Now(),
		KeyCounts:           make(map[string]int),
		SoundEngagement:     make(map[string]float64),
		ImageEngagement:     make(map[string]float64),
		ExtensionEngagement: make(map[string]float64),
		ThemeEngagement:     make(map[string]float64),
		FavoriteLetters:     []string{},
		SessionHistory:      []SessionSummary{},
	}
}

// FileKey normalizes a profile name into a stable file-safe key:
// lowercased, trimmed, spaces replaced with underscores.
func FileKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(key, " ", "_")
}

// decodeProfile parses persisted profile JSON, recovering field by field.
// A field that cannot be parsed falls back to its default instead of
// failing the whole profile, so a damaged file still loads and heals on
// the next save.
func decodeProfile(data []byte, name string) *Profile {
	p := NewProfile(name)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return p
	}

	tryString := func(key string, dst *string) {
		if msg, ok := raw[key]; ok {
			var v string
			if json.Unmarshal(msg, &v) == nil && v != "" {
				*dst = v
			}
		}
	}
	tryTime := func(key string, dst *time.Time) {
		if msg, ok := raw[key]; ok {
			var v time.Time
			if json.Unmarshal(msg, &v) == nil {
				*dst = v
			}
		}
	}
	tryScores := func(key string, dst map[string]float64) {
		if msg, ok := raw[key]; ok {
			var v map[string]float64
			if json.Unmarshal(msg, &v) == nil {
				for id, score := range v {
					dst[id] = clampScore(score)
				}
			}
		}
	}

	tryString("name", &p.Name)
	tryTime("created", &p.Created)

	if msg, ok := raw["age_months"]; ok {
		var v *int
		if json.Unmarshal(msg, &v) == nil && v != nil && *v >= 0 {
			p.AgeMonths = v
		}
	}
	if msg, ok := raw["total_sessions"]; ok {
		var v int
		if json.Unmarshal(msg, &v) == nil && v >= 0 {
			p.TotalSessions = v
		}
	}
	if msg, ok := raw["total_playtime_seconds"]; ok {
		var v float64
		if json.Unmarshal(msg, &v) == nil && v >= 0 {
			p.TotalPlaytimeSeconds = v
		}
	}
	if msg, ok := raw["key_counts"]; ok {
		var v map[string]int
		if json.Unmarshal(msg, &v) == nil {
			for key, count := range v {
				if count > 0 {
					p.KeyCounts[key] = count
				}
			}
		}
	}

	tryScores("sound_engagement", p.SoundEngagement)
	tryScores("image_engagement", p.ImageEngagement)
	tryScores("extension_engagement", p.ExtensionEngagement)
	tryScores("theme_engagement", p.ThemeEngagement)

	if msg, ok := raw["favorite_letters"]; ok {
		var v []string
		if json.Unmarshal(msg, &v) == nil {
			for _, letter := range v {
				if len(p.FavoriteLetters) >= FavoriteCount {
					break
				}
				if isLetterKey(letter) {
					p.FavoriteLetters = append(p.FavoriteLetters, letter)
				}
			}
		}
	}
	if msg, ok := raw["session_history"]; ok {
		var v []SessionSummary
		if json.Unmarshal(msg, &v) == nil {
			if len(v) > HistoryLimit {
				v = v[len(v)-HistoryLimit:]
			}
			p.SessionHistory = v
		}
	}
	if msg, ok := raw["last_session"]; ok {
		var v *time.Time
		if json.Unmarshal(msg, &v) == nil {
			p.LastSession = v
		}
	}

	return p
}

// updateFavorites recomputes the top letter keys by press count.
// Ties break by key ordering so the result is stable.
func (p *Profile) updateFavorites() {
	type letterCount struct {
		key   string
		count int
	}
	letters := make([]letterCount, 0, len(p.KeyCounts))
	for key, count := range p.KeyCounts {
		if isLetterKey(key) {
			letters = append(letters, letterCount{key, count})
		}
	}
	sort.Slice(letters, func(i, j int) bool {
		if letters[i].count == letters[j].count {
			return letters[i].key < letters[j].key
		}
		return letters[i].count > letters[j].count
	})

	n := FavoriteCount
	if n > len(letters) {
		n = len(letters)
	}
	favorites := make([]string, 0, n)
	for i := 0; i < n; i++ {
		favorites = append(favorites, letters[i].key)
	}
	p.FavoriteLetters = favorites
}

func isLetterKey(key string) bool {
	runes := []rune(key)
	return len(runes) == 1 && unicode.IsLetter(runes[0])
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
