package gemini

import (
	"encoding/json"
	"strings"

	"github.com/snapsong-labs/snapsong/internal/core/domain"
)

// ParseCandidates extracts candidate songs from a model reply. The reply is
// usually the JSON envelope the prompt asks for, but model output drifts, so
// parsing is best-effort: a fenced block is unwrapped, a labeled-line layout
// is accepted as fallback, and any block missing a title or artist is
// skipped rather than failing the whole reply. The second return value is
// the number of skipped blocks.
func ParseCandidates(raw string) ([]domain.CandidateSong, int) {
	text := stripCodeFence(strings.TrimSpace(raw))

	if songs, skipped, ok := parseJSONReply(text); ok {
		return songs, skipped
	}

	return parseLabeledLines(text)
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		// Drop the language tag line ("json", "JSON", ...).
		first := strings.TrimSpace(text[:idx])
		if len(first) <= 8 {
			text = text[idx+1:]
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func parseJSONReply(text string) ([]domain.CandidateSong, int, bool) {
	payload := sliceJSONPayload(text)
	if payload == "" {
		return nil, 0, false
	}

	var entries []map[string]any

	var envelope struct {
		Songs []map[string]any `json:"songs"`
	}
	if err := json.Unmarshal([]byte(payload), &envelope); err == nil && envelope.Songs != nil {
		entries = envelope.Songs
	} else {
		var list []map[string]any
		if err := json.Unmarshal([]byte(payload), &list); err != nil {
			// A single bare object is still acceptable.
			var single map[string]any
			if err := json.Unmarshal([]byte(payload), &single); err != nil || len(single) == 0 {
				return nil, 0, false
			}
			list = []map[string]any{single}
		}
		entries = list
	}

	songs := make([]domain.CandidateSong, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		title := firstString(entry, "Song_title", "song_title", "title", "name")
		artist := firstString(entry, "Artist", "artist")
		if title == "" || artist == "" {
			skipped++
			continue
		}
		songs = append(songs, domain.CandidateSong{
			Title:   title,
			Artist:  artist,
			Summary: firstString(entry, "Summary", "summary", "reason", "rationale"),
		})
	}

	return songs, skipped, true
}

// sliceJSONPayload cuts the outermost JSON value out of surrounding prose.
func sliceJSONPayload(text string) string {
	start := strings.IndexAny(text, "{[")
	if start == -1 {
		return ""
	}

	closer := byte('}')
	if text[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(text, closer)
	if end <= start {
		return ""
	}

	return text[start : end+1]
}

func firstString(entry map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := entry[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	// Case-insensitive sweep for drifted key casing.
	for _, key := range keys {
		for k, v := range entry {
			if strings.EqualFold(k, key) {
				if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s)
				}
			}
		}
	}
	return ""
}

// parseLabeledLines handles replies shaped like:
//
//	1. Song title: Yellow
//	   Artist: Coldplay
//	   Summary: ...
func parseLabeledLines(text string) ([]domain.CandidateSong, int) {
	var songs []domain.CandidateSong
	skipped := 0

	var current domain.CandidateSong
	var open bool

	flush := func() {
		if !open {
			return
		}
		if current.Title != "" && current.Artist != "" {
			songs = append(songs, current)
		} else {
			skipped++
		}
		current = domain.CandidateSong{}
		open = false
	}

	for _, line := range strings.Split(text, "\n") {
		line = cleanLabelLine(line)
		if line == "" {
			continue
		}

		switch label, value := splitLabel(line); label {
		case "song_title", "song title", "title", "song":
			if current.Title != "" {
				flush()
			}
			current.Title = value
			open = true
		case "artist", "by":
			current.Artist = value
			open = true
		case "summary", "why", "reason":
			current.Summary = value
			open = true
		}
	}
	flush()

	return songs, skipped
}

func cleanLabelLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*•> ")
	line = strings.ReplaceAll(line, "**", "")
	// Strip "1." / "2)" numbering prefixes.
	for len(line) > 0 && line[0] >= '0' && line[0] <= '9' {
		line = line[1:]
	}
	line = strings.TrimLeft(line, ".) ")
	return strings.TrimSpace(line)
}

func splitLabel(line string) (string, string) {
	idx := strings.IndexByte(line, ':')
	if idx <= 0 {
		return "", ""
	}
	label := strings.ToLower(strings.TrimSpace(line[:idx]))
	value := strings.TrimSpace(line[idx+1:])
	return label, value
}
