package insights

import (
	"encoding/json"
	"strings"

	"github.com/mosaic-docs/mosaic/internal/models"
)

// extractJSON pulls the outermost {...} object out of a model response, which
// may wrap the JSON in prose or a code fence.
func extractJSON(text string) (map[string]interface{}, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, false
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, false
	}
	return out, true
}

// parseSimilarity structures a similarity-analysis response, falling back to
// a generic shape when the model did not return valid JSON.
func parseSimilarity(text string) map[string]interface{} {
	if parsed, ok := extractJSON(text); ok {
		return parsed
	}
	return map[string]interface{}{
		"summary": "Analysis of document connections and relationships",
		"connections": []interface{}{
			map[string]interface{}{
				"title":        "Cross-Document Connection",
				"document":     "Various Documents",
				"snippet":      truncate(text, 200),
				"relationship": "Related concept found across documents",
				"strength":     "Medium",
				"type":         "supporting",
			},
		},
		"key_insights": []interface{}{
			"Multiple documents contain related concepts",
			"Cross-references suggest strong thematic connections",
		},
		"suggested_follow_up": "Explore related sections in connected documents",
	}
}

// parseInsights structures an insights response with a generic fallback.
func parseInsights(text string) map[string]interface{} {
	if parsed, ok := extractJSON(text); ok {
		return parsed
	}
	return map[string]interface{}{
		"summary": "AI-generated insights from document analysis",
		"insights": []interface{}{
			map[string]interface{}{
				"type":        "discovery",
				"title":       "Cross-Document Pattern",
				"description": truncate(text, 300),
				"evidence":    "Analysis of document content",
				"confidence":  75,
				"impact":      "Medium",
				"category":    "Pattern Recognition",
			},
		},
		"cross_document_analysis": map[string]interface{}{
			"agreements":    []interface{}{"Common themes identified"},
			"disagreements": []interface{}{"Varying perspectives noted"},
			"gaps":          []interface{}{"Additional research opportunities"},
			"evolution":     "Understanding develops across documents",
		},
		"actionable_recommendations": []interface{}{
			"Review highlighted connections for deeper insights",
			"Consider exploring related concepts in other documents",
		},
	}
}

// parsePodcastScript decodes the script JSON, normalizing speakers to
// "host"/"guest" and dropping empty segments.
func parsePodcastScript(text string) (*models.PodcastScript, bool) {
	raw, ok := extractJSON(text)
	if !ok {
		return nil, false
	}
	script := &models.PodcastScript{Title: "Podcast About Your Selection"}
	if title, ok := raw["title"].(string); ok && title != "" {
		script.Title = title
	}
	segments, _ := raw["segments"].([]interface{})
	for _, s := range segments {
		seg, ok := s.(map[string]interface{})
		if !ok {
			continue
		}
		speaker, _ := seg["speaker"].(string)
		speaker = strings.ToLower(strings.TrimSpace(speaker))
		if speaker != "host" && speaker != "guest" {
			if strings.Contains(speaker, "host") {
				speaker = "host"
			} else {
				speaker = "guest"
			}
		}
		body, _ := seg["text"].(string)
		body = strings.TrimSpace(body)
		if body == "" {
			continue
		}
		script.Segments = append(script.Segments, models.PodcastSegment{Speaker: speaker, Text: body})
	}
	if len(script.Segments) == 0 {
		return nil, false
	}
	return script, true
}
