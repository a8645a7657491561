package insights

import (
	"fmt"
	"strings"

	"github.com/mosaic-docs/mosaic/internal/models"
)

const similarityPrompt = `You are an expert research assistant analyzing document connections. Your task is to find and explain meaningful connections between a selected text and similar content across a document library.

SELECTED TEXT:
"%s"

DOCUMENT CONTEXT:
%s

Provide a detailed similarity analysis in the following JSON format:

{
    "summary": "Brief overview of the connections found",
    "connections": [
        {
            "title": "Connection title (e.g., 'Supporting Evidence', 'Contradictory Finding')",
            "document": "Source document name",
            "snippet": "Relevant excerpt from the document",
            "relationship": "How this relates to the selected text",
            "strength": "High/Medium/Low",
            "type": "supporting/contradictory/example/extension"
        }
    ],
    "key_insights": ["Key insight 1", "Key insight 2"],
    "suggested_follow_up": "What the user might want to explore next"
}

Focus on semantic connections, methodological similarities, contradictory evidence, supporting evidence, and real-world applications. Be specific and cite exact snippets.`

const insightsPrompt = `You are an AI research analyst with deep expertise across multiple domains. Analyze the selected concept and generate intelligent insights by examining patterns, contradictions, and discoveries across the document library.

ANALYSIS TARGET:
"%s"

DOCUMENT CONTEXT:
%s

Generate comprehensive insights in this JSON format:

{
    "summary": "Executive summary of key findings",
    "insights": [
        {
            "type": "contradiction/pattern/discovery/opportunity",
            "title": "Insight title",
            "description": "Detailed explanation of the insight",
            "evidence": "Supporting evidence from documents",
            "confidence": 85,
            "impact": "High/Medium/Low",
            "category": "Research area category"
        }
    ],
    "cross_document_analysis": {
        "agreements": ["Points where documents agree"],
        "disagreements": ["Points where documents disagree"],
        "gaps": ["Missing information or research gaps"],
        "evolution": "How understanding has evolved across documents"
    },
    "actionable_recommendations": ["Specific recommendation 1", "Specific recommendation 2"]
}

Cover discoveries, contradictions, examples, key takeaways, research gaps, and trends. Be analytical, specific, and provide actionable intelligence.`

const summaryPrompt = `Provide a concise, informative summary of this text in 2-3 sentences:

%s

Focus on the main concepts, key findings, and core ideas.`

const podcastPrompt = `Create a 2-minute podcast script between two people discussing the given topic. Make it engaging, conversational, and educational.

REQUIREMENTS:
- Focus primarily on the selected text provided
- Use the related documents only as supporting context if relevant
- Natural dialogue between a host and an expert guest
- Approximately 300-350 words total
- Include transitions, questions, and a clear conclusion

SELECTED TEXT:
%s

%s

Return the script as JSON in this exact format:

{
    "title": "Podcast title",
    "segments": [
        {"speaker": "host", "text": "Opening statement"},
        {"speaker": "guest", "text": "Response"}
    ]
}

Alternate speakers naturally. The speaker field must be "host" or "guest". Do not include speaker names inside the text fields.`

// buildSimilarityContext renders search results into the prompt context block.
func buildSimilarityContext(results []*models.SearchResult) string {
	var b strings.Builder
	b.WriteString("=== DOCUMENT LIBRARY CONTEXT ===\n\n")
	for i, r := range results {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "DOCUMENT %d: %s\n", i+1, r.Metadata.Filename)
		fmt.Fprintf(&b, "Similarity: %.1f%%\n", r.SimilarityPercentage)
		fmt.Fprintf(&b, "Content: %s\n", truncate(r.Content, 500))
		fmt.Fprintf(&b, "Section: Chunk %d of %d\n\n", r.Metadata.ChunkIndex+1, r.Metadata.TotalChunks)
	}
	return b.String()
}

// buildInsightsContext renders search results plus a library overview.
func buildInsightsContext(selected string, results []*models.SearchResult, filenames []string) string {
	var b strings.Builder
	b.WriteString("=== SELECTED CONCEPT ===\n")
	b.WriteString(selected)
	b.WriteString("\n\n=== SIMILAR CONTENT ACROSS DOCUMENTS ===\n")
	for i, r := range results {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "MATCH %d (%.1f%% similar) - %s:\n%s\n\n",
			i+1, r.SimilarityPercentage, r.Metadata.Filename, truncate(r.Content, 400))
	}
	fmt.Fprintf(&b, "=== DOCUMENT LIBRARY OVERVIEW ===\n")
	fmt.Fprintf(&b, "Total documents in library: %d\n", len(filenames))
	shown := filenames
	if len(shown) > 10 {
		shown = shown[:10]
	}
	fmt.Fprintf(&b, "Document names: %s\n", strings.Join(shown, ", "))
	if len(filenames) > 10 {
		fmt.Fprintf(&b, "... and %d more documents\n", len(filenames)-10)
	}
	return b.String()
}

// buildPodcastContext renders related search results for the podcast prompt.
func buildPodcastContext(results []*models.SearchResult) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("RELATED DOCUMENTS:\n")
	for i, r := range results {
		if i >= 2 {
			break
		}
		fmt.Fprintf(&b, "%d. From %s (similarity: %.2f):\n%s\n",
			i+1, r.Metadata.Filename, r.SimilarityScore, truncate(r.Content, 500))
	}
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
