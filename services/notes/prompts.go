package notes

import (
	"fmt"
	"strings"

	"github.com/akshatgupta/notetube/models"
)

const chunkSystemPrompt = "You are an expert note-taker who extracts ACTUAL content from video transcripts. " +
	"You NEVER use generic templates or placeholder content. You focus on the specific information, " +
	"concepts, and details presented in the video. Always preserve timestamp references and extract " +
	"real facts, explanations, and examples from the transcript."

const combineSystemPrompt = "You are an expert editor who combines and organizes notes into coherent documents."

const briefTemplate = `You are analyzing a video transcript to create study notes. Extract the ACTUAL content being taught, not generic templates.

IMPORTANT:
- Focus on the specific subject matter, concepts, and information presented in THIS video
- Do NOT use generic templates or placeholder content
- Extract real facts, explanations, and examples from the transcript
- If it's educational content, focus on what's being taught
- If it's a tutorial, focus on the steps and methods shown
- Include specific details, numbers, formulas, or examples mentioned

Create brief notes with:
- Main concepts actually discussed in the video
- Key facts and information presented
- Important examples or demonstrations shown
- Timestamp references for major points
- Bullet-point format for clarity

Do NOT create generic topic outlines. Extract the REAL content from this specific video.`

const mediumTemplate = `You are analyzing a video transcript to create comprehensive study notes. Extract the ACTUAL content being taught, not generic templates.

IMPORTANT:
- Focus on the specific subject matter, concepts, and information presented in THIS video
- Do NOT use generic templates or placeholder content
- Extract real facts, explanations, examples, and demonstrations from the transcript
- If it's educational content, capture what's being taught with details
- If it's a tutorial, document the actual steps and methods shown
- Include specific details, numbers, formulas, quotes, or examples mentioned

Create organized notes with:
- Main topics and concepts actually discussed
- Detailed explanations of ideas presented
- Specific examples, demonstrations, or case studies shown
- Important terminology and definitions given
- Step-by-step processes if applicable
- Hierarchical structure based on actual content flow
- Timestamp references for easy navigation
- Any visual elements or diagrams described

Do NOT create generic topic outlines. Extract and organize the REAL content from this specific video.`

const detailedTemplate = `You are analyzing a video transcript to create comprehensive, detailed study notes. Extract ALL the ACTUAL content being taught throughout the ENTIRE video.

CRITICAL REQUIREMENTS:
- Process the COMPLETE video transcript from start to finish
- Extract EVERY concept, explanation, example, and detail mentioned
- Do NOT use generic templates or placeholder content
- Focus on the specific subject matter presented in THIS video
- Include ALL timestamps with precise timing references
- Document the complete flow and progression of ideas

Create comprehensive detailed notes with:

**STRUCTURE REQUIREMENTS:**
- Clear hierarchical organization (Main Topics -> Subtopics -> Details)
- Every major concept gets its own section with timestamp
- Include ALL examples, demonstrations, and explanations
- Preserve the logical flow of the video content

**TIMESTAMP REQUIREMENTS:**
- Include timestamp [MM:SS] or [HH:MM:SS] for EVERY major point
- Add timestamps for topic transitions and key concepts
- Use the exact timestamps from the transcript
- Format: [MM:SS] or [HH:MM:SS] depending on video length

**CONTENT REQUIREMENTS:**
- Complete breakdown of ALL topics and concepts discussed
- Detailed explanations with full context from the video
- ALL examples, demonstrations, case studies, or applications shown
- Specific terminology, definitions, formulas, equations, or data mentioned
- Step-by-step processes with complete details
- Direct quotes of important statements or key phrases
- Visual elements, diagrams, or demonstrations described
- Background context and reasoning provided
- Connections between different concepts explained

**COVERAGE REQUIREMENTS:**
- Cover the ENTIRE video duration, not just portions
- Include introduction, main content, and conclusion
- Document all key learning objectives and takeaways
- Capture the complete educational value of the video

Do NOT create generic outlines. Extract and organize ALL the REAL content from this complete video with detailed timestamps.`

// DefaultTemplates returns the built-in instruction templates keyed by
// summary depth.
func DefaultTemplates() map[models.SummaryDepth]string {
	return map[models.SummaryDepth]string{
		models.DepthBrief:    briefTemplate,
		models.DepthMedium:   mediumTemplate,
		models.DepthDetailed: detailedTemplate,
	}
}

// buildChunkPrompt assembles the user prompt for one chunk: instruction
// template, video context, positional note, optional timestamp directive,
// then the transcript text.
func buildChunkPrompt(
	templates map[models.SummaryDepth]string,
	chunk string,
	settings models.Settings,
	index, total int,
	info models.VideoInfo,
) string {
	var b strings.Builder

	b.WriteString(templates[settings.SummaryDepth])
	b.WriteString("\n\n")

	if info.Title != "" {
		fmt.Fprintf(&b, "VIDEO TITLE: %q\n", info.Title)
		fmt.Fprintf(&b, "VIDEO URL: %s\n\n", info.URL)
		b.WriteString("This is a transcript from the above video. Extract the ACTUAL content being discussed, taught, or demonstrated in this specific video.\n\n")
	}

	if total > 1 {
		fmt.Fprintf(&b, "This is part %d of %d from the video transcript. Please focus on the content in this section while keeping in mind this is part of a larger video.\n\n", index+1, total)
	} else {
		b.WriteString("This is the COMPLETE transcript of the entire video. Please create comprehensive notes covering ALL the content presented in this video.\n\n")
	}

	if !settings.IncludeTimestamps {
		b.WriteString("Note: Remove timestamp references from the final notes.\n\n")
	}

	b.WriteString("VIDEO TRANSCRIPT:\n")
	b.WriteString(chunk)

	return b.String()
}

// buildCombinePrompt assembles the consolidation prompt for a
// multi-chunk run.
func buildCombinePrompt(combined string, info models.VideoInfo) string {
	return fmt.Sprintf(`You are combining detailed note sections from a complete video transcript into one comprehensive document.

CRITICAL REQUIREMENTS:
- Maintain ALL timestamp references exactly as provided
- Preserve ALL content - do not remove any details
- Create logical flow while keeping complete information
- Organize into clear hierarchical structure
- Remove only true duplicates, not similar content

Video Title: %s

Note sections to combine:
%s

Create a final comprehensive note document with:
1. Complete hierarchical structure (Main Topics -> Subtopics -> Details)
2. ALL timestamp references preserved [MM:SS] or [HH:MM:SS]
3. Logical topic grouping that follows the video's progression
4. ALL examples, explanations, and details maintained
5. Clear section headers and organization
6. No loss of educational content or context

IMPORTANT: This should be a complete, detailed study guide covering the entire video.`, info.Title, combined)
}
