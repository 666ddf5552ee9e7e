package llm

import (
	"fmt"
	"strings"

	"TopicBridge/internal/domain"
)

var languageNames = map[string]string{
	"en": "English",
	"zh": "Simplified Chinese",
}

func languageName(tag string) string {
	if name, ok := languageNames[strings.ToLower(tag)]; ok {
		return name
	}
	return languageNames["en"]
}

func readerContext(profile domain.Profile) string {
	if !profile.Personalized() {
		return "The reader has not shared a profile; write for a general audience."
	}
	var parts []string
	if profile.Age != "" {
		parts = append(parts, "age "+profile.Age)
	}
	if profile.Occupation != "" {
		parts = append(parts, "occupation "+profile.Occupation)
	}
	if profile.Education != "" {
		parts = append(parts, "education "+profile.Education)
	}
	return "Tailor the explanation to a reader with " + strings.Join(parts, ", ") + "."
}

func summaryPrompt(query string, profile domain.Profile) string {
	categories := make([]string, 0, len(domain.AllCategories))
	for _, c := range domain.AllCategories {
		categories = append(categories, string(c))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the news topic %q.\n", query)
	fmt.Fprintf(&b, "Respond in %s.\n", languageName(profile.Language))
	b.WriteString(readerContext(profile))
	b.WriteString("\nReturn a JSON object with keys: title, category (one of ")
	b.WriteString(strings.Join(categories, ", "))
	b.WriteString("), isInternational (bool), summary, whyMatters, newsNarrative, ")
	b.WriteString("facts (array of {content, confidence: High|Medium|Low}), dataCutoff, sourceCount (int), lastUpdated.")
	return b.String()
}

func deepDivePrompt(query string, rec domain.Record, profile domain.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Produce a deep analysis of %q.\n", query)
	fmt.Fprintf(&b, "Existing summary: %s\n", rec.Summary)
	fmt.Fprintf(&b, "Respond in %s.\n", languageName(profile.Language))
	b.WriteString(readerContext(profile))
	if profile.Membership == domain.MembershipPro {
		b.WriteString("\nExpert mode: cite mechanisms and data, assume domain literacy, and add extensions of type Academic.")
	}
	b.WriteString("\nReturn a JSON object with keys: controversyPrediction {score 0-100, riskLevel, reasoning}, ")
	b.WriteString("trendAnalysis (array of {date, sentiment -100..100, volume, event}), ")
	b.WriteString("missingIntel (array of {question, whyCritical, trustedSource}), ")
	b.WriteString("rolePlay {mode, roleName, context, rounds: [{situation, options: [{text, consequence}]}]}, ")
	b.WriteString("disciplinaryPerspectives (array of {discipline, insight}), divergenceRating (1-5), perspectiveSummary, ")
	b.WriteString("stakeholders (array of {id, name, x, y, fears, values, blindSpots, rationality}), ")
	b.WriteString("terms (array of {term, definition}), extensions (array of {title, description, type}).")
	return b.String()
}
