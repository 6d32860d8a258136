// Package domain provides core business rules for the summarize bounded context.
package domain

// SummaryStyle selects which summary format the backend is asked to produce.
type SummaryStyle string

const (
	StyleExecutiveSummary SummaryStyle = "executive_summary"
	StyleBulletPoints     SummaryStyle = "bullet_points"
	StyleInDepthNarrative SummaryStyle = "in_depth_narrative"
)

var styleLabels = map[SummaryStyle]string{
	StyleExecutiveSummary: "Executive Summary",
	StyleBulletPoints:     "Bullet Points",
	StyleInDepthNarrative: "In-depth Narrative",
}

var styleInstructions = map[SummaryStyle]string{
	StyleExecutiveSummary: "Provide a concise, single-paragraph executive overview.",
	StyleBulletPoints:     "Provide a list of bullet points highlighting the key takeaways.",
	StyleInDepthNarrative: "Provide a more detailed, narrative-style summary with contextual insights.",
}

// Styles returns the supported styles in display order.
func Styles() []SummaryStyle {
	return []SummaryStyle{StyleExecutiveSummary, StyleBulletPoints, StyleInDepthNarrative}
}

// ParseStyle validates a style selector value.
func ParseStyle(value string) (SummaryStyle, bool) {
	style := SummaryStyle(value)
	_, ok := styleLabels[style]
	return style, ok
}

// Label returns the human-readable name for the style.
func (s SummaryStyle) Label() string {
	return styleLabels[s]
}

// Instruction returns the style's instruction sentence for the prompt.
func (s SummaryStyle) Instruction() string {
	return styleInstructions[s]
}

// IsValid reports whether the style is one of the supported selectors.
func (s SummaryStyle) IsValid() bool {
	_, ok := styleLabels[s]
	return ok
}
