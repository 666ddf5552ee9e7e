package domain

// DiversityLevel is the reading-balance tier, ordered lowest to highest.
type DiversityLevel string

const (
	DiversityEchoChamber   DiversityLevel = "Echo Chamber"
	DiversityFilterBubble  DiversityLevel = "Filter Bubble"
	DiversityExplorer      DiversityLevel = "Explorer"
	DiversityBridgeBuilder DiversityLevel = "Bridge Builder"
)

// Rank orders tiers; higher means more even reading.
func (l DiversityLevel) Rank() int {
	switch l {
	case DiversityFilterBubble:
		return 1
	case DiversityExplorer:
		return 2
	case DiversityBridgeBuilder:
		return 3
	default:
		return 0
	}
}

// CategoryScore is one radar axis.
type CategoryScore struct {
	Subject  Category `json:"subject"`
	Score    int      `json:"score"`
	FullMark int      `json:"fullMark"`
}

// TopicRef projects a record for trend listings.
type TopicRef struct {
	Title    string   `json:"title"`
	Category Category `json:"category,omitempty"`
	Score    int      `json:"score,omitempty"`
}

// TrendInsight summarizes global themes next to the reader's own focus.
type TrendInsight struct {
	GlobalThemes     []TopicRef `json:"globalThemes"`
	UserTopTopics    []TopicRef `json:"userTopTopics"`
	UserFocusSummary string     `json:"userFocusSummary"`
	GlobalSummary    string     `json:"globalSummary"`
}

// Report is derived from history and favorites on every request.
type Report struct {
	RadarData        []CategoryScore `json:"radarData"`
	TotalReads       int             `json:"totalReads"`
	CocoonScore      int             `json:"cocoonScore"`
	BlindSpots       []Category      `json:"blindSpots"`
	DiversityLevel   DiversityLevel  `json:"diversityLevel"`
	RecommendedTopic *Category       `json:"recommendedTopic,omitempty"`
	TrendInsights    TrendInsight    `json:"trendInsights"`
}
