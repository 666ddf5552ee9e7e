package domain

// Category is one of the fixed interest buckets used for engagement scoring.
type Category string

const (
	CategoryPolicy        Category = "Policy"
	CategoryTech          Category = "Tech"
	CategoryEconomy       Category = "Economy"
	CategorySociety       Category = "Society"
	CategoryInternational Category = "International"
	CategoryScience       Category = "Science"
)

// HomeCategory is the reader's default bubble; views outside it count as outside-cocoon reads.
const HomeCategory = CategoryTech

// AllCategories lists the scored categories in report order.
var AllCategories = []Category{
	CategoryPolicy,
	CategoryTech,
	CategoryEconomy,
	CategorySociety,
	CategoryInternational,
	CategoryScience,
}

// Scored reports whether c is one of the fixed categories.
func (c Category) Scored() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Record is a topic analysis. Stage 1 fills the summary fields, stage 2 the DeepDive.
type Record struct {
	ID              string   `json:"id" yaml:"id"`
	Title           string   `json:"title" yaml:"title"`
	Category        Category `json:"category,omitempty" yaml:"category"`
	IsInternational bool     `json:"isInternational,omitempty" yaml:"isInternational"`
	Summary         string   `json:"summary" yaml:"summary"`
	WhyMatters      string   `json:"whyMatters" yaml:"whyMatters"`
	NewsNarrative   string   `json:"newsNarrative,omitempty" yaml:"newsNarrative"`
	Facts           []Fact   `json:"facts,omitempty" yaml:"facts"`
	DataCutoff      string   `json:"dataCutoff,omitempty" yaml:"dataCutoff"`
	SourceCount     int      `json:"sourceCount,omitempty" yaml:"sourceCount"`
	LastUpdated     string   `json:"lastUpdated,omitempty" yaml:"lastUpdated"`

	DeepDive `yaml:",inline"`
}

// Fact is a single verified statement with a confidence label.
type Fact struct {
	Content    string `json:"content" yaml:"content"`
	Confidence string `json:"confidence" yaml:"confidence"`
}

// DeepDive carries the stage-2 payload. Nil or empty fields mean "not provided".
type DeepDive struct {
	ControversyPrediction    *ControversyPrediction `json:"controversyPrediction,omitempty" yaml:"controversyPrediction"`
	TrendAnalysis            []TrendPoint           `json:"trendAnalysis,omitempty" yaml:"trendAnalysis"`
	MissingIntel             []MissingIntel         `json:"missingIntel,omitempty" yaml:"missingIntel"`
	RolePlay                 *RolePlay              `json:"rolePlay,omitempty" yaml:"rolePlay"`
	DisciplinaryPerspectives []Perspective          `json:"disciplinaryPerspectives,omitempty" yaml:"disciplinaryPerspectives"`
	DivergenceRating         *int                   `json:"divergenceRating,omitempty" yaml:"divergenceRating"`
	PerspectiveSummary       string                 `json:"perspectiveSummary,omitempty" yaml:"perspectiveSummary"`
	Stakeholders             []Stakeholder          `json:"stakeholders,omitempty" yaml:"stakeholders"`
	Terms                    []Term                 `json:"terms,omitempty" yaml:"terms"`
	Extensions               []Extension            `json:"extensions,omitempty" yaml:"extensions"`
}

// ControversyPrediction estimates how contested a topic will become.
type ControversyPrediction struct {
	Score     int    `json:"score" yaml:"score"`
	RiskLevel string `json:"riskLevel" yaml:"riskLevel"`
	Reasoning string `json:"reasoning" yaml:"reasoning"`
}

// TrendPoint is one sample on the sentiment/volume timeline.
type TrendPoint struct {
	Date      string `json:"date" yaml:"date"`
	Sentiment int    `json:"sentiment" yaml:"sentiment"`
	Volume    int    `json:"volume" yaml:"volume"`
	Event     string `json:"event,omitempty" yaml:"event"`
}

type MissingIntel struct {
	Question      string `json:"question" yaml:"question"`
	WhyCritical   string `json:"whyCritical" yaml:"whyCritical"`
	TrustedSource string `json:"trustedSource" yaml:"trustedSource"`
}

// RolePlay is an interactive dilemma built around the topic.
type RolePlay struct {
	Mode     string          `json:"mode" yaml:"mode"`
	RoleName string          `json:"roleName" yaml:"roleName"`
	Context  string          `json:"context" yaml:"context"`
	Rounds   []RolePlayRound `json:"rounds" yaml:"rounds"`
}

type RolePlayRound struct {
	Situation string           `json:"situation" yaml:"situation"`
	Options   []RolePlayOption `json:"options" yaml:"options"`
}

type RolePlayOption struct {
	Text        string `json:"text" yaml:"text"`
	Consequence string `json:"consequence" yaml:"consequence"`
}

type Perspective struct {
	Discipline string `json:"discipline" yaml:"discipline"`
	Insight    string `json:"insight" yaml:"insight"`
}

// Stakeholder is placed on the situation map by power (X) and interest (Y).
type Stakeholder struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	X           int    `json:"x" yaml:"x"`
	Y           int    `json:"y" yaml:"y"`
	Fears       string `json:"fears" yaml:"fears"`
	Values      string `json:"values" yaml:"values"`
	BlindSpots  string `json:"blindSpots" yaml:"blindSpots"`
	Rationality string `json:"rationality" yaml:"rationality"`
}

type Term struct {
	Term       string `json:"term" yaml:"term"`
	Definition string `json:"definition" yaml:"definition"`
}

type Extension struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type,omitempty" yaml:"type"`
}

// Merge shallow-merges patch on top of d: provided fields overwrite, absent ones are kept.
func (d DeepDive) Merge(patch DeepDive) DeepDive {
	if patch.ControversyPrediction != nil {
		d.ControversyPrediction = patch.ControversyPrediction
	}
	if patch.TrendAnalysis != nil {
		d.TrendAnalysis = patch.TrendAnalysis
	}
	if patch.MissingIntel != nil {
		d.MissingIntel = patch.MissingIntel
	}
	if patch.RolePlay != nil {
		d.RolePlay = patch.RolePlay
	}
	if patch.DisciplinaryPerspectives != nil {
		d.DisciplinaryPerspectives = patch.DisciplinaryPerspectives
	}
	if patch.DivergenceRating != nil {
		d.DivergenceRating = patch.DivergenceRating
	}
	if patch.PerspectiveSummary != "" {
		d.PerspectiveSummary = patch.PerspectiveSummary
	}
	if patch.Stakeholders != nil {
		d.Stakeholders = patch.Stakeholders
	}
	if patch.Terms != nil {
		d.Terms = patch.Terms
	}
	if patch.Extensions != nil {
		d.Extensions = patch.Extensions
	}
	return d
}

// Empty reports whether no stage-2 field is populated.
func (d DeepDive) Empty() bool {
	return d.ControversyPrediction == nil &&
		d.TrendAnalysis == nil &&
		d.MissingIntel == nil &&
		d.RolePlay == nil &&
		d.DisciplinaryPerspectives == nil &&
		d.DivergenceRating == nil &&
		d.PerspectiveSummary == "" &&
		d.Stakeholders == nil &&
		d.Terms == nil &&
		d.Extensions == nil
}

// Enrichment is emitted when stage 2 completes for RecordID.
type Enrichment struct {
	RecordID string
	Patch    DeepDive
}

// Apply returns rec with the patch merged when the IDs match.
func (e Enrichment) Apply(rec Record) (Record, bool) {
	if rec.ID != e.RecordID {
		return rec, false
	}
	rec.DeepDive = rec.DeepDive.Merge(e.Patch)
	return rec, true
}
