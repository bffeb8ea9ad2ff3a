package model

// QuestionType enumerates the closed set of question kinds a survey schema
// may declare. Unknown types are rejected at load time.
type QuestionType string

const (
	QuestionTypeText        QuestionType = "text"
	QuestionTypeTextarea    QuestionType = "textarea"
	QuestionTypeNumber      QuestionType = "number"
	QuestionTypeRadio       QuestionType = "radio"
	QuestionTypeCheckbox    QuestionType = "checkbox"
	QuestionTypeSelect      QuestionType = "select"
	QuestionTypeTable       QuestionType = "table"
	QuestionTypeRepeatable  QuestionType = "repeatable"
	QuestionTypePercentage  QuestionType = "percentage"
	QuestionTypeGroup       QuestionType = "group"
	QuestionTypeRating      QuestionType = "rating"
	QuestionTypeRatingTable QuestionType = "rating-table"
)

// Valid reports whether t names a supported question type.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeText, QuestionTypeTextarea, QuestionTypeNumber,
		QuestionTypeRadio, QuestionTypeCheckbox, QuestionTypeSelect,
		QuestionTypeTable, QuestionTypeRepeatable, QuestionTypePercentage,
		QuestionTypeGroup, QuestionTypeRating, QuestionTypeRatingTable:
		return true
	}
	return false
}

// DefaultMaxItems caps repeatable questions that do not declare their own
// limit.
const DefaultMaxItems = 10

// Option is a selectable choice for radio, checkbox and select questions.
// HasTextField marks options that carry a free-text companion input.
type Option struct {
	Value                string `json:"value" yaml:"value"`
	Label                string `json:"label" yaml:"label"`
	HasTextField         bool   `json:"hasTextField,omitempty" yaml:"hasTextField,omitempty"`
	TextFieldPlaceholder string `json:"textFieldPlaceholder,omitempty" yaml:"textFieldPlaceholder,omitempty"`
}

// Field describes one named input inside group, percentage and repeatable
// questions. Required is only consulted for group questions, where the
// required verdict is taken at the question level.
type Field struct {
	Key         string `json:"key" yaml:"key"`
	Label       string `json:"label" yaml:"label"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Unit        string `json:"unit,omitempty" yaml:"unit,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// Column describes a table question column. Readonly columns are never
// editable; cells prefilled by the schema row stay fixed as well.
type Column struct {
	Key         string `json:"key" yaml:"key"`
	Label       string `json:"label" yaml:"label"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Readonly    bool   `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// Scale configures rating-table questions: ratings run 1..Max, with optional
// per-step labels and an opt-in "N/A" column.
type Scale struct {
	Max       int            `json:"max" yaml:"max"`
	Labels    map[int]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	IncludeNA bool           `json:"includeNA,omitempty" yaml:"includeNA,omitempty"`
}

// RatingItem is one rateable entry of a rating question.
type RatingItem struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// RatingCategory groups rating-table factors under a display heading.
type RatingCategory struct {
	Name    string       `json:"name" yaml:"name"`
	Factors []RatingItem `json:"factors" yaml:"factors"`
}

// Question is the static description of one survey input. Type-specific
// parameters are populated according to Type; the rest stay zero.
type Question struct {
	ID          string       `json:"id" yaml:"id"`
	Type        QuestionType `json:"type" yaml:"type"`
	Label       string       `json:"label" yaml:"label"`
	Required    bool         `json:"required,omitempty" yaml:"required,omitempty"`
	Note        string       `json:"note,omitempty" yaml:"note,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder string       `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`

	// number
	Min  string `json:"min,omitempty" yaml:"min,omitempty"`
	Max  string `json:"max,omitempty" yaml:"max,omitempty"`
	Step string `json:"step,omitempty" yaml:"step,omitempty"`
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`

	// textarea
	Rows int `json:"rows,omitempty" yaml:"rows,omitempty"`

	// radio, checkbox, select
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`

	// group, percentage, repeatable
	Fields   []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
	MaxItems int     `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`

	// table
	Columns   []Column            `json:"columns,omitempty" yaml:"columns,omitempty"`
	TableRows []map[string]string `json:"rows,omitempty" yaml:"rows,omitempty"`

	// rating, rating-table
	Items      []RatingItem     `json:"items,omitempty" yaml:"items,omitempty"`
	Scale      *Scale           `json:"scale,omitempty" yaml:"scale,omitempty"`
	Categories []RatingCategory `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// ItemLimit returns the repeatable cap, falling back to DefaultMaxItems.
func (q Question) ItemLimit() int {
	if q.MaxItems > 0 {
		return q.MaxItems
	}
	return DefaultMaxItems
}

// ScaleMax returns the upper rating bound. Plain rating questions without an
// explicit scale use 1..5.
func (q Question) ScaleMax() int {
	if q.Scale != nil && q.Scale.Max > 0 {
		return q.Scale.Max
	}
	return 5
}

// AllowsNA reports whether the question accepts the "N/A" rating sentinel.
// Plain rating questions always expose it; rating tables opt in per scale.
func (q Question) AllowsNA() bool {
	if q.Type == QuestionTypeRating {
		return true
	}
	return q.Scale != nil && q.Scale.IncludeNA
}

// RatingKeys returns the item keys a rating or rating-table answer may use,
// in schema order.
func (q Question) RatingKeys() []string {
	if q.Type == QuestionTypeRating {
		keys := make([]string, 0, len(q.Items))
		for _, item := range q.Items {
			keys = append(keys, item.Key)
		}
		return keys
	}
	var keys []string
	for _, cat := range q.Categories {
		for _, factor := range cat.Factors {
			keys = append(keys, factor.Key)
		}
	}
	return keys
}

// Section is an ordered group of questions presented as one form step.
type Section struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Question looks up a question by id within the section.
func (s Section) Question(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Schema is the immutable survey description driving form rendering,
// validation, flattening and column ordering.
type Schema struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title,omitempty" yaml:"title,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Sections    []Section `json:"sections" yaml:"sections"`

	// Labels maps question ids to spreadsheet column labels. Ids without an
	// entry fall back to DeriveLabel.
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`

	// ColumnOrder is the preferred column order applied when the tabular
	// store is seeded by the first submission.
	ColumnOrder []string `json:"columnOrder,omitempty" yaml:"columnOrder,omitempty"`
}

// Section looks up a section by id.
func (s Schema) Section(id string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.ID == id {
			return sec, true
		}
	}
	return Section{}, false
}

// SectionIndex returns the position of a section id, or -1.
func (s Schema) SectionIndex(id string) int {
	for i, sec := range s.Sections {
		if sec.ID == id {
			return i
		}
	}
	return -1
}

// Question looks up a question by id across all sections.
func (s Schema) Question(id string) (Question, bool) {
	for _, sec := range s.Sections {
		if q, ok := sec.Question(id); ok {
			return q, true
		}
	}
	return Question{}, false
}

// Label resolves the column label for a question id: the explicit dictionary
// entry when present, a derived label otherwise.
func (s Schema) Label(questionID string) string {
	if label, ok := s.Labels[questionID]; ok {
		return label
	}
	return DeriveLabel(questionID)
}
