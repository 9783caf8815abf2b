package questionnaire

const (
	// LangEnglish donation language
	LangEnglish = "english"
	// LangArabic donation language
	LangArabic = "arabic"

	// ConditionNone is exclusive with all other conditions
	ConditionNone = "none"
	// ConditionOtherGeneral free text condition without severity
	ConditionOtherGeneral = "other_general"
	// FieldOtherGeneral specification key of ConditionOtherGeneral
	FieldOtherGeneral = "otherGeneralCondition"
)

// AgeGroups allowed age_group values
var AgeGroups = []string{"18-25", "26-35", "36-45", "46-55", "56-65", "66-75", "76+"}

// Severities allowed severity values
var Severities = []string{"mild", "medium", "severe"}

var otherConditions = map[string]bool{"respiratory_other": true, "mood_other": true, "voice_other": true}

// TaskMetadata is attached to questionnaire of a multi task donation
type TaskMetadata struct {
	TaskNumber int    `json:"task_number"`
	TaskType   string `json:"task_type"`
	TotalTasks int    `json:"total_tasks"`
	DonationID string `json:"donation_id"`
}

// Data is the collected questionnaire sent with every recording
type Data struct {
	DonationLanguage        string            `json:"donation_language" validate:"required,oneof=english arabic"`
	AgeGroup                string            `json:"age_group" validate:"required,oneof=18-25 26-35 36-45 46-55 56-65 66-75 76+"`
	NativeLanguage          *string           `json:"native_language"`
	ArabicDialect           *string           `json:"arabic_dialect"`
	HealthConditions        []string          `json:"health_conditions" validate:"required,min=1,unique,dive,required"`
	ConditionSeverities     map[string]string `json:"condition_severities" validate:"omitempty,dive,oneof=mild medium severe"`
	ConditionSpecifications map[string]string `json:"condition_specifications"`
	TaskMetadata            *TaskMetadata     `json:"task_metadata,omitempty"`
}

// WithTaskMetadata returns a shallow copy with metadata set
func (d *Data) WithTaskMetadata(md *TaskMetadata) *Data {
	res := *d
	res.TaskMetadata = md
	return &res
}

// RequiresSeverity tells if condition must have a severity selected
func RequiresSeverity(condition string) bool {
	return condition != ConditionNone && condition != ConditionOtherGeneral && !otherConditions[condition]
}

// SpecificationField returns key of the free text specification of the condition, empty if it has none
func SpecificationField(condition string) string {
	if condition == ConditionOtherGeneral {
		return FieldOtherGeneral
	}
	if otherConditions[condition] {
		return "specify_" + condition
	}
	return ""
}
