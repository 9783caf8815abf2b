package questionnaire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestData_Validate(t *testing.T) {
	valid := func() *Data {
		return &Data{DonationLanguage: LangEnglish, AgeGroup: "18-25", HealthConditions: []string{"asthma"},
			ConditionSeverities: map[string]string{"asthma": "medium"}, ConditionSpecifications: map[string]string{}}
	}
	tests := []struct {
		name     string
		change   func(*Data)
		problems int
	}{
		{name: "OK", change: func(d *Data) {}, problems: 0},
		{name: "No language", change: func(d *Data) { d.DonationLanguage = "" }, problems: 1},
		{name: "Wrong language", change: func(d *Data) { d.DonationLanguage = "german" }, problems: 1},
		{name: "No age", change: func(d *Data) { d.AgeGroup = "" }, problems: 1},
		{name: "Wrong age", change: func(d *Data) { d.AgeGroup = "10-15" }, problems: 1},
		{name: "Age 76+", change: func(d *Data) { d.AgeGroup = "76+" }, problems: 0},
		{name: "No conditions", change: func(d *Data) {
			d.HealthConditions = []string{}
			d.ConditionSeverities = nil
		}, problems: 1},
		{name: "Nil conditions", change: func(d *Data) {
			d.HealthConditions = nil
			d.ConditionSeverities = nil
		}, problems: 1},
		{name: "Empty condition", change: func(d *Data) { d.HealthConditions = append(d.HealthConditions, "") }, problems: 1},
		{name: "Duplicate", change: func(d *Data) { d.HealthConditions = append(d.HealthConditions, "asthma") }, problems: 1},
		{name: "No severity", change: func(d *Data) { d.ConditionSeverities = nil }, problems: 1},
		{name: "Wrong severity", change: func(d *Data) { d.ConditionSeverities["asthma"] = "huge" }, problems: 1},
		{name: "Extra severity", change: func(d *Data) { d.ConditionSeverities["diabetes"] = "mild" }, problems: 1},
		{name: "None with others", change: func(d *Data) { d.HealthConditions = append(d.HealthConditions, ConditionNone) }, problems: 1},
		{name: "None", change: func(d *Data) {
			d.HealthConditions = []string{ConditionNone}
			d.ConditionSeverities = nil
		}, problems: 0},
		{name: "Other no spec", change: func(d *Data) { d.HealthConditions = append(d.HealthConditions, "respiratory_other") }, problems: 1},
		{name: "Other with spec", change: func(d *Data) {
			d.HealthConditions = append(d.HealthConditions, "respiratory_other")
			d.ConditionSpecifications["specify_respiratory_other"] = "cough"
		}, problems: 0},
		{name: "General no spec", change: func(d *Data) { d.HealthConditions = append(d.HealthConditions, ConditionOtherGeneral) }, problems: 1},
		{name: "General with spec", change: func(d *Data) {
			d.HealthConditions = append(d.HealthConditions, ConditionOtherGeneral)
			d.ConditionSpecifications[FieldOtherGeneral] = "migraine"
		}, problems: 0},
		{name: "Native for english", change: func(d *Data) { d.NativeLanguage = str("lithuanian") }, problems: 0},
		{name: "Dialect for english", change: func(d *Data) { d.ArabicDialect = str("gulf") }, problems: 1},
		{name: "Native for arabic", change: func(d *Data) {
			d.DonationLanguage = LangArabic
			d.NativeLanguage = str("lithuanian")
		}, problems: 1},
		{name: "Several", change: func(d *Data) {
			d.DonationLanguage = ""
			d.AgeGroup = ""
			d.ConditionSeverities = nil
		}, problems: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.change(d)
			err := d.Validate()
			if tt.problems == 0 {
				assert.Nil(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.problems, len(ve.Problems), "%v", ve.Problems)
		})
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Problems: []string{"a", "b"}}
	assert.Equal(t, "invalid questionnaire: a; b", err.Error())
}

func TestRequiresSeverity(t *testing.T) {
	assert.True(t, RequiresSeverity("asthma"))
	assert.False(t, RequiresSeverity(ConditionNone))
	assert.False(t, RequiresSeverity(ConditionOtherGeneral))
	assert.False(t, RequiresSeverity("mood_other"))
}

func TestSpecificationField(t *testing.T) {
	assert.Equal(t, "specify_voice_other", SpecificationField("voice_other"))
	assert.Equal(t, FieldOtherGeneral, SpecificationField(ConditionOtherGeneral))
	assert.Equal(t, "", SpecificationField("asthma"))
}
