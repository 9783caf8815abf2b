package questionnaire

import (
	"strings"
)

// Form keeps questionnaire state as the user fills it
type Form struct {
	donationLanguage string
	ageGroup         string
	nativeLanguage   string
	arabicDialect    string
	conditions       []string
	severities       map[string]string
	specifications   map[string]string
}

// Snapshot is a full form state sent by the page
type Snapshot struct {
	DonationLanguage string            `json:"donationLanguage"`
	AgeGroup         string            `json:"ageGroup"`
	NativeLanguage   string            `json:"nativeLanguage"`
	ArabicDialect    string            `json:"arabicDialect"`
	Conditions       []string          `json:"conditions"`
	Severities       map[string]string `json:"severities"`
	Specifications   map[string]string `json:"specifications"`
}

// NewForm creates empty form
func NewForm() *Form {
	res := &Form{}
	res.Reset()
	return res
}

// Reset clears all inputs
func (f *Form) Reset() {
	*f = Form{severities: map[string]string{}, specifications: map[string]string{}}
}

// SetDonationLanguage sets language and clears the language dependent inputs
func (f *Form) SetDonationLanguage(lang string) {
	if f.donationLanguage == lang {
		return
	}
	f.donationLanguage = lang
	f.nativeLanguage = ""
	f.arabicDialect = ""
}

// SetAgeGroup sets age group
func (f *Form) SetAgeGroup(v string) {
	f.ageGroup = v
}

// SetNativeLanguage sets native language, used for english donations
func (f *Form) SetNativeLanguage(v string) {
	f.nativeLanguage = v
}

// SetArabicDialect sets dialect, used for arabic donations
func (f *Form) SetArabicDialect(v string) {
	f.arabicDialect = v
}

// SetCondition checks or unchecks a health condition
func (f *Form) SetCondition(id string, checked bool) {
	if id == "" {
		return
	}
	if !checked {
		f.uncheck(id)
		return
	}
	if f.has(id) {
		return
	}
	if id == ConditionNone {
		for _, c := range append([]string{}, f.conditions...) {
			f.uncheck(c)
		}
	} else {
		f.uncheck(ConditionNone)
	}
	f.conditions = append(f.conditions, id)
}

// SetSeverity sets severity of a checked condition, ignored for others
func (f *Form) SetSeverity(condition, severity string) {
	if !f.has(condition) || !RequiresSeverity(condition) {
		return
	}
	if severity == "" {
		delete(f.severities, condition)
		return
	}
	f.severities[condition] = severity
}

// SetSpecification sets free text input by its field id, ignored if its condition is not checked
func (f *Form) SetSpecification(field, text string) {
	if !f.specificationAllowed(field) {
		return
	}
	f.specifications[field] = text
}

// Apply replaces form state with the snapshot, following the same rules as single edits
func (f *Form) Apply(s *Snapshot) {
	f.Reset()
	f.SetDonationLanguage(s.DonationLanguage)
	f.SetAgeGroup(s.AgeGroup)
	f.SetNativeLanguage(s.NativeLanguage)
	f.SetArabicDialect(s.ArabicDialect)
	for _, c := range s.Conditions {
		f.SetCondition(c, true)
	}
	for c, v := range s.Severities {
		f.SetSeverity(c, v)
	}
	for k, v := range s.Specifications {
		f.SetSpecification(k, v)
	}
}

// Conditions returns checked conditions in the order they were checked
func (f *Form) Conditions() []string {
	return append([]string{}, f.conditions...)
}

// Validate validates collected data
func (f *Form) Validate() error {
	return f.Collect().Validate()
}

// Collect builds questionnaire data from the form
func (f *Form) Collect() *Data {
	res := &Data{
		DonationLanguage:        f.donationLanguage,
		AgeGroup:                f.ageGroup,
		HealthConditions:        f.Conditions(),
		ConditionSeverities:     map[string]string{},
		ConditionSpecifications: map[string]string{},
	}
	if f.donationLanguage == LangEnglish {
		res.NativeLanguage = strPtr(f.nativeLanguage)
	}
	if f.donationLanguage == LangArabic {
		res.ArabicDialect = strPtr(f.arabicDialect)
	}
	for _, c := range f.conditions {
		if v := f.severities[c]; v != "" && RequiresSeverity(c) {
			res.ConditionSeverities[c] = v
		}
		if fld := SpecificationField(c); fld != "" {
			if v := strings.TrimSpace(f.specifications[fld]); v != "" {
				res.ConditionSpecifications[fld] = v
			}
		}
	}
	return res
}

func (f *Form) has(id string) bool {
	for _, c := range f.conditions {
		if c == id {
			return true
		}
	}
	return false
}

func (f *Form) uncheck(id string) {
	for i, c := range f.conditions {
		if c == id {
			f.conditions = append(f.conditions[:i], f.conditions[i+1:]...)
			break
		}
	}
	delete(f.severities, id)
	if fld := SpecificationField(id); fld != "" {
		delete(f.specifications, fld)
	}
}

func (f *Form) specificationAllowed(field string) bool {
	for _, c := range f.conditions {
		if SpecificationField(c) == field {
			return true
		}
	}
	return false
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
