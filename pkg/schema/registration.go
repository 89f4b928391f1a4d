package schema

import (
	"strconv"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Group identifiers of the registration form.
const (
	GroupJob      = "job"
	GroupFeedback = "feedback"
)

// RegistrationModel describes the dynamic registration form: personal
// details, a category that switches between job and feedback sections,
// agreement, a four character code, tags, a date range, attachments and
// repeatable experience entries.
func RegistrationModel() model.FormModel {
	return model.FormModel{
		ID:            "registration",
		Title:         "Form Demo",
		Discriminator: "category",
		Groups: []model.Group{
			{ID: GroupJob, Label: "Job", When: []string{"job"}},
			{ID: GroupFeedback, Label: "Feedback", When: []string{"feedback"}},
		},
		Fields: []model.Field{
			required("name", "Name", minLength(2, "Name must be at least 2 characters")),
			required("email", "Email", email("Enter a valid email address")),
			required("password", "Password", minLength(6, "Password must be at least 6 characters")),
			{Name: "tags", Label: "Multi add", Collector: model.CollectorTags, Presence: model.PresenceOptional},
			{
				Name:        "otp",
				Label:       "OTP",
				Collector:   model.CollectorCode,
				Presence:    model.PresenceRequired,
				Validations: []model.ValidationRule{exact(4, "OTP must be exactly 4 characters")},
			},
			{Name: "dateRange", Label: "Pick date", Collector: model.CollectorDateRange, Presence: model.PresenceOptional},
			{
				Name:     "files",
				Label:    "Upload file",
				Type:     model.FieldTypeArray,
				Format:   "file",
				Presence: model.PresenceOptional,
				Items:    &model.Field{Name: "file", Type: model.FieldTypeString},
			},
			{
				Name:     "experiences",
				Label:    "Experience",
				Type:     model.FieldTypeArray,
				Presence: model.PresenceOptional,
				Repeat:   &model.Repeat{Initial: 1},
				Items: &model.Field{
					Name: "experience",
					Type: model.FieldTypeObject,
					Nested: []model.Field{
						{Name: "company", Label: "Company", Type: model.FieldTypeString},
						{Name: "years", Label: "Years", Type: model.FieldTypeNumber},
					},
				},
			},
			withType(required("age", "Age", minLength(1, "Age is required")), model.FieldTypeNumber),
			withFormat(required("dob", "Date of birth", minLength(1, "Date of birth is required")), "date"),
			withEnum(required("maritalStatus", "Marital status", minLength(1, "Select marital status")), "single", "married"),
			withEnum(required("category", "Category", minLength(1, "Please select a category")), "job", "feedback"),
			grouped(model.Field{Name: "salary", Label: "Salary expectation", Type: model.FieldTypeNumber}, GroupJob),
			grouped(model.Field{Name: "experience", Label: "Experience (years)", Type: model.FieldTypeNumber}, GroupJob),
			grouped(model.Field{Name: "preferredShift", Label: "Preferred shift", Enum: []string{"day", "night"}}, GroupJob),
			grouped(model.Field{Name: "remote", Label: "Remote allowed?", Type: model.FieldTypeBoolean}, GroupJob),
			grouped(model.Field{Name: "feedbackType", Label: "Feedback type", Enum: []string{"suggestion", "issue", "complaint"}}, GroupFeedback),
			grouped(model.Field{Name: "severity", Label: "Severity", Enum: []string{"low", "medium", "high"}}, GroupFeedback),
			grouped(model.Field{Name: "extraInfo", Label: "Extra info", Format: "textarea"}, GroupFeedback),
			withFormat(required("skills", "Skills", minLength(3, "Enter at least 3 characters")), "textarea"),
			required("gender", "Gender", minLength(1, "Select your gender")),
			required("country", "Country", minLength(1, "Select a country")),
			required("city", "City", minLength(1, "City is required")),
			required("address", "Address", minLength(5, "Address must be at least 5 characters")),
			required("phone", "Phone", minLength(10, "Phone number must be at least 10 digits")),
			{
				Name:        "agree",
				Label:       "I agree to the terms",
				Type:        model.FieldTypeBoolean,
				Presence:    model.PresenceRequired,
				Validations: []model.ValidationRule{{Kind: model.ValidationRuleAccepted, Message: "You must accept the terms and conditions"}},
			},
		},
	}
}

// Registration returns the built registration schema.
func Registration(opts ...Option) *Schema {
	s, err := New(RegistrationModel(), opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func required(name, label string, rules ...model.ValidationRule) model.Field {
	return model.Field{
		Name:        name,
		Label:       label,
		Type:        model.FieldTypeString,
		Presence:    model.PresenceRequired,
		Validations: rules,
	}
}

func withType(field model.Field, typ model.FieldType) model.Field {
	field.Type = typ
	return field
}

func withFormat(field model.Field, format string) model.Field {
	field.Format = format
	return field
}

func withEnum(field model.Field, values ...string) model.Field {
	field.Enum = values
	return field
}

func grouped(field model.Field, group string) model.Field {
	if field.Type == "" {
		field.Type = model.FieldTypeString
	}
	field.Presence = model.PresenceOptional
	field.Group = group
	return field
}

func minLength(n int, message string) model.ValidationRule {
	return model.ValidationRule{Kind: model.ValidationRuleMinLength, Params: intParam(n), Message: message}
}

func exact(n int, message string) model.ValidationRule {
	return model.ValidationRule{Kind: model.ValidationRuleLength, Params: intParam(n), Message: message}
}

func email(message string) model.ValidationRule {
	return model.ValidationRule{Kind: model.ValidationRuleEmail, Message: message}
}

func intParam(n int) map[string]string {
	return map[string]string{"value": strconv.Itoa(n)}
}
