// Package forms parses the support and survey forms of the dashboard. Neither
// form stores or sends anything: a valid submission only earns an
// acknowledgment notice.
package forms

import (
	"net/url"

	"github.com/samber/lo"

	"wasteportal/internal/models"
	"wasteportal/internal/utils"
)

type IssueType string

const (
	IssueUnset       IssueType = ""
	IssueCollection  IssueType = "collection"
	IssueSegregation IssueType = "segregation"
	IssueTechnical   IssueType = "technical"
	IssueOther       IssueType = "other"
)

// IssueOption is one entry of the issue type selector.
type IssueOption struct {
	Value IssueType
	Label string
}

func IssueOptions() []IssueOption {
	return []IssueOption{
		{Value: IssueUnset, Label: "Select an issue type"},
		{Value: IssueCollection, Label: "Waste Collection"},
		{Value: IssueSegregation, Label: "Segregation Guidance"},
		{Value: IssueTechnical, Label: "Technical Issue"},
		{Value: IssueOther, Label: "Other"},
	}
}

type SupportRequest struct {
	Name    string
	Email   string
	Issue   IssueType
	Message string
}

// ParseSupportRequest reads the support form. Every field is optional; only an
// issue type outside the selector's options is rejected.
func ParseSupportRequest(values url.Values) (SupportRequest, error) {
	req := SupportRequest{
		Name:    values.Get("name"),
		Email:   values.Get("email"),
		Issue:   IssueType(values.Get("issue")),
		Message: values.Get("message"),
	}

	known := lo.ContainsBy(IssueOptions(), func(o IssueOption) bool { return o.Value == req.Issue })
	if !known {
		return SupportRequest{}, utils.Validation("issue", "Please choose one of the listed issue types")
	}
	return req, nil
}

func (SupportRequest) Acknowledge() models.Notice {
	return models.Notice{
		Title:       "Support Request Received",
		Description: "We will get back to you within 24 hours.",
		Severity:    models.SeverityDefault,
	}
}

// Contact is a line of the static emergency contacts block.
type Contact struct {
	Label string
	Value string
}

func EmergencyContacts() []Contact {
	return []Contact{
		{Label: "Helpline", Value: "1800-123-4567"},
		{Label: "Email", Value: "waste.support@punecorp.gov.in"},
		{Label: "Hours", Value: "Monday to Saturday, 9 AM to 6 PM"},
	}
}
