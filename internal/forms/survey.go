package forms

import (
	"fmt"
	"net/url"

	"github.com/samber/lo"

	"wasteportal/internal/models"
	"wasteportal/internal/utils"
)

// RewardPoints is what a survey submission is worth.
const RewardPoints = 50

type QuestionKind string

const (
	SingleChoice QuestionKind = "single"
	MultiChoice  QuestionKind = "multi"
)

type Choice struct {
	Value string
	Label string
}

type Question struct {
	ID      string
	Prompt  string
	Kind    QuestionKind
	Choices []Choice
}

func (q Question) Multi() bool { return q.Kind == MultiChoice }

func SurveyQuestions() []Question {
	return []Question{
		{
			ID:     "q1",
			Prompt: "1. How often do you segregate waste at home?",
			Kind:   SingleChoice,
			Choices: []Choice{
				{"always", "Always"},
				{"mostly", "Most of the time"},
				{"sometimes", "Sometimes"},
				{"rarely", "Rarely"},
				{"never", "Never"},
			},
		},
		{
			ID:     "q2",
			Prompt: "2. What challenges do you face with waste segregation?",
			Kind:   MultiChoice,
			Choices: []Choice{
				{"space", "Lack of space for multiple bins"},
				{"confusion", "Confusion about what goes where"},
				{"schedule", "Irregular collection schedule"},
				{"time", "Time-consuming process"},
				{"other", "Other"},
			},
		},
		{
			ID:     "q3",
			Prompt: "3. How satisfied are you with the current waste collection system?",
			Kind:   SingleChoice,
			Choices: []Choice{
				{"very-satisfied", "Very satisfied"},
				{"satisfied", "Satisfied"},
				{"neutral", "Neutral"},
				{"dissatisfied", "Dissatisfied"},
				{"very-dissatisfied", "Very dissatisfied"},
			},
		},
	}
}

// SuggestionsPrompt labels the free text question closing the survey.
const SuggestionsPrompt = "4. Do you have any suggestions to improve waste management in your area?"

type SurveyResponse struct {
	// Answers maps question ids to the chosen values. Unanswered questions are absent.
	Answers     map[string][]string
	Suggestions string
}

// ParseSurveyResponse reads the survey form. Questions may be left unanswered,
// but a chosen value must be one of the question's choices and single choice
// questions take at most one.
func ParseSurveyResponse(values url.Values) (SurveyResponse, error) {
	resp := SurveyResponse{
		Answers:     map[string][]string{},
		Suggestions: values.Get("suggestions"),
	}

	for _, q := range SurveyQuestions() {
		chosen := lo.Uniq(values[q.ID])
		if len(chosen) == 0 {
			continue
		}
		if !q.Multi() && len(chosen) > 1 {
			return SurveyResponse{}, utils.Validation(q.ID, fmt.Sprintf("Question %s takes a single answer", q.ID))
		}

		valid := lo.Map(q.Choices, func(c Choice, _ int) string { return c.Value })
		if unknown := lo.Without(chosen, valid...); len(unknown) > 0 {
			return SurveyResponse{}, utils.Validation(q.ID, fmt.Sprintf("Unknown answer %q for question %s", unknown[0], q.ID))
		}

		resp.Answers[q.ID] = chosen
	}

	return resp, nil
}

func (SurveyResponse) Acknowledge() models.Notice {
	return models.Notice{
		Title:       "Survey Submitted",
		Description: fmt.Sprintf("Thank you for your feedback! You've earned %d reward points.", RewardPoints),
		Severity:    models.SeverityDefault,
	}
}
