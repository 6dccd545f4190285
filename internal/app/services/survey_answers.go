package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/egresados/seguimiento-api/internal/app/models"
	"github.com/egresados/seguimiento-api/internal/app/models/dto"
	"github.com/egresados/seguimiento-api/internal/pkg/apperrors"
)

// Yes/no selections are stored as JSON booleans and reported with these labels
const (
	answerYes = "si"
	answerNo  = "no"
)

// normalizeAnswer validates an answer against its question and returns the
// stored response. Selections are rewritten into a canonical JSON shape:
// a string for single choice, a string array for multiple choice, a boolean
// for yes/no and an integer for scales.
func normalizeAnswer(q models.Question, graduateID int64, a dto.AnswerRequest) (*models.Response, error) {
	resp := &models.Response{QuestionID: q.ID, GraduateID: graduateID}
	invalid := func(format string, args ...any) error {
		return apperrors.NewValidationError(fmt.Sprintf("pregunta %d: ", q.ID) + fmt.Sprintf(format, args...))
	}

	if q.Type.IsText() {
		if a.Text == nil || strings.TrimSpace(*a.Text) == "" {
			return nil, invalid("texto is required")
		}
		text := strings.TrimSpace(*a.Text)
		resp.Text = &text
		return resp, nil
	}

	raw := bytes.TrimSpace(a.Selection)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, invalid("seleccion is required")
	}

	var canonical any
	switch {
	case q.Type.IsScale():
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, invalid("seleccion must be a number")
		}
		if n != math.Trunc(n) || n < 1 || n > float64(q.Type.ScaleMax()) {
			return nil, invalid("seleccion must be an integer between 1 and %d", q.Type.ScaleMax())
		}
		canonical = int(n)

	case q.Type == models.QuestionYesNo:
		v, ok := parseYesNo(raw)
		if !ok {
			return nil, invalid("seleccion must be true/false or si/no")
		}
		canonical = v

	case q.Type == models.QuestionSingleChoice:
		choices, err := parseChoices(raw)
		if err != nil || len(choices) != 1 {
			return nil, invalid("seleccion must be exactly one option")
		}
		if !optionAllowed(q.Options, choices[0]) {
			return nil, invalid("%q is not an option", choices[0])
		}
		canonical = choices[0]

	case q.Type == models.QuestionMultipleChoice:
		choices, err := parseChoices(raw)
		if err != nil || len(choices) == 0 {
			return nil, invalid("seleccion must list at least one option")
		}
		unique := make([]string, 0, len(choices))
		for _, c := range choices {
			if !optionAllowed(q.Options, c) {
				return nil, invalid("%q is not an option", c)
			}
			if !slices.Contains(unique, c) {
				unique = append(unique, c)
			}
		}
		if len(q.Options) > 0 {
			slices.SortFunc(unique, func(a, b string) int {
				return slices.Index(q.Options, a) - slices.Index(q.Options, b)
			})
		}
		canonical = unique

	default:
		return nil, apperrors.ErrInvalidQuestionType
	}

	encoded, err := json.Marshal(canonical)
	if err != nil {
		return nil, fmt.Errorf("error encoding selection: %w", err)
	}
	resp.Selection = encoded
	return resp, nil
}

func parseYesNo(raw []byte) (bool, bool) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case answerYes, "sí", "true":
		return true, true
	case answerNo, "false":
		return false, true
	}
	return false, false
}

// parseChoices accepts a single string or an array of strings
func parseChoices(raw []byte) ([]string, error) {
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{strings.TrimSpace(one)}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, err
	}
	for i := range many {
		many[i] = strings.TrimSpace(many[i])
	}
	return many, nil
}

// optionAllowed reports whether choice is one of options. A question
// without declared options accepts any non-empty value.
func optionAllowed(options []string, choice string) bool {
	if choice == "" {
		return false
	}
	if len(options) == 0 {
		return true
	}
	return slices.Contains(options, choice)
}

// summarizeQuestion aggregates the stored responses of one question
func summarizeQuestion(q models.Question, responses []*models.Response) models.QuestionSummary {
	sum := models.QuestionSummary{
		QuestionID: q.ID,
		Text:       q.Text,
		Type:       q.Type,
		Order:      q.Order,
	}

	switch {
	case q.Type.IsText():
		sum.Answers = make([]string, 0, len(responses))
		for _, r := range responses {
			if r.Text != nil {
				sum.Answers = append(sum.Answers, *r.Text)
			}
		}
		sum.TotalResponses = len(sum.Answers)
		return sum

	case q.Type.IsScale():
		sum.Counts = make(map[string]int, q.Type.ScaleMax())
		for v := 1; v <= q.Type.ScaleMax(); v++ {
			sum.Counts[strconv.Itoa(v)] = 0
		}
		total := 0
		for _, r := range responses {
			var n float64
			if json.Unmarshal(r.Selection, &n) != nil || n < 1 || n > float64(q.Type.ScaleMax()) {
				continue
			}
			sum.Counts[strconv.Itoa(int(n))]++
			total += int(n)
			sum.TotalResponses++
		}
		if sum.TotalResponses > 0 {
			avg := math.Round(float64(total)/float64(sum.TotalResponses)*100) / 100
			sum.Average = &avg
		}
		return sum

	case q.Type == models.QuestionYesNo:
		sum.Counts = map[string]int{answerYes: 0, answerNo: 0}
		for _, r := range responses {
			v, ok := parseYesNo(r.Selection)
			if !ok {
				continue
			}
			if v {
				sum.Counts[answerYes]++
			} else {
				sum.Counts[answerNo]++
			}
			sum.TotalResponses++
		}
		return sum

	default:
		sum.Counts = make(map[string]int, len(q.Options))
		for _, opt := range q.Options {
			sum.Counts[opt] = 0
		}
		for _, r := range responses {
			choices, err := parseChoices(r.Selection)
			if err != nil {
				continue
			}
			for _, c := range choices {
				sum.Counts[c]++
			}
			sum.TotalResponses++
		}
		return sum
	}
}
