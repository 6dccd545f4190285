package models

import (
	"encoding/json"
	"time"
)

// QuestionType is the input kind of a survey question
type QuestionType string

const (
	QuestionShortText      QuestionType = "texto_corto"
	QuestionLongText       QuestionType = "texto_largo"
	QuestionScale5         QuestionType = "escala_5"
	QuestionScale10        QuestionType = "escala_10"
	QuestionSingleChoice   QuestionType = "opcion_unica"
	QuestionMultipleChoice QuestionType = "opcion_multiple"
	QuestionYesNo          QuestionType = "si_no"
)

// Valid reports whether t is a known question type
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionShortText, QuestionLongText, QuestionScale5, QuestionScale10,
		QuestionSingleChoice, QuestionMultipleChoice, QuestionYesNo:
		return true
	}
	return false
}

// IsText reports whether answers are free text
func (t QuestionType) IsText() bool {
	return t == QuestionShortText || t == QuestionLongText
}

// IsScale reports whether answers are numeric ratings
func (t QuestionType) IsScale() bool {
	return t == QuestionScale5 || t == QuestionScale10
}

// ScaleMax returns the upper bound of a scale question, 0 otherwise
func (t QuestionType) ScaleMax() int {
	switch t {
	case QuestionScale5:
		return 5
	case QuestionScale10:
		return 10
	}
	return 0
}

// Survey is a titled container of ordered questions
type Survey struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"titulo" db:"titulo"`
	Description *string    `json:"descripcion,omitempty" db:"descripcion"`
	WorkshopID  *int64     `json:"taller_id,omitempty" db:"taller_id"`
	Active      bool       `json:"activa" db:"activa"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	Questions   []Question `json:"preguntas,omitempty" db:"-"`
}

// SurveyFilter holds the equality filters accepted by survey listings
type SurveyFilter struct {
	WorkshopID *int64
	Active     *bool
}

// Question belongs to a survey; Order drives display order
type Question struct {
	ID       int64        `json:"id" db:"id"`
	SurveyID int64        `json:"encuesta_id" db:"encuesta_id"`
	Text     string       `json:"texto" db:"texto"`
	Type     QuestionType `json:"tipo" db:"tipo"`
	Options  []string     `json:"opciones" db:"opciones"`
	Order    int          `json:"orden" db:"orden"`
}

// Response is one graduate's answer to one question: either free text or a
// selection payload (option list, scale value or yes/no).
type Response struct {
	ID         int64           `json:"id" db:"id"`
	QuestionID int64           `json:"pregunta_id" db:"pregunta_id"`
	GraduateID int64           `json:"graduado_id" db:"graduado_id"`
	Text       *string         `json:"texto,omitempty" db:"texto"`
	Selection  json.RawMessage `json:"seleccion,omitempty" db:"seleccion"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// QuestionSummary aggregates the responses of one question
type QuestionSummary struct {
	QuestionID     int64          `json:"pregunta_id"`
	Text           string         `json:"texto"`
	Type           QuestionType   `json:"tipo"`
	Order          int            `json:"orden"`
	TotalResponses int            `json:"total_respuestas"`
	Counts         map[string]int `json:"conteo,omitempty"`
	Average        *float64       `json:"promedio,omitempty"`
	Answers        []string       `json:"respuestas_texto,omitempty"`
}

// SurveySummary is the aggregated view of a survey's responses
type SurveySummary struct {
	SurveyID    int64             `json:"encuesta_id"`
	Title       string            `json:"titulo"`
	Respondents int               `json:"encuestados"`
	Questions   []QuestionSummary `json:"preguntas"`
}
