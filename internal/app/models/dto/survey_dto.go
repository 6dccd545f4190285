package dto

import "encoding/json"

// QuestionRequest creates a question, inline or through POST /encuestas/:id/preguntas
type QuestionRequest struct {
	Text    string   `json:"texto" binding:"required"`
	Type    string   `json:"tipo" binding:"required,oneof=texto_corto texto_largo escala_5 escala_10 opcion_unica opcion_multiple si_no"`
	Options []string `json:"opciones"`
	Order   *int     `json:"orden" binding:"omitempty,gte=0"`
}

// UpdateQuestionRequest is the body of PUT /preguntas/:id
type UpdateQuestionRequest struct {
	Text    *string   `json:"texto" binding:"omitempty,min=1"`
	Type    *string   `json:"tipo" binding:"omitempty,oneof=texto_corto texto_largo escala_5 escala_10 opcion_unica opcion_multiple si_no"`
	Options *[]string `json:"opciones"`
	Order   *int      `json:"orden" binding:"omitempty,gte=0"`
}

// CreateSurveyRequest is the body of POST /encuestas
type CreateSurveyRequest struct {
	Title       string            `json:"titulo" binding:"required,max=200"`
	Description *string           `json:"descripcion"`
	WorkshopID  *int64            `json:"taller_id" binding:"omitempty,gt=0"`
	Active      *bool             `json:"activa"`
	Questions   []QuestionRequest `json:"preguntas" binding:"omitempty,dive"`
}

// UpdateSurveyRequest is the body of PUT /encuestas/:id
type UpdateSurveyRequest struct {
	Title       *string `json:"titulo" binding:"omitempty,min=1,max=200"`
	Description *string `json:"descripcion"`
	WorkshopID  *int64  `json:"taller_id" binding:"omitempty,gt=0"`
	Active      *bool   `json:"activa"`
}

// AnswerRequest is one answer inside a submission. Text questions use texto,
// the others use seleccion (an option list, a number or a boolean).
type AnswerRequest struct {
	QuestionID int64           `json:"pregunta_id" binding:"required,gt=0"`
	Text       *string         `json:"texto"`
	Selection  json.RawMessage `json:"seleccion"`
}

// SubmitResponsesRequest is the body of POST /encuestas/:id/respuestas
type SubmitResponsesRequest struct {
	GraduateID int64           `json:"graduado_id" binding:"required,gt=0"`
	Answers    []AnswerRequest `json:"respuestas" binding:"required,min=1,dive"`
}
