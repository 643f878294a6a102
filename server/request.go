package server

import (
	"github.com/go-playground/validator/v10"

	"github.com/ByLCY/tailor/export"
)

// ExportRequest is the body of POST /export.
type ExportRequest struct {
	Document    string `json:"document" validate:"required,oneof=cv cover-letter cover_letter"`
	Format      string `json:"format" validate:"required,oneof=docx pdf flow paginated"`
	CV          string `json:"cv"`
	CoverLetter string `json:"cover_letter"`
}

// Validate validates the ExportRequest using the validator.
func (r *ExportRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Selection resolves the requested format and document selection.
func (r *ExportRequest) Selection() (export.Format, export.Selection, error) {
	format, err := export.ParseFormat(r.Format)
	if err != nil {
		return "", export.Selection{}, err
	}
	doc, err := export.ParseDocument(r.Document)
	if err != nil {
		return "", export.Selection{}, err
	}
	return format, export.Selection{Active: doc, CV: r.CV, CoverLetter: r.CoverLetter}, nil
}
