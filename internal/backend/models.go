package backend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownField is returned by Set when the field name is not part of the record.
var ErrUnknownField = errors.New("backend: unknown field")

// Catalogue is a downloadable product brochure.
type Catalogue struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	PDFURL      string `json:"pdf_url"`
}

// CategoryOf implements listing.Categorized.
func (c Catalogue) CategoryOf() string { return c.Category }

// Realisation is a completed customer project.
type Realisation struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	ProjectType    string   `json:"project_type"`
	CompletionDate string   `json:"completion_date"`
	Images         []string `json:"images"`
}

// ChassisType is a product family offered by the business.
type ChassisType struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Features    []string `json:"features"`
	PriceRange  string   `json:"price_range"`
}

// Project types accepted by the quote endpoint.
const (
	ProjectResidential  = "Résidentiel"
	ProjectCommercial   = "Commercial"
	ProjectRenovation   = "Rénovation"
	ProjectConstruction = "Neuf"
)

// ProjectTypes lists the accepted project types in display order.
var ProjectTypes = []string{ProjectResidential, ProjectCommercial, ProjectRenovation, ProjectConstruction}

// QuoteRequest is the payload of POST /devis.
type QuoteRequest struct {
	Name        string `json:"name" schema:"name" validate:"required"`
	Email       string `json:"email" schema:"email" validate:"required"`
	Phone       string `json:"phone" schema:"phone" validate:"required"`
	ProjectType string `json:"project_type" schema:"project_type" validate:"required"`
	Description string `json:"description" schema:"description" validate:"required"`
}

// Set assigns value to the field named by its wire name. Single-line fields are
// trimmed; the description is kept as typed.
func (q *QuoteRequest) Set(field, value string) error {
	switch field {
	case "name":
		q.Name = strings.TrimSpace(value)
	case "email":
		q.Email = strings.TrimSpace(value)
	case "phone":
		q.Phone = strings.TrimSpace(value)
	case "project_type":
		q.ProjectType = strings.TrimSpace(value)
	case "description":
		q.Description = value
	default:
		return fmt.Errorf("%w: quote %q", ErrUnknownField, field)
	}
	return nil
}

// ContactMessage is the payload of POST /contact.
type ContactMessage struct {
	Name     string `json:"name" schema:"name" validate:"required"`
	Email    string `json:"email" schema:"email" validate:"required"`
	Phone    string `json:"phone" schema:"phone"`
	Localite string `json:"localite" schema:"localite" validate:"required"`
	Message  string `json:"message" schema:"message" validate:"required"`
}

// Set assigns value to the field named by its wire name. Single-line fields are
// trimmed; the message is kept as typed.
func (m *ContactMessage) Set(field, value string) error {
	switch field {
	case "name":
		m.Name = strings.TrimSpace(value)
	case "email":
		m.Email = strings.TrimSpace(value)
	case "phone":
		m.Phone = strings.TrimSpace(value)
	case "localite":
		m.Localite = strings.TrimSpace(value)
	case "message":
		m.Message = value
	default:
		return fmt.Errorf("%w: contact %q", ErrUnknownField, field)
	}
	return nil
}

// Ack is the backend's acknowledgement of a submitted lead, kept verbatim. Any 2xx
// counts as accepted whatever the body holds.
type Ack []byte

func (a *Ack) takeRaw(b []byte) { *a = append((*a)[:0], b...) }
