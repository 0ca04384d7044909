package testmodels

import "github.com/go-openapi/strfmt"

// Cliente is a typed customer record as served by the panel API
type Cliente struct {

	// Unique identifier of the customer.
	ID string `json:"id,omitempty"`

	// Registered company name.
	// Required: true
	RazaoSocial string `json:"razao_social"`

	// Trade name.
	NomeFantasia string `json:"nome_fantasia"`

	// Brazilian company registry number.
	// Required: true
	Cnpj string `json:"cnpj"`

	// Contact emails.
	Emails []string `json:"emails"`

	// Timestamp when the customer was created.
	// Format: date-time
	CreatedAt *strfmt.DateTime `json:"created_at,omitempty"`

	// Timestamp when the customer was last updated.
	// Format: date-time
	UpdatedAt *strfmt.DateTime `json:"updated_at,omitempty"`
}

// GetID returns the customer id
func (c Cliente) GetID() string {
	return c.ID
}
