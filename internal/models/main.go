// Package models defines the data structures shared by the portfolio
// service layers.
package models

import "encoding/json"

// Project is a single portfolio entry.
type Project struct {
	// ID is the store-assigned identifier. It never changes after insert.
	ID string `json:"id"`
	// Category groups projects on the front-end ("web", "mobile", ...).
	Category string `json:"category"`
	// Name is the display title.
	Name string `json:"name"`
	// Description is free text shown on the project card.
	Description string `json:"description"`
	// TechUsed lists the technologies as a single free-form string.
	TechUsed string `json:"techUsed"`
	// Image is the public URL of the project screenshot.
	Image string `json:"image"`
	// Link points at the live project or its repository.
	Link string `json:"link"`
}

// MarshalJSON also emits the identifier as "_id", which is what existing
// front-ends read.
func (p Project) MarshalJSON() ([]byte, error) {
	type plain Project
	return json.Marshal(struct {
		LegacyID string `json:"_id"`
		plain
	}{
		LegacyID: p.ID,
		plain:    plain(p),
	})
}

// ProjectFields are the six user-editable attributes of a Project.
type ProjectFields struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TechUsed    string `json:"techUsed"`
	Image       string `json:"image"`
	Link        string `json:"link"`
}

// Apply overwrites every editable field of p, empty values included.
func (f ProjectFields) Apply(p *Project) {
	p.Category = f.Category
	p.Name = f.Name
	p.Description = f.Description
	p.TechUsed = f.TechUsed
	p.Image = f.Image
	p.Link = f.Link
}

// ContactMessage is a contact-form submission. It is never persisted.
type ContactMessage struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
