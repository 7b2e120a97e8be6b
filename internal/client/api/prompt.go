package api

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/atinyakov/portfolio/internal/models"
)

// Prompter asks questions on out and reads answers line by line from in.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
	eof     bool
}

// NewPrompter returns a Prompter over in and out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Ask prints question and returns the trimmed answer, "" at end of input.
func (p *Prompter) Ask(question string) string {
	fmt.Fprint(p.out, question)
	if !p.scanner.Scan() {
		p.eof = true
		return ""
	}
	return strings.TrimSpace(p.scanner.Text())
}

// EOF reports whether the input has been exhausted.
func (p *Prompter) EOF() bool { return p.eof }

// askDefault keeps current when the answer is empty.
func (p *Prompter) askDefault(label, current string) string {
	if v := p.Ask(fmt.Sprintf("%s [%s]: ", label, current)); v != "" {
		return v
	}
	return current
}

// Credentials reads a username and password.
func (p *Prompter) Credentials() (username, password string) {
	return p.Ask("Username: "), p.Ask("Password: ")
}

// NewProject reads every field of a project to create.
func (p *Prompter) NewProject() NewProject {
	return NewProject{
		Category:    p.Ask("Category: "),
		Name:        p.Ask("Name: "),
		Description: p.Ask("Description: "),
		TechUsed:    p.Ask("Tech used: "),
		Link:        p.Ask("Link: "),
		ImagePath:   p.Ask("Image file path: "),
	}
}

// EditProject reads new values for cur. An empty answer keeps the current
// value, so the server still receives all six fields.
func (p *Prompter) EditProject(cur models.Project) models.ProjectFields {
	return models.ProjectFields{
		Category:    p.askDefault("Category", cur.Category),
		Name:        p.askDefault("Name", cur.Name),
		Description: p.askDefault("Description", cur.Description),
		TechUsed:    p.askDefault("Tech used", cur.TechUsed),
		Image:       p.askDefault("Image URL", cur.Image),
		Link:        p.askDefault("Link", cur.Link),
	}
}

// Contact reads a contact-form submission.
func (p *Prompter) Contact() models.ContactMessage {
	return models.ContactMessage{
		Name:    p.Ask("Your name: "),
		Phone:   p.Ask("Phone: "),
		Email:   p.Ask("E-mail: "),
		Message: p.Ask("Message: "),
	}
}
