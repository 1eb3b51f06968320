package domain

// Project identifies the remote tracker project the board mirrors.
type Project struct {
	ID                int
	Name              string
	PathWithNamespace string
	Description       string
	WebURL            string
}

// Label is a project-level label definition, used for filter and form
// catalogues. Issue labels themselves travel as plain strings.
type Label struct {
	Name      string
	Color     string
	TextColor string
}
