package tui

import "github.com/Silvio-Br/gitlab-issue-manager/internal/i18n"

type Option func(*Model)

// SaveLanguageFunc persists the selected UI language between sessions.
type SaveLanguageFunc func(code string) error

func WithLanguage(lang i18n.Lang) Option {
	return func(m *Model) {
		m.lang = lang
	}
}

func WithLanguageSaver(save SaveLanguageFunc) Option {
	return func(m *Model) {
		m.saveLanguage = save
	}
}

func WithColumnWindow(size int) Option {
	return func(m *Model) {
		if size > 0 {
			m.windowStep = size
		}
	}
}
