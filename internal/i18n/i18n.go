// Package i18n holds the UI translation tables. English is the fallback for
// any key a language does not define.
package i18n

// Lang selects a translation table.
type Lang string

// Supported languages.
const (
	English Lang = "en"
	French  Lang = "fr"
)

// Parse maps a stored language code to a supported language, defaulting to
// English.
func Parse(code string) Lang {
	if Lang(code) == French {
		return French
	}
	return English
}

// T translates a key. Unknown keys come back verbatim so a missed entry is
// visible instead of blank.
func T(lang Lang, key string) string {
	if table, ok := translations[lang]; ok {
		if v, ok := table[key]; ok {
			return v
		}
	}
	if v, ok := translations[English][key]; ok {
		return v
	}
	return key
}

var translations = map[Lang]map[string]string{
	English: {
		"loading":    "Loading...",
		"error":      "Error",
		"save":       "Save",
		"cancel":     "Cancel",
		"delete":     "Delete",
		"edit":       "Edit",
		"create":     "Create",
		"search":     "Search",
		"clear":      "Clear",
		"load_more":  "Load More",
		"projects":   "Projects",
		"kanban":     "Kanban Board",
		"timeline":   "Timeline",
		"new_issue":  "New Issue",
		"search_by":  "Search by #number or title...",
		"assigned":   "Assigned to",
		"all":        "All",
		"all_users":  "All assignees",
		"clear_filters": "Clear filters",
		"issues_found":  "issues found",
		"issue_found":   "issue found",
		"labels":        "Labels",
		"comments":      "Comments",
		"no_comments":   "No comments",
		"view_in_gitlab": "View in GitLab",
		"create_issue":   "Create Issue",
		"title_required": "Title *",
		"description":    "Description",
		"creating":       "Creating...",
		"start_date":     "Start Date",
		"due_date":       "Due Date",
		"opened":         "Open",
		"closed":         "Closed",
		"language":       "Language",
		"delete_issue":   "Delete Issue",
		"delete_confirm": "Are you sure you want to delete this issue?",
		"delete_warning": "This action cannot be undone. The issue will be permanently deleted from GitLab.",
		"deleting":       "Deleting...",
		"created_by":     "Created by",
	},
	French: {
		"loading":    "Chargement...",
		"error":      "Erreur",
		"save":       "Sauvegarder",
		"cancel":     "Annuler",
		"delete":     "Supprimer",
		"edit":       "Modifier",
		"create":     "Créer",
		"search":     "Rechercher",
		"clear":      "Effacer",
		"load_more":  "Charger plus",
		"projects":   "Projets",
		"kanban":     "Tableau Kanban",
		"timeline":   "Chronologie",
		"new_issue":  "Nouvelle issue",
		"search_by":  "Rechercher par #numéro ou titre...",
		"assigned":   "Assigné à",
		"all":        "Toutes",
		"all_users":  "Tous les assignés",
		"clear_filters": "Effacer les filtres",
		"issues_found":  "issues trouvées",
		"issue_found":   "issue trouvée",
		"labels":        "Labels",
		"comments":      "Commentaires",
		"no_comments":   "Aucun commentaire",
		"view_in_gitlab": "Voir dans GitLab",
		"create_issue":   "Créer l'issue",
		"title_required": "Titre *",
		"description":    "Description",
		"creating":       "Création...",
		"start_date":     "Date de début",
		"due_date":       "Date d'échéance",
		"opened":         "Ouvertes",
		"closed":         "Fermées",
		"language":       "Langue",
		"delete_issue":   "Supprimer l'issue",
		"delete_confirm": "Êtes-vous sûr de vouloir supprimer cette issue ?",
		"delete_warning": "Cette action est irréversible. L'issue sera définitivement supprimée de GitLab.",
		"deleting":       "Suppression...",
		"created_by":     "Créé par",
	},
}
