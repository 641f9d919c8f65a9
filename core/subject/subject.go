// Package subject holds the reference list of subjects taught in the class.
package subject

import "github.com/trezcool/classhub/core/i18n"

type Subject struct {
	ID          string                   `json:"id" validate:"required"`
	Name        map[i18n.Language]string `json:"name"`
	Description map[i18n.Language]string `json:"description"`
	Color       string                   `json:"color"`
}

// NameIn returns the subject name in lang, falling back to English then to the id.
func (s Subject) NameIn(lang i18n.Language) string {
	if n := s.Name[lang]; n != "" {
		return n
	}
	if n := s.Name[i18n.English]; n != "" {
		return n
	}
	return s.ID
}

func (s Subject) clone() Subject {
	c := s
	c.Name = make(map[i18n.Language]string, len(s.Name))
	for k, v := range s.Name {
		c.Name[k] = v
	}
	c.Description = make(map[i18n.Language]string, len(s.Description))
	for k, v := range s.Description {
		c.Description[k] = v
	}
	return c
}

// Clone deep copies subjects.
func Clone(subjects []Subject) []Subject {
	if subjects == nil {
		return nil
	}
	c := make([]Subject, len(subjects))
	for i, s := range subjects {
		c[i] = s.clone()
	}
	return c
}

// Find returns the subject with id.
func Find(subjects []Subject, id string) (Subject, bool) {
	for _, s := range subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

// Seed returns a fresh copy of the authoritative subject list.
// It always wins over subjects read back from a store.
func Seed() []Subject {
	return Clone(seed)
}

func tr(en, fr, ar string) map[i18n.Language]string {
	return map[i18n.Language]string{i18n.English: en, i18n.French: fr, i18n.Arabic: ar}
}

var seed = []Subject{
	{
		ID:          "math",
		Name:        tr("Mathematics SM", "Mathématiques SM", "الرياضيات م.ر"),
		Description: tr("Logic, Sets, Functions", "Logique, Ensembles, Fonctions", "المنطق، المجموعات، الدوال"),
		Color:       "bg-blue-600",
	},
	{
		ID:          "physics",
		Name:        tr("Physics & Chemistry", "Physique-Chimie", "الفيزياء والكيمياء"),
		Description: tr("Mechanics & Redox", "Mécanique & Redox", "الميكانيكا والكيمياء"),
		Color:       "bg-purple-600",
	},
	{
		ID:          "svt",
		Name:        tr("SVT", "SVT", "علوم الحياة والأرض"),
		Description: tr("Geology & Biology", "Géologie & Biologie", "الجيولوجيا والبيولوجيا"),
		Color:       "bg-green-600",
	},
	{
		ID:          "ar",
		Name:        tr("Arabic", "Arabe", "اللغة العربية"),
		Description: tr("Literature", "Littérature", "الأدب العربي"),
		Color:       "bg-emerald-600",
	},
	{
		ID:          "fr",
		Name:        tr("French", "Français", "اللغة الفرنسية"),
		Description: tr("The Antigone, Le Dernier Jour", "Antigone, Le Dernier Jour", "الأدب الفرنسي"),
		Color:       "bg-red-600",
	},
	{
		ID:          "islamic",
		Name:        tr("Islamic Education", "Éducation Islamique", "التربية الإسلامية"),
		Description: tr("Faith and Values", "Foi et Valeurs", "العقيدة والقيم"),
		Color:       "bg-teal-600",
	},
	{
		ID:          "phil",
		Name:        tr("Philosophy", "Philosophie", "الفلسفة"),
		Description: tr("Reason and Truth", "Raison et Vérité", "المجزوءات الفلسفية"),
		Color:       "bg-amber-600",
	},
	{
		ID:          "english",
		Name:        tr("English", "Anglais", "اللغة الإنجليزية"),
		Description: tr("Grammar and Vocab", "Grammaire et Vocabulaire", "اللغة الإنجليزية"),
		Color:       "bg-indigo-600",
	},
	{
		ID:          "eps",
		Name:        tr("Sports", "E.P.S", "التربية البدنية"),
		Description: tr("Physical Activity", "Activité Physique", "الرياضة"),
		Color:       "bg-orange-600",
	},
}
