package store

import "github.com/adupont/portfolio/internal/model"

// defaultData returns the built-in dataset served on first boot and used as
// the fallback when the persisted aggregate is missing or corrupt.
//
// IMPORTANT: this must return a fresh value on every call. If we kept a
// package-level variable, a caller mutating the returned slices would
// silently rewrite the defaults for everyone after them.
func defaultData() *model.PortfolioData {
	return &model.PortfolioData{
		Profile: model.Profile{
			Name:   "Alexandre Dupont",
			Title:  "Data Scientist & Développeur Python",
			Bio:    "Passionné par la data science et le développement. J'aime transformer des données en histoires et des idées en projets concrets.",
			Avatar: "",
			Socials: model.SocialLinks{
				GitHub:   "https://github.com/alexandredupont",
				LinkedIn: "https://linkedin.com/in/alexandredupont",
				Email:    "alexandre.dupont@example.com",
			},
		},
		Skills: []model.Skill{
			{ID: "default-skill-1", Name: "Python", Category: "Langages", Level: 90, Icon: "code"},
			{ID: "default-skill-2", Name: "SQL", Category: "Data", Level: 85, Icon: "database"},
			{ID: "default-skill-3", Name: "Machine Learning", Category: "Data", Level: 75, Icon: "brain"},
			{ID: "default-skill-4", Name: "React", Category: "Web", Level: 70, Icon: "globe"},
			{ID: "default-skill-5", Name: "Git", Category: "Outils", Level: 80, Icon: "git-branch"},
		},
		Projects: []model.Project{
			{
				ID:           "default-project-1",
				Title:        "Analyse prédictive des ventes",
				Description:  "Pipeline de machine learning pour prédire les ventes mensuelles à partir de données historiques.",
				Image:        "",
				Technologies: []string{"Python", "pandas", "scikit-learn"},
				GitHubURL:    "https://github.com/alexandredupont/sales-forecast",
				Featured:     true,
			},
			{
				ID:           "default-project-2",
				Title:        "Portfolio RPG",
				Description:  "Ce site — un portfolio avec plusieurs thèmes visuels et un panneau d'administration intégré.",
				Image:        "",
				Technologies: []string{"React", "TypeScript", "Tailwind"},
				Featured:     false,
			},
		},
		Articles: []model.Article{},
		Messages: []model.ContactMessage{},
	}
}
