package store

import "github.com/adupont/portfolio/internal/model"

// PARTIAL UPDATES WITH POINTER FIELDS:
// The admin panel sends only the fields it changed. The original code merged
// with an object spread, which silently treats "absent" and "empty" the same.
// Here every optional field is a pointer: nil means "leave it alone", a
// non-nil pointer (even to a zero value) means "set it to this". That makes
// "what if a field is missing" a visible branch instead of implicit merge
// behaviour, and lets callers clear a field on purpose.
//
// These structs double as the JSON request bodies of the admin PUT routes,
// hence the json tags.

// ProfileUpdate is a partial update of the singleton profile.
// Socials, when present, replaces the whole links block.
type ProfileUpdate struct {
	Name    *string            `json:"name,omitempty"`
	Title   *string            `json:"title,omitempty"`
	Bio     *string            `json:"bio,omitempty"`
	Avatar  *string            `json:"avatar,omitempty"`
	Socials *model.SocialLinks `json:"socials,omitempty"`
}

func (u ProfileUpdate) apply(p *model.Profile) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.Avatar != nil {
		p.Avatar = *u.Avatar
	}
	if u.Socials != nil {
		p.Socials = *u.Socials
	}
}

// SkillUpdate is a partial update of one skill. ID is never updatable.
type SkillUpdate struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Level    *int    `json:"level,omitempty"`
	Icon     *string `json:"icon,omitempty"`
}

func (u SkillUpdate) apply(s *model.Skill) {
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Category != nil {
		s.Category = *u.Category
	}
	if u.Level != nil {
		s.Level = *u.Level
	}
	if u.Icon != nil {
		s.Icon = *u.Icon
	}
}

// ProjectUpdate is a partial update of one project.
type ProjectUpdate struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Image        *string   `json:"image,omitempty"`
	Technologies *[]string `json:"technologies,omitempty"`
	GitHubURL    *string   `json:"githubUrl,omitempty"`
	DemoURL      *string   `json:"demoUrl,omitempty"`
	Featured     *bool     `json:"featured,omitempty"`
}

func (u ProjectUpdate) apply(p *model.Project) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.Technologies != nil {
		p.Technologies = *u.Technologies
	}
	if u.GitHubURL != nil {
		p.GitHubURL = *u.GitHubURL
	}
	if u.DemoURL != nil {
		p.DemoURL = *u.DemoURL
	}
	if u.Featured != nil {
		p.Featured = *u.Featured
	}
}

// ArticleUpdate is a partial update of one article.
type ArticleUpdate struct {
	Title     *string   `json:"title,omitempty"`
	Excerpt   *string   `json:"excerpt,omitempty"`
	Content   *string   `json:"content,omitempty"`
	Date      *string   `json:"date,omitempty"`
	Published *bool     `json:"published,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`
}

func (u ArticleUpdate) apply(a *model.Article) {
	if u.Title != nil {
		a.Title = *u.Title
	}
	if u.Excerpt != nil {
		a.Excerpt = *u.Excerpt
	}
	if u.Content != nil {
		a.Content = *u.Content
	}
	if u.Date != nil {
		a.Date = *u.Date
	}
	if u.Published != nil {
		a.Published = *u.Published
	}
	if u.Tags != nil {
		a.Tags = *u.Tags
	}
}
