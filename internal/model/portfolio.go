// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

// SocialLinks holds the optional links shown next to the profile.
// Every field may be empty; `omitempty` keeps the serialized aggregate
// compact and matches the shape the admin frontend expects.
type SocialLinks struct {
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Email    string `json:"email,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
}

// Profile is the singleton identity block of the portfolio.
// Unlike the other entities it has no ID — there is exactly one, it is
// never deleted, only overwritten or merged field-by-field.
//
// Avatar holds an image reference, usually a base64 data URI produced by
// the imaging package. It may be empty.
type Profile struct {
	Name    string      `json:"name"`
	Title   string      `json:"title"`
	Bio     string      `json:"bio"`
	Avatar  string      `json:"avatar"`
	Socials SocialLinks `json:"socials"`
}

// Skill is one entry of the skills grid.
//
// Level is a 0–100 mastery percentage. The store transports it as-is;
// clamping to the displayable range is the consumer's concern.
// Icon is an opaque symbolic name resolved by the frontend — the backend
// never interprets it.
type Skill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Level    int    `json:"level"`
	Icon     string `json:"icon,omitempty"`
}

// Project is a portfolio entry. Technologies is an ordered list — display
// order matters, so it is never sorted or de-duplicated by the store.
// Featured drives the "highlighted" grouping on the public page.
type Project struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Technologies []string `json:"technologies"`
	GitHubURL    string   `json:"githubUrl,omitempty"`
	DemoURL      string   `json:"demoUrl,omitempty"`
	Featured     bool     `json:"featured"`
}

// Article is a long-form blog post. Published acts as the filter flag for
// the public view — drafts stay in the store but are never served to
// anonymous readers. Date is an ISO-8601 string supplied by the editor.
type Article struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Excerpt   string   `json:"excerpt"`
	Content   string   `json:"content"`
	Date      string   `json:"date"`
	Published bool     `json:"published"`
	Tags      []string `json:"tags"`
}

// ContactMessage is a submission from the public contact form.
//
// Date and Read are assigned by the store at creation time and are never
// settable by the submitter: Date is stamped with the current time in
// ISO-8601, Read starts false and flips true only via the explicit
// mark-as-read operation. Messages are never updated, only deleted.
type ContactMessage struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Date    string `json:"date"`
	Read    bool   `json:"read"`
}

// PortfolioData is the aggregate root: exactly one profile plus the
// ordered entity collections. It is the unit of persistence — every
// mutation reads the whole aggregate, changes one part, and writes the
// whole aggregate back, so a reader never observes a half-applied update.
//
// Collection order is insertion order and is significant (it is the
// display order on the public site).
type PortfolioData struct {
	Profile  Profile          `json:"profile"`
	Skills   []Skill          `json:"skills"`
	Projects []Project        `json:"projects"`
	Articles []Article        `json:"articles"`
	Messages []ContactMessage `json:"messages"`
}
