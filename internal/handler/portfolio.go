package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/adupont/portfolio/internal/auth"
	"github.com/adupont/portfolio/internal/model"
	"github.com/adupont/portfolio/internal/store"
)

// PortfolioHandler serves the portfolio content: the public read endpoints
// and the admin CRUD endpoints for profile, skills, projects and articles.
//
// The handler owns no business rules — it parses requests, calls the store,
// and maps results to JSON. Partial updates decode directly into the store's
// update structs, whose pointer fields distinguish "absent" from "set to
// zero value".
type PortfolioHandler struct {
	store    *store.Store
	sessions *auth.SessionManager
	logger   *slog.Logger
}

func NewPortfolioHandler(store *store.Store, sessions *auth.SessionManager, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		store:    store,
		sessions: sessions,
		logger:   logger,
	}
}

// publicPortfolio is the aggregate as visitors see it: articles filtered to
// published, contact messages omitted entirely.
type publicPortfolio struct {
	Profile  model.Profile   `json:"profile"`
	Skills   []model.Skill   `json:"skills"`
	Projects []model.Project `json:"projects"`
	Articles []model.Article `json:"articles"`
}

// isAuthenticated reports whether the request carries a valid session cookie.
// Used on public routes that reveal more to a logged-in admin.
func (h *PortfolioHandler) isAuthenticated(r *http.Request) bool {
	cookie, err := r.Cookie(auth.SessionCookie)
	if err != nil || cookie.Value == "" {
		return false
	}
	ok, err := h.sessions.Validate(r.Context(), cookie.Value)
	return err == nil && ok
}

// HandlePortfolio returns the public aggregate.
//
// HTTP: GET /api/portfolio
func (h *PortfolioHandler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.Data(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	published := make([]model.Article, 0, len(data.Articles))
	for _, a := range data.Articles {
		if a.Published {
			published = append(published, a)
		}
	}

	writeJSON(w, http.StatusOK, publicPortfolio{
		Profile:  data.Profile,
		Skills:   data.Skills,
		Projects: data.Projects,
		Articles: published,
	})
}

// HandleProfile returns the profile section.
//
// HTTP: GET /api/profile
func (h *PortfolioHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.store.Profile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleUpdateProfile applies a partial profile update.
//
// HTTP: PUT /api/admin/profile
// REQUEST BODY: any subset of {"name","title","bio","avatar","socials"}
func (h *PortfolioHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var updates store.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.logger.Warn("invalid profile update JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	profile, err := h.store.UpdateProfile(r.Context(), updates)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// === SKILLS ===

// HandleListSkills — GET /api/skills
func (h *PortfolioHandler) HandleListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.store.Skills(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

// HandleCreateSkill — POST /api/admin/skills
// The store assigns the ID; any ID in the body is ignored.
func (h *PortfolioHandler) HandleCreateSkill(w http.ResponseWriter, r *http.Request) {
	var skill model.Skill
	if err := json.NewDecoder(r.Body).Decode(&skill); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	created, err := h.store.AddSkill(r.Context(), skill)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdateSkill — PUT /api/admin/skills/{id}
//
// UNKNOWN ID SEMANTICS:
// The store treats an update to an unknown ID as a silent no-op and returns
// (nil, nil). The HTTP layer surfaces that as 404 — an API caller addressing
// a specific resource deserves to know it isn't there.
func (h *PortfolioHandler) HandleUpdateSkill(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var updates store.SkillUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	skill, err := h.store.UpdateSkill(r.Context(), id, updates)
	if err != nil {
		writeError(w, err)
		return
	}
	if skill == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "skill not found with id " + id})
		return
	}
	writeJSON(w, http.StatusOK, skill)
}

// HandleDeleteSkill — DELETE /api/admin/skills/{id}
// Deleting an absent ID is a no-op, so this always returns 204.
func (h *PortfolioHandler) HandleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteSkill(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// === PROJECTS ===

// HandleListProjects — GET /api/projects
func (h *PortfolioHandler) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.Projects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// HandleCreateProject — POST /api/admin/projects
func (h *PortfolioHandler) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	var project model.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	created, err := h.store.AddProject(r.Context(), project)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdateProject — PUT /api/admin/projects/{id}
func (h *PortfolioHandler) HandleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var updates store.ProjectUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	project, err := h.store.UpdateProject(r.Context(), id, updates)
	if err != nil {
		writeError(w, err)
		return
	}
	if project == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "project not found with id " + id})
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// HandleDeleteProject — DELETE /api/admin/projects/{id}
func (h *PortfolioHandler) HandleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteProject(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// === ARTICLES ===

// HandleListArticles — GET /api/articles
//
// Visitors see published articles only. An authenticated admin may pass
// ?all=1 to include drafts; for anyone else the parameter is ignored rather
// than rejected, so the public URL shape stays harmless to share.
func (h *PortfolioHandler) HandleListArticles(w http.ResponseWriter, r *http.Request) {
	publishedOnly := true
	if r.URL.Query().Get("all") == "1" && h.isAuthenticated(r) {
		publishedOnly = false
	}

	articles, err := h.store.Articles(r.Context(), publishedOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

// HandleCreateArticle — POST /api/admin/articles
func (h *PortfolioHandler) HandleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var article model.Article
	if err := json.NewDecoder(r.Body).Decode(&article); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	created, err := h.store.AddArticle(r.Context(), article)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdateArticle — PUT /api/admin/articles/{id}
func (h *PortfolioHandler) HandleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var updates store.ArticleUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	article, err := h.store.UpdateArticle(r.Context(), id, updates)
	if err != nil {
		writeError(w, err)
		return
	}
	if article == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "article not found with id " + id})
		return
	}
	writeJSON(w, http.StatusOK, article)
}

// HandleDeleteArticle — DELETE /api/admin/articles/{id}
func (h *PortfolioHandler) HandleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteArticle(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
