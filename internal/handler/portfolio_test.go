package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adupont/portfolio/internal/auth"
	"github.com/adupont/portfolio/internal/handler"
	"github.com/adupont/portfolio/internal/model"
	"github.com/adupont/portfolio/internal/store"
)

func newPortfolioHandler(t *testing.T) (*handler.PortfolioHandler, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	return handler.NewPortfolioHandler(st, newTestSessions(t), testLogger()), st
}

func TestHandlePortfolio(t *testing.T) {
	h, st := newPortfolioHandler(t)

	// One draft, one published article.
	_, err := st.AddArticle(context.Background(), model.Article{Title: "Draft", Published: false})
	require.NoError(t, err)
	_, err = st.AddArticle(context.Background(), model.Article{Title: "Live", Published: true})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	rr := httptest.NewRecorder()
	h.HandlePortfolio(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Profile  model.Profile   `json:"profile"`
		Skills   []model.Skill   `json:"skills"`
		Articles []model.Article `json:"articles"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))

	assert.Equal(t, "Alexandre Dupont", body.Profile.Name)
	assert.NotEmpty(t, body.Skills)
	// Drafts never appear on the public aggregate.
	require.Len(t, body.Articles, 1)
	assert.Equal(t, "Live", body.Articles[0].Title)

	// The public aggregate must not leak contact messages.
	assert.NotContains(t, rr.Body.String(), `"messages"`)
}

func TestHandleUpdateProfile(t *testing.T) {
	h, _ := newPortfolioHandler(t)

	t.Run("partial update", func(t *testing.T) {
		reqBody := `{"name":"Jane Doe"}`
		req := httptest.NewRequest(http.MethodPut, "/api/admin/profile", bytes.NewBufferString(reqBody))
		rr := httptest.NewRecorder()
		h.HandleUpdateProfile(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var profile model.Profile
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&profile))
		assert.Equal(t, "Jane Doe", profile.Name)
		// Untouched fields keep their values.
		assert.Equal(t, "Data Scientist & Développeur Python", profile.Title)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/profile", bytes.NewBufferString(`{"name":`))
		rr := httptest.NewRecorder()
		h.HandleUpdateProfile(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestSkillHandlers(t *testing.T) {
	h, st := newPortfolioHandler(t)

	t.Run("create", func(t *testing.T) {
		reqBody := `{"name":"Rust","category":"Langages","level":60}`
		req := httptest.NewRequest(http.MethodPost, "/api/admin/skills", bytes.NewBufferString(reqBody))
		rr := httptest.NewRecorder()
		h.HandleCreateSkill(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var skill model.Skill
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&skill))
		assert.NotEmpty(t, skill.ID)
		assert.Equal(t, "Rust", skill.Name)
	})

	t.Run("list includes created skill", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/skills", nil)
		rr := httptest.NewRecorder()
		h.HandleListSkills(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var skills []model.Skill
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&skills))

		var found bool
		for _, s := range skills {
			if s.Name == "Rust" {
				found = true
			}
		}
		assert.True(t, found, "created skill should appear in the list")
	})

	t.Run("update unknown id is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/skills/nope", bytes.NewBufferString(`{"level":99}`))
		req.SetPathValue("id", "nope")
		rr := httptest.NewRecorder()
		h.HandleUpdateSkill(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("update merges fields", func(t *testing.T) {
		skills, err := st.Skills(context.Background())
		require.NoError(t, err)
		target := skills[0]

		req := httptest.NewRequest(http.MethodPut, "/api/admin/skills/"+target.ID, bytes.NewBufferString(`{"level":99}`))
		req.SetPathValue("id", target.ID)
		rr := httptest.NewRecorder()
		h.HandleUpdateSkill(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var updated model.Skill
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&updated))
		assert.Equal(t, 99, updated.Level)
		assert.Equal(t, target.Name, updated.Name)
	})

	t.Run("delete", func(t *testing.T) {
		skills, err := st.Skills(context.Background())
		require.NoError(t, err)
		before := len(skills)

		req := httptest.NewRequest(http.MethodDelete, "/api/admin/skills/"+skills[0].ID, nil)
		req.SetPathValue("id", skills[0].ID)
		rr := httptest.NewRecorder()
		h.HandleDeleteSkill(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)

		skills, err = st.Skills(context.Background())
		require.NoError(t, err)
		assert.Len(t, skills, before-1)
	})

	t.Run("delete unknown id still 204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/skills/nope", nil)
		req.SetPathValue("id", "nope")
		rr := httptest.NewRecorder()
		h.HandleDeleteSkill(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func TestProjectHandlers(t *testing.T) {
	h, _ := newPortfolioHandler(t)

	reqBody := `{"title":"CLI Tool","description":"a tool","technologies":["Go","SQLite"],"featured":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/projects", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()
	h.HandleCreateProject(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var project model.Project
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&project))
	assert.NotEmpty(t, project.ID)
	assert.Equal(t, []string{"Go", "SQLite"}, project.Technologies)
	assert.True(t, project.Featured)

	// Round-trip through the update handler.
	upd := httptest.NewRequest(http.MethodPut, "/api/admin/projects/"+project.ID, bytes.NewBufferString(`{"featured":false}`))
	upd.SetPathValue("id", project.ID)
	rr = httptest.NewRecorder()
	h.HandleUpdateProject(rr, upd)

	assert.Equal(t, http.StatusOK, rr.Code)
	var updated model.Project
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&updated))
	assert.False(t, updated.Featured)
	assert.Equal(t, "CLI Tool", updated.Title)
}

func TestHandleListArticles(t *testing.T) {
	h, st := newPortfolioHandler(t)

	_, err := st.AddArticle(context.Background(), model.Article{Title: "Draft", Published: false})
	require.NoError(t, err)
	_, err = st.AddArticle(context.Background(), model.Article{Title: "Live", Published: true})
	require.NoError(t, err)

	t.Run("public list hides drafts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
		rr := httptest.NewRecorder()
		h.HandleListArticles(rr, req)

		var articles []model.Article
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&articles))
		require.Len(t, articles, 1)
		assert.Equal(t, "Live", articles[0].Title)
	})

	t.Run("all=1 without a session is ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/articles?all=1", nil)
		rr := httptest.NewRecorder()
		h.HandleListArticles(rr, req)

		var articles []model.Article
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&articles))
		assert.Len(t, articles, 1, "anonymous callers never see drafts")
	})
}

func TestHandleListArticlesWithSession(t *testing.T) {
	st := newTestStore(t)
	sessions := newTestSessions(t)
	h := handler.NewPortfolioHandler(st, sessions, testLogger())

	ctx := context.Background()
	_, err := st.AddArticle(ctx, model.Article{Title: "Draft", Published: false})
	require.NoError(t, err)
	_, err = st.AddArticle(ctx, model.Article{Title: "Live", Published: true})
	require.NoError(t, err)

	ok, err := sessions.Login(ctx, "admin123")
	require.NoError(t, err)
	require.True(t, ok)
	token, err := sessions.SessionToken(ctx)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/articles?all=1", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	rr := httptest.NewRecorder()
	h.HandleListArticles(rr, req)

	var articles []model.Article
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&articles))
	assert.Len(t, articles, 2, "an authenticated admin sees drafts too")
}
