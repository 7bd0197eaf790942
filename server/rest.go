package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/bookmarker/pkg/domain"
	"github.com/umputun/bookmarker/pkg/orchestrator"
	"github.com/umputun/bookmarker/pkg/settings"
)

// classifyRequest is a manual trigger from a surface
type classifyRequest struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Surface string `json:"surface"`
	PageRef string `json:"page_ref"`
}

// settingsResponse hides the api key
type settingsResponse struct {
	Provider      domain.ProviderID   `json:"provider"`
	APIKeySet     bool                `json:"api_key_set"`
	Model         string              `json:"model,omitempty"`
	Endpoint      string              `json:"endpoint,omitempty"`
	FolderPolicy  domain.FolderPolicy `json:"folder_policy"`
	RenameEnabled bool                `json:"rename_enabled"`
	Language      string              `json:"language"`
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// classifyHandler runs a manual classification and waits for its result
func (s *Server) classifyHandler(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request: %w", err), http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		renderError(w, r, errors.New("url is required"), http.StatusBadRequest)
		return
	}

	// retries with backoff may take longer than server write timeout, the caller still gets the outcome
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		lgr.Printf("[DEBUG] can't reset write deadline: %v", err)
	}

	res := s.Classifier.Process(r.Context(), orchestrator.Trigger{
		URL:     req.URL,
		Title:   req.Title,
		PageRef: req.PageRef,
		Surface: req.Surface,
		Manual:  true,
	})
	code := http.StatusOK
	if !res.Success {
		code = http.StatusUnprocessableEntity
	}
	renderJSON(w, r, code, res)
}

// treeHandler returns the whole bookmark tree
func (s *Server) treeHandler(w http.ResponseWriter, r *http.Request) {
	tree, err := s.Bookmarks.Tree(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to get bookmark tree: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, tree)
}

// createBookmarkHandler adds a bookmark or a folder the way a user would, listeners get the created event
func (s *Server) createBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.NodeCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request: %w", err), http.StatusBadRequest)
		return
	}
	if req.ParentID == "" {
		renderError(w, r, errors.New("parent_id is required"), http.StatusBadRequest)
		return
	}

	node, err := s.Bookmarks.Create(r.Context(), req)
	if err != nil {
		renderStoreError(w, r, "create bookmark", err)
		return
	}
	renderJSON(w, r, http.StatusCreated, node)
}

// updateBookmarkHandler changes title, url or parent of a node
func (s *Server) updateBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	var upd domain.NodeUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		renderError(w, r, fmt.Errorf("invalid request: %w", err), http.StatusBadRequest)
		return
	}

	node, err := s.Bookmarks.Update(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		renderStoreError(w, r, "update bookmark", err)
		return
	}
	renderJSON(w, r, http.StatusOK, node)
}

// removeBookmarkHandler deletes a node with its subtree
func (s *Server) removeBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Bookmarks.Remove(r.Context(), r.PathValue("id")); err != nil {
		renderStoreError(w, r, "remove bookmark", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// historyHandler returns history, newest first
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := s.History.List(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to list history: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, entries)
}

func (s *Server) clearHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.History.Clear(r.Context()); err != nil {
		lgr.Printf("[ERROR] failed to clear history: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	st, err := s.Settings.Load(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to load settings: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, toSettingsResponse(st))
}

// putSettingsHandler saves settings, an empty api key keeps the stored one
func (s *Server) putSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request: %w", err), http.StatusBadRequest)
		return
	}

	if req.Provider.APIKey == "" {
		current, err := s.Settings.Load(r.Context())
		if err != nil {
			lgr.Printf("[ERROR] failed to load settings: %v", err)
			renderError(w, r, err, http.StatusInternalServerError)
			return
		}
		req.Provider.APIKey = current.Provider.APIKey
	}

	if err := s.Settings.Save(r.Context(), req); err != nil {
		if errors.Is(err, settings.ErrInvalid) {
			renderError(w, r, err, http.StatusBadRequest)
			return
		}
		lgr.Printf("[ERROR] failed to save settings: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	st, err := s.Settings.Load(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to reload settings: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, toSettingsResponse(st))
}

func toSettingsResponse(st domain.Settings) settingsResponse {
	return settingsResponse{
		Provider:      st.Provider.ID,
		APIKeySet:     st.Provider.APIKey != "",
		Model:         st.Provider.Model,
		Endpoint:      st.Provider.Endpoint,
		FolderPolicy:  st.FolderPolicy,
		RenameEnabled: st.RenameEnabled,
		Language:      st.Language,
	}
}

// renderStoreError maps bookmark store errors to status codes
func renderStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		renderError(w, r, err, http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidNode):
		renderError(w, r, err, http.StatusBadRequest)
	default:
		lgr.Printf("[ERROR] failed to %s: %v", op, err)
		renderError(w, r, err, http.StatusInternalServerError)
	}
}
