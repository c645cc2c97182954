// Package httpapi exposes the editor's action surface as a JSON REST API.
// It is the adapter behind "kinmap serve".
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avelar0/kinmap"
	"github.com/avelar0/kinmap/internal/logging"
	"github.com/avelar0/kinmap/pkg/domain"
)

// Server routes HTTP requests onto one Editor. The editor serializes its own
// mutations, so the handler needs no extra locking.
type Server struct {
	editor *kinmap.Editor
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewHandler creates the HTTP handler for the editor.
func NewHandler(editor *kinmap.Editor, opts ...Option) http.Handler {
	s := &Server{
		editor: editor,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()

	r.Get("/document", s.getDocument)
	r.Put("/document", s.putDocument)
	r.Post("/document/reset", s.resetDocument)
	r.Get("/status", s.getStatus)

	r.Post("/people", s.addPerson)
	r.Patch("/people/{id}", s.updatePerson)
	r.Delete("/people/{id}", s.deletePerson)

	r.Post("/relationships", s.addRelationship)
	r.Patch("/relationships/{id}", s.updateRelationship)
	r.Delete("/relationships/{id}", s.deleteRelationship)

	r.Post("/households", s.addHousehold)
	r.Patch("/households/{id}", s.updateHousehold)
	r.Delete("/households/{id}", s.deleteHousehold)

	r.Post("/annotations", s.addAnnotation)
	r.Patch("/annotations/{id}", s.updateAnnotation)
	r.Delete("/annotations/{id}", s.deleteAnnotation)

	r.Get("/selection", s.getSelection)
	r.Put("/selection", s.putSelection)
	r.Delete("/selection", s.clearSelection)
	r.Post("/selection/nodes/{id}/toggle", s.toggleNode)
	r.Delete("/selection/nodes", s.clearNodes)

	r.Post("/connection/start", s.startConnection)
	r.Post("/connection/commit", s.commitConnection)
	r.Post("/connection/cancel", s.cancelConnection)
	r.Post("/connection/attach", s.attachChild)

	r.Post("/household-drawing/start", s.startDrawing)
	r.Post("/household-drawing/points", s.addBoundaryPoint)
	r.Post("/household-drawing/close", s.closeDrawing)
	r.Post("/household-drawing/cancel", s.cancelDrawing)

	r.Post("/undo", s.undo)
	r.Post("/redo", s.redo)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusUnprocessableEntity
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrEndpointNotFound),
		errors.Is(err, domain.ErrDocumentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateEdge),
		errors.Is(err, domain.ErrDuplicateID):
		status = http.StatusConflict
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func badRequest(w http.ResponseWriter) {
	http.Error(w, "invalid request body", http.StatusBadRequest)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.editor.Document())
}

func (s *Server) putDocument(w http.ResponseWriter, r *http.Request) {
	var doc domain.Document
	if err := decode(r, &doc); err != nil {
		badRequest(w)
		return
	}
	if err := s.editor.Load(r.Context(), &doc); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) resetDocument(w http.ResponseWriter, r *http.Request) {
	s.editor.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	zoom, panX, panY := s.editor.Viewport()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"dirty":      s.editor.Dirty(),
		"canUndo":    s.editor.CanUndo(),
		"canRedo":    s.editor.CanRedo(),
		"drawing":    s.editor.DrawingHousehold(),
		"connecting": s.editor.Connecting(),
		"zoom":       zoom,
		"panX":       panX,
		"panY":       panY,
	})
}

func (s *Server) addPerson(w http.ResponseWriter, r *http.Request) {
	var p domain.Person
	if err := decode(r, &p); err != nil {
		badRequest(w)
		return
	}
	created, err := s.editor.AddPerson(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updatePerson(w http.ResponseWriter, r *http.Request) {
	var patch domain.PersonPatch
	if err := decode(r, &patch); err != nil {
		badRequest(w)
		return
	}
	if err := s.editor.UpdatePerson(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deletePerson(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.DeletePerson(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addRelationship(w http.ResponseWriter, r *http.Request) {
	var rel domain.Relationship
	if err := decode(r, &rel); err != nil {
		badRequest(w)
		return
	}
	created, err := s.editor.AddRelationship(r.Context(), rel)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateRelationship(w http.ResponseWriter, r *http.Request) {
	var patch domain.RelationshipPatch
	if err := decode(r, &patch); err != nil {
		badRequest(w)
		return
	}
	if err := s.editor.UpdateRelationship(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteRelationship(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.DeleteRelationship(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addHousehold(w http.ResponseWriter, r *http.Request) {
	var h domain.Household
	if err := decode(r, &h); err != nil {
		badRequest(w)
		return
	}
	created, err := s.editor.AddHousehold(r.Context(), h)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateHousehold(w http.ResponseWriter, r *http.Request) {
	var patch domain.HouseholdPatch
	if err := decode(r, &patch); err != nil {
		badRequest(w)
		return
	}
	if err := s.editor.UpdateHousehold(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteHousehold(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.DeleteHousehold(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addAnnotation(w http.ResponseWriter, r *http.Request) {
	var a domain.Annotation
	if err := decode(r, &a); err != nil {
		badRequest(w)
		return
	}
	created, err := s.editor.AddAnnotation(r.Context(), a)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateAnnotation(w http.ResponseWriter, r *http.Request) {
	var patch domain.AnnotationPatch
	if err := decode(r, &patch); err != nil {
		badRequest(w)
		return
	}
	if err := s.editor.UpdateAnnotation(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteAnnotation(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.DeleteAnnotation(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSelection(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"selection": s.editor.Selection(),
		"nodes":     s.editor.SelectedNodes(),
	})
}

func (s *Server) putSelection(w http.ResponseWriter, r *http.Request) {
	var sel domain.Selection
	if err := decode(r, &sel); err != nil {
		badRequest(w)
		return
	}
	s.editor.Select(sel.Kind, sel.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearSelection(w http.ResponseWriter, r *http.Request) {
	s.editor.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleNode(w http.ResponseWriter, r *http.Request) {
	s.editor.ToggleNodeSelection(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearNodes(w http.ResponseWriter, r *http.Request) {
	s.editor.ClearNodeSelection()
	w.WriteHeader(http.StatusNoContent)
}

type startConnectionRequest struct {
	OriginID string                `json:"originId"`
	Kind     domain.ConnectionKind `json:"kind"`
}

func (s *Server) startConnection(w http.ResponseWriter, r *http.Request) {
	var body startConnectionRequest
	if err := decode(r, &body); err != nil {
		badRequest(w)
		return
	}
	s.editor.StartConnection(body.OriginID, body.Kind)
	w.WriteHeader(http.StatusNoContent)
}

type commitConnectionRequest struct {
	TargetID string `json:"targetId"`
}

func (s *Server) commitConnection(w http.ResponseWriter, r *http.Request) {
	var body commitConnectionRequest
	if err := decode(r, &body); err != nil {
		badRequest(w)
		return
	}
	decision, ok := s.editor.CommitConnection(r.Context(), body.TargetID)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"ok":       ok,
		"decision": decision,
	})
}

func (s *Server) cancelConnection(w http.ResponseWriter, r *http.Request) {
	s.editor.CancelConnection()
	w.WriteHeader(http.StatusNoContent)
}

type attachChildRequest struct {
	RelationshipID string `json:"relationshipId,omitempty"`
	// Option picks a co-parent policy: unknown_co_parent, new_partner,
	// existing_person or single_parent. Empty means RelationshipID is set.
	Option     string         `json:"option,omitempty"`
	CoParentID string         `json:"coParentId,omitempty"`
	CoParent   *domain.Person `json:"coParent,omitempty"`
}

func (s *Server) attachChild(w http.ResponseWriter, r *http.Request) {
	var body attachChildRequest
	if err := decode(r, &body); err != nil {
		badRequest(w)
		return
	}

	switch domain.CoParentOption(body.Option) {
	case domain.OptionUnknownCoParent:
		if err := s.editor.AttachChildWithUnknownCoParent(r.Context()); err != nil {
			s.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case domain.OptionNewPartner:
		var coParent domain.Person
		if body.CoParent != nil {
			coParent = *body.CoParent
		}
		stored, err := s.editor.AttachChildWithNewPartner(r.Context(), coParent)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, stored)
	case domain.OptionExistingPerson:
		if err := s.editor.AttachChildWithExistingCoParent(r.Context(), body.CoParentID); err != nil {
			s.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case domain.OptionSingleParent:
		rel, err := s.editor.AttachChildSingleParent(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, rel)
	default:
		rel, err := s.editor.AttachChildToRelationship(r.Context(), body.RelationshipID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, rel)
	}
}

func (s *Server) startDrawing(w http.ResponseWriter, r *http.Request) {
	s.editor.StartDrawingHousehold()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addBoundaryPoint(w http.ResponseWriter, r *http.Request) {
	var pt domain.Point
	if err := decode(r, &pt); err != nil {
		badRequest(w)
		return
	}
	h, err := s.editor.AddBoundaryPoint(r.Context(), pt)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"household": h})
}

func (s *Server) closeDrawing(w http.ResponseWriter, r *http.Request) {
	h, err := s.editor.CloseHousehold(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"household": h})
}

func (s *Server) cancelDrawing(w http.ResponseWriter, r *http.Request) {
	s.editor.CancelDrawingHousehold()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": s.editor.Undo(r.Context())})
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": s.editor.Redo(r.Context())})
}
