package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/webgap/leadscout/internal/leads"
	"github.com/webgap/leadscout/internal/outreach"
	"github.com/webgap/leadscout/internal/search"
	"github.com/webgap/leadscout/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for the lead pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		orch := search.New(newPlacesClient(), search.Config{
			BiasLat:      cfg.Search.BiasLat,
			BiasLng:      cfg.Search.BiasLng,
			RadiusMeters: cfg.Search.RadiusMeters,
			PageDelay:    cfg.Search.PageDelay(),
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(orch, st),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(orch *search.Orchestrator, st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/search", handleSearch(orch))
	r.Route("/api/leads", func(r chi.Router) {
		r.Get("/", handleListLeads(st))
		r.Post("/", handleCreateLead(st))
		r.Patch("/{id}/status", handleUpdateStatus(st))
		r.Patch("/{id}/notes", handleUpdateNotes(st))
		r.Patch("/{id}/contact", handleUpdateContact(st))
		r.Delete("/{id}", handleDeleteLead(st))
	})
	r.Post("/api/outreach-link", handleOutreachLink())

	return r
}

func handleSearch(orch *search.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := orch.Search(r.Context(), req.Query)
		if err != nil {
			var statusErr *search.StatusError
			switch {
			case errors.Is(err, search.ErrInvalidQuery):
				writeError(w, http.StatusBadRequest, "query is required")
			case errors.Is(err, search.ErrServiceUnavailable):
				writeError(w, http.StatusServiceUnavailable, "places service not configured")
			case errors.As(err, &statusErr):
				writeError(w, http.StatusBadGateway, statusErr.Error())
			default:
				zap.L().Error("search failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "search failed")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"leads":            result.Leads,
			"businesses_found": result.BusinessesFound,
			"note":             result.Note,
		})
	}
}

func handleListLeads(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.ListFilter{}
		if s := r.URL.Query().Get("status"); s != "" {
			status := leads.Status(s)
			if !status.Valid() {
				writeError(w, http.StatusBadRequest, "unknown status")
				return
			}
			filter.Status = status
		}

		records, err := st.ListLeads(r.Context(), filter)
		if err != nil {
			zap.L().Error("list leads failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "list failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"leads": records})
	}
}

func handleCreateLead(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var lead leads.QualifiedLead
		if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if lead.PlaceID == "" || lead.NormalizedPhone == "" {
			writeError(w, http.StatusBadRequest, "place_id and normalized_phone are required")
			return
		}

		exists, err := st.HasPlace(r.Context(), lead.PlaceID)
		if err != nil {
			zap.L().Error("place lookup failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "create failed")
			return
		}
		if exists {
			writeError(w, http.StatusConflict, "lead already in pipeline")
			return
		}

		rec, err := st.CreateLead(r.Context(), lead)
		if err != nil {
			zap.L().Error("create lead failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "create failed")
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	}
}

func handleUpdateStatus(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		status := leads.Status(req.Status)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "unknown status")
			return
		}

		if err := st.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status); err != nil {
			respondStoreError(w, err, "update status")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
	}
}

func handleUpdateNotes(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Notes string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := st.UpdateNotes(r.Context(), chi.URLParam(r, "id"), req.Notes); err != nil {
			respondStoreError(w, err, "update notes")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleUpdateContact(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email   string `json:"email"`
			Website string `json:"website"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := st.UpdateContact(r.Context(), chi.URLParam(r, "id"), req.Email, req.Website); err != nil {
			respondStoreError(w, err, "update contact")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleDeleteLead(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.DeleteLead(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondStoreError(w, err, "delete lead")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleOutreachLink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Phone   string `json:"phone"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Phone == "" {
			writeError(w, http.StatusBadRequest, "phone is required")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"link": outreach.BuildMessageLink(req.Phone, req.Message),
		})
	}
}

func respondStoreError(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	zap.L().Error(action+" failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, action+" failed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
