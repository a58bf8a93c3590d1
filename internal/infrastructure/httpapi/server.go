// Package httpapi is the JSON-over-HTTP shell around the catalog handlers.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ersonp/filmorate/internal/application/handlers"
	"github.com/ersonp/filmorate/internal/domain/entities"
	"github.com/ersonp/filmorate/internal/infrastructure/config"
	"github.com/ersonp/filmorate/internal/infrastructure/metrics"
)

// DefaultPopularCount is used when GET /films/popular has no count.
const DefaultPopularCount = 10

// Options configures a Server.
type Options struct {
	Works        *handlers.WorkHandler
	Participants *handlers.ParticipantHandler
	Metrics      *metrics.Metrics // optional
	Logger       logrus.FieldLogger
	RateLimit    config.RateLimitConfig
}

// Server routes HTTP requests to the catalog handlers.
type Server struct {
	router       *mux.Router
	works        *handlers.WorkHandler
	participants *handlers.ParticipantHandler
	metrics      *metrics.Metrics
	log          logrus.FieldLogger
	validate     *validator.Validate
}

// NewServer builds the router and its middleware chain.
func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Server{
		router:       mux.NewRouter(),
		works:        opts.Works,
		participants: opts.Participants,
		metrics:      opts.Metrics,
		log:          log.WithField("component", "http"),
		validate:     newValidator(),
	}

	s.router.Use(recoverPanics(s.log), requestID, accessLog(s.log))
	if s.metrics != nil {
		s.router.Use(instrument(s.metrics))
	}
	if opts.RateLimit.RPS > 0 {
		s.router.Use(newRateLimiter(opts.RateLimit.RPS, opts.RateLimit.Burst, s.metrics, s.log).middleware)
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, s.log, http.StatusNotFound, errorResponse{Error: "route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, s.log, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	films := r.PathPrefix("/films").Subrouter()
	films.HandleFunc("", s.listWorks).Methods(http.MethodGet)
	films.HandleFunc("", s.createWork).Methods(http.MethodPost)
	films.HandleFunc("", s.updateWork).Methods(http.MethodPut)
	films.HandleFunc("/popular", s.popularWorks).Methods(http.MethodGet)
	films.HandleFunc("/{id:[0-9]+}", s.getWork).Methods(http.MethodGet)
	films.HandleFunc("/{id:[0-9]+}", s.deleteWork).Methods(http.MethodDelete)
	films.HandleFunc("/{id:[0-9]+}/like/{userId:[0-9]+}", s.addLike).Methods(http.MethodPut)
	films.HandleFunc("/{id:[0-9]+}/like/{userId:[0-9]+}", s.removeLike).Methods(http.MethodDelete)

	users := r.PathPrefix("/users").Subrouter()
	users.HandleFunc("", s.listParticipants).Methods(http.MethodGet)
	users.HandleFunc("", s.createParticipant).Methods(http.MethodPost)
	users.HandleFunc("", s.updateParticipant).Methods(http.MethodPut)
	users.HandleFunc("/{id:[0-9]+}", s.getParticipant).Methods(http.MethodGet)
	users.HandleFunc("/{id:[0-9]+}", s.deleteParticipant).Methods(http.MethodDelete)
	users.HandleFunc("/{id:[0-9]+}/friends", s.listFriends).Methods(http.MethodGet)
	users.HandleFunc("/{id:[0-9]+}/friends/common/{otherId:[0-9]+}", s.commonFriends).Methods(http.MethodGet)
	users.HandleFunc("/{id:[0-9]+}/friends/{friendId:[0-9]+}", s.addFriend).Methods(http.MethodPut)
	users.HandleFunc("/{id:[0-9]+}/friends/{friendId:[0-9]+}", s.removeFriend).Methods(http.MethodDelete)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.log, http.StatusOK, healthResponse{
		Status:       "ok",
		Works:        s.works.Count(r.Context()),
		Participants: s.participants.Count(r.Context()),
	})
}

// decode reads a JSON body into dst and runs the struct validator on it.
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, entities.NewValidationError(name, "must be a positive identifier")
	}
	return id, nil
}

func pathIDs(r *http.Request, first, second string) (int64, int64, error) {
	a, err := pathID(r, first)
	if err != nil {
		return 0, 0, err
	}
	b, err := pathID(r, second)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// Works.

func (s *Server) listWorks(w http.ResponseWriter, r *http.Request) {
	works, err := s.works.HandleList(r.Context())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, r, s.log, http.StatusOK, newWorkResponses(works))
}

func (s *Server) createWork(w http.ResponseWriter, r *http.Request) {
	var req workRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	created, err := s.works.HandleCreate(r.Context(), req.toEntity())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, r, s.log, http.StatusCreated, newWorkResponse(&created))
}

func (s *Server) updateWork(w http.ResponseWriter, r *http.Request) {
	var req workRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	updated, err := s.works.HandleUpdate(r.Context(), req.toEntity())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, r, s.log, http.StatusOK, newWorkResponse(&updated))
}

func (s *Server) popularWorks(w http.ResponseWriter, r *http.Request) {
	count := DefaultPopularCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, s.log, entities.NewValidationError("count", "must be an integer"))
			return
		}
		count = n
	}
	works, err := s.works.HandlePopular(r.Context(), count)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, r, s.log, http.StatusOK, newWorkResponses(works))
}

func (s *Server) getWork(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	work, err := s.works.HandleGet(r.Context(), id)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, r, s.log, http.StatusOK, newWorkResponse(&work))
}

func (s *Server) deleteWork(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	if err := s.works.HandleDelete(r.Context(), id); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addLike(w http.ResponseWriter, r *http.Request) {
	workID, participantID, err := pathIDs(r, "id", "userId")
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	added, err := s.works.HandleAddLike(r.Context(), workID, participantID)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, r, s.log, http.StatusOK, likeResponse{Added: added})
}

func (s *Server) removeLike(w http.ResponseWriter, r *http.Request) {
	workID, participantID, err := pathIDs(r, "id", "userId")
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	if err := s.works.HandleRemoveLike(r.Context(), workID, participantID); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Participants.

func (s *Server) listParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := s.participants.HandleList(r.Context())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, r, s.log, http.StatusOK, newParticipantResponses(participants))
}

func (s *Server) createParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	created, err := s.participants.HandleCreate(r.Context(), req.toEntity())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, r, s.log, http.StatusCreated, newParticipantResponse(&created))
}

func (s *Server) updateParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	updated, err := s.participants.HandleUpdate(r.Context(), req.toEntity())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, r, s.log, http.StatusOK, newParticipantResponse(&updated))
}

func (s *Server) getParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	participant, err := s.participants.HandleGet(r.Context(), id)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, r, s.log, http.StatusOK, newParticipantResponse(&participant))
}

func (s *Server) deleteParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	if err := s.participants.HandleDelete(r.Context(), id); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addFriend(w http.ResponseWriter, r *http.Request) {
	id, friendID, err := pathIDs(r, "id", "friendId")
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	if err := s.participants.HandleAddFriend(r.Context(), id, friendID); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeFriend(w http.ResponseWriter, r *http.Request) {
	id, friendID, err := pathIDs(r, "id", "friendId")
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	if err := s.participants.HandleRemoveFriend(r.Context(), id, friendID); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listFriends(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	friends, err := s.participants.HandleFriends(r.Context(), id)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, r, s.log, http.StatusOK, newParticipantResponses(friends))
}

func (s *Server) commonFriends(w http.ResponseWriter, r *http.Request) {
	id, otherID, err := pathIDs(r, "id", "otherId")
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	common, err := s.participants.HandleCommonFriends(r.Context(), id, otherID)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, r, s.log, http.StatusOK, newParticipantResponses(common))
}
