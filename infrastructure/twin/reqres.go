// Package twin serves a local stand-in for the reqres users API so the
// API scenario can run without network access.
package twin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Options configures the stand-in
type Options struct {
	// APIKey is required in x-api-key when set
	APIKey string

	// Latency delays every response
	Latency time.Duration

	// Override replaces fields of created users before they are echoed
	Override map[string]string

	Now func() time.Time
}

// User is a created user as stored by the stand-in
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Job       string `json:"job,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Reqres is the stand-in server. It implements http.Handler.
type Reqres struct {
	Router *chi.Mux
	opts   Options
	logger *logrus.Logger

	mu     sync.RWMutex
	nextID int
	users  map[string]map[string]interface{}
}

// New - creates the stand-in with its routes mounted
func New(opts Options, logger *logrus.Logger) *Reqres {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	t := &Reqres{
		Router: chi.NewRouter(),
		opts:   opts,
		logger: logger,
		nextID: 1,
		users:  make(map[string]map[string]interface{}),
	}

	t.Router.Use(chimw.RequestID)
	t.Router.Use(chimw.Recoverer)
	t.Router.Use(t.requestLog)
	t.Router.Use(t.latency)

	t.Router.Route("/api/users", func(r chi.Router) {
		r.Use(t.requireKey)
		r.Post("/", t.createUser)
		r.Get("/{id}", t.getUser)
	})
	return t
}

// ServeHTTP implements http.Handler so the stand-in can be used directly in tests
func (t *Reqres) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.Router.ServeHTTP(w, r)
}

// Serve listens on addr until ctx is cancelled
func (t *Reqres) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      t.Router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		t.logger.WithField("addr", addr).Info("Starting reqres twin")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	t.logger.Info("Shutting down reqres twin")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (t *Reqres) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		t.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": chimw.GetReqID(r.Context()),
		}).Debug("request")
	})
}

func (t *Reqres) latency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.opts.Latency > 0 {
			select {
			case <-time.After(t.opts.Latency):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (t *Reqres) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.opts.APIKey != "" && r.Header.Get("x-api-key") != t.opts.APIKey {
			writeError(w, http.StatusUnauthorized, "Missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (t *Reqres) createUser(w http.ResponseWriter, r *http.Request) {
	user := make(map[string]interface{})
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}
	for k, v := range t.opts.Override {
		user[k] = v
	}

	t.mu.Lock()
	id := strconv.Itoa(t.nextID)
	t.nextID++
	user["id"] = id
	user["createdAt"] = t.opts.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	t.users[id] = user
	t.mu.Unlock()

	writeJSON(w, http.StatusCreated, user)
}

func (t *Reqres) getUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t.mu.RLock()
	user, ok := t.users[id]
	t.mu.RUnlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": user})
}

// Users returns the users created so far
func (t *Reqres) Users() []User {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]User, 0, len(t.users))
	for i := 1; i < t.nextID; i++ {
		u, ok := t.users[strconv.Itoa(i)]
		if !ok {
			continue
		}
		out = append(out, User{
			ID:        fmt.Sprint(u["id"]),
			Name:      stringField(u, "name"),
			Job:       stringField(u, "job"),
			CreatedAt: fmt.Sprint(u["createdAt"]),
		})
	}
	return out
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"error": message})
}
