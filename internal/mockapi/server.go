package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/strrl/blogpessoal/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	dateLayout        = "2006-01-02T15:04:05"
)

type contextKey struct{}

// Server is an in-memory stand-in for the blog backend. It serves the same
// REST surface the client consumes and is used by tests and by the
// mock-server command.
type Server struct {
	store    *store
	tokenTTL time.Duration
	now      func() time.Time
}

// New creates an empty backend whose tokens live for tokenTTL
func New(tokenTTL time.Duration) (*Server, error) {
	st, err := newStore()
	if err != nil {
		return nil, err
	}
	return &Server{store: st, tokenTTL: tokenTTL, now: time.Now}, nil
}

// Handler builds the HTTP router
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RedirectSlashes)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger)
	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Resource not found.")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	router.Post("/usuarios/cadastrar", s.handleRegister)
	router.Post("/usuarios/logar", s.handleLogin)

	router.Group(func(r chi.Router) {
		r.Use(s.authorize)

		r.Get("/temas", s.handleListTemas)
		r.Post("/temas", s.handleCreateTema)
		r.Put("/temas", s.handleUpdateTema)
		r.Get("/temas/{id}", s.handleGetTema)
		r.Delete("/temas/{id}", s.handleDeleteTema)

		r.Get("/postagens", s.handleListPostagens)
		r.Post("/postagens", s.handleCreatePostagem)
		r.Put("/postagens", s.handleUpdatePostagem)
		r.Get("/postagens/{id}", s.handleGetPostagem)
		r.Delete("/postagens/{id}", s.handleDeletePostagem)
	})
	return router
}

// ExpireSessions invalidates every issued token, so the next protected request answers 403
func (s *Server) ExpireSessions() error {
	return s.store.removeAll(tableTokens)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("mock api request")
	})
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			writeError(w, http.StatusForbidden, "Missing token.")
			return
		}
		obj, err := s.store.first(tableTokens, "id", token)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if obj == nil {
			writeError(w, http.StatusForbidden, "Invalid token.")
			return
		}
		rec := obj.(*tokenRecord)
		if s.now().Unix() > rec.Expires {
			writeError(w, http.StatusForbidden, "Token expired.")
			return
		}
		ctx := context.WithValue(r.Context(), contextKey{}, rec.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUser(r *http.Request) int64 {
	id, _ := r.Context().Value(contextKey{}).(int64)
	return id
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in models.Usuario
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Usuario) == "" || strings.TrimSpace(in.Nome) == "" {
		writeError(w, http.StatusBadRequest, "Nome e usuario são obrigatórios.")
		return
	}
	if len(in.Senha) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "A senha deve ter no mínimo 8 caracteres.")
		return
	}
	existing, err := s.store.first(tableUsuarios, "usuario", in.Usuario)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "Usuário já existe.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Senha), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rec := &usuarioRecord{
		ID:      s.store.nextID(tableUsuarios),
		Nome:    in.Nome,
		Usuario: in.Usuario,
		Hash:    hash,
		Foto:    in.Foto,
	}
	if err := s.store.insert(tableUsuarios, rec); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rec.public())
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in models.UsuarioLogin
	if !decode(w, r, &in) {
		return
	}
	obj, err := s.store.first(tableUsuarios, "usuario", in.Usuario)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if obj == nil {
		writeError(w, http.StatusUnauthorized, "Usuário ou senha inválidos.")
		return
	}
	user := obj.(*usuarioRecord)
	if err := bcrypt.CompareHashAndPassword(user.Hash, []byte(in.Senha)); err != nil {
		writeError(w, http.StatusUnauthorized, "Usuário ou senha inválidos.")
		return
	}

	token := &tokenRecord{
		Token:   "Bearer " + uuid.New().String(),
		UserID:  user.ID,
		Expires: s.now().Add(s.tokenTTL).Unix(),
	}
	if err := s.store.insert(tableTokens, token); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.UsuarioLogin{
		ID:      user.ID,
		Nome:    user.Nome,
		Usuario: user.Usuario,
		Foto:    user.Foto,
		Token:   token.Token,
	})
}

func (s *Server) handleListTemas(w http.ResponseWriter, _ *http.Request) {
	objs, err := s.store.all(tableTemas)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	temas := make([]models.Tema, 0, len(objs))
	for _, obj := range objs {
		rec := obj.(*temaRecord)
		temas = append(temas, models.Tema{ID: rec.ID, Descricao: rec.Descricao})
	}
	writeJSON(w, http.StatusOK, temas)
}

func (s *Server) handleGetTema(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, ok := s.lookupTema(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, models.Tema{ID: rec.ID, Descricao: rec.Descricao})
}

func (s *Server) handleCreateTema(w http.ResponseWriter, r *http.Request) {
	var in models.Tema
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Descricao) == "" {
		writeError(w, http.StatusBadRequest, "A descrição é obrigatória.")
		return
	}
	rec := &temaRecord{ID: s.store.nextID(tableTemas), Descricao: in.Descricao}
	if err := s.store.insert(tableTemas, rec); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, models.Tema{ID: rec.ID, Descricao: rec.Descricao})
}

func (s *Server) handleUpdateTema(w http.ResponseWriter, r *http.Request) {
	var in models.Tema
	if !decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Descricao) == "" {
		writeError(w, http.StatusBadRequest, "A descrição é obrigatória.")
		return
	}
	if _, ok := s.lookupTema(w, in.ID); !ok {
		return
	}
	rec := &temaRecord{ID: in.ID, Descricao: in.Descricao}
	if err := s.store.insert(tableTemas, rec); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.Tema{ID: rec.ID, Descricao: rec.Descricao})
}

func (s *Server) handleDeleteTema(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.deleteByID(w, tableTemas, id)
}

func (s *Server) lookupTema(w http.ResponseWriter, id int64) (*temaRecord, bool) {
	obj, err := s.store.first(tableTemas, "id", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if obj == nil {
		writeError(w, http.StatusNotFound, "Tema não encontrado.")
		return nil, false
	}
	return obj.(*temaRecord), true
}

func (s *Server) handleListPostagens(w http.ResponseWriter, _ *http.Request) {
	objs, err := s.store.all(tablePostagens)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	postagens := make([]models.Postagem, 0, len(objs))
	for _, obj := range objs {
		postagens = append(postagens, s.expand(obj.(*postagemRecord)))
	}
	writeJSON(w, http.StatusOK, postagens)
}

func (s *Server) handleGetPostagem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	obj, err := s.store.first(tablePostagens, "id", id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if obj == nil {
		writeError(w, http.StatusNotFound, "Postagem não encontrada.")
		return
	}
	writeJSON(w, http.StatusOK, s.expand(obj.(*postagemRecord)))
}

func (s *Server) handleCreatePostagem(w http.ResponseWriter, r *http.Request) {
	var in models.Postagem
	if !decode(w, r, &in) {
		return
	}
	rec, ok := s.postagemFromInput(w, r, in)
	if !ok {
		return
	}
	rec.ID = s.store.nextID(tablePostagens)
	if err := s.store.insert(tablePostagens, rec); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s.expand(rec))
}

func (s *Server) handleUpdatePostagem(w http.ResponseWriter, r *http.Request) {
	var in models.Postagem
	if !decode(w, r, &in) {
		return
	}
	existing, err := s.store.first(tablePostagens, "id", in.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Postagem não encontrada.")
		return
	}
	rec, ok := s.postagemFromInput(w, r, in)
	if !ok {
		return
	}
	rec.ID = in.ID
	if err := s.store.insert(tablePostagens, rec); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.expand(rec))
}

func (s *Server) handleDeletePostagem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.deleteByID(w, tablePostagens, id)
}

func (s *Server) postagemFromInput(w http.ResponseWriter, r *http.Request, in models.Postagem) (*postagemRecord, bool) {
	if strings.TrimSpace(in.Titulo) == "" || strings.TrimSpace(in.Texto) == "" {
		writeError(w, http.StatusBadRequest, "Título e texto são obrigatórios.")
		return nil, false
	}
	if in.Tema == nil || in.Tema.ID == 0 {
		writeError(w, http.StatusBadRequest, "O tema é obrigatório.")
		return nil, false
	}
	tema, err := s.store.first(tableTemas, "id", in.Tema.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if tema == nil {
		writeError(w, http.StatusBadRequest, "Tema não existe.")
		return nil, false
	}

	userID := currentUser(r)
	if in.Usuario != nil && in.Usuario.ID != 0 {
		userID = in.Usuario.ID
	}
	return &postagemRecord{
		Titulo: in.Titulo,
		Texto:  in.Texto,
		Data:   s.now(),
		TemaID: in.Tema.ID,
		UserID: userID,
	}, true
}

// expand resolves the theme and author references of a stored post
func (s *Server) expand(rec *postagemRecord) models.Postagem {
	out := models.Postagem{
		ID:     rec.ID,
		Titulo: rec.Titulo,
		Texto:  rec.Texto,
		Data:   rec.Data.Format(dateLayout),
	}
	if obj, err := s.store.first(tableTemas, "id", rec.TemaID); err == nil && obj != nil {
		tema := obj.(*temaRecord)
		out.Tema = &models.Tema{ID: tema.ID, Descricao: tema.Descricao}
	}
	if obj, err := s.store.first(tableUsuarios, "id", rec.UserID); err == nil && obj != nil {
		user := obj.(*usuarioRecord).public()
		out.Usuario = &user
	}
	return out
}

func (s *Server) deleteByID(w http.ResponseWriter, table string, id int64) {
	existed, err := s.store.remove(table, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !existed {
		writeError(w, http.StatusNotFound, "Resource not found.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid id.")
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return false
	}
	return true
}

type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: status, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		log.Error().Err(err).Msg("could not write mock api response")
	}
}
