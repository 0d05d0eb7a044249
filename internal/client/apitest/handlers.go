package apitest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/dashgate/internal/client/models"
	"github.com/dmitrijs2005/dashgate/internal/common"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		var missing []string
		if username == "" {
			missing = append(missing, "username")
		}
		if password == "" {
			missing = append(missing, "password")
		}
		writeMissing(w, missing...)
		return
	}

	s.mu.Lock()
	a := s.byEmail(username)
	var snapshot account
	if a != nil {
		snapshot = *a
	}
	s.mu.Unlock()

	if a == nil || bcrypt.CompareHashAndPassword(snapshot.hash, []byte(password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	if snapshot.Status != models.StatusActive {
		writeDetail(w, http.StatusForbidden, "User is registered but not activated")
		return
	}

	tok, err := generateToken(snapshot.Email, snapshot.tokenVersion, s.secret, s.tokenTTL)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": tok, "token_type": "bearer"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	var missing []string
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		writeMissing(w, missing...)
		return
	}

	s.mu.Lock()
	exists := s.byEmail(in.Email) != nil
	s.mu.Unlock()
	if exists {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}

	id := s.AddUser(in.Name, in.Email, in.Password, models.RoleUser, models.StatusPending)

	s.mu.Lock()
	out := toUserInDB(s.accounts[id])
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserInDB(current(r)))
}

func (s *Server) handleIsLoggedIn(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"logged_in": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	me := current(r)

	s.mu.Lock()
	if a, ok := s.accounts[me.ID]; ok {
		a.tokenVersion++
	}
	s.mu.Unlock()

	writeDetail(w, http.StatusOK, "Logged out from all sessions")
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid user id")
		return
	}
	me := current(r)
	if me.ID != id && me.Role != models.RoleAdmin {
		writeDetail(w, http.StatusForbidden, "Not authorized to update this user")
		return
	}

	var in models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}

	var hash []byte
	if in.Password != nil && *in.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.MinCost)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "could not hash password")
			return
		}
		hash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	if in.Email != nil && *in.Email != "" {
		if other := s.byEmail(*in.Email); other != nil && other.ID != id {
			writeDetail(w, http.StatusBadRequest, "Email already registered")
			return
		}
		a.Email = *in.Email
	}
	if in.Name != nil && *in.Name != "" {
		a.Name = *in.Name
	}
	if hash != nil {
		a.hash = hash
	}
	writeJSON(w, http.StatusOK, toUserInDB(a))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid user id")
		return
	}
	me := current(r)
	if me.ID != id && me.Role != models.RoleAdmin {
		writeDetail(w, http.StatusForbidden, "Not authorized to delete this user")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	delete(s.accounts, id)
	writeDetail(w, http.StatusOK, "User deleted successfully")
}

func (s *Server) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" {
		writeMissing(w, "email")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.byEmail(in.Email)
	if a == nil {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	token, err := common.MakeRandHexString(16)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.resetTokens[token] = a.Email
	writeDetail(w, http.StatusOK, "Password reset email sent")
}

func (s *Server) handleResetConfirm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	var in struct {
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.NewPassword) == "" {
		writeMissing(w, "new_password")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.MinCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "could not hash password")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.resetTokens[token]
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	delete(s.resetTokens, token)
	if a := s.byEmail(email); a != nil {
		a.hash = hash
	}
	writeDetail(w, http.StatusOK, "Password has been reset")
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]userOut, 0)
	for _, id := range s.sortedIDs() {
		a := s.accounts[id]
		if a.Status != models.StatusActive {
			out = append(out, userOut{ID: a.ID, Name: a.Name, Email: a.Email})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid user id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	a.Status = models.StatusActive
	writeJSON(w, http.StatusOK, toUserInDB(a))
}

func (s *Server) handleUserIDs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.sortedIDs())
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid user id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, toUserInDB(a))
}
