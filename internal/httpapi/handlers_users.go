// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package httpapi

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tracklab/tracklab/internal/apperr"
	"github.com/tracklab/tracklab/internal/auth"
)

// bearer extracts the raw Authorization header. The guard handles the
// Bearer prefix and an empty value.
func bearer(r *http.Request) string {
	return r.Header.Get("Authorization")
}

// pathID parses a ULID path parameter.
func pathID(r *http.Request, name string) (ulid.ULID, error) {
	id, err := ulid.Parse(r.PathValue(name))
	if err != nil {
		return ulid.ULID{}, apperr.Validation(name, "invalid %s", name).WithCause(err)
	}
	return id, nil
}

// formFile opens the uploaded file from the "file" multipart part.
func formFile(r *http.Request) (multipart.File, string, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", apperr.Validation("file", "missing file upload").WithCause(err)
	}
	return file, header.Filename, nil
}

type tokenResponse struct {
	Token string `json:"token"`
}

type registrationRequest struct {
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Password  string     `json:"password"`
	Bio       string     `json:"bio"`
	BirthDate *time.Time `json:"birth_date"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileUpdateRequest struct {
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Bio       string     `json:"bio"`
	BirthDate *time.Time `json:"birth_date"`
}

type changePasswordRequest struct {
	Password string `json:"password"`
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// userResponse is the outward account shape. The password hash never
// appears here.
type userResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      string     `json:"role"`
	Photo     string     `json:"photo"`
	Bio       string     `json:"bio"`
	BirthDate *time.Time `json:"birth_date"`
	CreatedAt time.Time  `json:"created_at"`
}

func toUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		Photo:     u.Photo,
		Bio:       u.Bio,
		BirthDate: u.BirthDate,
		CreatedAt: u.CreatedAt,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := s.users.Register(r.Context(), auth.Registration{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Bio:       req.Bio,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context(), bearer(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req profileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	err = s.users.UpdateProfile(r.Context(), bearer(r), auth.ProfileUpdate{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.users.ChangePassword(r.Context(), bearer(r), id, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req setRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.users.SetRole(r.Context(), bearer(r), id, req.Role); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.users.Delete(r.Context(), bearer(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUploadUserPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	file, filename, err := formFile(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	if err := s.users.SetPhoto(r.Context(), bearer(r), id, filename, file); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
