package handler

import (
	"authboiler/internal/http/handler/middleware"
	"authboiler/internal/http/payload"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

var (
	LoginPage    = "GET /login"
	Login        = "POST /login"
	RegisterPage = "GET /register"
	Register     = "POST /register"
)

const (
	loginPageBody    = "this is the end"
	registerPageBody = "<h1>Register Page</h1>"
)

// Route binds a handler to a method and path.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

type AuthHandler struct {
	logs             *zap.SugaredLogger
	requestValidator RequestValidator
}

func NewAuthHandler(logger *zap.SugaredLogger, requestValidator RequestValidator) *AuthHandler {
	return &AuthHandler{
		logs:             logger,
		requestValidator: requestValidator,
	}
}

func (h *AuthHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/login", Handler: h.HandleLoginPage},
		{Method: http.MethodPost, Path: "/login", Handler: h.HandleLogin},
		{Method: http.MethodGet, Path: "/register", Handler: h.HandleRegisterPage},
		{Method: http.MethodPost, Path: "/register", Handler: h.HandleRegister},
	}
}

func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	// no Content-Type at all, not even a sniffed one
	w.Header()["Content-Type"] = nil
	w.WriteHeader(http.StatusOK)
	h.write(w, loginPageBody, LoginPage, middleware.GetRequestID(r.Context()))
}

func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	h.write(w, registerPageBody, RegisterPage, middleware.GetRequestID(r.Context()))
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	h.handleCredentials(w, r, Login)
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	h.handleCredentials(w, r, Register)
}

func (h *AuthHandler) handleCredentials(w http.ResponseWriter, r *http.Request, route string) {
	requestId := middleware.GetRequestID(r.Context())

	var creds payload.CredentialsRequest
	err := h.requestValidator.DecodeAndValidatePayload(r, &creds)
	if err != nil {
		code := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			code = http.StatusRequestEntityTooLarge
		}

		h.respond(w, Response{
			Message: "Request failed",
			Error:   fmt.Errorf("invalid request payload: %w", err).Error(),
		}, code,
			requestId)
		h.logs.Errorw("failed to decode and validate request payload",
			"error", err,
			"handler", route,
			"request_id", requestId)
		return
	}

	h.logs.Infow("credentials received",
		"username", creds.Username,
		"handler", route,
		"request_id", requestId)

	h.respond(w, Response{
		Message: "Not implemented",
		Error:   fmt.Sprintf("%s has no behaviour yet", route),
	}, http.StatusNotImplemented,
		requestId)
}

func (h *AuthHandler) write(w io.Writer, body, route, requestId string) {
	if _, err := io.WriteString(w, body); err != nil {
		h.logs.Errorw("failed to write response",
			"error", err,
			"handler", route,
			"request_id", requestId)
	}
}

func (h *AuthHandler) respond(w http.ResponseWriter, resp any, code int, requestId string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, oopsErr, http.StatusInternalServerError)
		h.logs.Errorw("failed to encode response",
			"error", err,
			"request_id", requestId)
	}
}
