package ui

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"healthmini/app"
	"healthmini/internal/errors"
	"healthmini/models"
)

// responseStructure is the uniform JSON envelope for every endpoint.
type responseStructure struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(responseStructure{
		Status:  "success",
		Message: message,
		Code:    status,
		Data:    data,
	})
}

// writeError maps the application error taxonomy onto HTTP statuses without
// leaking transport internals beyond the classified kind.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	message := err.Error()

	switch code {
	case errors.CodeQuotaExceeded, errors.CodeCooldownActive:
		status = http.StatusTooManyRequests
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeAlreadyExists, errors.CodeConflict:
		status = http.StatusConflict
	case errors.CodeUnauthorized:
		status = http.StatusUnauthorized
	case errors.CodeGatewayError, errors.CodeProviderError:
		status = http.StatusBadGateway
		message = "the assistant is unavailable right now, please try again"
	default:
		message = "an unexpected error occurred"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(responseStructure{
		Status:  "error",
		Message: message,
		Code:    status,
	})
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.InvalidInput("malformed request body")
	}
	return nil
}

// --- account handlers ---

func (a *App) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var in app.SignUpInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	user, err := a.c.UserService.SignUp(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "successfully signed up, please verify your email with the OTP", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
}

func (a *App) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
		OTP   int    `json:"otp"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if err := a.c.UserService.VerifyOTP(r.Context(), in.Email, in.OTP); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "email verified successfully", nil)
}

func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	token, user, err := a.c.UserService.Login(r.Context(), in.Identifier, in.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "login successful", map[string]interface{}{
		"token":             token,
		"user_id":           user.ID,
		"subscription_plan": user.SubscriptionPlan,
	})
}

func (a *App) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := a.c.UserService.DeleteAccount(r.Context(), userIDFrom(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "account deleted", nil)
}

func (a *App) handleChangePlan(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Plan models.SubscriptionPlan `json:"plan"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if err := a.c.UserService.ChangePlan(r.Context(), userIDFrom(r.Context()), in.Plan); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "subscription plan updated", nil)
}

// --- assistant handlers ---

func (a *App) handleAdvice(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Prompt string `json:"prompt"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	answer, err := a.c.AdviceService.GetHealthAdvice(r.Context(), userIDFrom(r.Context()), in.Prompt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "AI response generated successfully", answer)
}

func (a *App) handlePrediction(w http.ResponseWriter, r *http.Request) {
	var in app.PredictionInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	record, err := a.c.PredictionService.SubmitPrediction(r.Context(), userIDFrom(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "health analysis generated successfully", record)
}

// --- history handlers ---

func (a *App) handleAllHistory(w http.ResponseWriter, r *http.Request) {
	history, err := a.c.HistoryService.AllSessions(r.Context(), userIDFrom(r.Context()), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "chat history fetched successfully", history)
}

func (a *App) sessionFromPath(r *http.Request) (*models.SessionTranscript, error) {
	sessionID, err := strconv.ParseInt(chi.URLParam(r, "sessionID"), 10, 64)
	if err != nil {
		return nil, errors.InvalidInput("session id must be an integer")
	}
	transcript, err := a.c.HistoryService.SessionTranscript(r.Context(), sessionID)
	if err != nil {
		return nil, err
	}
	// Only the owner may read a session; admins may read any.
	session, err := a.c.SessionRepo.GetByID(r.Context(), sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userIDFrom(r.Context()) && roleFrom(r.Context()) != "admin" {
		return nil, errors.NotFound("session")
	}
	return transcript, nil
}

func (a *App) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	transcript, err := a.sessionFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "chat history fetched successfully", transcript)
}

// --- admin handlers ---

func (a *App) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	admin, err := a.c.AdminService.CreateAdmin(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "admin account created", map[string]interface{}{"user_id": admin.ID})
}

func (a *App) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.c.AdminService.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "users fetched successfully", users)
}

func (a *App) handleUsageSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.c.AdminService.UsageSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "usage summary generated", summary)
}
