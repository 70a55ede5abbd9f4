package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"leadpress/internal/apperr"
	"leadpress/internal/middleware"
	"leadpress/internal/session"
	"leadpress/internal/store"
)

// totpIssuer is the issuer shown in authenticator apps.
const totpIssuer = "LeadPress"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

// Login verifies credentials and creates a session. Accounts with 2FA
// enabled get a half-open session until the TOTP code is verified.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := a.userStore.FindByEmail(in.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, in.Password) {
		respondError(w, r, apperr.Unauthorized("Invalid email or password"))
		return
	}

	// 2FA-enabled accounts must verify a code before the session counts
	// as authenticated.
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		TwoFADone:   !user.TOTPEnabled,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"requires2FA": user.TOTPEnabled,
		"user": map[string]any{
			"email":       user.Email,
			"displayName": user.DisplayName,
		},
	})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Session returns the current authenticated session, letting the admin
// frontend restore its login state on reload.
func (a *Auth) Session(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil || !sess.TwoFADone {
		respondError(w, r, apperr.Unauthorized("Not authenticated"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"email":       sess.Email,
			"displayName": sess.DisplayName,
		},
	})
}

// TwoFASetup generates a TOTP secret for the logged-in account and
// returns it with a QR code for authenticator apps. The secret only
// becomes active after the first successful verification.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, r, apperr.Unauthorized("Not authenticated"))
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := a.userStore.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		respondError(w, r, err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"secret": key.Secret(),
		"qrCode": base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// TwoFAVerify validates a TOTP code and completes authentication. On
// first-time setup it also enables 2FA for the account.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, r, apperr.Unauthorized("Not authenticated"))
		return
	}

	var in struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if user == nil || user.TOTPSecret == nil {
		respondError(w, r, apperr.Validation("Two-factor authentication is not set up"))
		return
	}

	if !totp.Validate(in.Code, *user.TOTPSecret) {
		respondError(w, r, apperr.Unauthorized("Invalid code"))
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			respondError(w, r, err)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
