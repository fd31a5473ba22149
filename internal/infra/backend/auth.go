package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/shape"
)

// Credentials identify a customer; Email alone is accepted as the username.
type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// Login exchanges credentials for a backend token.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	if creds.Username == "" && creds.Email != "" {
		creds.Username = creds.Email
	}

	resp, err := c.send(ctx, "login", http.MethodPost, "/accounts/auth/token/", creds)
	if err != nil {
		return "", err
	}

	obj, decodeErr := shape.DecodeObject(resp.body)
	if !resp.ok() {
		return "", &booking.BackendError{Status: resp.status, Message: loginErrorMessage(obj, resp.body, decodeErr)}
	}
	if decodeErr != nil {
		return "", &booking.BackendError{Status: resp.status, Message: "Respuesta de autenticación inválida"}
	}

	for _, key := range []string{"token", "key"} {
		if v, ok := obj.Get(key); ok {
			if s, ok := shape.String(v); ok && s != "" {
				return s, nil
			}
		}
	}
	return "", &booking.BackendError{Status: resp.status, Message: "No se recibió token de autenticación"}
}

func loginErrorMessage(obj *shape.OrderedObject, body []byte, decodeErr error) string {
	if decodeErr != nil {
		return ErrorMessage(body)
	}
	if v, ok := obj.Get("non_field_errors"); ok {
		if items, ok := v.([]any); ok && len(items) > 0 {
			if s, ok := shape.String(items[0]); ok && s != "" {
				return s
			}
		}
	}
	if v, ok := obj.Get("detail"); ok {
		if s, ok := shape.String(v); ok && s != "" {
			return s
		}
	}
	return "Error de autenticación: " + strings.TrimSpace(compact(body))
}

func compact(body []byte) string {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	raw, _ := json.Marshal(v)
	return string(raw)
}

// Me fetches the profile of the token's owner.
func (c *Client) Me(ctx context.Context) (shape.Record, error) {
	return c.getRecord(ctx, "me", http.MethodGet, "/accounts/users/me/", nil)
}
