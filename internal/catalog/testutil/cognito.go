package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// FakeCognito emulates the identity provider's JSON-RPC surface well enough
// for the client under test: SignUp, ConfirmSignUp, InitiateAuth, GetUser
// and GlobalSignOut, dispatched on the X-Amz-Target header.
type FakeCognito struct {
	Server *httptest.Server

	mu     sync.Mutex
	users  map[string]string // email -> password
	tokens map[string]string // access token -> email
}

func NewFakeCognito() *FakeCognito {
	f := &FakeCognito{
		users:  map[string]string{},
		tokens: map[string]string{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

func (f *FakeCognito) Close() {
	f.Server.Close()
}

// URL returns the provider base URL.
func (f *FakeCognito) URL() string {
	return f.Server.URL
}

// AddUser registers a confirmed user.
func (f *FakeCognito) AddUser(email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = password
}

// IssueToken mints a valid access token for a user without going through
// the login flow.
func (f *FakeCognito) IssueToken(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := "access-" + uuid.New().String()
	f.tokens[token] = email
	return token
}

func (f *FakeCognito) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body map[string]interface{}
	json.NewDecoder(r.Body).Decode(&body)

	target := r.Header.Get("X-Amz-Target")
	action := target[strings.LastIndex(target, ".")+1:]

	w.Header().Set("Content-Type", "application/x-amz-json-1.1")

	switch action {
	case "SignUp":
		email, _ := body["Username"].(string)
		password, _ := body["Password"].(string)
		f.users[email] = password
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"UserConfirmed": false,
			"UserSub":       uuid.New().String(),
		})

	case "ConfirmSignUp":
		writeJSON(w, http.StatusOK, map[string]interface{}{})

	case "InitiateAuth":
		params, _ := body["AuthParameters"].(map[string]interface{})
		email, _ := params["USERNAME"].(string)
		password, _ := params["PASSWORD"].(string)
		stored, ok := f.users[email]
		if !ok || stored != password {
			writeNotAuthorized(w)
			return
		}
		token := "access-" + uuid.New().String()
		f.tokens[token] = email
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"AuthenticationResult": map[string]interface{}{
				"AccessToken":  token,
				"IdToken":      signedIDToken(email),
				"RefreshToken": "refresh-" + uuid.New().String(),
				"ExpiresIn":    3600,
				"TokenType":    "Bearer",
			},
		})

	case "GetUser":
		token, _ := body["AccessToken"].(string)
		email, ok := f.tokens[token]
		if !ok {
			writeNotAuthorized(w)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"Username": email,
			"UserAttributes": []map[string]string{
				{"Name": "email", "Value": email},
			},
		})

	case "GlobalSignOut":
		token, _ := body["AccessToken"].(string)
		if _, ok := f.tokens[token]; !ok {
			writeNotAuthorized(w)
			return
		}
		delete(f.tokens, token)
		writeJSON(w, http.StatusOK, map[string]interface{}{})

	default:
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"__type":  "UnknownOperationException",
			"message": "unknown operation " + action,
		})
	}
}

func signedIDToken(email string) string {
	claims := jwt.MapClaims{
		"sub":   uuid.New().String(),
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, _ := token.SignedString([]byte("test-signing-key"))
	return signed
}

func writeJSON(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeNotAuthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"__type":  "NotAuthorizedException",
		"message": "Incorrect username or password.",
	})
}
