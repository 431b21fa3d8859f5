package session

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const tokenKey = "token"

// Store keeps the session token in a signed cookie so kiosks without
// script access to headers still carry their session.
type Store struct {
	name  string
	store *sessions.CookieStore
}

func NewCookieStore(name string, maxAge time.Duration, keypairs ...[]byte) *Store {
	store := sessions.NewCookieStore(keypairs...)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Store{name: name, store: store}
}

func (s *Store) Get(r *http.Request) (*sessions.Session, error) {
	return s.store.Get(r, s.name)
}

func (s *Store) Save(r *http.Request, w http.ResponseWriter, a *sessions.Session) error {
	return s.store.Save(r, w, a)
}

// Token returns the session token stored in the request cookie, if any.
func (s *Store) Token(r *http.Request) string {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		return ""
	}

	token, _ := sess.Values[tokenKey].(string)
	return token
}

func (s *Store) SaveToken(r *http.Request, w http.ResponseWriter, token string) error {
	sess, err := s.store.Get(r, s.name)
	if err != nil && sess == nil {
		return err
	}

	sess.Values[tokenKey] = token
	return s.store.Save(r, w, sess)
}
