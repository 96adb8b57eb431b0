package session

import (
	"authboiler/internal/http/handler/middleware"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"go.uber.org/zap"
)

const (
	DefaultCookieName = "connect.sid"
	DefaultLifetime   = 14 * 24 * time.Hour
)

type Options struct {
	Secret     string
	CookieName string
	// Lifetime is how long a session survives without a request. Every
	// request that carries the session pushes its stored expiry forward.
	Lifetime time.Duration
	// Resave writes loaded sessions back even when the request left them
	// untouched.
	Resave bool
	// SaveUninitialized stores new sessions (and sets their cookie) even when
	// the request put nothing in them.
	SaveUninitialized bool
}

// Manager wraps scs with signed cookies.
type Manager struct {
	*scs.SessionManager
	logs              *zap.SugaredLogger
	secret            []byte
	resave            bool
	saveUninitialized bool
}

func NewManager(logger *zap.SugaredLogger, store scs.Store, opts Options) *Manager {
	sm := scs.New()
	sm.Store = store
	sm.Lifetime = DefaultLifetime
	if opts.Lifetime > 0 {
		sm.Lifetime = opts.Lifetime
	}

	sm.Cookie.Name = DefaultCookieName
	if opts.CookieName != "" {
		sm.Cookie.Name = opts.CookieName
	}
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Persist = false
	sm.Cookie.SameSite = http.SameSiteLaxMode

	return &Manager{
		SessionManager:    sm,
		logs:              logger,
		secret:            []byte(opts.Secret),
		resave:            opts.Resave,
		saveUninitialized: opts.SaveUninitialized,
	}
}

// Middleware loads the session named by the request cookie into the request
// context and commits it before the response headers go out.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Cookie")
		requestID := middleware.GetRequestID(r.Context())

		ctx, err := m.Load(r.Context(), m.token(r))
		if err != nil {
			m.logs.Errorw("failed to load session",
				"error", err,
				"request_id", requestID)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		sr := r.WithContext(ctx)
		sw := &sessionWriter{
			ResponseWriter: w,
			commit: func() {
				m.commit(w, sr, requestID)
			},
		}

		next.ServeHTTP(sw, sr)
		sw.flush()
	})
}

func (m *Manager) token(r *http.Request) string {
	cookie, err := r.Cookie(m.Cookie.Name)
	if err != nil {
		return ""
	}

	token, ok := DecodeCookie(cookie.Value, m.secret)
	if !ok {
		m.logs.Debugw("ignoring session cookie with bad signature",
			"request_id", middleware.GetRequestID(r.Context()))
		return ""
	}
	return token
}

func (m *Manager) commit(w http.ResponseWriter, r *http.Request, requestID string) {
	ctx := r.Context()

	sendCookie := true
	switch m.Status(ctx) {
	case scs.Destroyed:
		m.writeCookie(w, "", time.Time{})
		return
	case scs.Unmodified:
		isNew := m.Token(ctx) == ""
		if isNew && !m.saveUninitialized {
			return
		}
		// a loaded session is still touched, its cookie is only resent on resave
		sendCookie = isNew || m.resave
	}

	m.SetDeadline(ctx, time.Now().Add(m.Lifetime).UTC())
	token, expiry, err := m.Commit(ctx)
	if err != nil {
		m.logs.Errorw("failed to commit session",
			"error", err,
			"request_id", requestID)
		return
	}

	if sendCookie {
		m.writeCookie(w, token, expiry)
	}
}

func (m *Manager) writeCookie(w http.ResponseWriter, token string, expiry time.Time) {
	cookie := &http.Cookie{
		Name:     m.Cookie.Name,
		Path:     m.Cookie.Path,
		Domain:   m.Cookie.Domain,
		Secure:   m.Cookie.Secure,
		HttpOnly: m.Cookie.HttpOnly,
		SameSite: m.Cookie.SameSite,
	}

	if token == "" {
		cookie.Expires = time.Unix(1, 0)
		cookie.MaxAge = -1
	} else {
		cookie.Value = EncodeCookie(token, m.secret)
		if m.Cookie.Persist {
			cookie.Expires = expiry.UTC().Round(time.Second)
			cookie.MaxAge = int(time.Until(expiry).Seconds() + 1)
		}
	}

	w.Header().Add("Set-Cookie", cookie.String())
	w.Header().Add("Cache-Control", `no-cache="Set-Cookie"`)
}

// sessionWriter runs commit once, right before the first header or body
// write, so the cookie still makes it into the response.
type sessionWriter struct {
	http.ResponseWriter
	commit    func()
	committed bool
}

func (sw *sessionWriter) WriteHeader(code int) {
	sw.flush()
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *sessionWriter) Write(b []byte) (int, error) {
	sw.flush()
	return sw.ResponseWriter.Write(b)
}

func (sw *sessionWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

func (sw *sessionWriter) flush() {
	if sw.committed {
		return
	}
	sw.committed = true
	sw.commit()
}
