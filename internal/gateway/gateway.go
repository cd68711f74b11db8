// Package gateway fronts the storefront: page navigations pass through the
// route guard, API calls are proxied to the API process.
package gateway

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/dwikikusuma/storefront/internal/auth"
	"github.com/dwikikusuma/storefront/internal/guard"
)

const (
	SessionCookie = "session"
	OriginParam   = "from"
	apiPrefix     = "/api/"
)

type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

type Options struct {
	Policy   guard.Policy
	Tokens   TokenVerifier
	Upstream *url.URL
	// Pages serves the single page app. Unknown paths fall back to index.html.
	Pages  fs.FS
	Logger *slog.Logger
}

type Gateway struct {
	policy guard.Policy
	tokens TokenVerifier
	api    http.Handler
	pages  http.Handler
	log    *slog.Logger
}

func New(opts Options) *Gateway {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	g := &Gateway{
		policy: opts.Policy,
		tokens: opts.Tokens,
		log:    log,
	}

	if opts.Upstream != nil {
		proxy := httputil.NewSingleHostReverseProxy(opts.Upstream)
		proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			log.ErrorContext(r.Context(), "api upstream failed",
				slog.String("path", r.URL.Path),
				slog.Any("err", err))
			w.WriteHeader(http.StatusBadGateway)
		}
		g.api = proxy
	} else {
		g.api = http.NotFoundHandler()
	}

	if opts.Pages != nil {
		g.pages = spa(opts.Pages)
	} else {
		g.pages = http.NotFoundHandler()
	}
	return g
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, apiPrefix) {
		g.api.ServeHTTP(w, r)
		return
	}

	if isAsset(r.URL.Path) {
		g.pages.ServeHTTP(w, r)
		return
	}

	req := g.navigation(r)
	d := g.policy.Decide(req)
	if d.Action == guard.Redirect {
		target := d.Target
		if d.Origin != "" {
			target += "?" + url.Values{OriginParam: {d.Origin}}.Encode()
		}
		g.log.DebugContext(r.Context(), "navigation redirected",
			slog.String("path", req.Path),
			slog.String("target", target),
			slog.Bool("authenticated", req.Authenticated),
			slog.String("role", req.Role))
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	g.pages.ServeHTTP(w, r)
}

func (g *Gateway) navigation(r *http.Request) guard.Request {
	req := guard.Request{Path: r.URL.Path}

	if tok := token(r); tok != "" && g.tokens != nil {
		id, err := g.tokens.Verify(tok)
		if err == nil {
			req.Authenticated = true
			req.Role = id.Role
		} else {
			g.log.DebugContext(r.Context(), "session token rejected", slog.Any("err", err))
		}
	}

	if g.policy.IsAuthPath(req.Path) {
		if from := r.URL.Query().Get(OriginParam); strings.HasPrefix(from, "/") && !strings.HasPrefix(from, "//") {
			req.OriginPath = from
		}
	}
	return req
}

func token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if after, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(after)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// isAsset reports whether the path names a file, such as /assets/app.js, rather
// than a page route.
func isAsset(p string) bool {
	return path.Ext(p) != ""
}

func spa(pages fs.FS) http.Handler {
	files := http.FileServer(http.FS(pages))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name == "" {
			name = "."
		}
		if _, err := fs.Stat(pages, name); errors.Is(err, fs.ErrNotExist) {
			if isAsset(r.URL.Path) {
				http.NotFound(w, r)
				return
			}
			http.ServeFileFS(w, r, pages, "index.html")
			return
		}
		files.ServeHTTP(w, r)
	})
}

// DirPages opens the built single page app, or returns nil when dir is missing.
func DirPages(dir string) fs.FS {
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return nil
	}
	return os.DirFS(dir)
}
