// Package guard decides whether a storefront page may be shown for the current
// visitor or where the visitor should be sent instead. It keeps no state; the only
// value carried across a login round trip is the caller-supplied origin path.
package guard

import "strings"

const RoleAdmin = "admin"

type Action int

const (
	Render Action = iota
	Redirect
)

func (a Action) String() string {
	if a == Redirect {
		return "redirect"
	}
	return "render"
}

// Decision is the outcome of Decide. Target is set for redirects; Origin is set
// when the visitor is sent to log in and should come back afterwards.
type Decision struct {
	Action Action
	Target string
	Origin string
}

func RenderDecision() Decision { return Decision{Action: Render} }

func RedirectTo(target string) Decision { return Decision{Action: Redirect, Target: target} }

type Policy struct {
	PublicRoutes []string
	AuthPaths    []string

	LoginPath        string
	UnauthorizedPath string

	AdminPrefix   string
	AdminHome     string
	ShopperPrefix string
	ShopperHome   string
}

func DefaultPolicy() Policy {
	return Policy{
		PublicRoutes:     []string{"/", "/unauth-page"},
		AuthPaths:        []string{"/auth/login", "/auth/register"},
		LoginPath:        "/auth/login",
		UnauthorizedPath: "/unauth-page",
		AdminPrefix:      "/admin",
		AdminHome:        "/admin/dashboard",
		ShopperPrefix:    "/shop",
		ShopperHome:      "/shop/home",
	}
}

type Request struct {
	Path          string
	Authenticated bool
	Role          string
	// OriginPath is where the visitor was headed before being sent to log in.
	OriginPath string
}

// Decide applies the rules in order; the first one that matches wins.
func (p Policy) Decide(req Request) Decision {
	path := req.Path
	if path == "" {
		path = "/"
	}

	if p.IsPublic(path) {
		return RenderDecision()
	}

	if !req.Authenticated {
		if p.IsAuthPath(path) {
			return RenderDecision()
		}
		d := RedirectTo(p.LoginPath)
		d.Origin = path
		return d
	}

	isAdmin := req.Role == RoleAdmin

	if p.IsAuthPath(path) {
		if req.OriginPath != "" && !p.IsAuthPath(req.OriginPath) {
			return RedirectTo(req.OriginPath)
		}
		if isAdmin {
			return RedirectTo(p.AdminHome)
		}
		return RedirectTo(p.ShopperHome)
	}

	if !isAdmin && underPrefix(path, p.AdminPrefix) {
		return RedirectTo(p.UnauthorizedPath)
	}

	if isAdmin && underPrefix(path, p.ShopperPrefix) {
		return RedirectTo(p.AdminHome)
	}

	return RenderDecision()
}

// Decide evaluates one navigation against DefaultPolicy.
func Decide(path string, authenticated bool, role, originPath string) Decision {
	return DefaultPolicy().Decide(Request{
		Path:          path,
		Authenticated: authenticated,
		Role:          role,
		OriginPath:    originPath,
	})
}

// IsPublic matches "/" exactly and every other entry on whole path segments.
func (p Policy) IsPublic(path string) bool {
	for _, route := range p.PublicRoutes {
		if route == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if underPrefix(path, route) {
			return true
		}
	}
	return false
}

func (p Policy) IsAuthPath(path string) bool {
	for _, ap := range p.AuthPaths {
		if underPrefix(path, ap) {
			return true
		}
	}
	return false
}

func underPrefix(path, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return false
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
