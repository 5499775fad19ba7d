package appstate

import "strings"

// RouteKind is the parsed route identity the dispatcher switches on. The
// order of the checks in Resolve mirrors the dispatch priority: crisis,
// corp/confirm, corp, then the auth-gated pages.
type RouteKind int

const (
	RouteNone RouteKind = iota
	RouteCrisis
	RouteCorpConfirm
	RouteCorp
	RouteDashboard
	RouteProfile
	RouteDayInReview
	RouteGraphMood
)

// RoutePoint is a normalized route: leading/trailing slashes trimmed, split
// on "/" and "?". Segments keeps everything after the normalization so corp
// builders can pick ids out of deeper paths.
type RoutePoint struct {
	Kind     RouteKind
	Path     string
	Route    string
	SubRoute string
	Segments []string
}

// ParseRoute normalizes a raw route path and resolves its kind. Matching is
// case-sensitive and exact per segment; first match wins.
func ParseRoute(raw string) RoutePoint {
	path := strings.Trim(raw, "/")
	segments := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '?'
	})

	rp := RoutePoint{Path: path, Segments: segments}
	if len(segments) > 0 {
		rp.Route = segments[0]
	}
	if len(segments) > 1 {
		rp.SubRoute = segments[1]
	}
	rp.Kind = resolveKind(rp.Route, rp.SubRoute)
	return rp
}

func resolveKind(route, subRoute string) RouteKind {
	switch route {
	case "crisis":
		return RouteCrisis
	case "corp":
		if subRoute == "confirm" {
			return RouteCorpConfirm
		}
		return RouteCorp
	case "dashboard":
		return RouteDashboard
	case "profile":
		return RouteProfile
	case "day-in-review":
		return RouteDayInReview
	case "graph":
		if subRoute == "mood" {
			return RouteGraphMood
		}
	}
	return RouteNone
}
