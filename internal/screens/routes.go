package screens

import "strings"

// Route names for the client surface.
const (
	RouteLanding   = "landing"
	RouteDashboard = "dashboard"
	RouteCreate    = "create-project"
	RouteDetail    = "view-project"
	RouteEditor    = "edit-project-document"
	RouteNotFound  = "not-found"
)

// Match resolves a path to a route name plus any captured parameters.
// Unknown paths fall through to the not-found route.
func Match(path string) (name string, params map[string]string) {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return RouteLanding, nil
	}

	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] == "app":
		return RouteDashboard, nil
	case len(parts) == 2 && parts[0] == "app" && parts[1] == "create-new-project":
		return RouteCreate, nil
	case len(parts) == 3 && parts[0] == "app" && parts[1] == "view-project" && parts[2] != "":
		return RouteDetail, map[string]string{"id": parts[2]}
	case len(parts) == 3 && parts[0] == "app" && parts[1] == "edit-project-document" && parts[2] != "":
		return RouteEditor, map[string]string{"id": parts[2]}
	}
	return RouteNotFound, nil
}
