package apipaths

// API surface paths. Used by routes, the session HTTP checker and tests.

const (
	APIPrefix   = "/api"
	Health      = "/api/health"
	Me          = "/api/me"
	SystemStats = "/api/system/stats"

	// Relative forms inside the APIPrefix group
	MeRelative          = "/me"
	SystemStatsRelative = "/system/stats"
)

// Auth page actions, relative to the configured auth path.
const (
	SignIn = "/signin"
	SignUp = "/signup"
	Logout = "/logout"
)

// AuthAction joins the auth path and an action, e.g. AuthAction("/auth", SignUp)
func AuthAction(authPath, action string) string { return authPath + action }
