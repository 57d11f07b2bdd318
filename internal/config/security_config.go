package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurityConfig maps route names to their required security level.
// Routes not listed here default to SecurityAccess.
var EndpointSecurityConfig = map[string]SecurityLevel{
	"health": SecurityPublic,

	"requests.create":        SecurityAccess,
	"requests.get":           SecurityAccess,
	"requests.list":          SecurityAccess,
	"requests.status":        SecurityAccess,
	"guideRequests.create":   SecurityAccess,
	"guideRequests.list":     SecurityAccess,
	"guideRequests.status":   SecurityAccess,
	"guideRequests.delete":   SecurityAccess,
	"bookings.create":        SecurityAccess,
	"bookings.get":           SecurityAccess,
	"bookings.list":          SecurityAccess,
	"bookings.status":        SecurityAccess,
	"packages.assignGuides":  SecurityAccess,
	"packages.unassignGuide": SecurityAccess,
	"guides.get":             SecurityAccess,
	"guides.markPaid":        SecurityAccess,
	"notifications.list":     SecurityAccess,
}

// GetSecurityLevel returns the security level for a route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[route]; ok {
		return level
	}
	return SecurityAccess
}
