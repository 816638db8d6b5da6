package permission

// BypassPolicy says whether the admin role short-circuits a key.
type BypassPolicy int

const (
	// AdminBypass: admins pass without a grant row.
	AdminBypass BypassPolicy = iota
	// NoBypass: everyone, admins included, needs an explicit granted row.
	NoBypass
)

func (p BypassPolicy) String() string {
	switch p {
	case NoBypass:
		return "no_bypass"
	default:
		return "admin_bypass"
	}
}

// bypassRules lists the keys that differ from the default AdminBypass.
var bypassRules = map[string]BypassPolicy{
	KeyDashboardView: NoBypass,
}

// PolicyFor returns the bypass policy for key.
func PolicyFor(key string) BypassPolicy {
	if p, ok := bypassRules[key]; ok {
		return p
	}
	return AdminBypass
}
