package models

// Team classifications a user is tagged with. L1 is the department, L2 the
// group inside it.
var (
	L1Teams = []string{
		"Engineering",
		"Product",
		"Design",
		"Sales",
		"Marketing",
		"Operations",
		"Finance",
		"People",
	}

	L2Teams = []string{
		"Backend",
		"Frontend",
		"Mobile",
		"Platform",
		"Data",
		"QA",
		"Research",
		"Growth",
		"Enterprise",
		"SMB",
		"Content",
		"Support",
		"Recruiting",
		"Accounting",
	}
)

func IsL1Team(team string) bool {
	return contains(L1Teams, team)
}

func IsL2Team(team string) bool {
	return contains(L2Teams, team)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
