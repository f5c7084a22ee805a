package domain

import "strings"

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleLegalOfficer Role = "legalOfficer"
	RoleGuest        Role = "guest"
)

// roleAliases maps every spelling accepted from clients onto the canonical role.
var roleAliases = map[string]Role{
	"admin":         RoleAdmin,
	"administrator": RoleAdmin,
	"legalofficer":  RoleLegalOfficer,
	"legal_officer": RoleLegalOfficer,
	"legal":         RoleLegalOfficer,
	"officer":       RoleLegalOfficer,
	"guest":         RoleGuest,
	"student":       RoleGuest,
	"staff":         RoleGuest,
	"anonymous":     RoleGuest,
}

// clientNames is the reverse table for the SPA, which spells legalOfficer as "legal".
var clientNames = map[Role]string{
	RoleAdmin:        "admin",
	RoleLegalOfficer: "legal",
	RoleGuest:        "guest",
}

func ParseRole(s string) (Role, bool) {
	r, ok := roleAliases[strings.ToLower(strings.TrimSpace(s))]
	return r, ok
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleLegalOfficer, RoleGuest:
		return true
	default:
		return false
	}
}

func (r Role) ClientName() string {
	if name, ok := clientNames[r]; ok {
		return name
	}
	return string(r)
}

func (r Role) String() string {
	return string(r)
}
