package models

// Claims is the verified identity of a caller as reported by the identity
// provider. Role and Status are only present once they have been pushed
// into the provider's custom claims.
type Claims struct {
	UID    string        `json:"uid"`
	Email  string        `json:"email,omitempty"`
	FBName string        `json:"fbName,omitempty"`
	Role   Role          `json:"role,omitempty"`
	Status ProfileStatus `json:"status,omitempty"`
}
