package vectordb

import (
	"crypto/sha256"
	"encoding/hex"
)

// Scope identifies a private corpus partition. User-uploaded documents are
// never visible outside the owning scope, so the partition key combines the
// requester and the asset the document belongs to.
type Scope struct {
	UserID  string
	AssetID string
}

// Key returns an opaque partition key derived from the scope identity.
func (s Scope) Key() string {
	h := sha256.Sum256([]byte(s.UserID + "\x00" + s.AssetID))
	return hex.EncodeToString(h[:8])
}

// IsZero reports whether no scope is bound.
func (s Scope) IsZero() bool {
	return s.UserID == "" && s.AssetID == ""
}
