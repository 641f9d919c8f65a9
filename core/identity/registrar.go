package identity

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/classhub/core"
)

var (
	newID            = defaultNewID // mockable
	randStudentIndex = defaultRandStudentIndex
)

func defaultNewID() string { return uuid.New().String() }

func defaultRandStudentIndex() int { return rand.Intn(1000) }

// Registrar decides the role and the generated fields of newly registered identities.
type Registrar struct {
	elevationHash []byte
}

// NewRegistrar returns a Registrar granting RoleDev to registrations presenting the secret whose
// bcrypt hash is elevationSecretHash. An empty hash disables self-elevation.
func NewRegistrar(elevationSecretHash string) *Registrar {
	r := &Registrar{}
	if elevationSecretHash != "" {
		r.elevationHash = []byte(elevationSecretHash)
	}
	return r
}

// MaxSecretLen is the longest secret bcrypt hashes without truncating.
const MaxSecretLen = 72

// ErrSecretTooLong is returned for secrets longer than MaxSecretLen bytes.
var ErrSecretTooLong = core.NewValidationError(nil, core.FieldError{
	Field: "secret",
	Error: fmt.Sprintf("must be at most %d bytes", MaxSecretLen),
})

// HashSecret returns the bcrypt hash to configure as the elevation secret hash.
func HashSecret(secret string) (string, error) {
	if len(secret) > MaxSecretLen {
		return "", ErrSecretTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// RoleFor returns RoleDev iff secret matches the configured secret, RoleStudent otherwise.
func (r *Registrar) RoleFor(secret string) Role {
	if secret == "" || len(secret) > MaxSecretLen || r.elevationHash == nil {
		return RoleStudent
	}
	if err := bcrypt.CompareHashAndPassword(r.elevationHash, []byte(secret)); err != nil {
		return RoleStudent
	}
	return RoleDev
}

// Build creates the Identity for an already validated registration.
func (r *Registrar) Build(ni NewIdentity) Identity {
	return Identity{
		ID:            newID(),
		Email:         core.CleanEmail(ni.Email),
		Name:          core.CleanString(ni.Name),
		Role:          r.RoleFor(ni.Secret),
		StudentNumber: fmt.Sprintf("STU-%03d", randStudentIndex()),
		CreatedAt:     core.NowFunc().UTC(),
	}
}
