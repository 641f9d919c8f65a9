package identity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classhub/core"
)

func TestRegistrar_RoleFor(t *testing.T) {
	hash, err := HashSecret("otmane55")
	require.NoError(t, err)
	reg := NewRegistrar(hash)

	tests := []struct {
		name   string
		secret string
		want   Role
	}{
		{name: "exact secret", secret: "otmane55", want: RoleDev},
		{name: "empty secret", secret: "", want: RoleStudent},
		{name: "wrong secret", secret: "otmane56", want: RoleStudent},
		{name: "different case", secret: "OTMANE55", want: RoleStudent},
		{name: "surrounding spaces", secret: " otmane55 ", want: RoleStudent},
		{name: "prefix only", secret: "otmane", want: RoleStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reg.RoleFor(tt.secret))
		})
	}
}

func TestRegistrar_RoleFor_longSecret(t *testing.T) {
	secret := strings.Repeat("s", MaxSecretLen)
	hash, err := HashSecret(secret)
	require.NoError(t, err)
	reg := NewRegistrar(hash)

	assert.Equal(t, RoleDev, reg.RoleFor(secret))
	assert.Equal(t, RoleStudent, reg.RoleFor(secret+"x"), "bytes past the limit must not be ignored")
}

func TestHashSecret_tooLong(t *testing.T) {
	_, err := HashSecret(strings.Repeat("s", MaxSecretLen+1))
	assert.Equal(t, ErrSecretTooLong, err)
	assert.True(t, core.IsValidation(err))
}

func TestRegistrar_RoleFor_noSecretConfigured(t *testing.T) {
	reg := NewRegistrar("")
	assert.Equal(t, RoleStudent, reg.RoleFor(""))
	assert.Equal(t, RoleStudent, reg.RoleFor("otmane55"))
}

func TestRegistrar_Build(t *testing.T) {
	now := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	core.NowFunc = func() time.Time { return now }
	newID = func() string { return "id-1" }
	randStudentIndex = func() int { return 7 }
	defer func() {
		core.NowFunc = time.Now
		newID = defaultNewID
		randStudentIndex = defaultRandStudentIndex
	}()

	reg := NewRegistrar("")
	usr := reg.Build(NewIdentity{Name: "  Mohamed Amine ", Email: " A@X.com "})

	assert.Equal(t, Identity{
		ID:            "id-1",
		Email:         "a@x.com",
		Name:          "Mohamed Amine",
		Role:          RoleStudent,
		StudentNumber: "STU-007",
		CreatedAt:     now,
	}, usr)
}

func TestCapabilitiesOf(t *testing.T) {
	tests := []struct {
		role Role
		want Capabilities
	}{
		{role: RoleStudent, want: Capabilities{}},
		{role: RoleAdmin, want: Capabilities{Super: true}},
		{role: RoleDev, want: Capabilities{Elevated: true, Super: true}},
		{role: Role("ROOT"), want: Capabilities{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, CapabilitiesOf(tt.role))
		})
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range AllRoles {
		got, err := ParseRole(string(r))
		assert.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseRole(strings.ToLower(string(RoleDev)))
	assert.True(t, core.IsValidation(err))
	_, err = ParseRole("")
	assert.True(t, core.IsValidation(err))
}

func TestNewIdentity_Validate(t *testing.T) {
	validate, translator := core.NewValidator()
	InitValidators(validate, translator)

	ni := NewIdentity{Name: " Sara ", Email: " Sara@Example.COM "}
	require.NoError(t, ni.Validate(validate))
	assert.Equal(t, "Sara", ni.Name)
	assert.Equal(t, "sara@example.com", ni.Email)

	bad := NewIdentity{Name: "", Email: "nope"}
	assert.Error(t, bad.Validate(validate))
}
