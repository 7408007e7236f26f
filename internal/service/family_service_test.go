package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familyhub/internal/testutil"
)

func TestCreateFamilyAddsOwnerAsMember(t *testing.T) {
	env := newTestEnv(t)
	env.families.generateCode = codes("FAM01")

	family, err := env.families.CreateFamily("u1", "  The Smiths ", "")
	require.NoError(t, err)
	assert.Equal(t, "FAM01", family.ID)
	assert.Equal(t, "The Smiths", family.Name)
	assert.Nil(t, family.Description)
	assert.Equal(t, testNow, family.CreatedAt)

	view, err := env.families.GetFamilyWithMembers("u1", "FAM01")
	require.NoError(t, err)
	assert.True(t, view.IsOwner)
	require.Len(t, view.Members, 1)
	assert.Equal(t, "u1", view.Members[0].UserID)
}

func TestCreateFamilyRetriesOnCollisionAndBadWords(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateFamily(t, env.db, "TAKEN", "Existing", "u9")
	_, err := env.db.InsertBadWords([]string{"poo"})
	require.NoError(t, err)

	env.families.generateCode = codes("TAKEN", "XPOOX", "FRESH")

	family, err := env.families.CreateFamily("u1", "Smiths", "")
	require.NoError(t, err)
	assert.Equal(t, "FRESH", family.ID)
}

func TestCreateFamilyGivesUpAfterTenAttempts(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateFamily(t, env.db, "TAKEN", "Existing", "u9")

	calls := 0
	env.families.generateCode = func() (string, error) {
		calls++
		return "TAKEN", nil
	}

	_, err := env.families.CreateFamily("u1", "Smiths", "")
	assert.ErrorIs(t, err, ErrJoinCodesExhausted)
	assert.Equal(t, maxJoinCodeAttempts, calls)
}

func TestCreateFamilyValidatesBeforeWriting(t *testing.T) {
	env := newTestEnv(t)
	env.families.generateCode = func() (string, error) {
		t.Error("code generated for invalid input")
		return "", errors.New("unreachable")
	}

	_, err := env.families.CreateFamily("u1", " ", "")
	assert.True(t, isValidationError(err))
}

func TestJoinFamily(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateFamily(t, env.db, "ABC12", "Smiths", "u1")

	family, err := env.families.JoinFamily("u2", "  abc12 ")
	require.NoError(t, err)
	assert.Equal(t, "ABC12", family.ID)

	require.NoError(t, env.families.VerifyFamilyAccess("u2", "ABC12"))

	_, err = env.families.JoinFamily("u2", "ABC12")
	assert.ErrorIs(t, err, ErrAlreadyMember)
}

func TestJoinFamilyRejectsBadCodes(t *testing.T) {
	env := newTestEnv(t)

	for _, code := range []string{"", "ABC", "ABC123", "AB-12", "ÄBC12"} {
		_, err := env.families.JoinFamily("u2", code)
		assert.ErrorIs(t, err, ErrInvalidJoinCode, "code %q", code)
	}

	_, err := env.families.JoinFamily("u2", "NOPE1")
	assert.ErrorIs(t, err, ErrFamilyNotFound)

	families, err := env.families.GetUserFamilies("u2")
	require.NoError(t, err)
	assert.Empty(t, families, "failed joins must not create memberships")
}

func TestLeaveFamily(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateFamily(t, env.db, "ABC12", "Smiths", "u1")
	testutil.AddMember(t, env.db, "ABC12", "u2")

	require.NoError(t, env.families.LeaveFamily("u2", "ABC12"))
	assert.ErrorIs(t, env.families.LeaveFamily("u2", "ABC12"), ErrMemberNotFound)
	assert.ErrorIs(t, env.families.VerifyFamilyAccess("u2", "ABC12"), ErrNotFamilyMember)
}

func TestUpdateFamilyOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateFamily(t, env.db, "ABC12", "Smiths", "u1")
	testutil.AddMember(t, env.db, "ABC12", "u2")

	_, err := env.families.UpdateFamily("u2", "ABC12", "Hijacked", "")
	assert.ErrorIs(t, err, ErrNotFamilyOwner)

	family, err := env.families.UpdateFamily("u1", "ABC12", "Smith Clan", "Since 1900")
	require.NoError(t, err)
	assert.Equal(t, "Smith Clan", family.Name)

	stored, err := env.families.GetFamily("ABC12")
	require.NoError(t, err)
	assert.Equal(t, "Smith Clan", stored.Name)
	require.NotNil(t, stored.Description)
	assert.Equal(t, "Since 1900", *stored.Description)

	_, err = env.families.UpdateFamily("u1", "NOPE1", "Name", "")
	assert.ErrorIs(t, err, ErrFamilyNotFound)
}

func TestRemoveMember(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateFamily(t, env.db, "ABC12", "Smiths", "u1")
	testutil.AddMember(t, env.db, "ABC12", "u2")
	testutil.AddMember(t, env.db, "ABC12", "u3")

	assert.ErrorIs(t, env.families.RemoveMember("u2", "ABC12", "u3"), ErrNotFamilyOwner)
	assert.ErrorIs(t, env.families.RemoveMember("u1", "ABC12", "u1"), ErrCannotRemoveOwner)
	require.NoError(t, env.families.RemoveMember("u1", "ABC12", "u3"))
	assert.ErrorIs(t, env.families.RemoveMember("u1", "ABC12", "u3"), ErrMemberNotFound)
}

func TestGetFamilyWithMembersRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateFamily(t, env.db, "ABC12", "Smiths", "u1")

	_, err := env.families.GetFamilyWithMembers("stranger", "ABC12")
	assert.ErrorIs(t, err, ErrNotFamilyMember)
}

func TestResolveFamily(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.families.ResolveFamily("u1", "")
	assert.ErrorIs(t, err, ErrNoFamily)

	testutil.CreateFamily(t, env.db, "FIRST", "First", "u1")
	testutil.CreateFamily(t, env.db, "OTHER", "Other", "u2")

	id, err := env.families.ResolveFamily("u1", "")
	require.NoError(t, err)
	assert.Equal(t, "FIRST", id)

	_, err = env.families.ResolveFamily("u1", "OTHER")
	assert.ErrorIs(t, err, ErrNotFamilyMember)
}

func TestInviteByEmail(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "u1", "Ada", "Smith")
	testutil.CreateFamily(t, env.db, "ABC12", "Smiths", "u1")

	err := env.families.InviteByEmail(context.Background(), "u1", "ABC12", " gran@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "gran@example.com", env.inviter.to)
	assert.Equal(t, "Ada Smith", env.inviter.inviter)
	assert.Equal(t, "Smiths", env.inviter.family)
	assert.Equal(t, "ABC12", env.inviter.code)

	err = env.families.InviteByEmail(context.Background(), "u1", "ABC12", "not-an-email")
	assert.True(t, isValidationError(err))

	err = env.families.InviteByEmail(context.Background(), "stranger", "ABC12", "gran@example.com")
	assert.ErrorIs(t, err, ErrNotFamilyMember)

	env.inviter.err = errors.New("ses down")
	err = env.families.InviteByEmail(context.Background(), "u1", "ABC12", "gran@example.com")
	assert.Error(t, err)
}
