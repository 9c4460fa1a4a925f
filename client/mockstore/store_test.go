package mockstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omi-1602/Venz-edu/core"
	"github.com/omi-1602/Venz-edu/core/account"
	"github.com/omi-1602/Venz-edu/storage/local"
)

func setup(t *testing.T) (*Store, *local.Memory) {
	storage := local.NewMemory()
	s, err := New(storage)
	require.NoError(t, err)
	return s, storage
}

func TestNew_NilStorage(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestStore_InitializesCollections(t *testing.T) {
	s, storage := setup(t)

	usrs, err := s.Users()
	require.NoError(t, err)
	assert.Empty(t, usrs)

	for _, key := range collectionKeys {
		v, ok, err := storage.GetItem(key)
		require.NoError(t, err)
		assert.True(t, ok, key)
		assert.Equal(t, "[]", string(v), key)
	}
}

func TestStore_SignUp(t *testing.T) {
	fixed := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = time.Now }()

	s, storage := setup(t)

	tests := []struct {
		name string
		req  SignUpRequest
	}{
		{"missing email", SignUpRequest{Password: "pw", DisplayName: "A", Role: account.RoleStudent}},
		{"missing password", SignUpRequest{Email: "a@x.com", DisplayName: "A", Role: account.RoleStudent}},
		{"missing name", SignUpRequest{Email: "a@x.com", Password: "pw", Role: account.RoleStudent}},
		{"missing role", SignUpRequest{Email: "a@x.com", Password: "pw", DisplayName: "A"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.SignUp(tc.req)
			assert.True(t, core.IsKind(err, core.KindInvalidArgument), "got %v", err)
		})
	}

	usr, err := s.SignUp(SignUpRequest{Email: "a@x.com", Password: "pw", DisplayName: "A", Role: account.RoleMentor})
	require.NoError(t, err)
	assert.Regexp(t, `^mock_[a-z0-9]{8}$`, usr.UID)
	assert.True(t, usr.Verified)
	assert.Equal(t, account.StatusActive, usr.Status)
	assert.Equal(t, "pw", usr.Password)
	assert.Equal(t, fixed, usr.CreatedAt)
	assert.Equal(t, account.PublicUser{UID: usr.UID, Email: "a@x.com", DisplayName: "A", Role: account.RoleMentor}, usr.Public())

	t.Run("duplicate email leaves state untouched", func(t *testing.T) {
		before, _, err := storage.GetItem(UsersKey)
		require.NoError(t, err)

		_, err = s.SignUp(SignUpRequest{Email: "a@x.com", Password: "other", DisplayName: "B", Role: account.RoleStudent})
		assert.True(t, core.IsKind(err, core.KindAlreadyExists), "got %v", err)

		after, _, err := storage.GetItem(UsersKey)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestStore_Login(t *testing.T) {
	s, storage := setup(t)

	usr, err := s.SignUp(SignUpRequest{Email: "a@x.com", Password: "pw", DisplayName: "A", Role: account.RoleStudent})
	require.NoError(t, err)

	later := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return later }
	defer func() { nowFunc = time.Now }()

	tests := []struct {
		name     string
		email    string
		pwd      string
		wantKind core.ErrorKind
	}{
		{"unknown email", "b@x.com", "pw", core.KindInvalidCredentials},
		{"wrong password", "a@x.com", "nope", core.KindInvalidCredentials},
		{"empty password", "a@x.com", "", core.KindInvalidCredentials},
		{"email is case sensitive", "A@x.com", "pw", core.KindInvalidCredentials},
		{"success", "a@x.com", "pw", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Login(tc.email, tc.pwd)
			if tc.wantKind != "" {
				assert.True(t, core.IsKind(err, tc.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, usr.UID, got.UID)
			require.NotNil(t, got.LastLogin)
			assert.Equal(t, later, *got.LastLogin)
		})
	}

	t.Run("gated like the api", func(t *testing.T) {
		usrs, err := s.Users()
		require.NoError(t, err)
		usrs[0].Verified = false
		require.NoError(t, s.save(UsersKey, usrs))
		_, err = s.Login("a@x.com", "pw")
		assert.True(t, core.IsKind(err, core.KindPermissionDenied), "got %v", err)

		usrs[0].Verified = true
		usrs[0].Status = account.StatusSuspended
		require.NoError(t, s.save(UsersKey, usrs))
		_, err = s.Login("a@x.com", "pw")
		assert.True(t, core.IsKind(err, core.KindPermissionDenied), "got %v", err)
	})

	t.Run("corrupt collection", func(t *testing.T) {
		require.NoError(t, storage.SetItem(UsersKey, []byte("{")))
		_, err := s.Login("a@x.com", "pw")
		assert.Error(t, err)
	})
}

func TestStore_FederatedLoginStub(t *testing.T) {
	s, _ := setup(t)

	a, err := s.FederatedLoginStub()
	require.NoError(t, err)
	b, err := s.FederatedLoginStub()
	require.NoError(t, err)

	assert.NotEqual(t, a.UID, b.UID)
	assert.Regexp(t, `^user_mock_[a-z0-9]{8}@mock\.local$`, a.Email)
	assert.Equal(t, account.RoleStudent, a.Role)
	assert.Equal(t, "Mock User", a.DisplayName)
	assert.Empty(t, a.Password)
	assert.True(t, a.Verified)

	usrs, err := s.Users()
	require.NoError(t, err)
	assert.Len(t, usrs, 2)

	// stub accounts have no password
	_, err = s.Login(a.Email, "")
	assert.True(t, core.IsKind(err, core.KindInvalidCredentials), "got %v", err)
}

func TestStore_RequestPasswordResetStub(t *testing.T) {
	s, _ := setup(t)

	_, err := s.RequestPasswordResetStub("a@x.com")
	assert.True(t, core.IsKind(err, core.KindNotFound), "got %v", err)

	_, err = s.SignUp(SignUpRequest{Email: "a@x.com", Password: "pw", DisplayName: "A", Role: account.RoleStudent})
	require.NoError(t, err)

	res, err := s.RequestPasswordResetStub("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, account.MessageResponse{Success: true, Message: "Mock reset link generated"}, res)
}

func TestStore_SeedMockData(t *testing.T) {
	s, _ := setup(t)

	require.NoError(t, s.SeedMockData())
	require.NoError(t, s.SeedMockData())

	crss, err := s.Courses()
	require.NoError(t, err)
	require.Len(t, crss, 1)
	assert.Equal(t, "Mastering Java: From Zero to Hero", crss[0].Title)
	assert.Equal(t, "mentor-sample", crss[0].MentorID)

	asgs, err := s.Assignments()
	require.NoError(t, err)
	require.Len(t, asgs, 1)
	assert.Equal(t, crss[0].ID, asgs[0].CourseID)
	assert.Equal(t, 100, asgs[0].MaxScore)
}
