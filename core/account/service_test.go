package account_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/account"
	"github.com/trezcool/darasa/testutil"
)

func TestService_Register(t *testing.T) {
	svc, repo, _ := setup(t)

	usr, err := svc.Register(account.NewUser{Name: "Joe", Email: "joe@test.cd", Password: "Str0ng-Passw0rd!"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(usr.ID, "user-"), usr.ID)
	assert.Equal(t, account.RoleUser, usr.Role)
	assert.Equal(t, []string{}, usr.PurchasedCourses)
	assert.NoError(t, usr.CheckPassword("Str0ng-Passw0rd!"))

	stored, err := repo.GetUserByID(usr.ID)
	require.NoError(t, err)
	assert.Equal(t, usr, stored)

	t.Run("email taken (any kind, any case)", func(t *testing.T) {
		testutil.CreateAdmin(t, repo, "Root", "root@test.cd", "")

		for _, email := range []string{"joe@test.cd", "ROOT@test.cd"} {
			_, err := svc.Register(account.NewUser{Name: "Joe", Email: email, Password: "Str0ng-Passw0rd!"})
			assert.IsType(t, &core.ValidationError{}, err, email)
		}
	})
}

func TestService_Add(t *testing.T) {
	svc, repo, _ := setup(t)

	inst, err := svc.Add(account.NewAccount{
		Role: account.RoleInstructor, Name: "Ada", Email: "ada@test.cd", Password: "x", Subject: "Math",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(inst.ID, "instructor-"), inst.ID)

	stored, err := repo.GetInstructorByID(inst.ID)
	require.NoError(t, err)
	assert.Equal(t, "Math", stored.Subject)
	assert.Equal(t, []string{}, stored.Availability)

	adm, err := svc.Add(account.NewAccount{Role: account.RoleAdmin, Name: "Root", Email: "root@test.cd", Password: "x"})
	require.NoError(t, err)
	_, err = repo.GetAdminByID(adm.ID)
	assert.NoError(t, err)

	_, err = svc.Add(account.NewAccount{Role: "root", Name: "Root", Email: "other@test.cd", Password: "x"})
	assert.IsType(t, &core.ValidationError{}, err)

	_, err = svc.Add(account.NewAccount{Role: account.RoleUser, Name: "Ada", Email: "ada@test.cd", Password: "x"})
	assert.IsType(t, &core.ValidationError{}, err)
}

func TestService_Authenticate(t *testing.T) {
	svc, repo, _ := setup(t)

	usr := testutil.CreateUser(t, repo, "Joe", "joe@test.cd", "joe-pwd")
	inst := testutil.CreateInstructor(t, repo, "Ada", "ada@test.cd", "ada-pwd", "Math")

	tests := []struct {
		name    string
		email   string
		pwd     string
		wantID  string
		wantErr error
	}{
		{name: "unknown email", email: "lol@test.cd", pwd: "joe-pwd", wantErr: account.ErrInvalidCredentials},
		{name: "wrong password", email: usr.Email, pwd: "ada-pwd", wantErr: account.ErrInvalidCredentials},
		{name: "user", email: usr.Email, pwd: "joe-pwd", wantID: usr.ID},
		{name: "instructor", email: inst.Email, pwd: "ada-pwd", wantID: inst.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct, err := svc.Authenticate(tt.email, tt.pwd)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, acct.ID)
		})
	}
}

func TestService_GetAccount(t *testing.T) {
	svc, repo, _ := setup(t)

	usr := testutil.CreateUser(t, repo, "Joe", "joe@test.cd", "")
	inst := testutil.CreateInstructor(t, repo, "Ada", "ada@test.cd", "", "Math", "Monday 9-12")
	adm := testutil.CreateAdmin(t, repo, "Root", "root@test.cd", "")

	got, err := svc.GetAccount(usr.ID, account.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, usr, got)

	got, err = svc.GetAccount(inst.ID, account.RoleInstructor)
	require.NoError(t, err)
	assert.Equal(t, inst, got)

	got, err = svc.GetAccount(adm.ID, account.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, adm, got)

	// the role picks the collection
	_, err = svc.GetAccount(usr.ID, account.RoleAdmin)
	assert.Equal(t, account.ErrAdminNotFound, err)

	_, err = svc.GetAccount(usr.ID, "root")
	assert.True(t, core.IsNotFound(err))
}

func TestService_QueryInstructorsBySubject(t *testing.T) {
	svc, repo, _ := setup(t)

	math1 := testutil.CreateInstructor(t, repo, "Ada", "ada@test.cd", "", "Math")
	testutil.CreateInstructor(t, repo, "Marie", "marie@test.cd", "", "Physics")
	math2 := testutil.CreateInstructor(t, repo, "Emmy", "emmy@test.cd", "", "Math")

	got, err := svc.QueryInstructorsBySubject("Math")
	require.NoError(t, err)
	assert.Equal(t, []account.Instructor{math1, math2}, got)

	got, err = svc.QueryInstructorsBySubject("math")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_ResetPassword(t *testing.T) {
	svc, repo, _ := setup(t)

	usr := testutil.CreateUser(t, repo, "Joe", "joe@test.cd", "old")
	inst := testutil.CreateInstructor(t, repo, "Ada", "ada@test.cd", "old", "Math")
	adm := testutil.CreateAdmin(t, repo, "Root", "root@test.cd", "old")

	assert.Equal(t, account.ErrNotFound, svc.ResetPassword("lol@test.cd", "new"))

	require.NoError(t, svc.ResetPassword(" JOE@test.cd", "new"))
	_, err := svc.Authenticate(usr.Email, "new")
	assert.NoError(t, err)
	_, err = svc.Authenticate(inst.Email, "new")
	assert.Equal(t, account.ErrInvalidCredentials, err)

	n, err := svc.ResetAllPasswords("everyone")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	for _, email := range []string{usr.Email, inst.Email, adm.Email} {
		_, err = svc.Authenticate(email, "everyone")
		assert.NoError(t, err, email)
	}
}
