package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sams-api/internal/models"
)

type stubAccounts struct {
	created  *models.User
	password string
	reset    string
	err      error
}

func (s *stubAccounts) CreateAccount(_ context.Context, user *models.User, password string) error {
	s.created = user
	s.password = password
	return s.err
}

func (s *stubAccounts) ResetPassword(_ context.Context, email, password string) error {
	s.reset = email
	s.password = password
	return s.err
}

func withPassword(t *testing.T, pwd string) {
	t.Helper()
	original := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = original })
}

func TestCommandLineUsage(t *testing.T) {
	out := &bytes.Buffer{}
	cli := &commandLine{accounts: &stubAccounts{}, out: out}

	assert.ErrorIs(t, cli.run(context.Background(), []string{"sams-admin"}), errHelp)
	assert.ErrorIs(t, cli.run(context.Background(), []string{"sams-admin", "unknown"}), errHelp)
	assert.Contains(t, out.String(), "resetpassword -email")
}

func TestCommandLineAddUser(t *testing.T) {
	withPassword(t, "s3cret!")
	accounts := &stubAccounts{}
	cli := &commandLine{accounts: accounts, out: &bytes.Buffer{}}

	err := cli.run(context.Background(), []string{"sams-admin", "adduser",
		"-email", "hod@college.edu", "-name", "Asha Rao", "-phone", "9876543210",
		"-role", "hod", "-department", "cse"})
	require.NoError(t, err)

	require.NotNil(t, accounts.created)
	assert.Equal(t, models.RoleHOD, accounts.created.Role)
	assert.Equal(t, models.HODProfile{Department: "CSE"}, accounts.created.Profile)
	assert.Equal(t, "s3cret!", accounts.password)
}

func TestCommandLineAddUserRejects(t *testing.T) {
	withPassword(t, "s3cret!")
	cli := &commandLine{accounts: &stubAccounts{}, out: &bytes.Buffer{}}

	err := cli.run(context.Background(), []string{"sams-admin", "adduser", "-email", "f@college.edu", "-name", "F", "-role", "FACULTY"})
	assert.EqualError(t, err, "-department is required for role FACULTY")

	err = cli.run(context.Background(), []string{"sams-admin", "adduser", "-email", "s@college.edu", "-name", "S", "-role", "STUDENT"})
	assert.EqualError(t, err, `role "STUDENT" cannot be created from the command line`)

	err = cli.run(context.Background(), []string{"sams-admin", "adduser", "-name", "S"})
	assert.ErrorIs(t, err, errHelp)
}

func TestCommandLineResetPassword(t *testing.T) {
	accounts := &stubAccounts{}
	cli := &commandLine{accounts: accounts, out: &bytes.Buffer{}}

	withPassword(t, "")
	err := cli.run(context.Background(), []string{"sams-admin", "resetpassword", "-email", "a@college.edu"})
	assert.EqualError(t, err, "password must not be empty")

	withPassword(t, "n3w-pass")
	require.NoError(t, cli.run(context.Background(), []string{"sams-admin", "resetpassword", "-email", "a@college.edu"}))
	assert.Equal(t, "a@college.edu", accounts.reset)
	assert.Equal(t, "n3w-pass", accounts.password)

	accounts.err = errors.New("boom")
	assert.EqualError(t, cli.run(context.Background(), []string{"sams-admin", "resetpassword", "-email", "a@college.edu"}), "boom")
}

func TestCommandLineMigrate(t *testing.T) {
	called := false
	out := &bytes.Buffer{}
	cli := &commandLine{accounts: &stubAccounts{}, out: out, migrate: func() error { called = true; return nil }}

	require.NoError(t, cli.run(context.Background(), []string{"sams-admin", "migrate"}))
	assert.True(t, called)
	assert.Contains(t, out.String(), "migrations applied")
}
