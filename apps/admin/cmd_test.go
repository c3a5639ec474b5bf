package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core/classroom"
	"github.com/SELab-2/Dwengo-1/core/user"
	"github.com/SELab-2/Dwengo-1/storage/database/inmem"
	"github.com/SELab-2/Dwengo-1/tests"
)

var store classroom.Store

func setup() *commandLine {
	// set up DB & repos
	store = inmemdb.NewStore(inmemdb.Open())

	// start CLI
	return &commandLine{
		usrSvc:   user.NewService(store.Tx, store.Users),
		classSvc: classroom.NewClassService(store, 8),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func (tt cliTest) check(t *testing.T, err error) {
	t.Helper()
	switch {
	case err == nil:
		if tt.wantErr != nil || tt.wantErrStr != "" {
			t.Errorf("cli.run() error = nil, want an error")
		}
	case tt.wantErr != nil:
		if errors.Cause(err) != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if err.Error() != tt.wantErrStr {
			t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
		}
	default:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup()

	gooseRunFunc = func(ctx context.Context, db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "badges", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup()

	usr := testutil.CreateTeacher(t, store.Users, "Alan", "Turing", "alan@test.be")

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", usr.Email}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.be"}, extra: extra{pwd: "Marmalade-Tiger-7"}, wantErr: user.ErrNotFound},
		{name: "weak password", args: []string{"resetpassword", "-email", usr.Email}, extra: extra{pwd: "12345678"}, wantErrStr: "password: password cannot be entirely numeric"},
		{name: "reset", args: []string{"resetpassword", "-email", " ALAN@test.be "}, extra: extra{pwd: "Marmalade-Tiger-7"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			tt.check(t, err)
			if err != nil {
				return
			}
			refreshedUsr, err := store.Users.GetUserByID(context.Background(), usr.ID, user.RoleTeacher)
			if err != nil {
				t.Fatalf("GetUserByID() failed, %v", err)
			}
			if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
				t.Error("failed to update new password")
			}
			if err = refreshedUsr.CheckPassword("Marmalade-Tiger-7"); err != nil {
				t.Errorf("CheckPassword() error = %v", err)
			}
		})
	}
}

func Test_commandLine_resetJoinCode(t *testing.T) {
	cli := setup()

	teacher := testutil.CreateTeacher(t, store.Users, "Alan", "Turing", "alan@test.be")
	class := testutil.CreateClass(t, store.Classes, teacher.ID, "6 Informatica", "ABCDEFGH")

	tests := []cliTest{
		{name: "no args", args: []string{"joincode"}, wantErr: errHelp},
		{name: "not an id", args: []string{"joincode", "-class", "lol"}, wantErr: errHelp},
		{name: "class not found", args: []string{"joincode", "-class", "9999"}, wantErr: classroom.ErrClassNotFound},
		{name: "reset", args: []string{"joincode", "-class", strconv.Itoa(class.ID)}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}

	refreshed, err := store.Classes.GetClassByID(context.Background(), class.ID)
	if err != nil {
		t.Fatalf("GetClassByID() failed, %v", err)
	}
	if refreshed.JoinCode == class.JoinCode {
		t.Error("failed to update join code")
	}
}
