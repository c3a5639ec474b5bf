package tests

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SELab-2/Dwengo-1/apps/api/echo"
	"github.com/SELab-2/Dwengo-1/core/user"
	"github.com/SELab-2/Dwengo-1/tests"
)

// resetLink returns the uid and token of the reset link found in body.
func resetLink(t *testing.T, body string) (uid, token string) {
	for _, line := range strings.Split(body, "\n") {
		if !strings.Contains(line, "/password-reset?") {
			continue
		}
		u, err := url.Parse(strings.TrimSpace(line))
		require.NoError(t, err)
		return u.Query().Get("uid"), u.Query().Get("token")
	}
	t.Fatalf("no reset link in %q", body)
	return "", ""
}

func Test_authApi_resetPassword(t *testing.T) {
	resetDB()

	testutil.CreateTeacher(t, store.Users, "Alan", "Turing", "alan@test.be")
	requested := marchallObj(t, echoapi.SuccessResponse{Success: echoapi.PasswordResetRequested})

	tests := []httpTest{
		{
			name: "Email required", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "email is required"}),
		},
		{name: "Unknown email", body: marchallObj(t, user.PasswordResetRequest{Email: "nobody@test.be"}), wantData: requested},
	}
	runTests(t, withRoute(tests, http.MethodPost, "/api/auth/password-reset"))
	assert.Empty(t, mailSvc.Messages(), "no email for an unknown address")

	runTests(t, withRoute([]httpTest{
		{name: "Known email", body: marchallObj(t, user.PasswordResetRequest{Email: " ALAN@test.be "}), wantData: requested},
	}, http.MethodPost, "/api/auth/password-reset"))

	msgs := mailSvc.Messages()
	if assert.Len(t, msgs, 1) {
		assert.Equal(t, "alan@test.be", msgs[0].To[0].Address)
		assert.Contains(t, msgs[0].Body, conf.FrontendBaseURL+"/password-reset?")
		uid, token := resetLink(t, msgs[0].Body)
		assert.NotEmpty(t, uid)
		assert.NotEmpty(t, token)
	}
}

func Test_authApi_confirmPasswordReset(t *testing.T) {
	resetDB()

	teacher := testutil.CreateTeacher(t, store.Users, "Alan", "Turing", "alan@test.be")
	student := testutil.CreateStudent(t, store.Users, "Grace", "Hopper", "grace@test.be")

	req, rec := newRequest(http.MethodPost, "/api/auth/password-reset", marchallObj(t, user.PasswordResetRequest{Email: teacher.Email}))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, mailSvc.Messages(), 1)
	uid, token := resetLink(t, mailSvc.Messages()[0].Body)

	newPwd := "enigma-bombe-1940"
	invalidLink := marchallObj(t, map[string]string{"token": "the password reset link is invalid or has expired"})
	tests := []httpTest{
		{
			name: "Required fields", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"uid":             "uid is required",
				"token":           "token is required",
				"password":        "password is required",
				"passwordConfirm": "passwordConfirm is required",
			}),
		},
		{
			name: "Passwords do not match", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{UID: uid, Token: token, Password: newPwd, PasswordConfirm: newPwd + "!"}),
			wantData: marchallObj(t, map[string]string{"passwordConfirm": "passwords do not match"}),
		},
		{
			name: "Malformed uid", wantCode: http.StatusBadRequest, wantData: invalidLink,
			body: marchallObj(t, user.ResetUserPassword{UID: "!!", Token: token, Password: newPwd, PasswordConfirm: newPwd}),
		},
		{
			name: "Token of another user", wantCode: http.StatusBadRequest, wantData: invalidLink,
			body: marchallObj(t, user.ResetUserPassword{UID: user.EncodeUID(student), Token: token, Password: newPwd, PasswordConfirm: newPwd}),
		},
		{
			name: "Tampered token", wantCode: http.StatusBadRequest, wantData: invalidLink,
			body: marchallObj(t, user.ResetUserPassword{UID: uid, Token: token + "x", Password: newPwd, PasswordConfirm: newPwd}),
		},
		{
			name: "Weak password", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{UID: uid, Token: token, Password: "12345678901", PasswordConfirm: "12345678901"}),
			wantData: marchallObj(t, map[string]string{"password": "password cannot be entirely numeric"}),
		},
		{
			name: "Reset", wantData: marchallObj(t, echoapi.SuccessResponse{Success: echoapi.PasswordResetDone}),
			body: marchallObj(t, user.ResetUserPassword{UID: uid, Token: token, Password: newPwd, PasswordConfirm: newPwd}),
		},
		{
			name: "Link already used", wantCode: http.StatusBadRequest, wantData: invalidLink,
			body: marchallObj(t, user.ResetUserPassword{UID: uid, Token: token, Password: newPwd + "2", PasswordConfirm: newPwd + "2"}),
		},
	}
	runTests(t, withRoute(tests, http.MethodPost, "/api/auth/password-reset-confirm"))

	// the new password works, the old one does not
	login := func(pwd string) int {
		req, rec := newRequest(http.MethodPost, "/api/auth/teacher/login", marchallObj(t, user.Credentials{Email: teacher.Email, Password: pwd}))
		app.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, login(newPwd))
	assert.Equal(t, http.StatusUnauthorized, login(testutil.Password))
}
