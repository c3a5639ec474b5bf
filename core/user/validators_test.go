package user

import "testing"

func TestCheckPassword(t *testing.T) {
	attrs := []string{"Grace", "Hopper", "grace.hopper@test.be"}
	tests := []struct {
		name string
		pwd  string
		want string
	}{
		{name: "too short", pwd: "Ab3!", want: pwdMinLenTag},
		{name: "whitespace", pwd: "correct horse", want: pwdNoSpaceTag},
		{name: "numeric", pwd: "1234567890", want: pwdNotAllNumTag},
		{name: "similar to name", pwd: "hopper12", want: pwdAttrSimTag},
		{name: "similar to email", pwd: "grace.hopper@test", want: pwdAttrSimTag},
		{name: "ok", pwd: "Kangaroo-Violin-42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkPassword(tt.pwd, attrs...); got != tt.want {
				t.Errorf("checkPassword(%q) = %q, want %q", tt.pwd, got, tt.want)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("Kangaroo-Violin-42", "Grace"); err != nil {
		t.Errorf("ValidatePassword() error = %v, want nil", err)
	}
	err := ValidatePassword("short")
	if err == nil || err.Error() != "password: "+pwdMinLenText {
		t.Errorf("ValidatePassword() error = %v, want %q", err, pwdMinLenText)
	}
}
