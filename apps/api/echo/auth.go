package echoapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core"
	"github.com/SELab-2/Dwengo-1/core/user"
)

const (
	authScheme = "Bearer"

	// context keys
	ctxStudentKey = "student" // user.Principal
	ctxTeacherKey = "teacher" // user.User
	ctxUserKey    = "user"    // user.User, set by protectAny

	// translation keys
	authNoToken      = "auth.noToken"
	authTokenInvalid = "auth.tokenInvalid"
	authUserNotFound = "auth.userNotFound"
)

var (
	authTexts = map[string]map[string]string{
		"en": {
			authNoToken:      "not authorized, no token",
			authTokenInvalid: "not authorized, token invalid",
			authUserNotFound: "not authorized, user not found",
		},
		"nl": {
			authNoToken:      "niet geautoriseerd, geen token",
			authTokenInvalid: "niet geautoriseerd, ongeldig token",
			authUserNotFound: "niet geautoriseerd, gebruiker niet gevonden",
		},
	}

	errNoPrincipal = errors.New("principal not found in echo.Context")
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// NewClaims returns the claims of a token valid for conf.JWTExpirationDelta.
func NewClaims(conf *core.Config, usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		Email: usr.Email,
		Role:  usr.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    conf.AppName,
			Subject:   strconv.Itoa(usr.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(conf.JWTExpirationDelta)),
		},
	}
}

// GenerateToken generates a signed JWT token string for the user.
func GenerateToken(conf *core.Config, usr user.User) (string, error) {
	return SignToken(conf, NewClaims(conf, usr))
}

func SignToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	return ss, errors.Wrap(err, "signing token")
}

func parseToken(conf *core.Config, tokenString string) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(conf.SecretKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func registerAuthTranslations(uni *ut.UniversalTranslator) {
	for locale, texts := range authTexts {
		trans, found := uni.GetTranslator(locale)
		if !found {
			continue
		}
		for key, text := range texts {
			_ = trans.Add(key, text, true)
		}
	}
}

// requestTranslator picks a translator from the Accept-Language header, English by default.
func (s *server) requestTranslator(ctx echo.Context) ut.Translator {
	header := ctx.Request().Header.Get("Accept-Language")
	if header == "" {
		return s.translator
	}
	locales := make([]string, 0, 4)
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" || tag == "*" {
			continue
		}
		tag = strings.ReplaceAll(tag, "-", "_")
		locales = append(locales, tag)
		if i := strings.Index(tag, "_"); i > 0 {
			locales = append(locales, tag[:i])
		}
	}
	trans, _ := s.deps.Uni.FindTranslator(locales...)
	return trans
}

func (s *server) authError(ctx echo.Context, key string) error {
	msg, err := s.requestTranslator(ctx).T(key)
	if err != nil {
		msg = authTexts["en"][key]
	}
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}

func bearerToken(req *http.Request) (string, bool) {
	auth := req.Header.Get(echo.HeaderAuthorization)
	l := len(authScheme)
	if len(auth) > l+1 && strings.EqualFold(auth[:l], authScheme) && auth[l] == ' ' {
		if token := strings.TrimSpace(auth[l+1:]); token != "" {
			return token, true
		}
	}
	return "", false
}

func (s *server) protectStudent() echo.MiddlewareFunc { return s.protect(user.RoleStudent) }
func (s *server) protectTeacher() echo.MiddlewareFunc { return s.protect(user.RoleTeacher) }
func (s *server) protectAny() echo.MiddlewareFunc     { return s.protect("") }

// protect resolves the principal of the bearer token. The principal is looked up with the given role,
// or with the role claimed by the token when role is empty.
func (s *server) protect(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tokenString, ok := bearerToken(ctx.Request())
			if !ok {
				return s.authError(ctx, authNoToken)
			}
			claims, err := parseToken(s.deps.Conf, tokenString)
			if err != nil {
				return s.authError(ctx, authTokenInvalid)
			}
			id, err := strconv.Atoi(claims.Subject)
			if err != nil || id <= 0 {
				return s.authError(ctx, authTokenInvalid)
			}

			lookupRole := role
			if lookupRole == "" {
				lookupRole = claims.Role
			}

			var usr user.User
			switch lookupRole {
			case user.RoleStudent:
				usr, err = s.deps.UserSvc.GetStudent(ctx.Request().Context(), id)
			case user.RoleTeacher:
				usr, err = s.deps.UserSvc.GetTeacher(ctx.Request().Context(), id)
			default:
				return s.authError(ctx, authTokenInvalid)
			}
			if err != nil {
				if core.IsNotFound(err) {
					return s.authError(ctx, authUserNotFound)
				}
				return errors.Wrap(err, "finding principal")
			}

			switch {
			case role == "":
				ctx.Set(ctxUserKey, usr)
			case usr.IsStudent():
				ctx.Set(ctxStudentKey, usr.Principal())
			default:
				ctx.Set(ctxTeacherKey, usr)
			}
			return next(ctx)
		}
	}
}

func contextStudent(ctx echo.Context) (user.Principal, error) {
	if p, ok := ctx.Get(ctxStudentKey).(user.Principal); ok {
		return p, nil
	}
	return user.Principal{}, errNoPrincipal
}

func contextTeacher(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(ctxTeacherKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errNoPrincipal
}

// contextUser returns whichever principal the auth middlewares stored, for logging.
func contextUser(ctx echo.Context) (interface{}, bool) {
	for _, key := range []string{ctxTeacherKey, ctxUserKey, ctxStudentKey} {
		if v := ctx.Get(key); v != nil {
			return v, true
		}
	}
	return nil, false
}
