package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/prct/registrar/core"
	"github.com/prct/registrar/core/staff"
)

var contextStaffKey = "staff"

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Username     string `json:"username,omitempty"`
	Name         string `json:"name,omitempty"`
}

// jwtAuth owns token generation and the verification middleware config.
type jwtAuth struct {
	conf     *core.Config
	mwConfig middleware.JWTConfig
}

func newJWTAuth(conf *core.Config) *jwtAuth {
	return &jwtAuth{
		conf: conf,
		mwConfig: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    "staffToken",
			Claims:        new(Claims),
		},
	}
}

func (auth *jwtAuth) middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(auth.mwConfig)
}

func (auth *jwtAuth) claims(stf staff.Staff, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    auth.conf.AppName,
			Subject:   stf.ID,
			Audience:  "Registrar",
			ExpiresAt: now.Add(auth.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Username:     stf.Username,
		Name:         stf.Name,
	}
}

// generateToken generates a signed JWT token string representing the staff Claims.
func (auth *jwtAuth) generateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(auth.mwConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(auth.mwConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

// authenticate matches the credentials against the store. Every failure mode
// collapses into the same generic error so callers cannot tell which field
// was wrong.
func (auth *jwtAuth) authenticate(ctx echo.Context, uname, pwd string, svc *staff.Service) (*Claims, error) {
	stf, err := svc.GetByUsername(ctx.Request().Context(), uname)
	if err != nil {
		if errors.Cause(err) == staff.ErrNotFound {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding staff by username")
	}
	if err = stf.CheckPassword(pwd); err != nil {
		return nil, errAuthenticationFailed
	}
	if !stf.IsActive {
		return nil, errAuthenticationFailed
	}
	stf, err = svc.SetLastLogin(ctx.Request().Context(), stf)
	if err != nil {
		return nil, errors.Wrap(err, "setting lastLogin")
	}
	return auth.claims(stf), nil
}

// GetStaffClaims builds the claims a login for stf would issue.
func GetStaffClaims(conf *core.Config, stf staff.Staff) *Claims {
	return newJWTAuth(conf).claims(stf)
}

// GenerateToken signs claims with the configured secret.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	return newJWTAuth(conf).generateToken(claims)
}

func (auth *jwtAuth) getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(auth.mwConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func (auth *jwtAuth) getContextStaff(ctx echo.Context, svc *staff.Service) (staff.Staff, error) {
	if stf, ok := ctx.Get(contextStaffKey).(staff.Staff); ok {
		return stf, nil
	}

	claims, err := auth.getContextClaims(ctx)
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "getting context claims")
	}

	stf, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "finding staff by ID")
	}
	ctx.Set(contextStaffKey, stf)
	return stf, nil
}
