package helpers

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignedDetails identifies the tenant a dashboard token belongs to.
type SignedDetails struct {
	Tenant_id    string
	Tenant_label string
	jwt.RegisteredClaims
}

var SECRET_KEY string = os.Getenv("SECRET_KEY")

func GenerateTenantToken(tenantId string, tenantLabel string) (signedToken string, err error) {
	claims := SignedDetails{
		Tenant_id:    tenantId,
		Tenant_label: tenantLabel,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Local().Add(time.Hour * time.Duration(24))),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(SECRET_KEY))
}

func ValidateToken(signedToken string) (claims *SignedDetails, msg string) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&SignedDetails{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(SECRET_KEY), nil
		},
	)
	if err != nil {
		msg = err.Error()
		return
	}
	claims, ok := token.Claims.(*SignedDetails)
	if !ok || !token.Valid {
		msg = fmt.Sprintf("the token is invalid")
		return
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now().Local()) {
		msg = fmt.Sprintf("token is expired")
		return
	}
	return claims, msg
}
