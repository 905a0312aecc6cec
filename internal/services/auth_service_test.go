package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/estatecrm/backend/internal/models"
)

func testClaims() Claims {
	return Claims{
		EmployeeID: 7,
		Name:       "Sara",
		Number:     "01000000000",
		Role:       models.RoleSales,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestAuthService_VerifyTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(nil, "test-secret")

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, testClaims()).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := svc.VerifyToken(signed)
	require.NoError(t, err)
	require.Equal(t, uint64(7), claims.EmployeeID)
	require.Equal(t, models.RoleSales, claims.Role)
}

func TestAuthService_VerifyTokenRejectsUnsignedAlg(t *testing.T) {
	svc := NewAuthService(nil, "test-secret")

	// A token that claims the "none" algorithm must never pass, even
	// though it would otherwise parse.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, testClaims()).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.VerifyToken(unsigned)
	require.Error(t, err)
}

func TestAuthService_VerifyTokenRejectsWrongSecret(t *testing.T) {
	svc := NewAuthService(nil, "test-secret")

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, testClaims()).
		SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.VerifyToken(signed)
	require.Error(t, err)
}
