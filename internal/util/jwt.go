package util

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims 身份由外部认证服务签发，核心只消费一个不透明的学生标识
type Claims struct {
	StudentID string `json:"student_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateJWT(studentID, role, secret string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)

	claims := &Claims{
		StudentID: studentID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, err
}

func GetStudentFromContext(c *gin.Context) *Claims {
	student, exists := c.Get("student")
	if !exists {
		return nil
	}
	claims, ok := student.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
